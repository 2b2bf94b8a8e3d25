// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when writing to a terminal and NO_COLOR is unset
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode parses the value of a --color flag.  The empty string
// selects ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q: want auto, always or never", s)
}

// style holds the escape sequences for each part of a rendered diagnostic.
// The zero style renders plain text.
type style struct {
	severity [3]string // indexed by Severity
	message  string
	gutter   string
	marker   string
	note     string
	reset    string
}

func (st style) paint(s Severity) string {
	if int(s) < len(st.severity) {
		return st.severity[s]
	}
	return ""
}

var ansiStyle = style{
	severity: [3]string{
		SeverityError:   "\033[1;31m",
		SeverityWarning: "\033[1;33m",
		SeverityNote:    "\033[1;36m",
	},
	message: "\033[1m",
	gutter:  "\033[1;34m",
	marker:  "\033[1;31m",
	note:    "\033[1;36m",
	reset:   "\033[0m",
}

var plainStyle = style{}

// styleFor selects the style for mode when writing to f.  f may be nil
// when the destination is not a file.
func styleFor(mode ColorMode, f *os.File) style {
	switch mode {
	case ColorAlways:
		return ansiStyle
	case ColorNever:
		return plainStyle
	}
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(f) {
		return plainStyle
	}
	return ansiStyle
}

// IsTerminal reports whether f is connected to a terminal, including the
// Cygwin and MSYS pseudo terminals.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
