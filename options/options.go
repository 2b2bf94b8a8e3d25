// Copyright © 2024 The ELPS authors

// Package options holds the resolved linting options and the machinery to
// change them from configuration files and directive comments.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/jshint/jshint-sub001/report"
)

// UnusedMode controls which unused bindings are reported.
type UnusedMode int

const (
	UnusedOff       UnusedMode = iota
	UnusedVars                 // variables only
	UnusedLastParam            // variables and parameters after the last used one
	UnusedStrict               // variables and all parameters
)

func (m UnusedMode) String() string {
	switch m {
	case UnusedOff:
		return "false"
	case UnusedVars:
		return "vars"
	case UnusedLastParam:
		return "last-param"
	case UnusedStrict:
		return "strict"
	}
	return fmt.Sprintf("UnusedMode(%d)", int(m))
}

// LatedefMode controls "used before defined" reporting.
type LatedefMode int

const (
	LatedefOff LatedefMode = iota
	LatedefOn
	LatedefNoFunc // function declarations may be used before they appear
)

// ShadowMode controls redeclaration and shadowing reports.
type ShadowMode int

const (
	ShadowInner    ShadowMode = iota // same scope redeclarations only
	ShadowOuter                      // also names declared in enclosing scopes
	ShadowTolerate                   // no reports
)

// StrictMode controls the requirement for "use strict" directives.
type StrictMode int

const (
	StrictOff     StrictMode = iota
	StrictFunc               // function level directives are required
	StrictGlobal             // a global directive is allowed
	StrictImplied            // code is linted as if it were strict
)

var (
	// ErrUnknownOption is wrapped by OptionError for unrecognized names.
	ErrUnknownOption = errors.New("unknown option")
	// ErrBadValue is wrapped by OptionError for values of the wrong form.
	ErrBadValue = errors.New("bad option value")
)

// OptionError describes an option which could not be set.
type OptionError struct {
	Name  string
	Value interface{}
	Err   error
}

func (err *OptionError) Error() string {
	return fmt.Sprintf("option %s: %v", err.Name, err.Err)
}

func (err *OptionError) Unwrap() error {
	return err.Err
}

// Options is the resolved set of linting options.  Values are replaced by
// copy-on-write through a Stack while a file is linted.
type Options struct {
	// Enforcing options
	Bitwise       bool
	Curly         bool
	Eqeqeq        bool
	Forin         bool
	Freeze        bool
	Noarg         bool
	Nocomma       bool
	Noempty       bool
	Nonbsp        bool
	Nonew         bool
	Plusplus      bool
	SingleGroups  bool
	Trailing      bool
	Undef         bool
	Varstmt       bool
	Latedef       LatedefMode
	Unused        UnusedMode
	Shadow        ShadowMode
	Strict        StrictMode
	MaxErr        int
	MaxParams     int
	MaxDepth      int
	MaxStatements int
	MaxComplexity int
	MaxLen        int

	// Relaxing options
	Asi          bool
	Boss         bool
	Debug        bool
	Elision      bool
	Eqnull       bool
	Evil         bool
	Expr         bool
	Funcscope    bool
	Globalstrict bool
	Iterator     bool
	Lastsemic    bool
	Laxbreak     bool
	Laxcomma     bool
	Loopfunc     bool
	Moz          bool
	Multistr     bool
	Notypeof     bool
	Noyield      bool
	Proto        bool
	Scripturl    bool
	Sub          bool
	Supernew     bool
	Validthis    bool
	Withstmt     bool

	// Environments
	Browser   bool
	Node      bool
	Devel     bool
	Module    bool
	ESVersion int

	// Globals lists predefined names; true marks a writable global.
	Globals map[string]bool
	// Ignored holds diagnostic codes silenced with -Wnnn.
	Ignored map[report.Code]bool
}

// DefaultMaxErr is the number of diagnostics after which linting stops.
const DefaultMaxErr = 50

// Default returns the options used when nothing is configured.
func Default() *Options {
	return &Options{
		MaxErr:    DefaultMaxErr,
		ESVersion: 5,
		Globals:   make(map[string]bool),
		Ignored:   make(map[report.Code]bool),
	}
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	c := *o
	c.Globals = make(map[string]bool, len(o.Globals))
	for k, v := range o.Globals {
		c.Globals[k] = v
	}
	c.Ignored = make(map[report.Code]bool, len(o.Ignored))
	for k, v := range o.Ignored {
		c.Ignored[k] = v
	}
	return &c
}

// InES6 reports whether ECMAScript 2015 syntax is enabled.
func (o *Options) InES6() bool {
	return o.ESVersion >= 6 || o.Moz
}

// IsIgnored reports whether diagnostics with code are silenced.
func (o *Options) IsIgnored(code report.Code) bool {
	return o.Ignored[code]
}

var boolOptions = map[string]func(*Options) *bool{
	"bitwise":      func(o *Options) *bool { return &o.Bitwise },
	"curly":        func(o *Options) *bool { return &o.Curly },
	"eqeqeq":       func(o *Options) *bool { return &o.Eqeqeq },
	"forin":        func(o *Options) *bool { return &o.Forin },
	"freeze":       func(o *Options) *bool { return &o.Freeze },
	"noarg":        func(o *Options) *bool { return &o.Noarg },
	"nocomma":      func(o *Options) *bool { return &o.Nocomma },
	"noempty":      func(o *Options) *bool { return &o.Noempty },
	"nonbsp":       func(o *Options) *bool { return &o.Nonbsp },
	"nonew":        func(o *Options) *bool { return &o.Nonew },
	"plusplus":     func(o *Options) *bool { return &o.Plusplus },
	"singleGroups": func(o *Options) *bool { return &o.SingleGroups },
	"trailing":     func(o *Options) *bool { return &o.Trailing },
	"undef":        func(o *Options) *bool { return &o.Undef },
	"varstmt":      func(o *Options) *bool { return &o.Varstmt },
	"asi":          func(o *Options) *bool { return &o.Asi },
	"boss":         func(o *Options) *bool { return &o.Boss },
	"debug":        func(o *Options) *bool { return &o.Debug },
	"elision":      func(o *Options) *bool { return &o.Elision },
	"eqnull":       func(o *Options) *bool { return &o.Eqnull },
	"evil":         func(o *Options) *bool { return &o.Evil },
	"expr":         func(o *Options) *bool { return &o.Expr },
	"funcscope":    func(o *Options) *bool { return &o.Funcscope },
	"globalstrict": func(o *Options) *bool { return &o.Globalstrict },
	"iterator":     func(o *Options) *bool { return &o.Iterator },
	"lastsemic":    func(o *Options) *bool { return &o.Lastsemic },
	"laxbreak":     func(o *Options) *bool { return &o.Laxbreak },
	"laxcomma":     func(o *Options) *bool { return &o.Laxcomma },
	"loopfunc":     func(o *Options) *bool { return &o.Loopfunc },
	"moz":          func(o *Options) *bool { return &o.Moz },
	"multistr":     func(o *Options) *bool { return &o.Multistr },
	"notypeof":     func(o *Options) *bool { return &o.Notypeof },
	"noyield":      func(o *Options) *bool { return &o.Noyield },
	"proto":        func(o *Options) *bool { return &o.Proto },
	"scripturl":    func(o *Options) *bool { return &o.Scripturl },
	"sub":          func(o *Options) *bool { return &o.Sub },
	"supernew":     func(o *Options) *bool { return &o.Supernew },
	"validthis":    func(o *Options) *bool { return &o.Validthis },
	"withstmt":     func(o *Options) *bool { return &o.Withstmt },
	"browser":      func(o *Options) *bool { return &o.Browser },
	"node":         func(o *Options) *bool { return &o.Node },
	"devel":        func(o *Options) *bool { return &o.Devel },
	"module":       func(o *Options) *bool { return &o.Module },
}

var intOptions = map[string]func(*Options) *int{
	"maxerr":        func(o *Options) *int { return &o.MaxErr },
	"maxparams":     func(o *Options) *int { return &o.MaxParams },
	"maxdepth":      func(o *Options) *int { return &o.MaxDepth },
	"maxstatements": func(o *Options) *int { return &o.MaxStatements },
	"maxcomplexity": func(o *Options) *int { return &o.MaxComplexity },
	"maxlen":        func(o *Options) *int { return &o.MaxLen },
}

// Names returns every option name accepted by Set.
func Names() []string {
	names := []string{"esversion", "es3", "es5", "esnext", "latedef", "shadow", "strict", "unused", "globals", "predef"}
	for name := range boolOptions {
		names = append(names, name)
	}
	for name := range intOptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set assigns the option name.  Values may be booleans, numbers or strings
// as found in configuration files and directive comments.
func (o *Options) Set(name string, value interface{}) error {
	badValue := &OptionError{Name: name, Value: value, Err: ErrBadValue}
	if ptr, ok := boolOptions[name]; ok {
		b, err := cast.ToBoolE(value)
		if err != nil {
			return badValue
		}
		*ptr(o) = b
		return nil
	}
	if ptr, ok := intOptions[name]; ok {
		if b, err := cast.ToBoolE(value); err == nil && !b && isFalse(value) {
			*ptr(o) = 0
			return nil
		}
		n, err := cast.ToIntE(value)
		if err != nil || n < 0 {
			return badValue
		}
		*ptr(o) = n
		return nil
	}
	s := strings.TrimSpace(cast.ToString(value))
	switch name {
	case "esversion":
		n, err := cast.ToIntE(s)
		if err != nil {
			return badValue
		}
		if n >= 2015 {
			n -= 2009
		}
		if n != 3 && n != 5 && (n < 6 || n > 15) {
			return badValue
		}
		o.ESVersion = n
	case "es3", "es5", "esnext":
		b, err := cast.ToBoolE(s)
		if err != nil {
			return badValue
		}
		if b {
			o.ESVersion = map[string]int{"es3": 3, "es5": 5, "esnext": 6}[name]
		}
	case "unused":
		switch s {
		case "true", "last-param":
			o.Unused = UnusedLastParam
		case "false":
			o.Unused = UnusedOff
		case "vars":
			o.Unused = UnusedVars
		case "strict":
			o.Unused = UnusedStrict
		default:
			return badValue
		}
	case "latedef":
		switch s {
		case "true":
			o.Latedef = LatedefOn
		case "false":
			o.Latedef = LatedefOff
		case "nofunc":
			o.Latedef = LatedefNoFunc
		default:
			return badValue
		}
	case "shadow":
		switch s {
		case "true":
			o.Shadow = ShadowTolerate
		case "false", "inner":
			o.Shadow = ShadowInner
		case "outer":
			o.Shadow = ShadowOuter
		default:
			return badValue
		}
	case "strict":
		switch s {
		case "true", "func":
			o.Strict = StrictFunc
		case "false":
			o.Strict = StrictOff
		case "global":
			o.Strict = StrictGlobal
		case "implied":
			o.Strict = StrictImplied
		default:
			return badValue
		}
	case "globals", "predef":
		return o.setGlobals(value)
	default:
		return &OptionError{Name: name, Value: value, Err: ErrUnknownOption}
	}
	return nil
}

func isFalse(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return strings.TrimSpace(v) == "false"
	}
	return false
}

// setGlobals accepts either a map of names to writability or a list of
// names.
func (o *Options) setGlobals(value interface{}) error {
	if m, err := cast.ToStringMapE(value); err == nil {
		for name, v := range m {
			writable, err := cast.ToBoolE(v)
			if err != nil {
				return &OptionError{Name: "globals", Value: value, Err: ErrBadValue}
			}
			o.Globals[name] = writable
		}
		return nil
	}
	names, err := cast.ToStringSliceE(value)
	if err != nil {
		return &OptionError{Name: "globals", Value: value, Err: ErrBadValue}
	}
	for _, name := range names {
		o.Globals[name] = false
	}
	return nil
}

// SetAll applies every entry of m, returning the first error.  Keys are
// applied in sorted order.
func (o *Options) SetAll(m map[string]interface{}) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.Set(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// Ignore silences diagnostics with the given code, or re-enables them when
// enable is true.
func (o *Options) Ignore(code report.Code, enable bool) {
	if enable {
		delete(o.Ignored, code)
		return
	}
	o.Ignored[code] = true
}

// ParseCodeToggle recognizes "-W117" and "+W117" directive entries.
func ParseCodeToggle(s string) (report.Code, bool, bool) {
	if len(s) != 5 || (s[0] != '-' && s[0] != '+') {
		return "", false, false
	}
	switch s[1] {
	case 'E', 'W', 'I':
	default:
		return "", false, false
	}
	if _, err := strconv.Atoi(s[2:]); err != nil {
		return "", false, false
	}
	return report.Code(s[1:]), s[0] == '+', true
}
