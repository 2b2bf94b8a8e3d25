// Copyright © 2024 The ELPS authors

// Package docs embeds the option reference for use by the CLI.
package docs

import (
	_ "embed"
	"strings"
)

//go:embed options.md
var OptionsGuide string

// Option returns the section of OptionsGuide describing the named option.
func Option(name string) (string, bool) {
	heading := "### " + name + "\n"
	i := strings.Index(OptionsGuide, heading)
	if i < 0 {
		return "", false
	}
	section := OptionsGuide[i+len(heading):]
	if end := strings.Index(section, "\n#"); end >= 0 {
		section = section[:end]
	}
	return strings.TrimSpace(section), true
}
