// Copyright © 2024 The ELPS authors

package tdop

import (
	"errors"
	"strings"

	"github.com/jshint/jshint-sub001/analysis"
	"github.com/jshint/jshint-sub001/options"
)

// editionOptions may not change once code has been seen.
var editionOptions = map[string]bool{
	"esversion": true,
	"es3":       true,
	"es5":       true,
	"esnext":    true,
	"module":    true,
}

// envOptions change the predefined global table.
var envOptions = map[string]bool{
	"browser":   true,
	"node":      true,
	"devel":     true,
	"module":    true,
	"moz":       true,
	"esversion": true,
	"es3":       true,
	"es5":       true,
	"esnext":    true,
	"globals":   true,
	"predef":    true,
}

// directive applies a directive comment found between tokens.
func (p *Parser) directive(n *Node) {
	switch n.Tok.Directive {
	case "falls through":
		p.curr.FallsThrough = true
	case "jshint", "jslint":
		p.optionDirective(n)
	case "global", "globals":
		for _, s := range directiveNames(n) {
			if strings.HasPrefix(s.Name, "-") {
				p.res.Blacklist(s.Name[1:])
				continue
			}
			p.res.DeclareGlobal(s.Name, s.Value == "true", n.Line, n.Col)
		}
	case "exported":
		for _, s := range directiveNames(n) {
			p.res.Export(s.Name)
		}
	}
}

// directiveNames splits a name list.  Names without a value may also be
// separated by white space.
func directiveNames(n *Node) []options.Setting {
	var names []options.Setting
	for _, s := range options.SplitDirective(n.Value) {
		if s.HasValue {
			names = append(names, s)
			continue
		}
		for _, name := range strings.Fields(s.Name) {
			names = append(names, options.Setting{Name: name})
		}
	}
	return names
}

func (p *Parser) optionDirective(n *Node) {
	o := p.opts.Mutable()
	predef := false
	for _, s := range options.SplitDirective(n.Value) {
		if code, enable, ok := options.ParseCodeToggle(s.Name); ok {
			o.Ignore(code, enable)
			continue
		}
		if s.Name == "ignore" {
			switch s.Value {
			case "line":
				p.ignoredLines[n.Line] = true
			case "start", "end":
			default:
				p.warn("E002", n)
			}
			continue
		}
		if editionOptions[s.Name] && p.codeSeen {
			p.warn("E055", n, s.Name)
			continue
		}
		if !s.HasValue {
			p.warn("E002", n)
			continue
		}
		err := o.Set(s.Name, s.Value)
		switch {
		case errors.Is(err, options.ErrUnknownOption):
			p.warn("E001", n, "", s.Name)
			continue
		case err != nil:
			p.warn("E002", n)
			continue
		}
		if s.Name == "maxerr" {
			p.sink.SetMax(o.MaxErr)
		}
		if envOptions[s.Name] {
			predef = true
		}
	}
	if predef {
		p.res.Predefine(analysis.Predefined(o))
	}
}
