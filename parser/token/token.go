// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a lexical unit of ECMAScript source.  Text holds the raw source
// text of the token while Value holds its cooked form: the name of an
// identifier with escapes decoded, the contents of a string literal, or the
// body of a comment.
type Token struct {
	Type   Type
	Text   string
	Value  string
	Source *Location

	// Quote is the delimiter of a string literal.
	Quote rune
	// Base is the radix of a numeric literal.  Legacy octal literals
	// (e.g. 017) use BaseLegacyOctal.
	Base int
	// RegexpFlags holds the flags following a regular expression body.
	RegexpFlags string
	// Directive is the label of a directive comment ("jshint", "global",
	// "exported", ...).  It is empty for ordinary comments.
	Directive string

	Unclosed    bool // string, template or comment ran into the end of input
	Malformed   bool // the literal contains an invalid construct
	OctalEscape bool // a string literal contains a legacy octal escape
	Escaped     bool // an identifier was written with unicode escapes
	Multiline   bool // a comment or string spans more than one line
}

// BaseLegacyOctal marks numeric literals written with a leading zero.
const BaseLegacyOctal = -8

func (tok *Token) String() string {
	if tok == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used by the lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	PUNCTUATOR
	IDENTIFIER
	NUMBER
	STRING
	REGEXP

	// Template literal parts.  TEMPLATE is a template without substitutions.
	TEMPLATE
	TEMPLATE_HEAD
	TEMPLATE_MIDDLE
	TEMPLATE_TAIL

	COMMENT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:         "invalid",
		ERROR:           "error",
		EOF:             "EOF",
		PUNCTUATOR:      "punctuator",
		IDENTIFIER:      "identifier",
		NUMBER:          "number",
		STRING:          "string",
		REGEXP:          "regexp",
		TEMPLATE:        "template",
		TEMPLATE_HEAD:   "template-head",
		TEMPLATE_MIDDLE: "template-middle",
		TEMPLATE_TAIL:   "template-tail",
		COMMENT:         "comment",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location is a 1-based position in a source file.  EndLine and EndCol
// identify the last character of a token when it is known.
type Location struct {
	File    string
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return loc.File
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LastLine returns the line holding the final character of the token.
func (loc *Location) LastLine() int {
	if loc.EndLine > loc.Line {
		return loc.EndLine
	}
	return loc.Line
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
