// Copyright © 2024 The ELPS authors

package lexer

import "unicode"

var idStartTables = []*unicode.RangeTable{
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
}

var idContinueTables = []*unicode.RangeTable{
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
	unicode.Mn,
	unicode.Mc,
	unicode.Nd,
	unicode.Pc,
	unicode.Other_ID_Continue,
}

// IsIdentifierStart reports whether c may begin an identifier name.
func IsIdentifierStart(c rune) bool {
	if c < 0x80 {
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '$' || c == '_'
	}
	return isIDStart(c)
}

// IsIdentifierPart reports whether c may continue an identifier name.
func IsIdentifierPart(c rune) bool {
	if c < 0x80 {
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') || c == '$' || c == '_'
	}
	// ZWNJ and ZWJ
	if c == '\u200c' || c == '\u200d' {
		return true
	}
	return isIDContinue(c)
}

func isIDStart(c rune) bool {
	if unicode.Is(unicode.Pattern_Syntax, c) || unicode.Is(unicode.Pattern_White_Space, c) {
		return false
	}
	return unicode.In(c, idStartTables...)
}

func isIDContinue(c rune) bool {
	if unicode.Is(unicode.Pattern_Syntax, c) || unicode.Is(unicode.Pattern_White_Space, c) {
		return false
	}
	return unicode.In(c, idContinueTables...)
}

// IsIdentifierName reports whether name is a syntactically valid identifier
// name.  Reserved words are identifier names.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		if i == 0 && !IsIdentifierStart(c) {
			return false
		}
		if i > 0 && !IsIdentifierPart(c) {
			return false
		}
	}
	return true
}
