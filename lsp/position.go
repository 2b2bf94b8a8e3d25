// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// utf16Len returns the number of UTF-16 code units needed to encode r.
func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// splitLines splits document content the way the lexer numbers lines.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// lineText returns the 1-based line of lines or "".
func lineText(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// utf16Col converts a 1-based rune column on text to a 0-based UTF-16
// offset as used by LSP positions.
func utf16Col(text string, col int) int {
	n := 0
	i := 1
	for _, r := range text {
		if i >= col {
			break
		}
		n += utf16Len(r)
		i++
	}
	if col > i {
		n += col - i
	}
	return n
}

// runeCol converts a 0-based UTF-16 offset on text to a 1-based rune
// column.
func runeCol(text string, character int) int {
	n := 0
	col := 1
	for _, r := range text {
		if n >= character {
			return col
		}
		n += utf16Len(r)
		col++
	}
	return col + (character - n)
}

// toLSPPosition converts a 1-based line and rune column to an LSP position.
func toLSPPosition(lines []string, line, col int) protocol.Position {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	return protocol.Position{
		Line:      safeUint(line - 1),
		Character: safeUint(utf16Col(lineText(lines, line), col)),
	}
}

// wordRange returns the range of the identifier starting at the 1-based
// line and column, or a one character range when there is none.
func wordRange(lines []string, line, col int) protocol.Range {
	start := toLSPPosition(lines, line, col)
	runes := []rune(lineText(lines, line))
	end := col
	for end-1 < len(runes) && end >= 1 && isIdentRune(runes[end-1]) {
		end++
	}
	if end == col {
		end = col + 1
	}
	return protocol.Range{Start: start, End: toLSPPosition(lines, line, end)}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordAt returns the identifier around the 0-based LSP position.
func wordAt(lines []string, pos protocol.Position) string {
	text := lineText(lines, int(pos.Line)+1)
	runes := []rune(text)
	col := runeCol(text, int(pos.Character)) - 1
	if col < 0 || col > len(runes) {
		return ""
	}
	start := col
	for start > 0 && isIdentRune(runes[start-1]) {
		start--
	}
	end := col
	for end < len(runes) && isIdentRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}
