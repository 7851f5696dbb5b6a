package matchers

import (
	"strings"
	"unicode"
)

// asciiPunct is the POSIX punct class. It includes symbols such as '$' and
// '+' that unicode.IsPunct does not.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// IsBoundary reports whether a word may end at s[i]: past the end of s,
// whitespace, or punctuation.
func IsBoundary(s []rune, i int) bool {
	if i >= len(s) {
		return true
	}
	return isBoundaryRune(s[i])
}

func isBoundaryRune(r rune) bool {
	return isWhitespace(r) || unicode.IsPunct(r) || (r < 0x80 && strings.ContainsRune(asciiPunct, r))
}

// isWhitespace separates words. Non-breaking spaces join the characters on
// either side into one word, and NEL (U+0085) is a control character.
func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', 0x1C, 0x1D, 0x1E, 0x1F:
		return true
	case 0x00A0, 0x2007, 0x202F:
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}
