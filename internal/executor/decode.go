package executor

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// trimPartialRune drops an incomplete UTF-8 sequence left at the end of b
// by truncation.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			return b
		}
	}
	return b
}

// decode returns b as a string. Output that is not valid UTF-8 is assumed to
// be in the Windows ANSI code page, which is what the tools emit when the
// console is not set to UTF-8.
func decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(out)
}
