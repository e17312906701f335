package moelist

// Package file text.go contains the decoding of archive comments.

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Text returns the archive comment as UTF-8 text.
//
// Archive comments have no declared character set. Valid UTF-8 is returned
// as is, otherwise the comment is assumed to be GB18030, the legacy codepage
// of the Simplified Chinese editions of Windows. The trailing NUL padding
// that some archivers write is removed.
func Text(raw string) string {
	s := strings.TrimRight(raw, "\x00")
	if utf8.ValidString(s) {
		return s
	}
	out, err := simplifiedchinese.GB18030.NewDecoder().String(s)
	if err != nil {
		return strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return out
}
