package textutil

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// ErrInvalidUTF8 marks an input file that cannot be decoded as UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// DecodeUTF8LF validates that b is UTF-8 text and converts CRLF/CR to LF.
// Invalid UTF-8 is an error: the file is undecodable and must not be patched,
// or the rewrite would persist a mangled buffer. The rewrite patterns are
// \n-anchored, so newline normalization runs once at load time.
func DecodeUTF8LF(b []byte) ([]byte, error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return b, nil
}
