package document

import (
	"bufio"
	"bytes"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DeterminEncoding sniffs the first KB of r. Conference exports are a mix of
// utf-8 and windows-1252.
func DeterminEncoding(r *bufio.Reader) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && len(bytes) == 0 {
		zap.L().Error("peek encoding failed", zap.Error(err))

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, "")

	return e
}

var utf8BOM = []byte("\xef\xbb\xbf")

// Decode converts body to utf-8 using the charset declared or sniffed for
// contentType. A guessed charset never overrides a body that is already
// valid utf-8.
func Decode(body []byte, contentType string) ([]byte, error) {
	e, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return bytes.TrimPrefix(body, utf8BOM), nil
	}

	return e.NewDecoder().Bytes(body)
}
