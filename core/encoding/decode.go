// Package encoding turns raw ATF bytes into normalized text and escapes text
// for the XML export.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset names the encoding Decode detected.
type Charset string

// Detected charsets.
const (
	UTF8        Charset = "utf-8"
	UTF16       Charset = "utf-16"
	Windows1252 Charset = "windows-1252"
)

// Decode converts ATF input to NFC-normalized UTF-8. A UTF-8 byte order mark
// is dropped, UTF-16 is recognized by its byte order mark, and input that is
// not valid UTF-8 is read as Windows-1252.
func Decode(data []byte) (string, error) {
	s, _, err := DecodeCharset(data)
	return s, err
}

// DecodeCharset is Decode that also reports the detected charset.
func DecodeCharset(data []byte) (string, Charset, error) {
	var dec *encoding.Decoder
	cs := UTF8
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		cs = UTF16
	case utf8.Valid(data):
		dec = unicode.UTF8BOM.NewDecoder()
	default:
		dec = charmap.Windows1252.NewDecoder()
		cs = Windows1252
	}
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", cs, &atferrors.ParseError{
			Format:  "ATF",
			Message: "cannot decode " + string(cs) + " input",
			Err:     err,
		}
	}
	return norm.NFC.String(string(out)), cs, nil
}

// IsNFC reports whether s is already in normalization form C.
func IsNFC(s string) bool {
	return norm.NFC.IsNormalString(s)
}
