package contacts

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// decodeText converts raw VCF bytes to a UTF-8 string. Valid UTF-8 passes
// through untouched; otherwise GB18030 is tried (a superset of GBK and
// GB2312), and Windows-1252 is the final fallback since it accepts any
// byte sequence.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	// The GB18030 decoder substitutes U+FFFD for invalid sequences rather
	// than failing, so a replacement rune in the output means the bytes
	// were not GB encoded after all.
	if decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(raw); err == nil && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode contact file: %w", err)
	}
	return string(decoded), nil
}
