package docgen

import (
	"fmt"
	"unicode/utf8"
)

// ValidateDocument checks that the body part exists and holds only
// characters XML 1.0 allows. A U+FFFD anywhere means bytes got mangled.
func ValidateDocument(buf []byte) error {
	body, err := ReadEntry(buf, MainPart)
	if err != nil {
		return err
	}
	if !utf8.Valid(body) {
		return fmt.Errorf("%w: invalid UTF-8", ErrCorruptDocument)
	}
	for i, r := range string(body) {
		if r == utf8.RuneError {
			return fmt.Errorf("%w: replacement character at byte %d", ErrCorruptDocument, i)
		}
		if !isXMLChar(r) {
			return fmt.Errorf("%w: control character %U at byte %d", ErrCorruptDocument, r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	default:
		return r <= utf8.MaxRune
	}
}
