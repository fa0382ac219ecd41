// ABOUTME: Derives a member icon: the first Extended_Pictographic rune of NFC-normalized text.
package pictograph

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// IsExtendedPictographic reports whether r has the Extended_Pictographic property.
func IsExtendedPictographic(r rune) bool {
	return unicode.Is(ExtendedPictographic, r)
}

// FirstIcon normalizes text to NFC and returns the first Extended_Pictographic
// rune as a string, or "" when the text has none. Variation selectors and
// modifiers that follow the rune are not included.
func FirstIcon(text string) string {
	for _, r := range norm.NFC.String(text) {
		if IsExtendedPictographic(r) {
			return string(r)
		}
	}
	return ""
}
