package quiz

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify folds name to ASCII, lowercases it, drops anything that is not a
// word character, space or hyphen, and joins the remaining words with "-".
// Names that fold to nothing slug as "category".
func Slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
			b.WriteRune(r)
			sep = false
		case r == '-' || unicode.IsSpace(r):
			if b.Len() > 0 && !sep {
				b.WriteByte('-')
				sep = true
			}
		}
	}
	s := strings.Trim(b.String(), "-_")
	if s == "" {
		return "category"
	}
	return s
}
