package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips diacritics (NFD + drop combining marks) and trims
// surrounding whitespace. "Grúa Móvil " -> "grua movil".
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// transformers keep state between calls, build one each time
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

// Equal reports whether a and b are the same after folding.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
