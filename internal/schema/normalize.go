package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize trims a header, composes it to NFC and applies full Unicode case folding,
// so "  Teléfono", "TELÉFONO" and "teléfono" compare equal.
func Normalize(header string) string {
	s := strings.TrimSpace(header)
	if s == "" {
		return ""
	}
	// Casers are stateful; one per call.
	return cases.Fold().String(norm.NFC.String(s))
}

// NormalizeAll normalizes every header, keeping positions.
func NormalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}
