package leveler

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const excerptLength = 100

var punctuation = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
)

// fold normalizes s for case-insensitive matching. A Caser is stateful,
// so one is created per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(punctuation.Replace(s)))
}

func foldAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fold(v)
	}
	return out
}

// containsAny reports whether folded text contains any of the folded keywords.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// matches returns the keywords contained in folded text, in keyword order.
func matches(text string, keywords []string) []string {
	var found []string
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			found = append(found, k)
		}
	}
	return found
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= excerptLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:excerptLength])
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
