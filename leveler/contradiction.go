package leveler

import (
	"maps"
	"slices"
	"strings"

	"github.com/JaimeStill/verum/evidence"
)

// DetectContradictions compares every pair of statements made by the same
// speaker against the opposing pattern pairs of rules (B2). The first
// matching pair wins, so a statement pair yields at most one contradiction.
// A pair matches in either order when one statement contains the first
// pattern and the other contains the second without also containing the first.
func DetectContradictions(statements []evidence.Statement, rules *Rules) []Contradiction {
	found := []Contradiction{}

	groups := bySpeaker(statements)
	for _, speaker := range slices.Sorted(maps.Keys(groups)) {
		group := groups[speaker]
		texts := make([]string, len(group))
		for i, s := range group {
			texts[i] = fold(s.Content)
		}

		for i := range group {
			for j := i + 1; j < len(group); j++ {
				pair, ok := opposing(texts[i], texts[j], rules.Contradictions)
				if !ok {
					continue
				}
				found = append(found, Contradiction{
					Type:       ContradictionDirectOpposite,
					Speaker:    speaker,
					StatementA: group[i],
					StatementB: group[j],
					Severity:   SeverityHigh,
					Rule:       pair.Label(),
				})
			}
		}
	}
	return found
}

func opposing(a, b string, pairs []PatternPair) (PatternPair, bool) {
	for _, p := range pairs {
		if p.First == "" || p.Second == "" {
			continue
		}
		if asserts(a, b, p) || asserts(b, a, p) {
			return p, true
		}
	}
	return PatternPair{}, false
}

func asserts(x, y string, p PatternPair) bool {
	return strings.Contains(x, p.First) &&
		strings.Contains(y, p.Second) &&
		!strings.Contains(y, p.First)
}

// bySpeaker groups statements by trimmed speaker name, preserving input order.
func bySpeaker(statements []evidence.Statement) map[string][]evidence.Statement {
	groups := make(map[string][]evidence.Statement)
	for _, s := range statements {
		speaker := strings.TrimSpace(s.Speaker)
		groups[speaker] = append(groups[speaker], s)
	}
	return groups
}
