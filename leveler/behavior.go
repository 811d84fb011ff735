package leveler

import "github.com/JaimeStill/verum/evidence"

// MaxExamples bounds the excerpts kept per behavioral pattern.
const MaxExamples = 3

// AnalyzeBehavior scores each behavioral keyword family by its keyword
// matches across all statements divided by the statement count, clamped
// to 1 (B5). Families with no match are omitted.
func AnalyzeBehavior(statements []evidence.Statement, rules *Rules) []BehavioralPattern {
	patterns := []BehavioralPattern{}
	if len(statements) == 0 {
		return patterns
	}

	texts := make([]string, len(statements))
	for i, s := range statements {
		texts[i] = fold(s.Content)
	}

	for _, family := range rules.Behavioral {
		hits := 0
		examples := []string{}
		for i, text := range texts {
			n := len(matches(text, family.Keywords))
			if n == 0 {
				continue
			}
			hits += n
			if len(examples) < MaxExamples {
				examples = append(examples, excerpt(statements[i].Content))
			}
		}
		if hits == 0 {
			continue
		}

		patterns = append(patterns, BehavioralPattern{
			Type:      family.Type,
			Score:     round2(clamp(float64(hits)/float64(len(statements)), 0, 1)),
			Examples:  examples,
			Frequency: hits,
		})
	}
	return patterns
}
