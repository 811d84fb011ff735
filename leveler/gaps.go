package leveler

import (
	"slices"
	"strings"
)

var gapActions = map[Severity]string{
	SeverityCritical: "Obtain immediately: essential to establishing the facts of the case",
	SeverityHigh:     "Request from the parties or custodians before proceeding",
	SeverityMedium:   "Consider obtaining to strengthen the evidentiary record",
}

// AnalyzeGaps reports every expected evidence label that no chronology event
// description contains (B3). Blank labels are skipped and checklist order is kept.
func AnalyzeGaps(chronology Chronology, expected []string, rules *Rules) []EvidenceGap {
	descriptions := make([]string, len(chronology.Events))
	for i, ev := range chronology.Events {
		descriptions[i] = fold(ev.Description)
	}

	gaps := []EvidenceGap{}
	for _, label := range expected {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		needle := fold(label)
		if slices.ContainsFunc(descriptions, func(d string) bool {
			return strings.Contains(d, needle)
		}) {
			continue
		}

		criticality := gapCriticality(needle, rules)
		gaps = append(gaps, EvidenceGap{
			ExpectedType:      label,
			Criticality:       criticality,
			RecommendedAction: gapActions[criticality],
		})
	}
	return gaps
}

func gapCriticality(label string, rules *Rules) Severity {
	switch {
	case slices.Contains(rules.Gaps.Critical, label):
		return SeverityCritical
	case slices.Contains(rules.Gaps.High, label):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
