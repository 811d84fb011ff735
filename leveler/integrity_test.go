package leveler_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/verum/leveler"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		score float64
		want  leveler.Category
	}{
		{100, leveler.CategoryExcellent},
		{90, leveler.CategoryExcellent},
		{89.99, leveler.CategoryGood},
		{89, leveler.CategoryGood},
		{70, leveler.CategoryGood},
		{69.99, leveler.CategoryFair},
		{50, leveler.CategoryFair},
		{49, leveler.CategoryPoor},
		{25, leveler.CategoryPoor},
		{24.99, leveler.CategoryCompromised},
		{0, leveler.CategoryCompromised},
	}

	for _, tt := range tests {
		if got := leveler.Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestComputeIntegrity(t *testing.T) {
	contradiction := leveler.Contradiction{Type: leveler.ContradictionDirectOpposite, Severity: leveler.SeverityHigh}
	edit := leveler.TimelineAnomaly{Type: leveler.AnomalyEditAfterFact, Suspicion: 0.85}
	pattern := leveler.BehavioralPattern{Type: "EVASION", Score: 1}
	critical := leveler.EvidenceGap{ExpectedType: "contract", Criticality: leveler.SeverityCritical}
	low := leveler.EvidenceGap{ExpectedType: "note", Criticality: leveler.SeverityLow}

	tests := []struct {
		name           string
		contradictions []leveler.Contradiction
		anomalies      []leveler.TimelineAnomaly
		behavioral     []leveler.BehavioralPattern
		gaps           []leveler.EvidenceGap
		score          float64
		category       leveler.Category
		breakdown      leveler.PenaltyBreakdown
	}{
		{
			name:     "clean",
			score:    100,
			category: leveler.CategoryExcellent,
		},
		{
			name:           "boundary excellent",
			contradictions: []leveler.Contradiction{contradiction},
			score:          90,
			category:       leveler.CategoryExcellent,
			breakdown:      leveler.PenaltyBreakdown{Contradictions: 10},
		},
		{
			name:           "boundary good",
			contradictions: []leveler.Contradiction{contradiction},
			gaps:           []leveler.EvidenceGap{low},
			score:          89,
			category:       leveler.CategoryGood,
			breakdown:      leveler.PenaltyBreakdown{Contradictions: 10, EvidenceGaps: 1},
		},
		{
			name:      "single anomaly",
			anomalies: []leveler.TimelineAnomaly{edit},
			score:     91.5,
			category:  leveler.CategoryExcellent,
			breakdown: leveler.PenaltyBreakdown{Timeline: 8.5},
		},
		{
			name:           "every cap reached",
			contradictions: []leveler.Contradiction{contradiction, contradiction, contradiction, contradiction, contradiction},
			anomalies:      []leveler.TimelineAnomaly{edit, edit, edit, edit},
			behavioral:     []leveler.BehavioralPattern{pattern, pattern, pattern},
			gaps:           []leveler.EvidenceGap{critical, critical, critical, critical},
			score:          10,
			category:       leveler.CategoryCompromised,
			breakdown: leveler.PenaltyBreakdown{
				Contradictions: leveler.ContradictionCap,
				Timeline:       leveler.AnomalyCap,
				Behavioral:     leveler.BehavioralCap,
				EvidenceGaps:   leveler.EvidenceGapCap,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leveler.ComputeIntegrity(tt.contradictions, tt.anomalies, tt.behavioral, tt.gaps)
			if got.Score != tt.score {
				t.Errorf("score = %v, want %v", got.Score, tt.score)
			}
			if got.Category != tt.category {
				t.Errorf("category = %s, want %s", got.Category, tt.category)
			}
			if got.Breakdown != tt.breakdown {
				t.Errorf("breakdown = %+v, want %+v", got.Breakdown, tt.breakdown)
			}
			if got.Score < 0 || got.Score > 100 {
				t.Errorf("score %v out of bounds", got.Score)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		evidence, contradictions int
		want                     float64
	}{
		{0, 0, 0.3},
		{1, 0, 0.3},
		{2, 0, 0.5},
		{5, 0, 0.7},
		{10, 0, 0.9},
		{10, 1, 0.8},
		{10, 5, 0.6},
		{1, 5, 0},
	}

	for _, tt := range tests {
		if got := leveler.Confidence(tt.evidence, tt.contradictions); got != tt.want {
			t.Errorf("Confidence(%d, %d) = %v, want %v", tt.evidence, tt.contradictions, got, tt.want)
		}
	}
}

func TestRecommendations(t *testing.T) {
	t.Run("nothing triggers", func(t *testing.T) {
		recs := leveler.Recommendations(leveler.Result{
			EvidenceGaps: []leveler.EvidenceGap{{ExpectedType: "photos", Criticality: leveler.SeverityMedium}},
			Anomalies:    []leveler.TimelineAnomaly{{Type: leveler.AnomalySuspiciousGap, Suspicion: 0.65}},
			Behavioral:   []leveler.BehavioralPattern{{Type: "EVASION", Score: 0.25}},
			Compliance:   []leveler.JurisdictionalCompliance{{Jurisdiction: "UK", Compliant: true}},
		})
		if len(recs) != 1 || recs[0] != leveler.NoCriticalIssues {
			t.Errorf("recommendations = %v", recs)
		}
	})

	t.Run("source order", func(t *testing.T) {
		recs := leveler.Recommendations(leveler.Result{
			Contradictions: []leveler.Contradiction{{Speaker: "Alice", Rule: "denied / admitted"}},
			EvidenceGaps: []leveler.EvidenceGap{
				{ExpectedType: "contract", Criticality: leveler.SeverityCritical},
				{ExpectedType: "photos", Criticality: leveler.SeverityMedium},
			},
			Anomalies:     []leveler.TimelineAnomaly{{Type: leveler.AnomalyEditAfterFact, Suspicion: 0.85, EvidenceIDs: []string{"e1"}}},
			Behavioral:    []leveler.BehavioralPattern{{Type: "CONCEALMENT", Score: 0.5}},
			Communication: []leveler.CommunicationPattern{{Type: leveler.CommunicationToneShift, Speaker: "Bob", Score: 0.7}},
			Compliance:    []leveler.JurisdictionalCompliance{{Jurisdiction: "UAE", Compliant: false}},
		})

		prefixes := []string{
			"Resolve contradiction by Alice",
			"Obtain missing CRITICAL evidence: contract",
			"Investigate EDIT_AFTER_FACT anomaly",
			"Review CONCEALMENT indicators",
			"Review TONE_SHIFT communication by Bob",
			"Remediate 0 UAE compliance violations",
		}
		if len(recs) != len(prefixes) {
			t.Fatalf("recommendations = %d, want %d: %v", len(recs), len(prefixes), recs)
		}
		for i, p := range prefixes {
			if !strings.HasPrefix(recs[i], p) {
				t.Errorf("recs[%d] = %q, want prefix %q", i, recs[i], p)
			}
		}
	})
}
