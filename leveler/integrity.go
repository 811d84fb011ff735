package leveler

import (
	"fmt"
	"strings"
)

// Integrity index penalties, caps, and category thresholds.
const (
	IntegrityBaseScore = 100.0

	ContradictionPenalty = 10.0
	ContradictionCap     = 30.0
	AnomalyPenalty       = 10.0
	AnomalyCap           = 25.0
	BehavioralPenalty    = 10.0
	BehavioralCap        = 20.0
	EvidenceGapCap       = 15.0

	ExcellentThreshold = 90.0
	GoodThreshold      = 70.0
	FairThreshold      = 50.0
	PoorThreshold      = 25.0
)

// Confidence and recommendation thresholds.
const (
	ConfidencePerContradiction = 0.1
	ConfidenceReductionCap     = 0.3
	HighSuspicion              = 0.8
	StrongSignal               = 0.5
)

var evidenceGapWeight = map[Severity]float64{
	SeverityCritical: 5,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
}

// NoCriticalIssues is the single recommendation issued when nothing triggers.
const NoCriticalIssues = "No critical issues identified. Maintain chain of custody and proceed with standard review."

// ComputeIntegrity combines the capped penalty of each signal source into
// a score in [0,100] and its category (B9).
func ComputeIntegrity(contradictions []Contradiction, anomalies []TimelineAnomaly, behavioral []BehavioralPattern, gaps []EvidenceGap) IntegrityIndex {
	var suspicion, patternScore, gapWeight float64
	for _, a := range anomalies {
		suspicion += a.Suspicion
	}
	for _, p := range behavioral {
		patternScore += p.Score
	}
	for _, g := range gaps {
		gapWeight += evidenceGapWeight[g.Criticality]
	}

	b := PenaltyBreakdown{
		Contradictions: round2(min(ContradictionPenalty*float64(len(contradictions)), ContradictionCap)),
		Timeline:       round2(min(AnomalyPenalty*suspicion, AnomalyCap)),
		Behavioral:     round2(min(BehavioralPenalty*patternScore, BehavioralCap)),
		EvidenceGaps:   round2(min(gapWeight, EvidenceGapCap)),
	}

	score := IntegrityBaseScore - b.Contradictions - b.Timeline - b.Behavioral - b.EvidenceGaps
	score = round2(clamp(score, 0, 100))

	return IntegrityIndex{
		Score:     score,
		Category:  Categorize(score),
		Breakdown: b,
	}
}

// Categorize maps a score to its integrity category.
func Categorize(score float64) Category {
	switch {
	case score >= ExcellentThreshold:
		return CategoryExcellent
	case score >= GoodThreshold:
		return CategoryGood
	case score >= FairThreshold:
		return CategoryFair
	case score >= PoorThreshold:
		return CategoryPoor
	default:
		return CategoryCompromised
	}
}

// Confidence derives analysis confidence from evidence volume, reduced by
// contradictions.
func Confidence(evidenceCount, contradictions int) float64 {
	var base float64
	switch {
	case evidenceCount >= 10:
		base = 0.9
	case evidenceCount >= 5:
		base = 0.7
	case evidenceCount >= 2:
		base = 0.5
	default:
		base = 0.3
	}
	reduction := min(ConfidencePerContradiction*float64(contradictions), ConfidenceReductionCap)
	return round2(clamp(base-reduction, 0, 1))
}

// Recommendations lists one action per unresolved finding in a fixed
// source order, or NoCriticalIssues when nothing triggers.
func Recommendations(r Result) []string {
	var recs []string

	for _, c := range r.Contradictions {
		recs = append(recs, fmt.Sprintf(
			"Resolve contradiction by %s (%s): %q vs %q",
			speakerName(c.Speaker), c.Rule, excerpt(c.StatementA.Content), excerpt(c.StatementB.Content),
		))
	}

	for _, g := range r.EvidenceGaps {
		if g.Criticality != SeverityCritical && g.Criticality != SeverityHigh {
			continue
		}
		recs = append(recs, fmt.Sprintf("Obtain missing %s evidence: %s (%s)", g.Criticality, g.ExpectedType, g.RecommendedAction))
	}

	for _, a := range r.Anomalies {
		if a.Suspicion < HighSuspicion {
			continue
		}
		recs = append(recs, fmt.Sprintf(
			"Investigate %s anomaly (suspicion %.2f) on %s: %s",
			a.Type, a.Suspicion, strings.Join(a.EvidenceIDs, ", "), a.Description,
		))
	}

	for _, p := range r.Behavioral {
		if p.Score < StrongSignal {
			continue
		}
		recs = append(recs, fmt.Sprintf("Review %s indicators (score %.2f) across %d statements", p.Type, p.Score, p.Frequency))
	}

	for _, p := range r.Communication {
		if p.Score < StrongSignal {
			continue
		}
		recs = append(recs, fmt.Sprintf("Review %s communication by %s (score %.2f)", p.Type, speakerName(p.Speaker), p.Score))
	}

	for _, j := range r.Compliance {
		if j.Compliant {
			continue
		}
		recs = append(recs, fmt.Sprintf("Remediate %d %s compliance violations before filing", len(j.Violations), j.Jurisdiction))
	}

	if len(recs) == 0 {
		return []string{NoCriticalIssues}
	}
	return recs
}

func speakerName(s string) string {
	if s == "" {
		return "unattributed speaker"
	}
	return s
}
