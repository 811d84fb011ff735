package leveler

import (
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// Chronology thresholds and penalties.
const (
	GapThreshold       = 48 * time.Hour
	GapMediumThreshold = 72 * time.Hour
	GapHighThreshold   = 168 * time.Hour

	SealedConfidence       = 1.0
	UnsealedConfidence     = 0.7
	LowConfidenceThreshold = 0.8
	LowConfidencePenalty   = 2
	ChronologyBaseScore    = 100
)

// gapPenalty is the chronology sub-score penalty per gap severity.
var gapPenalty = map[Severity]int{
	SeverityCritical: 20,
	SeverityHigh:     15,
	SeverityMedium:   10,
	SeverityLow:      5,
}

// BuildChronology orders evidence by timestamp, records gaps longer than
// GapThreshold between adjacent items, and scores the timeline (B1).
func BuildChronology(items []evidence.Evidence) Chronology {
	sorted := evidence.Chronological(items)

	c := Chronology{
		Events: make([]ChronologyEvent, 0, len(sorted)),
		Gaps:   []TimeGap{},
	}

	score := ChronologyBaseScore
	for i, e := range sorted {
		confidence := UnsealedConfidence
		if e.Sealed {
			confidence = SealedConfidence
		}
		if confidence < LowConfidenceThreshold {
			score -= LowConfidencePenalty
		}

		c.Events = append(c.Events, ChronologyEvent{
			EvidenceID:  e.ID,
			Kind:        e.Kind,
			Timestamp:   e.Timestamp,
			Description: e.Label(),
			Confidence:  confidence,
			Sealed:      e.Sealed,
		})

		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		delta := e.Timestamp.Sub(prev.Timestamp)
		if delta <= GapThreshold {
			continue
		}
		severity := gapSeverity(delta)
		score -= gapPenalty[severity]
		c.Gaps = append(c.Gaps, TimeGap{
			FromEvidenceID: prev.ID,
			ToEvidenceID:   e.ID,
			Hours:          round2(delta.Hours()),
			Severity:       severity,
		})
	}

	c.IntegrityScore = max(score, 0)
	return c
}

func gapSeverity(d time.Duration) Severity {
	switch {
	case d <= GapMediumThreshold:
		return SeverityLow
	case d <= GapHighThreshold:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
