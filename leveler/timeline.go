package leveler

import (
	"fmt"
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// Timeline anomaly thresholds and fixed suspicion scores.
const (
	EditThreshold        = 24 * time.Hour
	EditSuspicion        = 0.85
	SameKindGap          = 48 * time.Hour
	SameKindGapSuspicion = 0.65
)

// DetectAnomalies flags items modified long after creation and long gaps
// between chronological neighbours of the same kind (B4). Anomalies follow
// chronological order.
func DetectAnomalies(items []evidence.Evidence) []TimelineAnomaly {
	sorted := evidence.Chronological(items)
	anomalies := []TimelineAnomaly{}

	for i, e := range sorted {
		if m := e.Metadata.ModifiedAt; m != nil {
			if edit := m.Sub(e.Metadata.CreatedAt); edit > EditThreshold {
				anomalies = append(anomalies, TimelineAnomaly{
					Type:        AnomalyEditAfterFact,
					EvidenceIDs: []string{e.ID},
					Description: fmt.Sprintf("%s modified %.2f hours after creation", e.Label(), edit.Hours()),
					Suspicion:   EditSuspicion,
				})
			}
		}

		if i > 0 && sorted[i-1].Kind == e.Kind {
			prev := sorted[i-1]
			if gap := e.Timestamp.Sub(prev.Timestamp); gap > SameKindGap {
				anomalies = append(anomalies, TimelineAnomaly{
					Type:        AnomalySuspiciousGap,
					EvidenceIDs: []string{prev.ID, e.ID},
					Description: fmt.Sprintf("%.2f hours between consecutive %s items", gap.Hours(), e.Kind),
					Suspicion:   SameKindGapSuspicion,
				})
			}
		}
	}
	return anomalies
}
