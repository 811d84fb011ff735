package leveler

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// Communication thresholds.
const (
	DelayFactor         = 2.0
	DelayShareDenom     = 3
	DayStartHour        = 6
	DayEndHour          = 22
	UnusualTimingShare  = 0.3
	ToneShiftScore      = 0.7
	HostilityShareDenom = 4
)

// AnalyzeCommunication runs the response-delay, deleted-message, timing,
// and tone detectors over each speaker's statements (B7). Speakers are
// processed in sorted order and each detector emits only when its signal
// is present.
func AnalyzeCommunication(statements []evidence.Statement, rules *Rules) []CommunicationPattern {
	patterns := []CommunicationPattern{}
	groups := bySpeaker(statements)

	for _, speaker := range slices.Sorted(maps.Keys(groups)) {
		group := slices.Clone(groups[speaker])
		slices.SortStableFunc(group, func(a, b evidence.Statement) int {
			return a.Timestamp.Compare(b.Timestamp)
		})

		texts := make([]string, len(group))
		for i, s := range group {
			texts[i] = fold(s.Content)
		}

		for _, detect := range []func(string, []evidence.Statement, []string, *Rules) (CommunicationPattern, bool){
			responseDelay,
			deletedMessages,
			unusualTiming,
			toneShift,
			highHostility,
		} {
			if p, ok := detect(speaker, group, texts, rules); ok {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

func responseDelay(speaker string, group []evidence.Statement, _ []string, _ *Rules) (CommunicationPattern, bool) {
	if len(group) < 2 {
		return CommunicationPattern{}, false
	}

	deltas := make([]float64, 0, len(group)-1)
	var sum float64
	for i := 1; i < len(group); i++ {
		d := group[i].Timestamp.Sub(group[i-1].Timestamp).Hours()
		deltas = append(deltas, d)
		sum += d
	}
	mean := sum / float64(len(deltas))
	if mean <= 0 {
		return CommunicationPattern{}, false
	}

	flagged := 0
	for _, d := range deltas {
		if d > DelayFactor*mean {
			flagged++
		}
	}
	if flagged*DelayShareDenom <= len(deltas) {
		return CommunicationPattern{}, false
	}

	return CommunicationPattern{
		Type:             CommunicationResponseDelay,
		Speaker:          speaker,
		Frequency:        flagged,
		MeanLatencyHours: round2(mean),
		Indicators: []string{
			fmt.Sprintf("%d of %d responses exceed twice the mean latency", flagged, len(deltas)),
		},
		Score: round2(float64(flagged) / float64(len(deltas))),
	}, true
}

func deletedMessages(speaker string, group []evidence.Statement, texts []string, rules *Rules) (CommunicationPattern, bool) {
	count, indicators := tally(texts, rules.Communication.DeletionPhrases)
	if count == 0 {
		return CommunicationPattern{}, false
	}

	return CommunicationPattern{
		Type:       CommunicationDeletedMessages,
		Speaker:    speaker,
		Frequency:  count,
		Indicators: indicators,
		Score:      round2(float64(count) / float64(len(group))),
	}, true
}

func unusualTiming(speaker string, group []evidence.Statement, _ []string, _ *Rules) (CommunicationPattern, bool) {
	if len(group) == 0 {
		return CommunicationPattern{}, false
	}

	var offHours, weekend, unusual int
	for _, s := range group {
		t := s.Timestamp
		late := t.Hour() < DayStartHour || t.Hour() >= DayEndHour
		rest := t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
		if late {
			offHours++
		}
		if rest {
			weekend++
		}
		if late || rest {
			unusual++
		}
	}

	share := float64(unusual) / float64(len(group))
	if unusual == 0 || share < UnusualTimingShare {
		return CommunicationPattern{}, false
	}

	indicators := []string{}
	if offHours > 0 {
		indicators = append(indicators, fmt.Sprintf("%d sent outside %02d:00-%02d:00", offHours, DayStartHour, DayEndHour))
	}
	if weekend > 0 {
		indicators = append(indicators, fmt.Sprintf("%d sent on weekends", weekend))
	}

	return CommunicationPattern{
		Type:       CommunicationUnusualTiming,
		Speaker:    speaker,
		Frequency:  unusual,
		Indicators: indicators,
		Score:      round2(share),
	}, true
}

func toneShift(speaker string, _ []evidence.Statement, texts []string, rules *Rules) (CommunicationPattern, bool) {
	comm := rules.Communication
	var formal, informal, hostile bool
	count := 0
	for _, text := range texts {
		f := containsAny(text, comm.Formal)
		i := containsAny(text, comm.Informal)
		h := containsAny(text, comm.Hostile)
		formal = formal || f
		informal = informal || i
		hostile = hostile || h
		if f || i || h {
			count++
		}
	}
	if !formal || !informal || !hostile {
		return CommunicationPattern{}, false
	}

	return CommunicationPattern{
		Type:       CommunicationToneShift,
		Speaker:    speaker,
		Frequency:  count,
		Indicators: []string{"formal", "informal", "hostile"},
		Score:      ToneShiftScore,
	}, true
}

func highHostility(speaker string, group []evidence.Statement, texts []string, rules *Rules) (CommunicationPattern, bool) {
	count, indicators := tally(texts, rules.Communication.Hostile)
	if count == 0 || count*HostilityShareDenom <= len(group) {
		return CommunicationPattern{}, false
	}

	return CommunicationPattern{
		Type:       CommunicationHighHostility,
		Speaker:    speaker,
		Frequency:  count,
		Indicators: indicators,
		Score:      round2(float64(count) / float64(len(group))),
	}, true
}

// tally counts the texts containing any keyword and lists the distinct
// keywords found, in first-seen order.
func tally(texts, keywords []string) (int, []string) {
	count := 0
	found := []string{}
	for _, text := range texts {
		hits := matches(text, keywords)
		if len(hits) == 0 {
			continue
		}
		count++
		for _, k := range hits {
			if !slices.Contains(found, k) {
				found = append(found, k)
			}
		}
	}
	return count, found
}
