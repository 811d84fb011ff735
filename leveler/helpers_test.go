package leveler_test

import (
	"time"

	"github.com/JaimeStill/verum/evidence"
)

// base is a Wednesday at 10:00 UTC.
var base = time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return base.Add(time.Duration(hours * float64(time.Hour)))
}

func stmt(id, speaker, content string, hours float64) evidence.Statement {
	return evidence.Statement{
		ID:        id,
		Speaker:   speaker,
		Content:   content,
		Timestamp: at(hours),
	}
}

// item builds a fully described evidence item; sealed items carry a
// placeholder seal since the Leveler never verifies seals.
func item(id string, kind evidence.Kind, filename string, hours float64, sealed bool) evidence.Evidence {
	e := evidence.Evidence{
		ID:          id,
		Kind:        kind,
		ContentHash: "hash-" + id,
		MimeType:    "application/octet-stream",
		Timestamp:   at(hours),
		Location:    &evidence.Location{Latitude: -33.9249, Longitude: 18.4241, Provider: "gps"},
		Metadata: evidence.Metadata{
			Filename:   filename,
			FileSize:   1024,
			CreatedAt:  at(hours),
			DeviceInfo: "Pixel 8",
			AppVersion: "1.0.0",
		},
	}
	if sealed {
		e.Sealed = true
		e.SealHash = "seal-" + id
	}
	return e
}
