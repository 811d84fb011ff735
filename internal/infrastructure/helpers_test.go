package infrastructure_test

import (
	"time"

	"github.com/JaimeStill/verum/evidence"
)

func sampleEvidence() evidence.Evidence {
	return evidence.New(
		"ev-1",
		evidence.KindDocument,
		[]byte("invoice 42"),
		"application/pdf",
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		nil,
		evidence.Metadata{Filename: "invoice.pdf", FileSize: 10},
	)
}
