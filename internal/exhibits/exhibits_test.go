package exhibits_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/exhibits"
	"github.com/JaimeStill/verum/pkg/digest"
	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/storage"
)

func TestInferKind(t *testing.T) {
	tests := []struct {
		contentType string
		want        evidence.Kind
	}{
		{"image/jpeg", evidence.KindPhoto},
		{"IMAGE/PNG", evidence.KindPhoto},
		{"audio/mpeg", evidence.KindAudio},
		{"video/mp4", evidence.KindVideo},
		{"text/plain; charset=utf-8", evidence.KindText},
		{"application/json", evidence.KindText},
		{"message/rfc822", evidence.KindText},
		{"application/pdf", evidence.KindDocument},
		{"application/octet-stream", evidence.KindDocument},
		{"", evidence.KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := exhibits.InferKind(tt.contentType); got != tt.want {
				t.Errorf("InferKind(%q) = %s, want %s", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", exhibits.ErrNotFound, http.StatusNotFound},
		{"case not found", evidence.ErrCaseNotFound, http.StatusNotFound},
		{"blob missing", fmt.Errorf("download: %w", storage.ErrNotFound), http.StatusNotFound},
		{"blob exists", fmt.Errorf("upload: %w", storage.ErrExists), http.StatusConflict},
		{"duplicate", exhibits.ErrDuplicate, http.StatusConflict},
		{"immutable", exhibits.ErrImmutable, http.StatusConflict},
		{"case sealed", evidence.ErrCaseSealed, http.StatusConflict},
		{"transition", fmt.Errorf("%w: case is SEALED", evidence.ErrInvalidTransition), http.StatusConflict},
		{"too large", exhibits.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid file", fmt.Errorf("%w: empty content", exhibits.ErrInvalidFile), http.StatusBadRequest},
		{"invalid kind", exhibits.ErrInvalidKind, http.StatusBadRequest},
		{"invalid location", exhibits.ErrInvalidLocation, http.StatusBadRequest},
		{"invalid time", exhibits.ErrInvalidTime, http.StatusBadRequest},
		{"invalid id", exhibits.ErrInvalidID, http.StatusBadRequest},
		{"bad request", handlers.ErrBadRequest, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exhibits.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	caseID := uuid.New()
	f := exhibits.FiltersFromQuery(url.Values{
		"case_id":        {caseID.String()},
		"kind":           {"photo,TEXT", "document"},
		"sealed":         {"true"},
		"filename":       {"site"},
		"captured_from":  {"2024-03-01T00:00:00Z"},
		"captured_until": {"yesterday"},
	})

	if f.CaseID == nil || *f.CaseID != caseID {
		t.Errorf("CaseID = %v", f.CaseID)
	}
	if !slices.Equal(f.Kinds, []string{"PHOTO", "TEXT", "DOCUMENT"}) {
		t.Errorf("Kinds = %v", f.Kinds)
	}
	if f.Sealed == nil || !*f.Sealed {
		t.Errorf("Sealed = %v", f.Sealed)
	}
	if f.Filename == nil || *f.Filename != "site" {
		t.Errorf("Filename = %v", f.Filename)
	}
	if f.CapturedFrom == nil || !f.CapturedFrom.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CapturedFrom = %v", f.CapturedFrom)
	}
	if f.CapturedUntil != nil {
		t.Errorf("CapturedUntil = %v, want nil for malformed value", f.CapturedUntil)
	}
}

func TestFiltersFromQueryIgnoresMalformed(t *testing.T) {
	f := exhibits.FiltersFromQuery(url.Values{
		"case_id": {"not-a-uuid"},
		"sealed":  {"maybe"},
	})
	if f.CaseID != nil || f.Sealed != nil {
		t.Errorf("filters = %+v, want malformed values dropped", f)
	}
}

func TestExhibitEvidenceSealsLikeDomainItem(t *testing.T) {
	sealer, err := evidence.NewSealer(digest.SeedKey(digest.DefaultSeed))
	if err != nil {
		t.Fatal(err)
	}

	id := uuid.New()
	captured := time.Date(2024, 3, 1, 9, 30, 0, 123_000_000, time.UTC)
	accuracy := 4.5
	loc := &evidence.Location{Latitude: 51.5, Longitude: -0.12, Accuracy: &accuracy, Provider: "gps"}
	content := []byte("photo bytes")

	item := evidence.New(id.String(), evidence.KindPhoto, content, "image/jpeg", captured, loc, evidence.Metadata{
		Filename:   "site.jpg",
		CreatedAt:  captured,
		DeviceInfo: "Pixel 8",
		AppVersion: "2.1.0",
	})

	x := exhibits.Exhibit{
		ID:            id,
		Kind:          evidence.KindPhoto,
		ContentHash:   item.ContentHash,
		MimeType:      "image/jpeg",
		CapturedAt:    captured.In(time.FixedZone("EST", -5*3600)),
		Location:      loc,
		Filename:      "site.jpg",
		FileSize:      int64(len(content)),
		FileCreatedAt: captured,
		DeviceInfo:    "Pixel 8",
		AppVersion:    "2.1.0",
	}

	if got, want := sealer.ComputeSeal(x.Evidence()), sealer.ComputeSeal(item); got != want {
		t.Fatalf("exhibit seal %s differs from domain seal %s", got, want)
	}

	hash := sealer.ComputeSeal(item)
	x.Sealed, x.SealHash = true, &hash
	if !sealer.Verify(x.Evidence()) {
		t.Error("sealed exhibit does not verify")
	}

	x.DeviceInfo = "tampered"
	if sealer.Verify(x.Evidence()) {
		t.Error("tampered exhibit verifies")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := exhibits.NewMetrics(reg, "verum")

	m.Seals.WithLabelValues("sealed").Inc()
	m.Verifications.WithLabelValues("case", "match").Inc()

	if got := testutil.ToFloat64(m.Seals.WithLabelValues("sealed")); got != 1 {
		t.Errorf("seals = %v, want 1", got)
	}
	if n, err := testutil.GatherAndCount(reg, "verum_evidence_seals_total", "verum_evidence_verifications_total"); err != nil || n != 2 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}

func TestSnapshotInput(t *testing.T) {
	c := evidence.Case{ID: "c1", Status: evidence.StatusSealed}
	in := exhibits.SnapshotInput(c)
	if in.Case.ID != "c1" || in.Statements == nil || len(in.Statements) != 0 || in.Expected == nil {
		t.Errorf("SnapshotInput() = %+v", in)
	}
}
