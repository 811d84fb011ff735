package cases_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/cases"
	"github.com/JaimeStill/verum/pkg/handlers"
	"github.com/JaimeStill/verum/pkg/query"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		current evidence.Status
		next    evidence.Status
		want    error
	}{
		{"sealed to reported", evidence.StatusSealed, evidence.StatusReported, nil},
		{"sealed to archived", evidence.StatusSealed, evidence.StatusArchived, nil},
		{"reported to archived", evidence.StatusReported, evidence.StatusArchived, nil},
		{"open requires seal", evidence.StatusOpen, evidence.StatusReported, cases.ErrSealRequired},
		{"seal target requires seal", evidence.StatusOpen, evidence.StatusSealed, cases.ErrSealRequired},
		{"backwards", evidence.StatusArchived, evidence.StatusReported, evidence.ErrInvalidTransition},
		{"same status", evidence.StatusReported, evidence.StatusReported, evidence.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cases.ValidateTransition(tt.current, tt.next)
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidateTransition() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateTransition() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{cases.ErrNotFound, http.StatusNotFound},
		{evidence.ErrCaseNotFound, http.StatusNotFound},
		{cases.ErrDuplicate, http.StatusConflict},
		{cases.ErrSealRequired, http.StatusConflict},
		{evidence.ErrInvalidTransition, http.StatusConflict},
		{cases.ErrInvalidName, http.StatusBadRequest},
		{evidence.ErrInvalidStatus, http.StatusBadRequest},
		{handlers.ErrBadRequest, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := cases.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := cases.FiltersFromQuery(url.Values{
		"status":        {"SEALED"},
		"name":          {"acme"},
		"created_from":  {"2024-01-01T00:00:00Z"},
		"created_until": {"not-a-time"},
	})

	if f.Status == nil || *f.Status != "SEALED" {
		t.Errorf("Status = %v", f.Status)
	}
	if f.Name == nil || *f.Name != "acme" {
		t.Errorf("Name = %v", f.Name)
	}
	if f.CreatedFrom == nil || !f.CreatedFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedFrom = %v", f.CreatedFrom)
	}
	if f.CreatedUntil != nil {
		t.Errorf("CreatedUntil = %v, want nil for malformed input", f.CreatedUntil)
	}
	if f.CreatedBy != nil {
		t.Errorf("CreatedBy = %v, want nil", f.CreatedBy)
	}
}

func TestFiltersApply(t *testing.T) {
	projection := query.NewProjectionMap("public", "cases", "c").
		Project("status", "Status").
		Project("name", "Name").
		Project("created_by", "CreatedBy").
		Project("created_at", "CreatedAt")

	status := "OPEN"
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := cases.Filters{Status: &status, CreatedFrom: &from}

	sql, args := f.Apply(query.NewBuilder(projection)).BuildCount()

	want := "SELECT COUNT(*) FROM public.cases c WHERE c.status = $1 AND c.created_at >= $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestCaseDomain(t *testing.T) {
	hash := "abc"
	c := cases.Case{Name: "Acme", Status: evidence.StatusSealed, IntegrityHash: &hash}

	dc := c.Domain()
	if dc.ID != c.ID.String() || dc.Name != "Acme" || dc.IntegrityHash != "abc" || dc.Status != evidence.StatusSealed {
		t.Errorf("Domain() = %+v", dc)
	}
	if len(dc.Evidence) != 0 {
		t.Error("Domain() should carry no evidence")
	}
}
