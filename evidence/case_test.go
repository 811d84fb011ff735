package evidence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/JaimeStill/verum/evidence"
)

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to evidence.Status
		want     bool
	}{
		{evidence.StatusOpen, evidence.StatusSealed, true},
		{evidence.StatusOpen, evidence.StatusArchived, true},
		{evidence.StatusSealed, evidence.StatusReported, true},
		{evidence.StatusReported, evidence.StatusArchived, true},
		{evidence.StatusSealed, evidence.StatusOpen, false},
		{evidence.StatusArchived, evidence.StatusReported, false},
		{evidence.StatusOpen, evidence.StatusOpen, false},
		{evidence.Status("BOGUS"), evidence.StatusSealed, false},
		{evidence.StatusOpen, evidence.Status("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := evidence.ParseStatus(" reported ")
	if err != nil || s != evidence.StatusReported {
		t.Errorf("ParseStatus = %q, %v", s, err)
	}
	if _, err := evidence.ParseStatus("closed"); !errors.Is(err, evidence.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestTransition(t *testing.T) {
	c := evidence.Case{ID: "c1", Status: evidence.StatusSealed}
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	next, err := c.Transition(evidence.StatusReported, now)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if next.Status != evidence.StatusReported || !next.UpdatedAt.Equal(now) {
		t.Errorf("got %+v", next)
	}

	if _, err := next.Transition(evidence.StatusOpen, now); !errors.Is(err, evidence.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestChronological(t *testing.T) {
	items := []evidence.Evidence{
		{ID: "b", Timestamp: base.Add(time.Hour)},
		{ID: "c", Timestamp: base},
		{ID: "a", Timestamp: base},
	}

	sorted := evidence.Chronological(items)
	got := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if items[0].ID != "b" {
		t.Error("Chronological mutated its input")
	}
}
