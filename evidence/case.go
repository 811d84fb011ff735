package evidence

import (
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of a case. Transitions only move forward.
type Status string

// Case statuses in lifecycle order.
const (
	StatusOpen     Status = "OPEN"
	StatusSealed   Status = "SEALED"
	StatusReported Status = "REPORTED"
	StatusArchived Status = "ARCHIVED"
)

var statusOrder = []Status{StatusOpen, StatusSealed, StatusReported, StatusArchived}

// Rank returns the position of s in the lifecycle, or -1 for an unknown status.
func (s Status) Rank() int {
	return slices.Index(statusOrder, s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// CanTransition reports whether a case in status s may move to next.
func (s Status) CanTransition(next Status) bool {
	from, to := s.Rank(), next.Rank()
	return from >= 0 && to > from
}

// ParseStatus resolves a case-insensitive status name.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Case groups the evidence collected for a single matter.
// IntegrityHash is empty until the case is sealed.
type Case struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Evidence      []Evidence `json:"evidence"`
	Status        Status     `json:"status"`
	IntegrityHash string     `json:"integrity_hash,omitempty"`
}

// Transition returns a copy of c moved to next.
func (c Case) Transition(next Status, now time.Time) (Case, error) {
	if !c.Status.CanTransition(next) {
		return c, ErrInvalidTransition
	}
	c.Status = next
	c.UpdatedAt = now
	return c, nil
}

// Chronological returns a copy of items ordered by timestamp, ties broken by id.
func Chronological(items []Evidence) []Evidence {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Evidence) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}
