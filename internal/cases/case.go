// Package cases implements the case registry: creation, lookup, search,
// and forward-only status changes after a case has been sealed.
package cases

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
)

// Case is a persisted case without its evidence.
type Case struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Status        evidence.Status `json:"status"`
	IntegrityHash *string         `json:"integrity_hash,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Domain returns c as an evidence.Case carrying no evidence items.
func (c Case) Domain() evidence.Case {
	dc := evidence.Case{
		ID:        c.ID.String(),
		Name:      c.Name,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.IntegrityHash != nil {
		dc.IntegrityHash = *c.IntegrityHash
	}
	return dc
}

// CreateCommand carries the data needed to open a new case.
type CreateCommand struct {
	Name      string `json:"name"`
	CreatedBy string `json:"-"`
}

// TransitionCommand requests a status change.
type TransitionCommand struct {
	Status string `json:"status"`
}
