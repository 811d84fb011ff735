// Package analyses runs the Leveler over case snapshots and keeps a record
// of every run. A run is reproducible: the stored snapshot hash and rules
// version identify exactly what was analyzed.
package analyses

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
)

// Analysis is a persisted Leveler run over one case snapshot.
// Result holds the serialized leveler.Result exactly as produced.
type Analysis struct {
	ID             uuid.UUID       `json:"id"`
	CaseID         uuid.UUID       `json:"case_id"`
	RulesVersion   string          `json:"rules_version"`
	Score          float64         `json:"score"`
	Category       string          `json:"category"`
	Confidence     float64         `json:"confidence"`
	SnapshotHash   string          `json:"snapshot_hash"`
	StatementCount int             `json:"statement_count"`
	EvidenceCount  int             `json:"evidence_count"`
	Result         json.RawMessage `json:"result"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RunCommand carries the analysis input supplied with a run request.
// Statements without an ID are numbered in request order.
type RunCommand struct {
	Statements []evidence.Statement `json:"statements"`
	Expected   []string             `json:"expected_evidence"`
	CreatedBy  string               `json:"-"`
}
