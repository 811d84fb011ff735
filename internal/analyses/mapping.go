package analyses

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
)

const columns = `id, case_id, rules_version, score, category, confidence, snapshot_hash,
	statement_count, evidence_count, result, created_by, created_at`

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("case_id", "CaseID").
	Project("rules_version", "RulesVersion").
	Project("score", "Score").
	Project("category", "Category").
	Project("confidence", "Confidence").
	Project("snapshot_hash", "SnapshotHash").
	Project("statement_count", "StatementCount").
	Project("evidence_count", "EvidenceCount").
	Project("result", "Result").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt")

// Newest first, ties broken by id so pages never overlap.
var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID"},
}

// Filters contains optional filtering criteria for analysis queries.
// Nil fields are ignored. MinScore and MaxScore bound the integrity score inclusively.
type Filters struct {
	CaseID       *uuid.UUID `json:"case_id,omitempty"`
	Category     *string    `json:"category,omitempty"`
	RulesVersion *string    `json:"rules_version,omitempty"`
	SnapshotHash *string    `json:"snapshot_hash,omitempty"`
	MinScore     *float64   `json:"min_score,omitempty"`
	MaxScore     *float64   `json:"max_score,omitempty"`
	CreatedFrom  *time.Time `json:"created_from,omitempty"`
	CreatedUntil *time.Time `json:"created_until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CaseID", f.CaseID).
		WhereEquals("Category", f.Category).
		WhereEquals("RulesVersion", f.RulesVersion).
		WhereEquals("SnapshotHash", f.SnapshotHash).
		WhereFrom("Score", f.MinScore).
		WhereAtMost("Score", f.MaxScore).
		WhereBetween("CreatedAt", f.CreatedFrom, f.CreatedUntil)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("case_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.CaseID = &id
		}
	}
	if v := values.Get("category"); v != "" {
		f.Category = &v
	}
	if v := values.Get("rules_version"); v != "" {
		f.RulesVersion = &v
	}
	if v := values.Get("snapshot_hash"); v != "" {
		f.SnapshotHash = &v
	}
	f.MinScore = parseFloat(values.Get("min_score"))
	f.MaxScore = parseFloat(values.Get("max_score"))
	f.CreatedFrom = parseTime(values.Get("created_from"))
	f.CreatedUntil = parseTime(values.Get("created_until"))

	return f
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a      Analysis
		result []byte
	)
	err := s.Scan(
		&a.ID,
		&a.CaseID,
		&a.RulesVersion,
		&a.Score,
		&a.Category,
		&a.Confidence,
		&a.SnapshotHash,
		&a.StatementCount,
		&a.EvidenceCount,
		&result,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	a.Result = result
	return a, err
}
