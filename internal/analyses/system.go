package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/pagination"
)

// Snapshots supplies the case snapshot an analysis runs over.
// A missing case reports evidence.ErrCaseNotFound.
type Snapshots interface {
	Snapshot(ctx context.Context, caseID uuid.UUID) (evidence.Case, error)
}

// System defines the public contract for analysis operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)

	// Run analyzes the current snapshot of a case and records the result.
	Run(ctx context.Context, caseID uuid.UUID, cmd RunCommand) (*Analysis, error)
}
