package exhibits

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/leveler"
	"github.com/JaimeStill/verum/pkg/pagination"
)

// System defines the public contract for evidence operations.
type System interface {
	Handler(maxUploadSize, maxBodySize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Exhibit], error)

	Find(ctx context.Context, id uuid.UUID) (*Exhibit, error)

	// Add stores and seals a new item in an open case.
	Add(ctx context.Context, cmd CreateCommand) (*Exhibit, error)

	// AddBatch adds every command with bounded concurrency.
	// Results are returned in command order.
	AddBatch(ctx context.Context, cmds []CreateCommand) []BatchResult

	// Content opens the stored blob of an item. The caller closes the reader.
	Content(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Exhibit, error)

	Verify(ctx context.Context, id uuid.UUID) (*Verification, error)

	// SealCase seals any unsealed items of an open case, records its
	// integrity hash, and moves it to SEALED.
	SealCase(ctx context.Context, caseID uuid.UUID) (evidence.Case, error)

	VerifyCase(ctx context.Context, caseID uuid.UUID) (*CaseVerification, error)

	// Snapshot returns a consistent read of a case and its evidence in
	// chronological order. Blob content is not loaded.
	Snapshot(ctx context.Context, caseID uuid.UUID) (evidence.Case, error)
}

// SnapshotInput wraps a case snapshot as an analysis input with no
// statements, the format accepted by offline analysis.
func SnapshotInput(c evidence.Case) leveler.Input {
	return leveler.Input{
		Case:       c,
		Statements: []evidence.Statement{},
		Expected:   []string{},
	}
}
