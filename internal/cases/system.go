package cases

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/pkg/pagination"
)

// System defines the public contract for case domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Case], error)

	Find(ctx context.Context, id uuid.UUID) (*Case, error)
	Create(ctx context.Context, cmd CreateCommand) (*Case, error)
	// Transition moves a sealed case forward. Open cases are sealed through
	// the exhibits seal operation, never by a plain status change.
	Transition(ctx context.Context, id uuid.UUID, cmd TransitionCommand) (*Case, error)
}
