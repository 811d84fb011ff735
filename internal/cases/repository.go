package cases

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a case repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "cases"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Case], error) {
	page.Normalize(r.pagination)

	qb := page.Apply(query.NewBuilder(projection, defaultSort...), "Name", "CreatedBy")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count cases: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCase)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Case, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCase)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Case, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	q := `
		INSERT INTO cases(id, name, status, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, status, integrity_hash, created_by, created_at, updated_at`

	args := []any{uuid.New(), name, evidence.StatusOpen, cmd.CreatedBy}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		return repository.QueryOne(ctx, tx, q, args, scanCase)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("case created", "id", c.ID, "name", c.Name)
	return &c, nil
}

func (r *repo) Transition(ctx context.Context, id uuid.UUID, cmd TransitionCommand) (*Case, error) {
	next, err := evidence.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	selectSQL, selectArgs := query.NewBuilder(projection).BuildSingle("ID", id)
	update := `
		UPDATE cases SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, status, integrity_hash, created_by, created_at, updated_at`

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Case, error) {
		current, err := repository.QueryOne(ctx, tx, selectSQL+" FOR UPDATE", selectArgs, scanCase)
		if err != nil {
			return Case{}, err
		}

		if err := ValidateTransition(current.Status, next); err != nil {
			return Case{}, err
		}

		return repository.QueryOne(ctx, tx, update, []any{id, next, r.now()}, scanCase)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("case status changed", "id", c.ID, "status", c.Status)
	return &c, nil
}

// ValidateTransition reports whether a case in current may be moved to next
// by a plain status change.
func ValidateTransition(current, next evidence.Status) error {
	if current == evidence.StatusOpen || next == evidence.StatusSealed {
		return ErrSealRequired
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("%w: %s to %s", evidence.ErrInvalidTransition, current, next)
	}
	return nil
}
