package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/leveler"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Reference: evidence.ErrCaseNotFound,
}

type repo struct {
	db         *sql.DB
	snapshots  Snapshots
	leveler    *leveler.Leveler
	metrics    *Metrics
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an analysis repository implementing the System interface.
func New(
	db *sql.DB,
	snapshots Snapshots,
	lv *leveler.Leveler,
	metrics *Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		snapshots:  snapshots,
		leveler:    lv,
		metrics:    metrics,
		logger:     logger.With("system", "analyses"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxBodySize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Analysis], error) {
	page.Normalize(r.pagination)

	qb := page.Apply(query.NewBuilder(projection, defaultSort...), "Category", "RulesVersion")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &a, nil
}

func (r *repo) Run(ctx context.Context, caseID uuid.UUID, cmd RunCommand) (*Analysis, error) {
	statements, err := PrepareStatements(cmd.Statements)
	if err != nil {
		return nil, err
	}
	cmd.Statements = statements

	c, err := r.snapshots.Snapshot(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("snapshot case %s: %w", caseID, err)
	}

	start := time.Now()
	pending, err := Evaluate(r.leveler, caseID, c, cmd)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	q := `
		INSERT INTO analyses(id, case_id, rules_version, score, category, confidence, snapshot_hash,
			statement_count, evidence_count, result, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + columns

	args := []any{
		pending.ID,
		pending.CaseID,
		pending.RulesVersion,
		pending.Score,
		pending.Category,
		pending.Confidence,
		pending.SnapshotHash,
		pending.StatementCount,
		pending.EvidenceCount,
		string(pending.Result),
		pending.CreatedBy,
	}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		return repository.QueryOne(ctx, tx, q, args, scanAnalysis)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.metrics.observe(a.Category, elapsed.Seconds(), a.Score)
	r.logger.Info("analysis recorded",
		"id", a.ID,
		"case_id", caseID,
		"score", a.Score,
		"category", a.Category,
		"confidence", a.Confidence,
		"duration", elapsed,
	)
	return &a, nil
}

// Evaluate runs lv over the snapshot c and returns the unsaved analysis record.
// Statements must already be prepared.
func Evaluate(lv *leveler.Leveler, caseID uuid.UUID, c evidence.Case, cmd RunCommand) (Analysis, error) {
	result := lv.Run(leveler.Input{
		Case:       c,
		Statements: cmd.Statements,
		Expected:   cmd.Expected,
	})

	data, err := json.Marshal(result)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshal result: %w", err)
	}

	return Analysis{
		ID:             uuid.New(),
		CaseID:         caseID,
		RulesVersion:   result.RulesVersion,
		Score:          result.Integrity.Score,
		Category:       string(result.Integrity.Category),
		Confidence:     result.Confidence,
		SnapshotHash:   evidence.SnapshotHash(c),
		StatementCount: len(cmd.Statements),
		EvidenceCount:  len(c.Evidence),
		Result:         data,
		CreatedBy:      cmd.CreatedBy,
	}, nil
}

// PrepareStatements validates statements and numbers those without an ID.
// The input slice is not modified.
func PrepareStatements(statements []evidence.Statement) ([]evidence.Statement, error) {
	out := make([]evidence.Statement, len(statements))
	seen := make(map[string]bool, len(statements))

	for i, s := range statements {
		if strings.TrimSpace(s.Content) == "" {
			return nil, fmt.Errorf("%w: statement %d has no content", ErrInvalidStatement, i+1)
		}
		if s.ID == "" {
			s.ID = fmt.Sprintf("S%d", i+1)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidStatement, s.ID)
		}
		seen[s.ID] = true
		out[i] = s
	}
	return out, nil
}
