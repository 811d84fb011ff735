package exhibits

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/query"
	"github.com/JaimeStill/verum/pkg/repository"
	"github.com/JaimeStill/verum/pkg/storage"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Reference: evidence.ErrCaseNotFound,
	Immutable: ErrImmutable,
}

const defaultMimeType = "application/octet-stream"

// Only rows still unsealed are touched, so a seal is written at most once.
const sealSQL = `
	UPDATE evidence SET sealed = TRUE, seal_hash = $2, sealed_at = $3
	WHERE id = $1 AND sealed = FALSE`

type repo struct {
	db         *sql.DB
	storage    storage.System
	sealer     *evidence.Sealer
	metrics    *Metrics
	logger     *slog.Logger
	pagination pagination.Config
	batchLimit int
	now        func() time.Time
}

// New creates an evidence repository implementing the System interface.
// batchLimit bounds concurrent work in batch uploads and case verification.
func New(
	db *sql.DB,
	store storage.System,
	sealer *evidence.Sealer,
	metrics *Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
	batchLimit int,
) System {
	if batchLimit < 1 {
		batchLimit = 1
	}
	return &repo{
		db:         db,
		storage:    store,
		sealer:     sealer,
		metrics:    metrics,
		logger:     logger.With("system", "exhibits"),
		pagination: pagination,
		batchLimit: batchLimit,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (r *repo) Handler(maxUploadSize, maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize, maxBodySize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Exhibit], error) {
	page.Normalize(r.pagination)

	qb := page.Apply(query.NewBuilder(projection, defaultSort...), "Filename", "MimeType", "DeviceInfo")
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count evidence: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanExhibit)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Exhibit, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	x, err := repository.QueryOne(ctx, r.db, q, args, scanExhibit)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &x, nil
}

func (r *repo) Add(ctx context.Context, cmd CreateCommand) (*Exhibit, error) {
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidFile)
	}
	if !cmd.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	captured := cmd.CapturedAt
	if captured.IsZero() {
		captured = r.now()
	}
	fileCreated := cmd.FileCreatedAt
	if fileCreated.IsZero() {
		fileCreated = captured
	}
	mimeType := cmd.ContentType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	id := uuid.New()
	e := evidence.New(id.String(), cmd.Kind, cmd.Data, mimeType, captured, cmd.Location, evidence.Metadata{
		Filename:   cmd.Filename,
		CreatedAt:  fileCreated,
		ModifiedAt: cmd.FileModifiedAt,
		DeviceInfo: cmd.DeviceInfo,
		AppVersion: cmd.AppVersion,
	})

	location, err := locationArg(e.Location)
	if err != nil {
		return nil, fmt.Errorf("encode location: %w", err)
	}

	key := buildStorageKey(cmd.CaseID, id, sanitizeFilename(cmd.Filename))
	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), mimeType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	q := `
		INSERT INTO evidence(id, case_id, kind, content_hash, mime_type, captured_at, location,
			filename, file_size, file_created_at, file_modified_at, device_info, app_version,
			page_count, storage_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + columns

	args := []any{
		id,
		cmd.CaseID,
		e.Kind,
		e.ContentHash,
		e.MimeType,
		e.Timestamp,
		location,
		cmd.Filename,
		e.Metadata.FileSize,
		e.Metadata.CreatedAt,
		e.Metadata.ModifiedAt,
		e.Metadata.DeviceInfo,
		e.Metadata.AppVersion,
		cmd.PageCount,
		key,
		cmd.CreatedBy,
	}

	x, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Exhibit, error) {
		status, err := caseStatus(ctx, tx, cmd.CaseID, "FOR SHARE")
		if err != nil {
			return Exhibit{}, err
		}
		if status != evidence.StatusOpen {
			return Exhibit{}, evidence.ErrCaseSealed
		}
		return repository.QueryOne(ctx, tx, q, args, scanExhibit)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, dbErrors.Map(err)
	}

	sealed, err := r.seal(ctx, x)
	if err != nil {
		return nil, fmt.Errorf("seal evidence %s: %w", x.ID, err)
	}

	r.logger.Info("evidence added",
		"id", sealed.ID,
		"case_id", sealed.CaseID,
		"kind", sealed.Kind,
		"size", sealed.FileSize,
	)
	return sealed, nil
}

func (r *repo) AddBatch(ctx context.Context, cmds []CreateCommand) []BatchResult {
	results := make([]BatchResult, len(cmds))

	var g errgroup.Group
	g.SetLimit(r.batchLimit)

	for i, cmd := range cmds {
		g.Go(func() error {
			results[i].Filename = cmd.Filename
			x, err := r.Add(ctx, cmd)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Exhibit = x
			return nil
		})
	}
	g.Wait()

	return results
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Exhibit, error) {
	x, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := r.storage.Download(ctx, x.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download evidence %s: %w", id, err)
	}
	return rc, x, nil
}

func (r *repo) Verify(ctx context.Context, id uuid.UUID) (*Verification, error) {
	x, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	v, err := r.verify(ctx, *x)
	if err != nil {
		return nil, err
	}
	r.metrics.verified("evidence", v.Verified)

	if !v.Verified {
		r.logger.Warn("evidence verification failed",
			"id", id,
			"content_match", v.ContentMatch,
			"seal_match", v.SealMatch,
		)
	}
	return v, nil
}

func (r *repo) SealCase(ctx context.Context, caseID uuid.UUID) (evidence.Case, error) {
	now := r.now()
	var newlySealed int

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (evidence.Case, error) {
		newlySealed = 0

		c, _, err := loadCase(ctx, tx, caseID, "FOR UPDATE")
		if err != nil {
			return evidence.Case{}, err
		}

		sealed, err := r.sealer.SealCase(c, now)
		if err != nil {
			return evidence.Case{}, fmt.Errorf("%w: case is %s", err, c.Status)
		}

		for i, e := range c.Evidence {
			if e.Sealed {
				continue
			}
			n, err := repository.ExecCount(ctx, tx, sealSQL, e.ID, sealed.Evidence[i].SealHash, now)
			if err != nil {
				return evidence.Case{}, fmt.Errorf("seal evidence %s: %w", e.ID, err)
			}
			newlySealed += int(n)
		}

		update := `
			UPDATE cases SET status = $2, integrity_hash = $3, updated_at = $4
			WHERE id = $1 AND status = 'OPEN'`

		err = repository.ExecExpectOne(ctx, tx, update, caseID, sealed.Status, sealed.IntegrityHash, sealed.UpdatedAt)
		if err != nil {
			return evidence.Case{}, err
		}
		return sealed, nil
	})
	if err != nil {
		return evidence.Case{}, dbErrors.Map(err)
	}

	for range newlySealed {
		r.metrics.sealed("sealed")
	}

	r.logger.Info("case sealed",
		"id", caseID,
		"evidence", len(c.Evidence),
		"newly_sealed", newlySealed,
		"integrity_hash", c.IntegrityHash,
	)
	return c, nil
}

func (r *repo) VerifyCase(ctx context.Context, caseID uuid.UUID) (*CaseVerification, error) {
	c, items, err := r.snapshot(ctx, caseID)
	if err != nil {
		return nil, err
	}

	results := make([]Verification, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.batchLimit)

	for i, x := range items {
		g.Go(func() error {
			v, err := r.verify(gctx, x)
			if err != nil {
				return err
			}
			results[i] = *v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cv := &CaseVerification{
		CaseID:         caseID,
		Status:         c.Status,
		IntegrityHash:  c.IntegrityHash,
		IntegrityMatch: evidence.VerifyCaseIntegrity(c),
		Items:          results,
	}
	cv.Verified = cv.IntegrityMatch
	for _, v := range results {
		cv.Verified = cv.Verified && v.Verified
	}
	r.metrics.verified("case", cv.Verified)

	if !cv.Verified {
		r.logger.Warn("case verification failed", "id", caseID, "integrity_match", cv.IntegrityMatch)
	}
	return cv, nil
}

func (r *repo) Snapshot(ctx context.Context, caseID uuid.UUID) (evidence.Case, error) {
	c, _, err := r.snapshot(ctx, caseID)
	return c, err
}

func (r *repo) snapshot(ctx context.Context, caseID uuid.UUID) (evidence.Case, []Exhibit, error) {
	type read struct {
		c     evidence.Case
		items []Exhibit
	}

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	res, err := repository.WithTxOptions(ctx, r.db, opts, func(tx *sql.Tx) (read, error) {
		c, items, err := loadCase(ctx, tx, caseID, "")
		return read{c: c, items: items}, err
	})
	if err != nil {
		return evidence.Case{}, nil, dbErrors.Map(err)
	}
	return res.c, res.items, nil
}

// seal writes the seal of a freshly inserted item. A concurrent case seal
// may win the conditional update, in which case its seal is returned.
func (r *repo) seal(ctx context.Context, x Exhibit) (*Exhibit, error) {
	if x.Sealed {
		r.metrics.sealed("already_sealed")
		return &x, nil
	}

	e := r.sealer.Seal(x.Evidence())
	n, err := repository.ExecCount(ctx, r.db, sealSQL, x.ID, e.SealHash, r.now())
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	if n == 0 {
		r.metrics.sealed("already_sealed")
		r.logger.Debug("evidence sealed concurrently", "id", x.ID)
	} else {
		r.metrics.sealed("sealed")
	}
	return r.Find(ctx, x.ID)
}

func (r *repo) verify(ctx context.Context, x Exhibit) (*Verification, error) {
	v := &Verification{
		ID:        x.ID,
		SealMatch: r.sealer.Verify(x.Evidence()),
	}

	rc, err := r.storage.Download(ctx, x.StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.logger.Warn("evidence blob missing", "id", x.ID, "key", x.StorageKey)
	case err != nil:
		return nil, fmt.Errorf("download evidence %s: %w", x.ID, err)
	default:
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read evidence %s: %w", x.ID, err)
		}
		v.ContentMatch = evidence.VerifyContentHash(data, x.ContentHash)
	}

	v.Verified = v.ContentMatch && v.SealMatch
	return v, nil
}

func caseStatus(ctx context.Context, q repository.Querier, id uuid.UUID, lock string) (evidence.Status, error) {
	var status evidence.Status
	err := q.QueryRowContext(ctx, "SELECT status FROM cases WHERE id = $1 "+lock, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", evidence.ErrCaseNotFound
	}
	return status, err
}

// loadCase reads a case and its evidence in chronological order.
// lock is appended to the case row select.
func loadCase(ctx context.Context, q repository.Querier, id uuid.UUID, lock string) (evidence.Case, []Exhibit, error) {
	var (
		c         evidence.Case
		caseID    uuid.UUID
		integrity sql.NullString
	)

	err := q.QueryRowContext(ctx, `
		SELECT id, name, status, integrity_hash, created_at, updated_at
		FROM cases WHERE id = $1 `+lock, id).
		Scan(&caseID, &c.Name, &c.Status, &integrity, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, nil, evidence.ErrCaseNotFound
	}
	if err != nil {
		return c, nil, err
	}
	c.ID = caseID.String()
	c.IntegrityHash = integrity.String

	itemsSQL, itemsArgs := query.NewBuilder(projection, defaultSort...).
		WhereEquals("CaseID", id).
		Build()

	items, err := repository.QueryMany(ctx, q, itemsSQL, itemsArgs, scanExhibit)
	if err != nil {
		return c, nil, fmt.Errorf("query case evidence: %w", err)
	}

	c.Evidence = make([]evidence.Evidence, len(items))
	for i, x := range items {
		c.Evidence[i] = x.Evidence()
	}
	return c, items, nil
}

func buildStorageKey(caseID, id uuid.UUID, filename string) string {
	return fmt.Sprintf("cases/%s/%s/%s", caseID, id, filename)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		name = "evidence"
	}
	return url.PathEscape(name)
}
