//go:build integration

package exhibits_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/cases"
	"github.com/JaimeStill/verum/internal/exhibits"
	"github.com/JaimeStill/verum/internal/schema/pgtest"
	"github.com/JaimeStill/verum/pkg/digest"
	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/storage"
)

type env struct {
	cases    cases.System
	exhibits exhibits.System
	store    *storage.Memory
	sealer   *evidence.Sealer
	exec     func(query string, args ...any) error
}

func setup(t *testing.T) *env {
	t.Helper()

	db := pgtest.Start(t)
	logger := slog.New(slog.DiscardHandler)
	page := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

	sealer, err := evidence.NewSealer(digest.SeedKey(digest.DefaultSeed))
	require.NoError(t, err)

	store := storage.NewMemory(logger)
	metrics := exhibits.NewMetrics(prometheus.NewRegistry(), "verum")

	return &env{
		cases:    cases.New(db, logger, page),
		exhibits: exhibits.New(db, store, sealer, metrics, logger, page, 4),
		store:    store,
		sealer:   sealer,
		exec: func(query string, args ...any) error {
			_, err := db.ExecContext(context.Background(), query, args...)
			return err
		},
	}
}

func (e *env) openCase(t *testing.T, name string) uuid.UUID {
	t.Helper()
	c, err := e.cases.Create(context.Background(), cases.CreateCommand{Name: name})
	require.NoError(t, err)
	return c.ID
}

func textCommand(caseID uuid.UUID, name, body string, captured time.Time) exhibits.CreateCommand {
	return exhibits.CreateCommand{
		CaseID:      caseID,
		Data:        []byte(body),
		Filename:    name,
		ContentType: "text/plain",
		Kind:        evidence.KindText,
		CapturedAt:  captured,
		DeviceInfo:  "Pixel 8",
	}
}

func TestIntegrationEvidenceLifecycle(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	caseID := e.openCase(t, "Acme v. Doe")

	t.Run("add seals on intake", func(t *testing.T) {
		accuracy := 3.0
		cmd := textCommand(caseID, "chat.txt", "see you at noon", base)
		cmd.Location = &evidence.Location{Latitude: 25.2, Longitude: 55.27, Accuracy: &accuracy, Provider: "gps"}

		x, err := e.exhibits.Add(ctx, cmd)
		require.NoError(t, err)

		assert.True(t, x.Sealed)
		require.NotNil(t, x.SealHash)
		require.NotNil(t, x.SealedAt)
		assert.Equal(t, digest.Sum([]byte("see you at noon")), x.ContentHash)
		assert.True(t, e.sealer.Verify(x.Evidence()))
		require.NotNil(t, x.Location)
		assert.Equal(t, 3.0, *x.Location.Accuracy)

		v, err := e.exhibits.Verify(ctx, x.ID)
		require.NoError(t, err)
		assert.True(t, v.Verified)
	})

	t.Run("sealed rows are immutable", func(t *testing.T) {
		x, err := e.exhibits.Add(ctx, textCommand(caseID, "note.txt", "original", base.Add(time.Hour)))
		require.NoError(t, err)

		err = e.exec("UPDATE evidence SET filename = 'forged.txt' WHERE id = $1", x.ID)
		var pgErr *pgconn.PgError
		require.True(t, errors.As(err, &pgErr), "expected postgres error, got %v", err)
		assert.Equal(t, "P0001", pgErr.Code)

		err = e.exec("DELETE FROM evidence WHERE id = $1", x.ID)
		require.Error(t, err)
	})

	t.Run("tampered blob fails verification", func(t *testing.T) {
		x, err := e.exhibits.Add(ctx, textCommand(caseID, "ledger.txt", "paid 2000", base.Add(2*time.Hour)))
		require.NoError(t, err)

		require.NoError(t, e.store.Upload(ctx, x.StorageKey, bytes.NewReader([]byte("paid 200")), "text/plain"))

		v, err := e.exhibits.Verify(ctx, x.ID)
		require.NoError(t, err)
		assert.False(t, v.ContentMatch)
		assert.True(t, v.SealMatch)
		assert.False(t, v.Verified)

		require.NoError(t, e.store.Upload(ctx, x.StorageKey, bytes.NewReader([]byte("paid 2000")), "text/plain"))
	})

	t.Run("content download", func(t *testing.T) {
		x, err := e.exhibits.Add(ctx, textCommand(caseID, "../../escape.txt", "body", base.Add(3*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("cases/%s/%s/escape.txt", caseID, x.ID), x.StorageKey)

		rc, got, err := e.exhibits.Content(ctx, x.ID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "body", string(data))
		assert.Equal(t, x.ID, got.ID)
	})

	t.Run("missing case", func(t *testing.T) {
		_, err := e.exhibits.Add(ctx, textCommand(uuid.New(), "a.txt", "a", base))
		assert.ErrorIs(t, err, evidence.ErrCaseNotFound)

		_, err = e.exhibits.Snapshot(ctx, uuid.New())
		assert.ErrorIs(t, err, evidence.ErrCaseNotFound)
	})

	t.Run("list filters by case and kind", func(t *testing.T) {
		kinds := []string{string(evidence.KindText)}
		page, err := e.exhibits.List(ctx, pagination.PageRequest{}, exhibits.Filters{CaseID: &caseID, Kinds: kinds})
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)

		for i := 1; i < len(page.Data); i++ {
			assert.False(t, page.Data[i].CapturedAt.Before(page.Data[i-1].CapturedAt), "list is chronological")
		}
	})

	t.Run("seal case", func(t *testing.T) {
		sealed, err := e.exhibits.SealCase(ctx, caseID)
		require.NoError(t, err)
		assert.Equal(t, evidence.StatusSealed, sealed.Status)
		assert.Len(t, sealed.Evidence, 4)
		assert.True(t, evidence.VerifyCaseIntegrity(sealed))

		stored, err := e.cases.Find(ctx, caseID)
		require.NoError(t, err)
		assert.Equal(t, evidence.StatusSealed, stored.Status)
		require.NotNil(t, stored.IntegrityHash)
		assert.Equal(t, sealed.IntegrityHash, *stored.IntegrityHash)

		cv, err := e.exhibits.VerifyCase(ctx, caseID)
		require.NoError(t, err)
		assert.True(t, cv.IntegrityMatch)
		assert.True(t, cv.Verified)
		assert.Len(t, cv.Items, 4)

		_, err = e.exhibits.Add(ctx, textCommand(caseID, "late.txt", "late", base))
		assert.ErrorIs(t, err, evidence.ErrCaseSealed)

		_, err = e.exhibits.SealCase(ctx, caseID)
		assert.ErrorIs(t, err, evidence.ErrInvalidTransition)
	})

	t.Run("snapshot is chronological", func(t *testing.T) {
		c, err := e.exhibits.Snapshot(ctx, caseID)
		require.NoError(t, err)
		assert.Equal(t, evidence.Chronological(c.Evidence), c.Evidence)
		assert.Equal(t, evidence.CaseIntegrityHash(c), c.IntegrityHash)
	})

	t.Run("open case never verifies", func(t *testing.T) {
		open := e.openCase(t, "Open matter")
		_, err := e.exhibits.Add(ctx, textCommand(open, "a.txt", "a", base))
		require.NoError(t, err)

		cv, err := e.exhibits.VerifyCase(ctx, open)
		require.NoError(t, err)
		assert.False(t, cv.IntegrityMatch)
		assert.False(t, cv.Verified)
		assert.True(t, cv.Items[0].Verified)
	})
}

func TestIntegrationAddBatch(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	caseID := e.openCase(t, "Batch matter")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cmds := make([]exhibits.CreateCommand, 8)
	for i := range cmds {
		cmds[i] = textCommand(caseID, fmt.Sprintf("msg-%d.txt", i), fmt.Sprintf("message %d", i), base.Add(time.Duration(i)*time.Minute))
	}
	cmds[5].Data = nil

	results := e.exhibits.AddBatch(ctx, cmds)
	require.Len(t, results, len(cmds))

	for i, r := range results {
		assert.Equal(t, cmds[i].Filename, r.Filename)
		if i == 5 {
			assert.Nil(t, r.Exhibit)
			assert.Contains(t, r.Error, "empty content")
			continue
		}
		require.NotNil(t, r.Exhibit, "result %d: %s", i, r.Error)
		assert.True(t, r.Exhibit.Sealed)
	}
}

func TestIntegrationConcurrentAddAndSeal(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	caseID := e.openCase(t, "Race matter")
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	const writers = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added []uuid.UUID
	)

	for i := range writers {
		wg.Go(func() {
			x, err := e.exhibits.Add(ctx, textCommand(caseID, fmt.Sprintf("w-%d.txt", i), fmt.Sprintf("w %d", i), base.Add(time.Duration(i)*time.Second)))
			if err != nil {
				assert.ErrorIs(t, err, evidence.ErrCaseSealed)
				return
			}
			mu.Lock()
			added = append(added, x.ID)
			mu.Unlock()
		})
	}

	wg.Go(func() {
		_, err := e.exhibits.SealCase(ctx, caseID)
		assert.NoError(t, err)
	})
	wg.Wait()

	cv, err := e.exhibits.VerifyCase(ctx, caseID)
	require.NoError(t, err)
	assert.True(t, cv.Verified)
	assert.Len(t, cv.Items, len(added), "every accepted item is covered by the integrity hash")
}
