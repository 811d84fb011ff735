//go:build integration

package cases_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/cases"
	"github.com/JaimeStill/verum/internal/schema/pgtest"
	"github.com/JaimeStill/verum/pkg/pagination"
)

func TestIntegrationCases(t *testing.T) {
	db := pgtest.Start(t)
	ctx := context.Background()
	sys := cases.New(db, slog.New(slog.DiscardHandler), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})

	created, err := sys.Create(ctx, cases.CreateCommand{Name: "  Acme v. Doe  ", CreatedBy: "investigator-1"})
	require.NoError(t, err)
	assert.Equal(t, "Acme v. Doe", created.Name)
	assert.Equal(t, evidence.StatusOpen, created.Status)
	assert.Nil(t, created.IntegrityHash)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := sys.Create(ctx, cases.CreateCommand{Name: "Acme v. Doe"})
		assert.ErrorIs(t, err, cases.ErrDuplicate)
	})

	t.Run("find", func(t *testing.T) {
		found, err := sys.Find(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "investigator-1", found.CreatedBy)

		_, err = sys.Find(ctx, uuid.New())
		assert.ErrorIs(t, err, cases.ErrNotFound)
	})

	t.Run("open case requires sealing", func(t *testing.T) {
		_, err := sys.Transition(ctx, created.ID, cases.TransitionCommand{Status: "REPORTED"})
		assert.ErrorIs(t, err, cases.ErrSealRequired)
	})

	t.Run("sealed case moves forward", func(t *testing.T) {
		_, err := db.ExecContext(ctx,
			"UPDATE cases SET status = 'SEALED', integrity_hash = repeat('a', 128) WHERE id = $1", created.ID)
		require.NoError(t, err)

		reported, err := sys.Transition(ctx, created.ID, cases.TransitionCommand{Status: "reported"})
		require.NoError(t, err)
		assert.Equal(t, evidence.StatusReported, reported.Status)
		assert.True(t, reported.UpdatedAt.After(created.UpdatedAt) || reported.UpdatedAt.Equal(created.UpdatedAt))

		_, err = sys.Transition(ctx, created.ID, cases.TransitionCommand{Status: "REPORTED"})
		assert.ErrorIs(t, err, evidence.ErrInvalidTransition)
	})

	t.Run("list filters", func(t *testing.T) {
		_, err := sys.Create(ctx, cases.CreateCommand{Name: "Beta holdings"})
		require.NoError(t, err)

		status := string(evidence.StatusOpen)
		page, err := sys.List(ctx, pagination.PageRequest{}, cases.Filters{Status: &status})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "Beta holdings", page.Data[0].Name)

		search := "acme"
		page, err = sys.List(ctx, pagination.PageRequest{Search: &search}, cases.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})
}
