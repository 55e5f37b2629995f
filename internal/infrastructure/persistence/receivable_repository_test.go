package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavedReceivable(t *testing.T, repo *GormReceivableRepository, ordererID uuid.UUID, payOn time.Time) *finance.Receivable {
	t.Helper()
	receivable, err := finance.NewReceivable(
		uuid.New(), ordererID, uuid.New(),
		decimal.NewFromInt(30000), payOn, finance.PhaseConfirmation,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), receivable))
	return receivable
}

func TestGormReceivableRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReceivableRepository(db)
	ctx := context.Background()

	t.Run("round-trips a receivable", func(t *testing.T) {
		payOn := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		receivable := newSavedReceivable(t, repo, uuid.New(), payOn)

		found, err := repo.FindByID(ctx, receivable.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ReceivableStatusWillPay, found.Status)
		assert.Equal(t, finance.PhaseConfirmation, found.Phase)
		assert.True(t, found.Price.Equal(decimal.NewFromInt(30000)))
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormReceivableRepository_FindPayableByOrderer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReceivableRepository(db)
	ctx := context.Background()

	ordererID := uuid.New()
	later := newSavedReceivable(t, repo, ordererID, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	earlier := newSavedReceivable(t, repo, ordererID, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	newSavedReceivable(t, repo, uuid.New(), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	paid := newSavedReceivable(t, repo, ordererID, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, paid.Pay())
	require.NoError(t, repo.Save(ctx, paid))

	payable, err := repo.FindPayableByOrderer(ctx, ordererID)
	require.NoError(t, err)
	require.Len(t, payable, 2)
	assert.Equal(t, earlier.ID, payable[0].ID)
	assert.Equal(t, later.ID, payable[1].ID)
}

func TestGormReceivableRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReceivableRepository(db)
	ctx := context.Background()

	t.Run("applies the update when versions match", func(t *testing.T) {
		receivable := newSavedReceivable(t, repo, uuid.New(), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

		expectedVersion := receivable.GetVersion()
		require.NoError(t, receivable.Pay())

		err := repo.SaveWithLock(ctx, receivable, expectedVersion)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, receivable.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.ReceivableStatusPaid, found.Status)
		assert.NotNil(t, found.PaidAt)
		assert.Equal(t, expectedVersion+1, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		receivable := newSavedReceivable(t, repo, uuid.New(), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

		// Another process pays the receivable first.
		other, err := repo.FindByID(ctx, receivable.ID)
		require.NoError(t, err)
		staleVersion := other.GetVersion()
		require.NoError(t, other.Pay())
		require.NoError(t, repo.SaveWithLock(ctx, other, staleVersion))

		require.NoError(t, receivable.Pay())
		err = repo.SaveWithLock(ctx, receivable, staleVersion)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormReceivableRepository_FilterByPhase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormReceivableRepository(db)
	ctx := context.Background()

	advance, err := finance.NewReceivable(
		uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(8550),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		finance.PhaseConstructionStart,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, advance))
	newSavedReceivable(t, repo, uuid.New(), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))

	filter := shared.DefaultFilter()
	filter.Filters = map[string]interface{}{"phase": string(finance.PhaseConstructionStart)}

	receivables, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, receivables, 1)
	assert.Equal(t, advance.ID, receivables[0].ID)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
