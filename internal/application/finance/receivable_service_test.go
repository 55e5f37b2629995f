package finance

import (
	"context"
	"testing"
	"time"

	"github.com/genba/backend/internal/domain/finance"
	"github.com/genba/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReceivableRepository is a mock implementation of ReceivableRepository
type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Receivable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]finance.Receivable, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Receivable, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) FindPayableByOrderer(ctx context.Context, ordererID uuid.UUID) ([]finance.Receivable, error) {
	args := m.Called(ctx, ordererID)
	return args.Get(0).([]finance.Receivable), args.Error(1)
}

func (m *MockReceivableRepository) Save(ctx context.Context, receivable *finance.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockReceivableRepository) SaveWithLock(ctx context.Context, receivable *finance.Receivable, expectedVersion int) error {
	args := m.Called(ctx, receivable, expectedVersion)
	return args.Error(0)
}

func (m *MockReceivableRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newReceivable(t *testing.T, ordererID uuid.UUID, amount int64) *finance.Receivable {
	t.Helper()
	r, err := finance.NewReceivable(uuid.New(), ordererID, uuid.New(),
		decimal.NewFromInt(amount), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), finance.PhaseConfirmation)
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestReceivableService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("pays against the version read", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())
		receivable := newReceivable(t, uuid.New(), 30000)
		readVersion := receivable.GetVersion()

		repo.On("FindByID", ctx, receivable.ID).Return(receivable, nil)
		repo.On("SaveWithLock", ctx, receivable, readVersion).Return(nil)

		resp, err := service.Pay(ctx, receivable.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		require.NotNil(t, resp.PaidAt)
		repo.AssertExpectations(t)
	})

	t.Run("second pay is an illegal transition", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())
		receivable := newReceivable(t, uuid.New(), 30000)
		require.NoError(t, receivable.Pay())

		repo.On("FindByID", ctx, receivable.ID).Return(receivable, nil)

		_, err := service.Pay(ctx, receivable.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ILLEGAL_TRANSITION")
		repo.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("losing the version race surfaces the conflict", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())
		receivable := newReceivable(t, uuid.New(), 30000)

		repo.On("FindByID", ctx, receivable.ID).Return(receivable, nil)
		repo.On("SaveWithLock", ctx, receivable, mock.Anything).Return(shared.ErrConcurrencyConflict)

		_, err := service.Pay(ctx, receivable.ID)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestReceivableService_IngestPaymentSchedule(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()

	t.Run("applies every payable record", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())

		a := newReceivable(t, agencyID, 28500)
		b := newReceivable(t, agencyID, 8550)

		repo.On("FindPayableByOrderer", ctx, agencyID).Return([]finance.Receivable{*a, *b}, nil)
		repo.On("SaveWithLock", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := service.IngestPaymentSchedule(ctx, IngestPaymentScheduleRequest{AgencyCompanyID: agencyID})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Scanned)
		assert.Equal(t, 2, result.Applied)
		assert.Empty(t, result.Failures)
	})

	t.Run("a lost record does not roll back applied ones", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())

		a := newReceivable(t, agencyID, 28500)
		b := newReceivable(t, agencyID, 8550)
		c := newReceivable(t, agencyID, 19950)

		repo.On("FindPayableByOrderer", ctx, agencyID).Return([]finance.Receivable{*a, *b, *c}, nil)
		repo.On("SaveWithLock", ctx, mock.MatchedBy(func(r *finance.Receivable) bool { return r.ID == b.ID }), mock.Anything).
			Return(shared.ErrConcurrencyConflict)
		repo.On("SaveWithLock", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := service.IngestPaymentSchedule(ctx, IngestPaymentScheduleRequest{AgencyCompanyID: agencyID})
		require.NoError(t, err)

		assert.Equal(t, 3, result.Scanned)
		assert.Equal(t, 2, result.Applied)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, b.ID, result.Failures[0].ReceivableID)
		assert.Contains(t, result.Failures[0].Error, "CONCURRENCY_CONFLICT")
	})

	t.Run("empty schedule is a no-op", func(t *testing.T) {
		repo := new(MockReceivableRepository)
		service := NewReceivableService(repo, nil, zap.NewNop())

		repo.On("FindPayableByOrderer", ctx, agencyID).Return([]finance.Receivable{}, nil)

		result, err := service.IngestPaymentSchedule(ctx, IngestPaymentScheduleRequest{AgencyCompanyID: agencyID})
		require.NoError(t, err)
		assert.Zero(t, result.Scanned)
		assert.Zero(t, result.Applied)
		repo.AssertNotCalled(t, "SaveWithLock")
	})
}
