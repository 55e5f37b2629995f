package billing

import (
	"testing"
	"time"

	"github.com/genba/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceDueDate(t *testing.T) {
	tests := []struct {
		name   string
		billOn time.Time
		want   time.Time
	}{
		{
			"mid month lands on leap February",
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			"non leap February",
			time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			"December wraps into next year",
			time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"first of month",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvoiceDueDate(tt.billOn))
		})
	}
}

func TestCalculateSettlement(t *testing.T) {
	ordererID := uuid.New()
	companyID := uuid.New()
	agencyID := uuid.New()
	billOn := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	price := valueobject.NewMoneyJPYFromInt(30000)

	agencyParties := SettlementParties{OrdererID: ordererID, CompanyID: companyID, AgencyID: agencyID, UseAgency: true}
	directParties := SettlementParties{OrdererID: ordererID, CompanyID: companyID, AgencyID: agencyID, UseAgency: false}

	t.Run("invoice via agency has no fee and month-end due date", func(t *testing.T) {
		specs, err := CalculateSettlement(PaymentMethodInvoice, price, billOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		dueOn := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, agencyID, specs[0].OrdererID)
		assert.Equal(t, companyID, specs[0].CompanyID)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
		assert.Equal(t, dueOn, specs[0].PayOn)

		assert.Equal(t, ordererID, specs[1].OrdererID)
		assert.Equal(t, agencyID, specs[1].CompanyID)
		assert.True(t, specs[1].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
		assert.Equal(t, dueOn, specs[1].PayOn)
	})

	t.Run("invoice without agency makes a single direct receivable", func(t *testing.T) {
		specs, err := CalculateSettlement(PaymentMethodInvoice, price, billOn, directParties)
		require.NoError(t, err)
		require.Len(t, specs, 1)

		assert.Equal(t, ordererID, specs[0].OrdererID)
		assert.Equal(t, companyID, specs[0].CompanyID)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), specs[0].PayOn)
	})

	t.Run("complete via agency settles same day with fee on the subcontractor leg", func(t *testing.T) {
		specs, err := CalculateSettlement(PaymentMethodComplete, price, billOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		assert.Equal(t, agencyID, specs[0].OrdererID)
		assert.Equal(t, companyID, specs[0].CompanyID)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(28500)), "got %s", specs[0].Price)
		assert.Equal(t, billOn, specs[0].PayOn)

		assert.Equal(t, ordererID, specs[1].OrdererID)
		assert.Equal(t, agencyID, specs[1].CompanyID)
		assert.True(t, specs[1].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
		assert.Equal(t, billOn, specs[1].PayOn)
	})

	t.Run("complete fee rounds up", func(t *testing.T) {
		// 8999 * 0.95 = 8549.05 -> 8550
		specs, err := CalculateSettlement(PaymentMethodComplete, valueobject.NewMoneyJPYFromInt(8999), billOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 2)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(8550)), "got %s", specs[0].Price)
	})

	t.Run("complete without agency pays full price directly", func(t *testing.T) {
		specs, err := CalculateSettlement(PaymentMethodComplete, price, billOn, directParties)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
		assert.Equal(t, billOn, specs[0].PayOn)
	})

	t.Run("start_and_complete confirmation settles the 70 percent remainder", func(t *testing.T) {
		specs, err := CalculateSettlement(PaymentMethodStartAndComplete, price, billOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 2)

		// 30000 * 0.7 * 0.95 = 19950
		assert.Equal(t, agencyID, specs[0].OrdererID)
		assert.Equal(t, companyID, specs[0].CompanyID)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(19950)), "got %s", specs[0].Price)
		assert.Equal(t, billOn, specs[0].PayOn)

		// orderer leg is always the full price
		assert.Equal(t, ordererID, specs[1].OrdererID)
		assert.Equal(t, agencyID, specs[1].CompanyID)
		assert.True(t, specs[1].Price.Equals(valueobject.NewMoneyJPYFromInt(30000)))
	})

	t.Run("start_and_complete without agency is rejected", func(t *testing.T) {
		_, err := CalculateSettlement(PaymentMethodStartAndComplete, price, billOn, directParties)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VALIDATION_FAILED")
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := CalculateSettlement(PaymentMethodInvoice, valueobject.NewMoneyJPYFromInt(-1), billOn, agencyParties)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_AMOUNT")
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, err := CalculateSettlement(PaymentMethod("cheque"), price, billOn, agencyParties)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INVALID_PAYMENT_METHOD")
	})
}

func TestCalculateStartAdvance(t *testing.T) {
	ordererID := uuid.New()
	companyID := uuid.New()
	agencyID := uuid.New()
	startedOn := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	price := valueobject.NewMoneyJPYFromInt(30000)

	agencyParties := SettlementParties{OrdererID: ordererID, CompanyID: companyID, AgencyID: agencyID, UseAgency: true}

	t.Run("agency advances 30 percent after fee on the start date", func(t *testing.T) {
		specs, err := CalculateStartAdvance(PaymentMethodStartAndComplete, price, startedOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 1)

		// 30000 * 0.3 * 0.95 = 8550
		assert.Equal(t, agencyID, specs[0].OrdererID)
		assert.Equal(t, companyID, specs[0].CompanyID)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(8550)), "got %s", specs[0].Price)
		assert.Equal(t, startedOn, specs[0].PayOn)
	})

	t.Run("advance rounds up on fractional fee", func(t *testing.T) {
		// 10001 * 0.3 * 0.95 = 2850.285 -> 2851
		specs, err := CalculateStartAdvance(PaymentMethodStartAndComplete, valueobject.NewMoneyJPYFromInt(10001), startedOn, agencyParties)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.True(t, specs[0].Price.Equals(valueobject.NewMoneyJPYFromInt(2851)), "got %s", specs[0].Price)
	})

	t.Run("methods without a start advance produce nothing", func(t *testing.T) {
		for _, method := range []PaymentMethod{PaymentMethodInvoice, PaymentMethodComplete} {
			specs, err := CalculateStartAdvance(method, price, startedOn, agencyParties)
			require.NoError(t, err)
			assert.Empty(t, specs, "method %s", method)
		}
	})

	t.Run("rejected without agency", func(t *testing.T) {
		direct := agencyParties
		direct.UseAgency = false
		_, err := CalculateStartAdvance(PaymentMethodStartAndComplete, price, startedOn, direct)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "VALIDATION_FAILED")
	})
}
