package pricing_test

import (
	"math"
	"testing"

	"laundry-order-system/models"
	"laundry-order-system/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels(t *testing.T) {
	products := testProducts()

	assert.Equal(t, "7.90 лв./м²", pricing.PriceLabel(products, "machine", false))
	assert.Equal(t, "12.00 лв./м²", pricing.PriceLabel(products, "hand", true))
	assert.Equal(t, "Цена неизвестна", pricing.PriceLabel(products, "xyz", false))

	assert.Equal(t, "Ръчно пране", pricing.ProductName(products, "hand"))
	assert.Equal(t, "Непозната услуга", pricing.ProductName(products, "xyz"))

	assert.Equal(t, "23.70 лв.", pricing.FormatMoney(2*1.5*7.90))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 9.42, pricing.RoundCents(0.25*math.Pi*12))
	assert.Equal(t, 23.7, pricing.RoundCents(2*1.5*7.90))
	assert.Equal(t, 0.13, pricing.RoundCents(0.125))
	assert.True(t, math.IsInf(pricing.RoundCents(math.Inf(1)), 1))
}

func TestFormatNonFinite(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "Цена неизвестна", pricing.FormatAmount(math.Inf(1)))
		assert.Equal(t, "Цена неизвестна", pricing.FormatMoney(math.NaN()))
	})
	assert.NotPanics(t, func() {
		_, err := pricing.Reconcile(math.Inf(1), models.DeliveryConfirmation{PaidAmount: 10, AcceptMismatch: true})
		assert.ErrorIs(t, err, pricing.ErrNotPriceable)
	})
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		total        float64
		confirmation models.DeliveryConfirmation
		wantExact    bool
		wantErr      error
	}{
		{
			name:         "Exact after rounding",
			total:        2 * 1.5 * 7.90,
			confirmation: models.DeliveryConfirmation{PaidAmount: 23.70},
			wantExact:    true,
		},
		{
			name:         "Mismatch without confirmation",
			total:        23.70,
			confirmation: models.DeliveryConfirmation{PaidAmount: 20},
			wantErr:      pricing.ErrPaymentMismatch,
		},
		{
			name:         "Mismatch confirmed by courier",
			total:        23.70,
			confirmation: models.DeliveryConfirmation{PaidAmount: 20, AcceptMismatch: true},
		},
		{
			name:         "Negative paid amount",
			total:        23.70,
			confirmation: models.DeliveryConfirmation{PaidAmount: -1, AcceptMismatch: true},
			wantErr:      pricing.ErrInvalidPaidAmount,
		},
		{
			name:         "NaN paid amount",
			total:        23.70,
			confirmation: models.DeliveryConfirmation{PaidAmount: math.NaN()},
			wantErr:      pricing.ErrInvalidPaidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := pricing.Reconcile(tt.total, tt.confirmation)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, rec.Accepted)
			assert.Equal(t, tt.wantExact, rec.Exact)
		})
	}

	rec, err := pricing.Reconcile(23.70, models.DeliveryConfirmation{PaidAmount: 20, AcceptMismatch: true})
	require.NoError(t, err)
	assert.InDelta(t, -3.70, rec.Difference, 1e-9)
}
