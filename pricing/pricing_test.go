package pricing_test

import (
	"errors"
	"math"
	"testing"

	"laundry-order-system/models"
	"laundry-order-system/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func testProducts() []models.Product {
	return []models.Product{
		{ID: "machine", Name: "Машинно пране", Price: 7.90, OrderBy: 1},
		{ID: "hand", Name: "Ръчно пране", Price: 9.50, ExpressServicePrice: f(12.00), OrderBy: 2},
		{ID: "free", Name: "Други", Price: 0, OrderBy: 3},
	}
}

func TestUnitPrice(t *testing.T) {
	products := testProducts()

	tests := []struct {
		name      string
		productID string
		express   bool
		want      float64
		wantErr   error
	}{
		{name: "Standard price", productID: "hand", want: 9.50},
		{name: "Express price when defined", productID: "hand", express: true, want: 12.00},
		{name: "Express falls back to standard", productID: "machine", express: true, want: 7.90},
		{name: "Missing selection", productID: "", wantErr: pricing.ErrMissingProduct},
		{name: "Unknown product", productID: "xyz", wantErr: pricing.ErrUnknownProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.ResolveUnitPrice(products, tt.productID, tt.express)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name   string
		sizing pricing.Sizing
		price  float64
		want   float64
	}{
		{name: "Rectangle", sizing: pricing.Sizing{Width: f(2), Height: f(1.5)}, price: 7.90, want: 2 * 1.5 * 7.90},
		{name: "Diagonal uses radius", sizing: pricing.Sizing{Diagonal: f(1)}, price: 12, want: 0.25 * math.Pi * 12},
		{name: "Empty sizing", sizing: pricing.Sizing{}, price: 7.90, want: 0},
		{name: "Zero sizing", sizing: pricing.Sizing{Width: f(0), Height: f(0), Diagonal: f(0)}, price: 7.90, want: 0},
		{name: "Width without height", sizing: pricing.Sizing{Width: f(2)}, price: 7.90, want: 0},
		{name: "Zero unit price", sizing: pricing.Sizing{Width: f(2), Height: f(2)}, price: 0, want: 0},
		{name: "NaN unit price", sizing: pricing.Sizing{Width: f(2), Height: f(2)}, price: math.NaN(), want: 0},
		{name: "Overflowing rectangle", sizing: pricing.Sizing{Width: f(1e200), Height: f(1e200)}, price: 7.90, want: 0},
		{name: "Overflowing price", sizing: pricing.Sizing{Width: f(1e300), Height: f(10)}, price: math.MaxFloat64, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pricing.Amount(tt.sizing, tt.price), 1e-9)
		})
	}
}

func TestAmountProperties(t *testing.T) {
	for _, w := range []float64{0.01, 0.5, 1, 2.35, 10} {
		for _, h := range []float64{0.01, 0.75, 3, 4.2} {
			for _, p := range []float64{0.5, 7.9, 12} {
				got := pricing.Amount(pricing.Sizing{Width: &w, Height: &h}, p)
				assert.InDelta(t, w*h*p, got, 1e-9)
			}
		}
	}
	for _, d := range []float64{0.1, 1, 1.8, 3.5} {
		for _, p := range []float64{0.5, 7.9, 12} {
			got := pricing.Amount(pricing.Sizing{Diagonal: &d}, p)
			assert.InDelta(t, (d/2)*(d/2)*math.Pi*p, got, 1e-9)
		}
	}
}

func TestSizingValidate(t *testing.T) {
	tests := []struct {
		name      string
		sizing    pricing.Sizing
		wantErr   error
		wantField string
	}{
		{name: "Rectangle ok", sizing: pricing.Sizing{Width: f(1), Height: f(2)}},
		{name: "Diagonal ok", sizing: pricing.Sizing{Diagonal: f(1.2)}},
		{name: "Nothing set", sizing: pricing.Sizing{}, wantErr: pricing.ErrNoSizing},
		{name: "Only height", sizing: pricing.Sizing{Height: f(2)}, wantErr: pricing.ErrIncompleteSizing},
		{name: "Both modes", sizing: pricing.Sizing{Width: f(1), Height: f(2), Diagonal: f(1)}, wantErr: pricing.ErrAmbiguousSizing},
		{name: "Diagonal with width", sizing: pricing.Sizing{Width: f(1), Diagonal: f(1)}, wantErr: pricing.ErrAmbiguousSizing},
		{name: "Negative width", sizing: pricing.Sizing{Width: f(-1), Height: f(2)}, wantField: "width"},
		{name: "Zero height", sizing: pricing.Sizing{Width: f(1), Height: f(0)}, wantField: "height"},
		{name: "Infinite diagonal", sizing: pricing.Sizing{Diagonal: f(math.Inf(1))}, wantField: "diagonal"},
		{name: "NaN diagonal", sizing: pricing.Sizing{Diagonal: f(math.NaN())}, wantField: "diagonal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sizing.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var verr *pricing.ValidationError
				require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
				assert.Equal(t, tt.wantField, verr.Field)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	products := testProducts()

	t.Run("Rectangle example", func(t *testing.T) {
		item, err := pricing.Quote(products, models.OrderItemDraft{
			ProductID: "machine", Width: f(2.00), Height: f(1.50), Note: "  stain on corner ",
		}, false)
		require.NoError(t, err)
		assert.InDelta(t, 23.70, item.Amount, 1e-9)
		assert.Equal(t, "23.70", pricing.FormatAmount(item.Amount))
		assert.Equal(t, 7.90, item.Price)
		assert.Equal(t, "stain on corner", item.Note)
		assert.Equal(t, models.OrderItemStatusNew, item.Status)
	})

	t.Run("Express diagonal example", func(t *testing.T) {
		item, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "hand", Diagonal: f(1.00)}, true)
		require.NoError(t, err)
		assert.InDelta(t, 9.42, item.Amount, 0.005)
		assert.Equal(t, "9.42", pricing.FormatAmount(item.Amount))
		assert.Nil(t, item.Width)
		assert.Nil(t, item.Height)
	})

	t.Run("Missing product blocks the line", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{Width: f(1), Height: f(1)}, false)
		assert.ErrorIs(t, err, pricing.ErrMissingProduct)
	})

	t.Run("Unknown product blocks the line", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "xyz", Width: f(1), Height: f(1)}, false)
		assert.ErrorIs(t, err, pricing.ErrUnknownProduct)
	})

	t.Run("Empty sizing is not addable", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "machine"}, false)
		assert.ErrorIs(t, err, pricing.ErrNoSizing)
	})

	t.Run("Ambiguous sizing is rejected", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{
			ProductID: "machine", Width: f(1), Height: f(1), Diagonal: f(1),
		}, false)
		assert.ErrorIs(t, err, pricing.ErrAmbiguousSizing)
	})

	t.Run("Overflowing dimensions are not addable", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "machine", Width: f(1e200), Height: f(1e200)}, false)
		assert.ErrorIs(t, err, pricing.ErrNotPriceable)

		_, err = pricing.Quote(products, models.OrderItemDraft{ProductID: "machine", Diagonal: f(1e200)}, false)
		assert.ErrorIs(t, err, pricing.ErrNotPriceable)
	})

	t.Run("Zero priced product is not addable", func(t *testing.T) {
		_, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "free", Width: f(1), Height: f(1)}, false)
		assert.ErrorIs(t, err, pricing.ErrNotPriceable)
	})
}

func TestOrderTotal(t *testing.T) {
	products := testProducts()
	a, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "machine", Width: f(2), Height: f(1.5)}, false)
	require.NoError(t, err)
	b, err := pricing.Quote(products, models.OrderItemDraft{ProductID: "hand", Diagonal: f(2)}, false)
	require.NoError(t, err)

	items := []models.OrderItem{a}
	before := pricing.OrderTotal(items)
	items = append(items, b)
	after := pricing.OrderTotal(items)
	assert.InDelta(t, b.Amount, after-before, 1e-9)
	assert.InDelta(t, a.Amount+b.Amount, after, 1e-9)

	items[0].Status = models.OrderItemStatusDeleted
	assert.InDelta(t, b.Amount, pricing.OrderTotal(items), 1e-9)

	assert.Zero(t, pricing.OrderTotal(nil))

	huge := []models.OrderItem{
		{Amount: math.MaxFloat64},
		{Amount: math.MaxFloat64},
		{Amount: math.Inf(1)},
		{Amount: math.NaN()},
	}
	assert.Equal(t, math.MaxFloat64, pricing.OrderTotal(huge))
}

func TestReprice(t *testing.T) {
	order := &models.Order{
		IsExpress: true,
		OrderItems: []models.OrderItem{
			{ID: "i1", ProductID: "hand", Width: f(1), Height: f(2), Amount: 999},
			{ID: "i2", ProductID: "xyz", Diagonal: f(1), Amount: 50},
			{ProductID: "machine", Diagonal: f(2)},
		},
		TotalAmount: 12345,
	}

	unresolved := pricing.Reprice(order, testProducts())

	assert.Equal(t, []string{"i2"}, unresolved)
	assert.InDelta(t, 24.0, order.OrderItems[0].Amount, 1e-9)
	assert.Zero(t, order.OrderItems[1].Amount)
	assert.InDelta(t, math.Pi*7.90, order.OrderItems[2].Amount, 1e-9)
	assert.InDelta(t, 24.0+math.Pi*7.90, order.TotalAmount, 1e-9)
}

func TestRepriceOverflowingItem(t *testing.T) {
	order := &models.Order{
		OrderItems: []models.OrderItem{
			{ID: "i1", ProductID: "machine", Width: f(2), Height: f(1.5)},
			{ID: "i2", ProductID: "machine", Width: f(1e200), Height: f(1e200)},
		},
	}

	unresolved := pricing.Reprice(order, testProducts())

	assert.Empty(t, unresolved)
	assert.Zero(t, order.OrderItems[1].Amount)
	assert.InDelta(t, 23.70, order.TotalAmount, 1e-9)
	assert.Equal(t, "23.70 лв.", pricing.FormatMoney(order.TotalAmount))
}

func TestPrepareCreateOrder(t *testing.T) {
	products := testProducts()

	t.Run("Prices lines and grows expected count", func(t *testing.T) {
		c := &models.CreateOrder{
			PickupAddressID: "addr-1",
			PickupTimeRange: "09:00 - 10:00",
			OrderItems: []models.OrderItem{
				{ProductID: "machine", Width: f(2), Height: f(1.5)},
				{ProductID: "hand", Diagonal: f(1)},
			},
		}
		require.NoError(t, pricing.PrepareCreateOrder(products, c))
		assert.Equal(t, 2, c.ExpectedCount)
		assert.InDelta(t, 23.70, c.OrderItems[0].Amount, 1e-9)
		assert.Equal(t, models.OrderItemStatusNew, c.OrderItems[1].Status)
	})

	t.Run("Keeps a larger expected count", func(t *testing.T) {
		c := &models.CreateOrder{
			PickupAddressID: "addr-1",
			ExpectedCount:   5,
			OrderItems:      []models.OrderItem{{ProductID: "machine", Width: f(1), Height: f(1)}},
		}
		require.NoError(t, pricing.PrepareCreateOrder(products, c))
		assert.Equal(t, 5, c.ExpectedCount)
	})

	t.Run("Requires items", func(t *testing.T) {
		err := pricing.PrepareCreateOrder(products, &models.CreateOrder{PickupAddressID: "addr-1"})
		var verr *pricing.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "orderItems", verr.Field)
	})

	t.Run("Rejects an invalid line", func(t *testing.T) {
		err := pricing.PrepareCreateOrder(products, &models.CreateOrder{
			PickupAddressID: "addr-1",
			OrderItems:      []models.OrderItem{{ProductID: "xyz", Width: f(1), Height: f(1)}},
		})
		assert.ErrorIs(t, err, pricing.ErrUnknownProduct)
		assert.Contains(t, err.Error(), "item 1")
	})

	t.Run("Rejects an unknown time range", func(t *testing.T) {
		err := pricing.PrepareCreateOrder(products, &models.CreateOrder{
			PickupAddressID: "addr-1",
			PickupTimeRange: "08:00 - 09:00",
			OrderItems:      []models.OrderItem{{ProductID: "machine", Width: f(1), Height: f(1)}},
		})
		var verr *pricing.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "pickupTimeRange", verr.Field)
	})
}
