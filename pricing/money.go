package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"laundry-order-system/models"
)

const (
	currencySuffix   = " лв."
	unknownPrice     = "Цена неизвестна"
	unknownProduct   = "Непозната услуга"
	perSquareMetre   = " лв./м²"
	displayPrecision = 2
)

var ErrInvalidPaidAmount = errors.New("paid amount must be a non-negative number")

// ErrPaymentMismatch is returned when the paid amount differs from the total and
// the courier did not confirm the difference.
var ErrPaymentMismatch = errors.New("paid amount does not match the order total")

// RoundCents rounds v half away from zero to two decimals. NaN and ±Inf are returned as is.
func RoundCents(v float64) float64 {
	if !finite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(displayPrecision).Float64()
	return f
}

// FormatAmount renders v with two decimals, e.g. "23.70"
func FormatAmount(v float64) string {
	if !finite(v) {
		return unknownPrice
	}
	return decimal.NewFromFloat(v).StringFixed(displayPrecision)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FormatMoney renders v with the currency suffix, e.g. "23.70 лв."
func FormatMoney(v float64) string {
	if !finite(v) {
		return unknownPrice
	}
	return FormatAmount(v) + currencySuffix
}

// PriceLabel renders the unit price of a product, or the unknown-price label
func PriceLabel(products []models.Product, productID string, isExpress bool) string {
	price, err := ResolveUnitPrice(products, productID, isExpress)
	if err != nil {
		return unknownPrice
	}
	return FormatAmount(price) + perSquareMetre
}

// ProductName returns the display name of a product, or the unknown-service label
func ProductName(products []models.Product, productID string) string {
	if p, ok := models.FindProduct(products, productID); ok {
		return p.Name
	}
	return unknownProduct
}

// Reconcile compares what the courier collected with the order total.
// Both sides are compared in cents.
func Reconcile(total float64, c models.DeliveryConfirmation) (models.PaymentReconciliation, error) {
	if !finite(c.PaidAmount) || c.PaidAmount < 0 {
		return models.PaymentReconciliation{}, ErrInvalidPaidAmount
	}
	if !finite(total) {
		return models.PaymentReconciliation{}, fmt.Errorf("%w: order total %v", ErrNotPriceable, total)
	}
	expected := decimal.NewFromFloat(total).Round(displayPrecision)
	paid := decimal.NewFromFloat(c.PaidAmount).Round(displayPrecision)
	diff := paid.Sub(expected)

	rec := models.PaymentReconciliation{
		Expected:   expected.InexactFloat64(),
		Paid:       paid.InexactFloat64(),
		Difference: diff.InexactFloat64(),
		Exact:      diff.IsZero(),
	}
	rec.Accepted = rec.Exact || c.AcceptMismatch
	if !rec.Accepted {
		return rec, ErrPaymentMismatch
	}
	return rec, nil
}
