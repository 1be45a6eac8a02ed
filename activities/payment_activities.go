package activities

import (
	"context"
	"errors"
	"fmt"

	"laundry-order-system/models"
	"laundry-order-system/pricing"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Application error types returned by ReconcilePayment
const (
	ErrTypePaymentMismatch   = "PaymentMismatch"
	ErrTypeInvalidPaidAmount = "InvalidPaidAmount"
	ErrTypeInvalidTotal      = "InvalidTotal"
)

// DeliveryAPI confirms deliveries with the remote API
type DeliveryAPI interface {
	ConfirmDelivery(ctx context.Context, orderID string, confirm models.OrderDeliveryConfirm) error
}

// PaymentActivities contains all payment-related activities
type PaymentActivities struct {
	api DeliveryAPI
}

// NewPaymentActivities creates a new PaymentActivities instance
func NewPaymentActivities(api DeliveryAPI) *PaymentActivities {
	return &PaymentActivities{api: api}
}

// ReconcilePayment compares the collected amount with the order total
func (p *PaymentActivities) ReconcilePayment(ctx context.Context, input models.PaymentInput) (models.PaymentReconciliation, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Reconciling payment", "order_id", input.OrderID, "total", input.TotalAmount, "paid", input.Confirmation.PaidAmount)

	rec, err := pricing.Reconcile(input.TotalAmount, input.Confirmation)
	switch {
	case errors.Is(err, pricing.ErrInvalidPaidAmount):
		return rec, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("Невалидна платена сума: %v", input.Confirmation.PaidAmount),
			ErrTypeInvalidPaidAmount, nil)
	case errors.Is(err, pricing.ErrPaymentMismatch):
		return rec, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("Платената сума %s не съвпада с дължимата %s", pricing.FormatMoney(rec.Paid), pricing.FormatMoney(rec.Expected)),
			ErrTypePaymentMismatch, nil, rec)
	case errors.Is(err, pricing.ErrNotPriceable):
		return rec, temporal.NewNonRetryableApplicationError(
			"Сумата на поръчката не може да бъде изчислена", ErrTypeInvalidTotal, nil)
	case err != nil:
		return rec, err
	}

	if !rec.Exact {
		logger.Warn("Payment mismatch accepted", "order_id", input.OrderID, "difference", rec.Difference)
	}
	return rec, nil
}

// ConfirmDelivery records the collected payment and the delivered items with the API
func (p *PaymentActivities) ConfirmDelivery(ctx context.Context, orderID string, confirm models.OrderDeliveryConfirm) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Confirming delivery", "order_id", orderID, "paid_amount", confirm.PaidAmount, "items", len(confirm.DeliveredItems))

	activity.RecordHeartbeat(ctx, "confirming delivery")
	if err := p.api.ConfirmDelivery(ctx, orderID, confirm); err != nil {
		return apiFailure("failed to confirm delivery", err)
	}

	logger.Info("Delivery confirmed", "order_id", orderID)
	return nil
}
