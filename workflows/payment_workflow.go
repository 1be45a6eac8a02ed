package workflows

import (
	"time"

	"laundry-order-system/activities"
	"laundry-order-system/models"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PaymentWorkflow is a child workflow that reconciles the amount collected on
// delivery with the order total and confirms the delivery with the API.
func PaymentWorkflow(ctx workflow.Context, input models.PaymentInput) (models.PaymentReconciliation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("PaymentWorkflow started", "order_id", input.OrderID, "total", input.TotalAmount)

	reconcileCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	})
	confirmCtx := workflow.WithActivityOptions(ctx, mutateActivityOptions())

	var paymentAct *activities.PaymentActivities

	// Step 1: Reconcile
	var rec models.PaymentReconciliation
	err := workflow.ExecuteActivity(reconcileCtx, paymentAct.ReconcilePayment, input).Get(ctx, &rec)
	if err != nil {
		logger.Warn("Payment reconciliation failed", "order_id", input.OrderID, "error", err)
		return rec, err
	}

	// Step 2: Confirm delivery with the collected amount
	confirm := models.OrderDeliveryConfirm{
		PaidAmount:     rec.Paid,
		DeliveredItems: input.Confirmation.DeliveredItems,
	}
	err = workflow.ExecuteActivity(confirmCtx, paymentAct.ConfirmDelivery, input.OrderID, confirm).Get(ctx, nil)
	if err != nil {
		logger.Error("Delivery confirmation failed", "order_id", input.OrderID, "error", err)
		return rec, err
	}

	logger.Info("Payment confirmed", "order_id", input.OrderID, "paid", rec.Paid, "exact", rec.Exact)
	return rec, nil
}
