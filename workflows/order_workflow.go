package workflows

import (
	"errors"
	"fmt"
	"time"

	"laundry-order-system/activities"
	"laundry-order-system/events"
	"laundry-order-system/models"
	"laundry-order-system/notify"
	"laundry-order-system/pricing"

	"github.com/google/uuid"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	SignalAdvanceStatus       = "advance-status"
	SignalRevertStatus        = "revert-status"
	SignalCancel              = "cancel"
	SignalUpsertItem          = "upsert-item"
	SignalCompleteItemWashing = "complete-item-washing"
	SignalCompleteWashing     = "complete-washing"
	SignalDeliveryData        = "delivery-data"
	SignalConfirmDelivery     = "confirm-delivery"
	SignalRefresh             = "refresh"
	QueryState                = "state"
)

// ErrTypeValidation is the application error type of an order rejected before it reached the API
const ErrTypeValidation = "ValidationError"

// orderRun holds everything a single OrderWorkflow execution works with
type orderRun struct {
	ctx        workflow.Context
	readCtx    workflow.Context
	mutateCtx  workflow.Context
	notifyCtx  workflow.Context
	publishCtx workflow.Context
	logger     log.Logger

	state    *models.OrderState
	products []models.Product
	payments int
}

// act is only used to reference activity methods; it is never dereferenced.
var act *activities.Activities

// OrderWorkflow creates a new order or attaches to an existing one and then
// drives it through the pipeline in response to staff signals. Rejected
// signals are reported to staff and never fail the workflow. It returns once
// the order is completed or cancelled.
func OrderWorkflow(ctx workflow.Context, input models.OrderWorkflowInput) (models.OrderState, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderWorkflow started", "order_id", input.OrderID, "create", input.Create != nil)

	state := models.OrderState{
		OrderID:     input.OrderID,
		LastUpdated: workflow.Now(ctx),
	}

	err := workflow.SetQueryHandler(ctx, QueryState, func() (models.OrderState, error) {
		return state, nil
	})
	if err != nil {
		return state, fmt.Errorf("failed to set query handler: %w", err)
	}

	o := &orderRun{
		ctx:        ctx,
		readCtx:    workflow.WithActivityOptions(ctx, readActivityOptions()),
		mutateCtx:  workflow.WithActivityOptions(ctx, mutateActivityOptions()),
		notifyCtx:  workflow.WithActivityOptions(ctx, mutateActivityOptions()),
		publishCtx: workflow.WithActivityOptions(ctx, readActivityOptions()),
		logger:     logger,
		state:      &state,
	}

	if err := o.loadProducts(); err != nil {
		logger.Error("Failed to load products", "error", err)
		return state, fmt.Errorf("load products: %w", err)
	}

	switch {
	case input.Create != nil:
		if err := o.create(*input.Create); err != nil {
			return state, err
		}
	case input.OrderID == "":
		return state, temporal.NewNonRetryableApplicationError("order id or create payload is required", ErrTypeValidation, nil)
	}

	if err := o.refresh(); err != nil {
		logger.Error("Failed to fetch order", "order_id", state.OrderID, "error", err)
		return state, fmt.Errorf("fetch order: %w", err)
	}

	selector := workflow.NewSelector(ctx)
	onSignal(ctx, selector, SignalAdvanceStatus, o.advanceStatus)
	onSignal(ctx, selector, SignalRevertStatus, o.revertStatus)
	onSignal(ctx, selector, SignalCancel, o.cancel)
	onSignal(ctx, selector, SignalUpsertItem, o.upsertItem)
	onSignal(ctx, selector, SignalCompleteItemWashing, o.completeItemWashing)
	onSignal(ctx, selector, SignalCompleteWashing, o.completeWashing)
	onSignal(ctx, selector, SignalDeliveryData, o.deliveryData)
	onSignal(ctx, selector, SignalConfirmDelivery, o.confirmDelivery)
	onSignal(ctx, selector, SignalRefresh, o.reload)

	for !state.Status.IsTerminal() {
		selector.Select(ctx)
	}

	logger.Info("OrderWorkflow completed", "order_id", state.OrderID, "status", state.Status, "total", state.TotalAmount)
	return state, nil
}

func readActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    1 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
}

// Mutations and staff notifications are sent once. A failed mutation is reported
// to staff, who decide whether to repeat it.
func mutateActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		HeartbeatTimeout:    10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

func onSignal[T any](ctx workflow.Context, selector workflow.Selector, name string, handle func(T)) {
	ch := workflow.GetSignalChannel(ctx, name)
	selector.AddReceive(ch, func(c workflow.ReceiveChannel, more bool) {
		var payload T
		c.Receive(ctx, &payload)
		handle(payload)
	})
}

func (o *orderRun) loadProducts() error {
	var products []models.Product
	if err := workflow.ExecuteActivity(o.readCtx, act.LoadProducts).Get(o.ctx, &products); err != nil {
		return err
	}
	o.products = products
	return nil
}

func (o *orderRun) create(order models.CreateOrder) error {
	if err := pricing.PrepareCreateOrder(o.products, &order); err != nil {
		msg := "Поръчката не може да бъде създадена: " + err.Error()
		o.logger.Warn("Order rejected before creation", "error", err)
		o.notify(notify.LevelError, msg)
		return temporal.NewNonRetryableApplicationError(msg, ErrTypeValidation, nil)
	}

	var id string
	if err := workflow.ExecuteActivity(o.mutateCtx, act.CreateOrder, order).Get(o.ctx, &id); err != nil {
		o.logger.Error("Failed to create order", "error", err)
		o.notify(notify.LevelError, "Грешка при създаване на поръчката: "+errorMessage(err))
		return fmt.Errorf("create order: %w", err)
	}

	o.state.OrderID = id
	o.state.IsExpress = order.IsExpress
	o.state.Status = models.OrderStatusNew
	o.state.TotalAmount = pricing.OrderTotal(order.OrderItems)
	o.logger.Info("Order created", "order_id", id, "total", o.state.TotalAmount)

	o.notify(notify.LevelSuccess, "Поръчката е създадена")
	o.publish(events.OrderCreated, "", "")
	return nil
}

// refresh re-reads the order and reprices it with the loaded product list
func (o *orderRun) refresh() error {
	var order models.Order
	if err := workflow.ExecuteActivity(o.readCtx, act.FetchOrder, o.state.OrderID).Get(o.ctx, &order); err != nil {
		return err
	}
	if unresolved := pricing.Reprice(&order, o.products); len(unresolved) > 0 {
		o.logger.Warn("Order has items with unknown products", "order_id", order.ID, "items", unresolved)
	}

	o.state.Order = order
	o.state.Status = order.Status
	o.state.IsExpress = order.IsExpress
	o.state.TotalAmount = order.TotalAmount
	o.state.LastUpdated = workflow.Now(o.ctx)
	return nil
}

func (o *orderRun) reload(string) {
	if err := o.loadProducts(); err != nil {
		o.reject("Грешка при зареждане на услугите: " + errorMessage(err))
		return
	}
	if err := o.refresh(); err != nil {
		o.reject("Грешка при зареждане на поръчката: " + errorMessage(err))
		return
	}
	o.state.LastError = ""
}

func (o *orderRun) advanceStatus(change models.StatusChange) {
	cur := o.state.Status
	next := change.NextStatus
	if next == "" {
		n, ok := cur.Next()
		if !ok {
			o.reject(fmt.Sprintf("Поръчка със статус %s не може да продължи", cur.DisplayName()))
			return
		}
		next = n
	}
	if !cur.CanAdvanceTo(next) {
		o.reject(fmt.Sprintf("Невалиден преход: %s -> %s", cur.DisplayName(), next.DisplayName()))
		return
	}

	switch next {
	case models.OrderStatusWashingComplete:
		o.completeWashing("")
		return
	case models.OrderStatusDeliveryComplete:
		o.reject("Доставката се потвърждава с платената сума")
		return
	case models.OrderStatusPendingPickup:
		if o.state.Order.PickupDate == "" || o.state.Order.PickupTimeRange == "" {
			o.reject("Липсват дата и час за взимане")
			return
		}
	case models.OrderStatusPendingDelivery:
		if o.state.Order.DeliveryDate == "" || o.state.Order.DeliveryTimeRange == "" {
			o.reject("Липсват данни за доставка")
			return
		}
	}

	if !o.mutate("Грешка при смяна на статуса", act.UpdateOrderStatus, o.state.OrderID, next) {
		return
	}
	o.state.Status = next
	o.changed(events.OrderStatusChanged, cur, "", notify.LevelSuccess, "Статусът е променен на "+next.DisplayName())
}

func (o *orderRun) revertStatus(change models.StatusChange) {
	cur := o.state.Status
	target := change.NextStatus
	if target == "" {
		t, ok := cur.RevertTarget()
		if !ok {
			o.reject(fmt.Sprintf("Статус %s не може да бъде върнат", cur.DisplayName()))
			return
		}
		target = t
	}
	if !cur.CanRevertTo(target) {
		o.reject(fmt.Sprintf("Невалидно връщане: %s -> %s", cur.DisplayName(), target.DisplayName()))
		return
	}

	if !o.mutate("Грешка при връщане на статуса", act.RevertOrderStatus, o.state.OrderID, target) {
		return
	}
	o.state.Status = target
	o.changed(events.OrderStatusReverted, cur, "", notify.LevelSuccess, "Статусът е върнат на "+target.DisplayName())
}

func (o *orderRun) cancel(reason string) {
	cur := o.state.Status
	if !cur.CanCancel() {
		o.reject(fmt.Sprintf("Поръчка със статус %s не може да бъде отказана", cur.DisplayName()))
		return
	}

	if !o.mutate("Грешка при отказване на поръчката", act.UpdateOrderStatus, o.state.OrderID, models.OrderStatusCancelled) {
		return
	}
	o.logger.Info("Order cancelled", "order_id", o.state.OrderID, "reason", reason)
	o.state.Status = models.OrderStatusCancelled
	o.changed(events.OrderCancelled, cur, "", notify.LevelWarning, "Поръчката е отказана")
}

func (o *orderRun) upsertItem(draft models.OrderItemDraft) {
	cur := o.state.Status
	if !cur.ItemsEditable() {
		o.reject(fmt.Sprintf("Артикулите не могат да се променят при статус %s", cur.DisplayName()))
		return
	}

	item, err := pricing.Quote(o.products, draft, o.state.IsExpress)
	if err != nil {
		o.reject("Невалиден артикул: " + err.Error())
		return
	}

	if draft.ID == "" {
		var id string
		err := workflow.ExecuteActivity(o.mutateCtx, act.AddOrderItem, o.state.OrderID, item.Draft()).Get(o.ctx, &id)
		if err != nil {
			o.reject("Грешка при добавяне на артикул: " + errorMessage(err))
			return
		}
		o.changed(events.OrderItemAdded, cur, id, notify.LevelSuccess, "Артикулът е добавен: "+pricing.FormatMoney(item.Amount))
		return
	}

	existing, ok := o.findItem(draft.ID)
	if !ok || !existing.Status.Active() {
		o.reject("Артикулът не е намерен")
		return
	}
	if !o.mutate("Грешка при промяна на артикул", act.UpdateOrderItem, o.state.OrderID, item.Draft()) {
		return
	}
	o.changed(events.OrderItemUpdated, cur, draft.ID, notify.LevelSuccess, "Артикулът е променен: "+pricing.FormatMoney(item.Amount))
}

func (o *orderRun) completeItemWashing(w models.ItemWashing) {
	cur := o.state.Status
	if cur != models.OrderStatusPickupComplete && cur != models.OrderStatusWashingInProgress {
		o.reject(fmt.Sprintf("Артикули не се перат при статус %s", cur.DisplayName()))
		return
	}
	item, ok := o.findItem(w.ItemID)
	if !ok || !item.Status.Active() {
		o.reject("Артикулът не е намерен")
		return
	}
	if !item.Status.CanCompleteWashing() {
		o.reject("Прането на артикула вече е завършено")
		return
	}

	if !o.mutate("Грешка при завършване на прането на артикул", act.CompleteWashingOrderItem, o.state.OrderID, w.ItemID) {
		return
	}
	o.changed(events.OrderItemWashed, cur, w.ItemID, notify.LevelSuccess, "Прането на артикула е завършено")
}

func (o *orderRun) completeWashing(string) {
	cur := o.state.Status
	if cur != models.OrderStatusWashingInProgress {
		o.reject(fmt.Sprintf("Прането не може да бъде завършено при статус %s", cur.DisplayName()))
		return
	}

	var active, pending int
	for _, it := range o.state.Order.OrderItems {
		if !it.Status.Active() {
			continue
		}
		active++
		if it.Status != models.OrderItemStatusWashingComplete {
			pending++
		}
	}
	if active == 0 {
		o.reject("Поръчката няма артикули")
		return
	}
	if pending > 0 {
		o.reject(fmt.Sprintf("Остават %d артикула с незавършено пране", pending))
		return
	}

	if !o.mutate("Грешка при завършване на прането", act.CompleteWashing, o.state.OrderID) {
		return
	}
	o.state.Status = models.OrderStatusWashingComplete
	o.changed(events.OrderWashingCompleted, cur, "", notify.LevelSuccess, "Прането на поръчката е завършено")
}

func (o *orderRun) deliveryData(data models.OrderDeliveryData) {
	cur := o.state.Status
	if cur != models.OrderStatusWashingComplete && cur != models.OrderStatusPendingDelivery {
		o.reject(fmt.Sprintf("Доставка не може да се планира при статус %s", cur.DisplayName()))
		return
	}
	if data.DeliveryAddressID == "" {
		o.reject("Изберете адрес за доставка")
		return
	}
	if _, err := models.ParseDate(data.DeliveryDate); err != nil {
		o.reject("Невалидна дата за доставка")
		return
	}
	if !models.ValidTimeRange(data.DeliveryTimeRange) {
		o.reject("Невалиден час за доставка")
		return
	}

	if !o.mutate("Грешка при запазване на данните за доставка", act.AddDeliveryData, o.state.OrderID, data) {
		return
	}
	o.changed(events.DeliveryScheduled, cur, "", notify.LevelSuccess, "Данните за доставка са запазени")
}

func (o *orderRun) confirmDelivery(c models.DeliveryConfirmation) {
	cur := o.state.Status
	if cur != models.OrderStatusPendingDelivery {
		o.reject(fmt.Sprintf("Доставка не може да се потвърди при статус %s", cur.DisplayName()))
		return
	}

	if len(c.DeliveredItems) == 0 {
		for _, it := range o.state.Order.OrderItems {
			if it.Status.Active() {
				c.DeliveredItems = append(c.DeliveredItems, it.ID)
			}
		}
	}
	for _, id := range c.DeliveredItems {
		if it, ok := o.findItem(id); !ok || !it.Status.Active() {
			o.reject("Непознат артикул " + id)
			return
		}
	}

	o.payments++
	childCtx := workflow.WithChildOptions(o.ctx, workflow.ChildWorkflowOptions{
		WorkflowID:               fmt.Sprintf("payment-%s-%d", o.state.OrderID, o.payments),
		WorkflowExecutionTimeout: 5 * time.Minute,
	})

	var rec models.PaymentReconciliation
	input := models.PaymentInput{
		OrderID:      o.state.OrderID,
		TotalAmount:  o.state.TotalAmount,
		Confirmation: c,
	}
	if err := workflow.ExecuteChildWorkflow(childCtx, PaymentWorkflow, input).Get(o.ctx, &rec); err != nil {
		o.logger.Warn("Payment not confirmed", "order_id", o.state.OrderID, "error", err)
		o.reject(errorMessage(err))
		return
	}

	o.state.PaidAmount = rec.Paid
	o.state.Status = models.OrderStatusDeliveryComplete
	o.changed(events.DeliveryConfirmed, cur, "", notify.LevelSuccess, "Доставката е потвърдена, платени "+pricing.FormatMoney(rec.Paid))
	if !rec.Exact {
		o.notify(notify.LevelWarning, fmt.Sprintf("Разлика в плащането: %s лв.", pricing.FormatAmount(rec.Difference)))
	}
}

func (o *orderRun) findItem(id string) (models.OrderItem, bool) {
	for _, it := range o.state.Order.OrderItems {
		if it.ID == id {
			return it, true
		}
	}
	return models.OrderItem{}, false
}

func (o *orderRun) mutate(failure string, activity any, args ...any) bool {
	if err := workflow.ExecuteActivity(o.mutateCtx, activity, args...).Get(o.ctx, nil); err != nil {
		o.logger.Error(failure, "order_id", o.state.OrderID, "error", err)
		o.reject(failure + ": " + errorMessage(err))
		return false
	}
	return true
}

// changed runs after a successful mutation: re-read the order, then tell staff and consumers.
func (o *orderRun) changed(t events.Type, prev models.OrderStatus, itemID string, level notify.Level, msg string) {
	if err := o.refresh(); err != nil {
		o.logger.Error("Failed to refresh order", "order_id", o.state.OrderID, "error", err)
		o.notify(notify.LevelWarning, "Данните на поръчката не са обновени: "+errorMessage(err))
	}
	o.state.LastError = ""
	o.state.LastUpdated = workflow.Now(o.ctx)
	o.notify(level, msg)
	o.publish(t, prev, itemID)
}

func (o *orderRun) reject(msg string) {
	o.logger.Warn("Request rejected", "order_id", o.state.OrderID, "status", o.state.Status, "reason", msg)
	o.state.LastError = msg
	o.state.LastUpdated = workflow.Now(o.ctx)
	o.notify(notify.LevelError, msg)
}

func (o *orderRun) notify(level notify.Level, msg string) {
	n := notify.Notification{Level: level, Message: msg, OrderID: o.state.OrderID}
	if err := workflow.ExecuteActivity(o.notifyCtx, act.NotifyStaff, n).Get(o.ctx, nil); err != nil {
		// Don't fail the workflow if notification fails
		o.logger.Warn("Failed to notify staff", "order_id", o.state.OrderID, "error", err)
	}
}

// publish fixes the event id before the activity runs so retried attempts carry
// the same id and consumers can drop duplicates.
func (o *orderRun) publish(t events.Type, prev models.OrderStatus, itemID string) {
	var id string
	err := workflow.SideEffect(o.ctx, func(workflow.Context) any {
		return uuid.NewString()
	}).Get(&id)
	if err != nil {
		o.logger.Warn("Failed to assign event id", "order_id", o.state.OrderID, "error", err)
		return
	}

	e := events.OrderEvent{
		ID:             id,
		Type:           t,
		OrderID:        o.state.OrderID,
		Status:         string(o.state.Status),
		PreviousStatus: string(prev),
		ItemID:         itemID,
		TotalAmount:    o.state.TotalAmount,
		PaidAmount:     o.state.PaidAmount,
		OccurredAt:     workflow.Now(o.ctx),
	}
	if err := workflow.ExecuteActivity(o.publishCtx, act.PublishOrderEvent, e).Get(o.ctx, nil); err != nil {
		o.logger.Warn("Failed to publish order event", "order_id", o.state.OrderID, "event_type", t, "error", err)
	}
}

// errorMessage returns the innermost application error message, which is the
// text the API or the payment check produced.
func errorMessage(err error) string {
	msg := err.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if appErr, ok := e.(*temporal.ApplicationError); ok && appErr.Message() != "" {
			msg = appErr.Message()
		}
	}
	return msg
}
