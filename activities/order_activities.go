package activities

import (
	"context"
	"errors"
	"fmt"

	"laundry-order-system/apiclient"
	"laundry-order-system/events"
	"laundry-order-system/models"
	"laundry-order-system/notify"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// ErrTypeAPI is the application error type of a request the API rejected
const ErrTypeAPI = "APIError"

// OrderAPI is the part of the remote API the order activities call
type OrderAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateOrder(ctx context.Context, order models.CreateOrder) (string, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, next models.OrderStatus) error
	RevertOrderStatus(ctx context.Context, id string, prev models.OrderStatus) error
	CompleteWashing(ctx context.Context, id string) error
	AddOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) (string, error)
	UpdateOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) error
	CompleteWashingOrderItem(ctx context.Context, orderID, itemID string) error
	AddDeliveryData(ctx context.Context, orderID string, data models.OrderDeliveryData) error
	ConfirmDelivery(ctx context.Context, orderID string, confirm models.OrderDeliveryConfirm) error
}

var _ OrderAPI = (*apiclient.Client)(nil)

// Activities contains all order side effects: API calls, staff notifications and events
type Activities struct {
	api      OrderAPI
	notifier notify.Notifier
	events   events.Publisher
}

// NewActivities creates a new Activities instance
func NewActivities(api OrderAPI, notifier notify.Notifier, publisher events.Publisher) *Activities {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Activities{
		api:      api,
		notifier: notifier,
		events:   publisher,
	}
}

// LoadProducts fetches the product catalogue used for pricing
func (a *Activities) LoadProducts(ctx context.Context) ([]models.Product, error) {
	logger := activity.GetLogger(ctx)

	activity.RecordHeartbeat(ctx, "loading products")
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return nil, apiFailure("failed to load products", err)
	}

	logger.Info("Products loaded", "count", len(products))
	return products, nil
}

// CreateOrder creates a priced order and returns its id
func (a *Activities) CreateOrder(ctx context.Context, order models.CreateOrder) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating order", "pickup_address_id", order.PickupAddressID, "items", len(order.OrderItems))

	activity.RecordHeartbeat(ctx, "creating order")
	id, err := a.api.CreateOrder(ctx, order)
	if err != nil {
		return "", apiFailure("failed to create order", err)
	}

	logger.Info("Order created", "order_id", id)
	return id, nil
}

// FetchOrder re-reads the order projection
func (a *Activities) FetchOrder(ctx context.Context, orderID string) (models.Order, error) {
	activity.RecordHeartbeat(ctx, "fetching order")
	order, err := a.api.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, apiFailure("failed to fetch order "+orderID, err)
	}
	return order, nil
}

// UpdateOrderStatus moves the order forward
func (a *Activities) UpdateOrderStatus(ctx context.Context, orderID string, next models.OrderStatus) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Updating order status", "order_id", orderID, "next_status", next)

	if err := a.api.UpdateOrderStatus(ctx, orderID, next); err != nil {
		return apiFailure("failed to update order status", err)
	}
	return nil
}

// RevertOrderStatus moves the order back
func (a *Activities) RevertOrderStatus(ctx context.Context, orderID string, prev models.OrderStatus) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Reverting order status", "order_id", orderID, "target_status", prev)

	if err := a.api.RevertOrderStatus(ctx, orderID, prev); err != nil {
		return apiFailure("failed to revert order status", err)
	}
	return nil
}

// CompleteWashing marks the whole order as washed
func (a *Activities) CompleteWashing(ctx context.Context, orderID string) error {
	activity.GetLogger(ctx).Info("Completing washing", "order_id", orderID)

	if err := a.api.CompleteWashing(ctx, orderID); err != nil {
		return apiFailure("failed to complete washing", err)
	}
	return nil
}

// AddOrderItem appends a priced line and returns the new item id
func (a *Activities) AddOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Adding order item", "order_id", orderID, "product_id", item.ProductID)

	id, err := a.api.AddOrderItem(ctx, orderID, item)
	if err != nil {
		return "", apiFailure("failed to add order item", err)
	}
	return id, nil
}

// UpdateOrderItem replaces the editable fields of a line
func (a *Activities) UpdateOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Updating order item", "order_id", orderID, "item_id", item.ID, "product_id", item.ProductID)

	if err := a.api.UpdateOrderItem(ctx, orderID, item); err != nil {
		return apiFailure("failed to update order item", err)
	}
	return nil
}

// CompleteWashingOrderItem marks a single line as washed
func (a *Activities) CompleteWashingOrderItem(ctx context.Context, orderID, itemID string) error {
	activity.GetLogger(ctx).Info("Completing item washing", "order_id", orderID, "item_id", itemID)

	if err := a.api.CompleteWashingOrderItem(ctx, orderID, itemID); err != nil {
		return apiFailure("failed to complete item washing", err)
	}
	return nil
}

// AddDeliveryData schedules the delivery
func (a *Activities) AddDeliveryData(ctx context.Context, orderID string, data models.OrderDeliveryData) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Adding delivery data", "order_id", orderID, "delivery_date", data.DeliveryDate, "time_range", data.DeliveryTimeRange)

	if err := a.api.AddDeliveryData(ctx, orderID, data); err != nil {
		return apiFailure("failed to add delivery data", err)
	}
	return nil
}

// NotifyStaff reports an outcome to staff
func (a *Activities) NotifyStaff(ctx context.Context, n notify.Notification) error {
	if a.notifier == nil {
		return nil
	}
	if err := a.notifier.Notify(ctx, n); err != nil {
		activity.GetLogger(ctx).Warn("Failed to notify staff", "order_id", n.OrderID, "error", err)
		return err
	}
	return nil
}

// PublishOrderEvent publishes a lifecycle event and returns its id
func (a *Activities) PublishOrderEvent(ctx context.Context, e events.OrderEvent) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	activity.RecordHeartbeat(ctx, "publishing event")
	if err := a.events.Publish(ctx, e); err != nil {
		return "", fmt.Errorf("failed to publish event: %w", err)
	}

	activity.GetLogger(ctx).Info("Order event published", "order_id", e.OrderID, "event_id", e.ID, "event_type", e.Type)
	return e.ID, nil
}

// apiFailure marks requests the API rejected (4xx) as non-retryable. The
// error carries the API's message as-is so the workflow can show it to staff;
// the status code travels in the details.
func apiFailure(msg string, err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return temporal.NewNonRetryableApplicationError(apiErr.Message, ErrTypeAPI, nil, apiErr.StatusCode)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
