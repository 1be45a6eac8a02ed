package apiclient

import (
	"context"
	"fmt"
	"net/url"

	"laundry-order-system/models"
)

// ListProducts returns the product catalogue
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.get(ctx, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product
func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := c.get(ctx, "/products/"+url.PathEscape(id), nil, &p)
	return p, err
}

// ListAddresses searches customer addresses
func (c *Client) ListAddresses(ctx context.Context, f models.AddressFilter) (models.Page[models.Address], error) {
	var page models.Page[models.Address]
	err := c.get(ctx, "/addresses", addressQuery(f), &page)
	return page, err
}

// GetAddress returns a single customer address
func (c *Client) GetAddress(ctx context.Context, id string) (models.Address, error) {
	var a models.Address
	err := c.get(ctx, "/addresses/"+url.PathEscape(id), nil, &a)
	return a, err
}

// CreateAddress registers a customer address
func (c *Client) CreateAddress(ctx context.Context, a models.UpdateAddress) (models.Address, error) {
	if err := a.Validate(); err != nil {
		return models.Address{}, err
	}
	var created models.Address
	err := c.post(ctx, "/addresses", a, &created)
	return created, err
}

// CreateOrder creates an order and returns its id
func (c *Client) CreateOrder(ctx context.Context, order models.CreateOrder) (string, error) {
	var id string
	if err := c.post(ctx, "/orders", order, &id); err != nil {
		return "", err
	}
	return id, nil
}

// ListOrders searches, sorts and paginates orders
func (c *Client) ListOrders(ctx context.Context, f models.OrdersFilter) (models.Page[models.Order], error) {
	var page models.Page[models.Order]
	err := c.get(ctx, "/orders", ordersQuery(f), &page)
	return page, err
}

// ListSetupLogisticOrders lists orders waiting for pickup or delivery scheduling
func (c *Client) ListSetupLogisticOrders(ctx context.Context, f models.OrdersFilter) (models.Page[models.Order], error) {
	var page models.Page[models.Order]
	err := c.get(ctx, "/orders/setup-logistic-data", ordersQuery(f), &page)
	return page, err
}

// GetOrder returns a single order
func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := c.get(ctx, orderPath(id), nil, &o)
	return o, err
}

// UpdateOrderStatus moves an order forward
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, next models.OrderStatus) error {
	return c.put(ctx, orderPath(id)+"/status", models.StatusChange{NextStatus: next}, nil)
}

// RevertOrderStatus moves an order back
func (c *Client) RevertOrderStatus(ctx context.Context, id string, prev models.OrderStatus) error {
	return c.put(ctx, orderPath(id)+"/status-revert", models.StatusChange{NextStatus: prev}, nil)
}

// CompleteWashing marks the washing of a whole order as complete
func (c *Client) CompleteWashing(ctx context.Context, id string) error {
	return c.put(ctx, orderPath(id)+"/complete-washing", struct{}{}, nil)
}

// AddOrderItem appends an item and returns its id
func (c *Client) AddOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) (string, error) {
	var id string
	if err := c.post(ctx, orderPath(orderID)+"/order-items", item, &id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateOrderItem replaces the editable fields of an item
func (c *Client) UpdateOrderItem(ctx context.Context, orderID string, item models.OrderItemDraft) error {
	if item.ID == "" {
		return fmt.Errorf("order item id is required")
	}
	return c.put(ctx, orderItemPath(orderID, item.ID), item, nil)
}

// CompleteWashingOrderItem marks the washing of one item as complete
func (c *Client) CompleteWashingOrderItem(ctx context.Context, orderID, itemID string) error {
	return c.put(ctx, orderItemPath(orderID, itemID)+"/complete-washing", struct{}{}, nil)
}

// AddDeliveryData schedules the delivery of an order
func (c *Client) AddDeliveryData(ctx context.Context, orderID string, data models.OrderDeliveryData) error {
	return c.put(ctx, orderPath(orderID)+"/delivery-data", data, nil)
}

// ConfirmDelivery records the payment collected on delivery
func (c *Client) ConfirmDelivery(ctx context.Context, orderID string, confirm models.OrderDeliveryConfirm) error {
	return c.put(ctx, orderPath(orderID)+"/delivery-confirm", confirm, nil)
}

func orderPath(id string) string {
	return "/orders/" + url.PathEscape(id)
}

func orderItemPath(orderID, itemID string) string {
	return orderPath(orderID) + "/order-items/" + url.PathEscape(itemID)
}
