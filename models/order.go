package models

// Order is the client-side projection of an order returned by the remote API
type Order struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	IsExpress bool   `json:"isExpress"`

	CustomerID       string `json:"customerId"`
	CustomerFullName string `json:"customerFullName"`
	PhoneNumber      string `json:"phoneNumber"`

	PickupAddressID string `json:"pickupAddressId"`
	PickupAddress   string `json:"pickupAddress"`
	PickupDate      string `json:"pickupDate,omitempty"`
	PickupTimeRange string `json:"pickupTimeRange,omitempty"`

	DeliveryAddressID string `json:"deliveryAddressId,omitempty"`
	DeliveryAddress   string `json:"deliveryAddress"`
	DeliveryDate      string `json:"deliveryDate,omitempty"`
	DeliveryTimeRange string `json:"deliveryTimeRange"`

	Status OrderStatus `json:"status"`
	Note   string      `json:"note"`

	OrderItems []OrderItem `json:"orderItems"`

	// TotalAmount is always derived from OrderItems, see pricing.OrderTotal.
	TotalAmount float64 `json:"totalAmount"`
}

// OrderItem is one priced service line within an order
type OrderItem struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"productId"`

	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Diagonal *float64 `json:"diagonal,omitempty"`

	Price  float64         `json:"price"`
	Note   string          `json:"note"`
	Amount float64         `json:"amount"`
	Status OrderItemStatus `json:"status,omitempty"`
}

// Draft returns the editable part of the item
func (i OrderItem) Draft() OrderItemDraft {
	return OrderItemDraft{
		ID:        i.ID,
		ProductID: i.ProductID,
		Width:     i.Width,
		Height:    i.Height,
		Diagonal:  i.Diagonal,
		Note:      i.Note,
	}
}

// OrderItemDraft is the raw line-item input as entered by staff.
// Width and Height travel together; Diagonal excludes both.
type OrderItemDraft struct {
	ID        string   `json:"id,omitempty"`
	ProductID string   `json:"productId"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Diagonal  *float64 `json:"diagonal,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// CreateOrder is the payload sent to POST /orders
type CreateOrder struct {
	IsExpress       bool        `json:"isExpress"`
	CustomerID      string      `json:"customerId,omitempty"`
	PickupAddressID string      `json:"pickupAddressId"`
	PickupDate      string      `json:"pickupDate,omitempty"`
	PickupTimeRange string      `json:"pickupTimeRange,omitempty"`
	Note            string      `json:"note"`
	OrderItems      []OrderItem `json:"orderItems"`
	ExpectedCount   int         `json:"expectedCount"`
}

// NormalizeExpectedCount keeps the expected bag count at least as large as the
// number of items already attached. The default expectation is one piece.
func (c *CreateOrder) NormalizeExpectedCount() {
	if c.ExpectedCount == 0 {
		c.ExpectedCount = 1
	}
	if len(c.OrderItems) > c.ExpectedCount {
		c.ExpectedCount = len(c.OrderItems)
	}
}

// OrderDeliveryData schedules the return trip of a washed order
type OrderDeliveryData struct {
	DeliveryAddressID string `json:"deliveryAddressId"`
	DeliveryDate      string `json:"deliveryDate"`
	DeliveryTimeRange string `json:"deliveryTimeRange"`
	DisplayAddress    string `json:"displayAddress,omitempty"`
	Note              string `json:"note,omitempty"`
}

// OrderDeliveryConfirm is the payment-confirmation payload sent on delivery
type OrderDeliveryConfirm struct {
	PaidAmount     float64  `json:"paidAmount"`
	DeliveredItems []string `json:"deliveredItems"`
}

// DeliveryConfirmation is what the courier reports at the door.
// AcceptMismatch must be set to confirm a paid amount that differs from the total.
type DeliveryConfirmation struct {
	PaidAmount     float64  `json:"paid_amount"`
	DeliveredItems []string `json:"delivered_items"`
	AcceptMismatch bool     `json:"accept_mismatch"`
}

// PaymentReconciliation is the outcome of comparing a paid amount with the order total
type PaymentReconciliation struct {
	Expected   float64 `json:"expected"`
	Paid       float64 `json:"paid"`
	Difference float64 `json:"difference"`
	Exact      bool    `json:"exact"`
	Accepted   bool    `json:"accepted"`
}

// StatusChange is the body of the status and status-revert endpoints
type StatusChange struct {
	NextStatus OrderStatus `json:"nextStatus"`
}
