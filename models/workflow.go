package models

import "time"

// OrderWorkflowInput starts an order workflow: either Create a new order or attach to OrderID.
type OrderWorkflowInput struct {
	OrderID string       `json:"order_id,omitempty"`
	Create  *CreateOrder `json:"create,omitempty"`
}

// ItemWashing identifies an item whose washing is complete
type ItemWashing struct {
	ItemID string `json:"item_id"`
}

// PaymentInput is passed to the payment child workflow
type PaymentInput struct {
	OrderID      string               `json:"order_id"`
	TotalAmount  float64              `json:"total_amount"`
	Confirmation DeliveryConfirmation `json:"confirmation"`
}

// OrderState is the queryable projection held by the order workflow
type OrderState struct {
	OrderID     string      `json:"order_id"`
	Status      OrderStatus `json:"status"`
	IsExpress   bool        `json:"is_express"`
	Order       Order       `json:"order"`
	TotalAmount float64     `json:"total_amount"`
	PaidAmount  float64     `json:"paid_amount"`
	LastError   string      `json:"last_error,omitempty"`
	LastUpdated time.Time   `json:"last_updated"`
}
