package models

// OrderStatus is the single vocabulary for order lifecycle states.
//
// The forward pipeline is:
//
//	new -> pendingPickup -> pickupComplete -> washingInProgress ->
//	washingComplete -> pendingDelivery -> deliveryComplete -> completed
//
// cancelled leaves the pipeline from any state before deliveryComplete.
type OrderStatus string

const (
	OrderStatusNew               OrderStatus = "new"
	OrderStatusPendingPickup     OrderStatus = "pendingPickup"
	OrderStatusPickupComplete    OrderStatus = "pickupComplete"
	OrderStatusWashingInProgress OrderStatus = "washingInProgress"
	OrderStatusWashingComplete   OrderStatus = "washingComplete"
	OrderStatusPendingDelivery   OrderStatus = "pendingDelivery"
	OrderStatusDeliveryComplete  OrderStatus = "deliveryComplete"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

var orderPipeline = []OrderStatus{
	OrderStatusNew,
	OrderStatusPendingPickup,
	OrderStatusPickupComplete,
	OrderStatusWashingInProgress,
	OrderStatusWashingComplete,
	OrderStatusPendingDelivery,
	OrderStatusDeliveryComplete,
	OrderStatusCompleted,
}

// revertTargets lists the only backward moves the logistics screens offer.
var revertTargets = map[OrderStatus]OrderStatus{
	OrderStatusPendingPickup:   OrderStatusNew,
	OrderStatusPickupComplete:  OrderStatusPendingPickup,
	OrderStatusPendingDelivery: OrderStatusWashingComplete,
}

// OrderStatuses returns the pipeline in order followed by cancelled
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, 0, len(orderPipeline)+1)
	out = append(out, orderPipeline...)
	return append(out, OrderStatusCancelled)
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether s belongs to the vocabulary
func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	return s.position() >= 0
}

func (s OrderStatus) position() int {
	for i, st := range orderPipeline {
		if st == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Next returns the following pipeline status
func (s OrderStatus) Next() (OrderStatus, bool) {
	pos := s.position()
	if pos < 0 || pos == len(orderPipeline)-1 {
		return "", false
	}
	return orderPipeline[pos+1], true
}

// CanAdvanceTo reports whether next is the immediate successor of s
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	n, ok := s.Next()
	return ok && n == next
}

// CanRevertTo reports whether the logistics revert from s to prev is allowed
func (s OrderStatus) CanRevertTo(prev OrderStatus) bool {
	target, ok := revertTargets[s]
	return ok && target == prev
}

// RevertTarget returns the status a revert from s lands on
func (s OrderStatus) RevertTarget() (OrderStatus, bool) {
	target, ok := revertTargets[s]
	return target, ok
}

// ItemsEditable reports whether line items may still be added or changed.
// Once washing is complete the item list is frozen.
func (s OrderStatus) ItemsEditable() bool {
	pos := s.position()
	return pos >= 0 && pos < OrderStatusWashingComplete.position()
}

// CanCancel reports whether an order in status s may still be cancelled
func (s OrderStatus) CanCancel() bool {
	pos := s.position()
	return pos >= 0 && pos < OrderStatusDeliveryComplete.position()
}

// DisplayName returns the label shown to staff
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusNew:
		return "Нова"
	case OrderStatusPendingPickup:
		return "Готова за взимане"
	case OrderStatusPickupComplete:
		return "Взета"
	case OrderStatusWashingInProgress:
		return "Пране в процес"
	case OrderStatusWashingComplete:
		return "Пране завършено"
	case OrderStatusPendingDelivery:
		return "Готова за доставка"
	case OrderStatusDeliveryComplete:
		return "Доставена"
	case OrderStatusCompleted:
		return "Завършена"
	case OrderStatusCancelled:
		return "Отказана"
	default:
		return "Неизвестен статус"
	}
}

// OrderItemStatus is the vocabulary for a single line item. It is a separate
// type from OrderStatus even though washingComplete is spelled the same.
type OrderItemStatus string

const (
	OrderItemStatusNew               OrderItemStatus = "new"
	OrderItemStatusWashingInProgress OrderItemStatus = "washingInProgress"
	OrderItemStatusWashingComplete   OrderItemStatus = "washingComplete"
	OrderItemStatusDeleted           OrderItemStatus = "deleted"
)

func (s OrderItemStatus) String() string {
	return string(s)
}

// Valid reports whether s belongs to the vocabulary
func (s OrderItemStatus) Valid() bool {
	switch s {
	case OrderItemStatusNew, OrderItemStatusWashingInProgress,
		OrderItemStatusWashingComplete, OrderItemStatusDeleted:
		return true
	}
	return false
}

// Active reports whether the item still counts towards the order.
// An empty status is treated as new.
func (s OrderItemStatus) Active() bool {
	return s != OrderItemStatusDeleted
}

// CanCompleteWashing reports whether washing can be marked complete
func (s OrderItemStatus) CanCompleteWashing() bool {
	return s == "" || s == OrderItemStatusNew || s == OrderItemStatusWashingInProgress
}

// DisplayName returns the label shown to staff
func (s OrderItemStatus) DisplayName() string {
	switch s {
	case OrderItemStatusNew:
		return "Нова"
	case OrderItemStatusWashingInProgress:
		return "Пране в процес"
	case OrderItemStatusWashingComplete:
		return "Пране завършено"
	case OrderItemStatusDeleted:
		return "Изтрита"
	default:
		return "Неизвестен статус"
	}
}
