package workflows_test

import (
	"context"
	"fmt"
	"sync"

	"laundry-order-system/apiclient"
	"laundry-order-system/events"
	"laundry-order-system/models"
)

// fakeAPI is an in-memory stand-in for the back-office API
type fakeAPI struct {
	mu       sync.Mutex
	products []models.Product
	orders   map[string]*models.Order
	nextID   int
	paid     map[string]models.OrderDeliveryConfirm
	created  []models.CreateOrder
}

func newFakeAPI() *fakeAPI {
	express := 12.0
	return &fakeAPI{
		products: []models.Product{
			{ID: "machine", Name: "Машинно пране", Price: 7.90},
			{ID: "hand", Name: "Ръчно пране", Price: 10.00, ExpressServicePrice: &express},
		},
		orders: map[string]*models.Order{},
		paid:   map[string]models.OrderDeliveryConfirm{},
	}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeAPI) seed(o models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = &o
}

func (f *fakeAPI) order(id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, &apiclient.APIError{StatusCode: 404, Message: "Order not found"}
	}
	return o, nil
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeAPI) CreateOrder(_ context.Context, c models.CreateOrder) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, c)

	o := &models.Order{
		ID:              f.id("order"),
		IsExpress:       c.IsExpress,
		PickupAddressID: c.PickupAddressID,
		PickupDate:      c.PickupDate,
		PickupTimeRange: c.PickupTimeRange,
		Status:          models.OrderStatusNew,
		Note:            c.Note,
	}
	for _, it := range c.OrderItems {
		it.ID = f.id("item")
		it.Status = models.OrderItemStatusNew
		o.OrderItems = append(o.OrderItems, it)
	}
	f.orders[o.ID] = o
	return o.ID, nil
}

func (f *fakeAPI) GetOrder(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(id)
	if err != nil {
		return models.Order{}, err
	}
	cp := *o
	cp.OrderItems = append([]models.OrderItem(nil), o.OrderItems...)
	return cp, nil
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id string, next models.OrderStatus) error {
	return f.setStatus(id, next)
}

func (f *fakeAPI) RevertOrderStatus(_ context.Context, id string, prev models.OrderStatus) error {
	return f.setStatus(id, prev)
}

func (f *fakeAPI) CompleteWashing(_ context.Context, id string) error {
	return f.setStatus(id, models.OrderStatusWashingComplete)
}

func (f *fakeAPI) setStatus(id string, s models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(id)
	if err != nil {
		return err
	}
	o.Status = s
	return nil
}

func (f *fakeAPI) AddOrderItem(_ context.Context, orderID string, d models.OrderItemDraft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(orderID)
	if err != nil {
		return "", err
	}
	id := f.id("item")
	o.OrderItems = append(o.OrderItems, models.OrderItem{
		ID:        id,
		ProductID: d.ProductID,
		Width:     d.Width,
		Height:    d.Height,
		Diagonal:  d.Diagonal,
		Note:      d.Note,
		Status:    models.OrderItemStatusNew,
	})
	return id, nil
}

func (f *fakeAPI) UpdateOrderItem(_ context.Context, orderID string, d models.OrderItemDraft) error {
	return f.updateItem(orderID, d.ID, func(it *models.OrderItem) {
		it.ProductID = d.ProductID
		it.Width, it.Height, it.Diagonal = d.Width, d.Height, d.Diagonal
		it.Note = d.Note
	})
}

func (f *fakeAPI) CompleteWashingOrderItem(_ context.Context, orderID, itemID string) error {
	return f.updateItem(orderID, itemID, func(it *models.OrderItem) {
		it.Status = models.OrderItemStatusWashingComplete
	})
}

func (f *fakeAPI) updateItem(orderID, itemID string, fn func(*models.OrderItem)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(orderID)
	if err != nil {
		return err
	}
	for i := range o.OrderItems {
		if o.OrderItems[i].ID == itemID {
			fn(&o.OrderItems[i])
			return nil
		}
	}
	return &apiclient.APIError{StatusCode: 404, Message: "Order item not found"}
}

func (f *fakeAPI) AddDeliveryData(_ context.Context, orderID string, data models.OrderDeliveryData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(orderID)
	if err != nil {
		return err
	}
	o.DeliveryAddressID = data.DeliveryAddressID
	o.DeliveryDate = data.DeliveryDate
	o.DeliveryTimeRange = data.DeliveryTimeRange
	o.Status = models.OrderStatusPendingDelivery
	return nil
}

func (f *fakeAPI) ConfirmDelivery(_ context.Context, orderID string, confirm models.OrderDeliveryConfirm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, err := f.order(orderID)
	if err != nil {
		return err
	}
	f.paid[orderID] = confirm
	o.Status = models.OrderStatusDeliveryComplete
	return nil
}

func (f *fakeAPI) status(id string) models.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Type
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
