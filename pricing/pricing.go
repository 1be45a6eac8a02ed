// Package pricing turns product prices and line-item sizing into order amounts.
//
// A line is priced per square metre. Rectangles use width × height; round
// items (carpets measured across) use the area of the circle whose diameter is
// the given diagonal: (d/2)² × π. Exactly one sizing mode may be active.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"laundry-order-system/models"
)

var (
	ErrMissingProduct   = errors.New("product selection is required")
	ErrUnknownProduct   = errors.New("product not found in the loaded product list")
	ErrNoSizing         = errors.New("either width and height or a diagonal is required")
	ErrIncompleteSizing = errors.New("width and height must be given together")
	ErrAmbiguousSizing  = errors.New("width/height and diagonal cannot both be set")
	ErrNotPriceable     = errors.New("line cannot be priced")
)

// ValidationError reports an invalid form field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Mode is the sizing mode in effect for a line
type Mode int

const (
	ModeNone Mode = iota
	ModeRectangle
	ModeDiagonal
)

func (m Mode) String() string {
	switch m {
	case ModeRectangle:
		return "rectangle"
	case ModeDiagonal:
		return "diagonal"
	default:
		return "none"
	}
}

// Sizing holds the dimensions of a line; nil means the field was left empty
type Sizing struct {
	Width    *float64
	Height   *float64
	Diagonal *float64
}

// SizingOf extracts the sizing of a draft
func SizingOf(d models.OrderItemDraft) Sizing {
	return Sizing{Width: d.Width, Height: d.Height, Diagonal: d.Diagonal}
}

// Mode returns the sizing mode that takes effect. Positive width and height win
// over a diagonal here; Validate rejects drafts where both are populated.
func (s Sizing) Mode() Mode {
	if isPositive(s.Width) && isPositive(s.Height) {
		return ModeRectangle
	}
	if isPositive(s.Diagonal) {
		return ModeDiagonal
	}
	return ModeNone
}

// Area returns the area in square metres for the active mode, 0 when none
func (s Sizing) Area() float64 {
	switch s.Mode() {
	case ModeRectangle:
		return *s.Width * *s.Height
	case ModeDiagonal:
		r := *s.Diagonal / 2
		return r * r * math.Pi
	default:
		return 0
	}
}

// Validate checks every present dimension and the single-mode rule
func (s Sizing) Validate() error {
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"width", s.Width},
		{"height", s.Height},
		{"diagonal", s.Diagonal},
	} {
		if f.value != nil && !isPositive(f.value) {
			return &ValidationError{Field: f.name, Message: "must be a positive number"}
		}
	}

	rect := s.Width != nil || s.Height != nil
	diag := s.Diagonal != nil
	switch {
	case rect && diag:
		return ErrAmbiguousSizing
	case rect && (s.Width == nil || s.Height == nil):
		return ErrIncompleteSizing
	case !rect && !diag:
		return ErrNoSizing
	}
	return nil
}

// UnitPrice returns the express price when requested and defined, the standard price otherwise
func UnitPrice(p models.Product, isExpress bool) float64 {
	if isExpress && p.ExpressServicePrice != nil {
		return *p.ExpressServicePrice
	}
	return p.Price
}

// ResolveUnitPrice finds productID in products and returns its unit price
func ResolveUnitPrice(products []models.Product, productID string, isExpress bool) (float64, error) {
	if strings.TrimSpace(productID) == "" {
		return 0, ErrMissingProduct
	}
	p, ok := models.FindProduct(products, productID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	return UnitPrice(p, isExpress), nil
}

// Amount prices a sizing at unitPrice. It is 0 when the line is not priceable
// yet or when the dimensions are too large to yield a finite amount.
func Amount(s Sizing, unitPrice float64) float64 {
	if !(unitPrice > 0) || math.IsInf(unitPrice, 0) {
		return 0
	}
	amount := s.Area() * unitPrice
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0
	}
	return amount
}

// ValidateDraft runs every check a line must pass before it can be added
func ValidateDraft(d models.OrderItemDraft) error {
	if strings.TrimSpace(d.ProductID) == "" {
		return ErrMissingProduct
	}
	return SizingOf(d).Validate()
}

// Quote validates a draft and returns the priced line ready to append to an order
func Quote(products []models.Product, d models.OrderItemDraft, isExpress bool) (models.OrderItem, error) {
	if err := ValidateDraft(d); err != nil {
		return models.OrderItem{}, err
	}
	price, err := ResolveUnitPrice(products, d.ProductID, isExpress)
	if err != nil {
		return models.OrderItem{}, err
	}
	amount := Amount(SizingOf(d), price)
	if amount <= 0 {
		return models.OrderItem{}, fmt.Errorf("%w: product %s does not yield a positive finite amount", ErrNotPriceable, d.ProductID)
	}
	return models.OrderItem{
		ID:        d.ID,
		ProductID: d.ProductID,
		Width:     d.Width,
		Height:    d.Height,
		Diagonal:  d.Diagonal,
		Note:      strings.TrimSpace(d.Note),
		Price:     price,
		Amount:    amount,
		Status:    models.OrderItemStatusNew,
	}, nil
}

// OrderTotal sums the amounts of the active items. Non-finite amounts are
// skipped and a sum that overflows saturates at math.MaxFloat64.
func OrderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		if !it.Status.Active() || math.IsInf(it.Amount, 0) || math.IsNaN(it.Amount) {
			continue
		}
		total += it.Amount
	}
	if math.IsInf(total, 0) {
		return math.MaxFloat64
	}
	return total
}

// Reprice recomputes every item of a fetched order from the loaded product list and
// refreshes the order total. Items whose product cannot be resolved are priced at 0.
// It returns the ids (or indexes) of the unresolved items.
func Reprice(order *models.Order, products []models.Product) []string {
	var unresolved []string
	for i := range order.OrderItems {
		it := &order.OrderItems[i]
		price, err := ResolveUnitPrice(products, it.ProductID, order.IsExpress)
		if err != nil {
			it.Price = 0
			it.Amount = 0
			ref := it.ID
			if ref == "" {
				ref = fmt.Sprint(i)
			}
			unresolved = append(unresolved, ref)
			continue
		}
		it.Price = price
		it.Amount = Amount(Sizing{Width: it.Width, Height: it.Height, Diagonal: it.Diagonal}, price)
	}
	order.TotalAmount = OrderTotal(order.OrderItems)
	return unresolved
}

// PrepareCreateOrder prices every draft line of a new order in place and
// normalises the expected piece count. An order needs at least one item.
func PrepareCreateOrder(products []models.Product, c *models.CreateOrder) error {
	if strings.TrimSpace(c.PickupAddressID) == "" {
		return &ValidationError{Field: "pickupAddressId", Message: "pickup address is required"}
	}
	if len(c.OrderItems) == 0 {
		return &ValidationError{Field: "orderItems", Message: "at least one item is required"}
	}
	if c.PickupTimeRange != "" && !models.ValidTimeRange(c.PickupTimeRange) {
		return &ValidationError{Field: "pickupTimeRange", Message: "unknown time range " + c.PickupTimeRange}
	}
	for i, it := range c.OrderItems {
		priced, err := Quote(products, it.Draft(), c.IsExpress)
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		c.OrderItems[i] = priced
	}
	c.NormalizeExpectedCount()
	if c.ExpectedCount <= 0 {
		return &ValidationError{Field: "expectedCount", Message: "must be positive"}
	}
	return nil
}

func isPositive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0) && !math.IsNaN(*v)
}
