package models

// Product is a cleaning service offering priced per square metre
type Product struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Price               float64  `json:"price"`
	ExpressServicePrice *float64 `json:"expressServicePrice,omitempty"`
	OrderBy             int      `json:"orderBy"`
	Description         string   `json:"description"`
}

// FindProduct looks a product up by id in a loaded product list
func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
