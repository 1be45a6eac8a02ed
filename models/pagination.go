package models

// Page is the paginated envelope returned by list endpoints
type Page[T any] struct {
	PageIndex       int  `json:"pageIndex"`
	PageSize        int  `json:"pageSize"`
	Items           []T  `json:"items"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
	TotalCount      int  `json:"totalCount"`
}

// SortDirection orders list results
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// OrderStatusFilter selects orders in a status, optionally on a given date
type OrderStatusFilter struct {
	Status OrderStatus
	Date   string
}

// OrdersFilter is the search/sort/paginate query for order lists
type OrdersFilter struct {
	SearchTerm    string
	SortBy        string
	SortDirection SortDirection
	PageIndex     int
	PageSize      int
	Statuses      []OrderStatusFilter
	PickupDate    string
	DeliveryDate  string
}

// AddressFilter is the search/paginate query for customer addresses
type AddressFilter struct {
	SearchTerm string
	PageIndex  int
	PageSize   int
}
