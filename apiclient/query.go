package apiclient

import (
	"fmt"
	"net/url"
	"strconv"

	"laundry-order-system/models"
)

// ordersQuery encodes an OrdersFilter with the nested key style the API binds:
// filter.statuses[0].status=new&filter.pickupDate=2026-10-18
func ordersQuery(f models.OrdersFilter) url.Values {
	q := url.Values{}
	setIfNotEmpty(q, "searchTerm", f.SearchTerm)
	setIfNotEmpty(q, "sortBy", f.SortBy)
	setIfNotEmpty(q, "sortDirection", string(f.SortDirection))
	q.Set("pageIndex", strconv.Itoa(f.PageIndex))
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	for i, s := range f.Statuses {
		prefix := fmt.Sprintf("filter.statuses[%d].", i)
		q.Set(prefix+"status", string(s.Status))
		setIfNotEmpty(q, prefix+"date", s.Date)
	}
	setIfNotEmpty(q, "filter.pickupDate", f.PickupDate)
	setIfNotEmpty(q, "filter.deliveryDate", f.DeliveryDate)
	return q
}

func addressQuery(f models.AddressFilter) url.Values {
	q := url.Values{}
	q.Set("searchTerm", f.SearchTerm)
	q.Set("pageIndex", strconv.Itoa(f.PageIndex))
	size := f.PageSize
	if size <= 0 {
		size = 10
	}
	q.Set("pageSize", strconv.Itoa(size))
	return q
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
