package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"laundry-order-system/apiclient"
	"laundry-order-system/models"
	"laundry-order-system/pricing"
)

const listPageSize = 20

// Statuses the logistics list covers; each is filtered to the chosen day.
var logisticStatuses = []models.OrderStatus{
	models.OrderStatusNew,
	models.OrderStatusPendingPickup,
	models.OrderStatusWashingComplete,
	models.OrderStatusPendingDelivery,
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func listProducts(ctx context.Context, api *apiclient.Client, w io.Writer, express bool) error {
	products, err := api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	tw := newTable(w)
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, pricing.ProductName(products, p.ID), pricing.PriceLabel(products, p.ID, express))
	}
	return tw.Flush()
}

func showProduct(ctx context.Context, api *apiclient.Client, w io.Writer, id string, express bool) error {
	p, err := api.GetProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product %s: %w", id, err)
	}
	products := []models.Product{p}
	fmt.Fprintf(w, "%s\t%s\n", p.Name, pricing.PriceLabel(products, p.ID, express))
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	return nil
}

func listOrders(ctx context.Context, api *apiclient.Client, w io.Writer, search, statuses string, page int) error {
	filter, err := parseStatuses(statuses)
	if err != nil {
		return err
	}
	result, err := api.ListOrders(ctx, models.OrdersFilter{
		SearchTerm:    search,
		SortBy:        "createdAt",
		SortDirection: models.SortDesc,
		PageIndex:     page,
		PageSize:      listPageSize,
		Statuses:      filter,
	})
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	return writeOrders(w, result)
}

// logisticsFilter selects the orders whose pickup or delivery still needs arranging on date
func logisticsFilter(date, search string, page int, now time.Time) (models.OrdersFilter, error) {
	if date == "" {
		date = models.FormatDate(now)
	} else if _, err := models.ParseDate(date); err != nil {
		return models.OrdersFilter{}, err
	}

	f := models.OrdersFilter{
		SearchTerm:    search,
		SortDirection: models.SortAsc,
		PageIndex:     page,
		PageSize:      100,
	}
	for _, s := range logisticStatuses {
		f.Statuses = append(f.Statuses, models.OrderStatusFilter{Status: s, Date: date})
	}
	return f, nil
}

func listLogistics(ctx context.Context, api *apiclient.Client, w io.Writer, date, search string, page int) error {
	filter, err := logisticsFilter(date, search, page, time.Now())
	if err != nil {
		return err
	}
	result, err := api.ListSetupLogisticOrders(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list logistic orders: %w", err)
	}
	return writeOrders(w, result)
}

func writeOrders(w io.Writer, result models.Page[models.Order]) error {
	tw := newTable(w)
	for _, o := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.CustomerFullName, o.Status.DisplayName(), o.PickupDate, pricing.FormatMoney(o.TotalAmount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d/%d, %d order(s)\n", result.PageIndex+1, max(result.TotalPages, 1), result.TotalCount)
	return err
}

func listCustomers(ctx context.Context, api *apiclient.Client, w io.Writer, search string, page int) error {
	result, err := api.ListAddresses(ctx, models.AddressFilter{SearchTerm: search, PageIndex: page, PageSize: listPageSize})
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}
	tw := newTable(w)
	for _, a := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.UserFullName, a.PhoneNumber, a.DisplayAddress)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "page %d/%d, %d customer(s)\n", result.PageIndex+1, max(result.TotalPages, 1), result.TotalCount)
	return err
}

func showCustomer(ctx context.Context, api *apiclient.Client, w io.Writer, id string) error {
	a, err := api.GetAddress(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s\n", a.UserFullName, a.PhoneNumber, a.DisplayAddress)
	return err
}

func customerPayload(name, phone, address, userID string) models.UpdateAddress {
	return models.UpdateAddress{
		UserID:         strings.TrimSpace(userID),
		UserFullName:   strings.TrimSpace(name),
		PhoneNumber:    strings.ReplaceAll(strings.TrimSpace(phone), " ", ""),
		DisplayAddress: strings.TrimSpace(address),
	}
}

func registerCustomer(ctx context.Context, api *apiclient.Client, w io.Writer, a models.UpdateAddress) error {
	created, err := api.CreateAddress(ctx, a)
	if err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}
	_, err = fmt.Fprintf(w, "Registered %s (%s), address id %s\n", created.UserFullName, created.PhoneNumber, created.ID)
	return err
}

// setFlags reports which flags were given on the command line
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// quoteDraft keeps every dimension the user passed, even zero or negative
// ones, so that validation can name the offending field.
func quoteDraft(productID string, set map[string]bool, width, height, diagonal float64) models.OrderItemDraft {
	d := models.OrderItemDraft{ProductID: productID}
	if set["width"] {
		d.Width = &width
	}
	if set["height"] {
		d.Height = &height
	}
	if set["diagonal"] {
		d.Diagonal = &diagonal
	}
	return d
}

func quoteItem(ctx context.Context, api *apiclient.Client, w io.Writer, draft models.OrderItemDraft, express bool) error {
	if err := pricing.ValidateDraft(draft); err != nil {
		return fmt.Errorf("cannot quote item: %w", err)
	}
	p, err := api.GetProduct(ctx, draft.ProductID)
	if err != nil {
		return fmt.Errorf("failed to get product %s: %w", draft.ProductID, err)
	}
	products := []models.Product{p}
	item, err := pricing.Quote(products, draft, express)
	if err != nil {
		return fmt.Errorf("cannot quote item: %w", err)
	}
	_, err = fmt.Fprintln(w, describeQuote(products, item))
	return err
}

func describeQuote(products []models.Product, item models.OrderItem) string {
	var b strings.Builder
	b.WriteString(pricing.ProductName(products, item.ProductID))
	switch {
	case item.Diagonal != nil:
		fmt.Fprintf(&b, ", диагонал %s м", pricing.FormatAmount(*item.Diagonal))
	case item.Width != nil && item.Height != nil:
		fmt.Fprintf(&b, ", %s x %s м", pricing.FormatAmount(*item.Width), pricing.FormatAmount(*item.Height))
	}
	fmt.Fprintf(&b, ": %s x %s = %s", pricing.FormatAmount(pricing.SizingOf(item.Draft()).Area()), pricing.FormatMoney(item.Price), pricing.FormatMoney(item.Amount))
	return b.String()
}
