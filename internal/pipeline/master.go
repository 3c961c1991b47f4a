//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline joins the raw Olist tables into one denormalized row per
// order item, derives delivery metrics and display identifiers, and filters
// the result for presentation.
package pipeline

import (
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/logging"
	"github.com/pgEdge/pgedge-olist/internal/parse"
)

// Source column names used by the join.
const (
	ColOrderID           = "order_id"
	ColOrderItemID       = "order_item_id"
	ColProductID         = "product_id"
	ColSellerID          = "seller_id"
	ColCustomerID        = "customer_id"
	ColOrderStatus       = "order_status"
	ColPrice             = "price"
	ColFreight           = "freight_value"
	ColPaymentValue      = "payment_value"
	ColCategory          = "product_category_name"
	ColPurchaseTimestamp = "order_purchase_timestamp"
	ColEstimatedDelivery = "order_estimated_delivery_date"
	ColDeliveredCustomer = "order_delivered_customer_date"
)

// Derived column names.
const (
	ColPurchaseDate      = "purchase_date"
	ColEstimated         = "estimated_delivery"
	ColDeliveredDate     = "delivered_date"
	ColDeliveryDeltaDays = "delivery_delta_days"
	ColProductShortID    = "product_short_id"
	ColSellerShortID     = "seller_short_id"
)

var (
	numericMarkers  = []string{"price", "freight", "value"}
	temporalMarkers = []string{"timestamp", "date"}
)

// Row is one order item joined with its order, product category and
// aggregated payment.
type Row struct {
	OrderID     string
	OrderItemID string
	ProductID   string
	SellerID    string
	CustomerID  string
	OrderStatus string

	Category     parse.Maybe[string]
	Price        parse.Maybe[float64]
	Freight      parse.Maybe[float64]
	PaymentValue parse.Maybe[float64]

	PurchaseDate      parse.Maybe[time.Time]
	EstimatedDelivery parse.Maybe[time.Time]
	DeliveredDate     parse.Maybe[time.Time]

	// DeliveryDeltaDays is delivered minus estimated; negative means the
	// order arrived before the estimate.
	DeliveryDeltaDays parse.Maybe[int]

	ProductShortID string
	SellerShortID  string

	// OrderMatched is false when the item's order_id has no order row.
	OrderMatched bool

	// Attrs holds every non-empty raw cell of the joined source rows.
	Attrs map[string]string

	// Measures holds the numeric coercion of item columns named like
	// price, freight or value.
	Measures map[string]parse.Maybe[float64]

	// Times holds the parse of order columns named like timestamp or date.
	Times map[string]parse.Maybe[time.Time]
}

// Result is the output of one derivation pass.
type Result struct {
	Rows []Row

	// Columns lists the joined raw columns in output order.
	Columns []string

	// HasPurchaseDate reports whether the orders carried a purchase
	// timestamp column, which enables date filtering.
	HasPurchaseDate bool

	ProductIDs *ShortIDs
	SellerIDs  *ShortIDs

	// Products and Sellers are copies of the reference tables with a
	// short id column added when the key column is present.
	Products *dataset.Table
	Sellers  *dataset.Table

	Source *dataset.Dataset
}

// IsEmpty reports whether no master rows were produced.
func (r *Result) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// Build derives the master rows from a loaded dataset. Empty orders or
// order items yield an empty result; missing columns read as absent.
func Build(ds *dataset.Dataset) *Result {
	res := &Result{
		Source:   ds,
		Products: ds.Products,
		Sellers:  ds.Sellers,
	}
	if ds.Orders.IsEmpty() || ds.OrderItems.IsEmpty() {
		logging.Warn().
			Int("orders", ds.Orders.Len()).
			Int("order_items", ds.OrderItems.Len()).
			Msg("Orders or order items are empty; no master rows")
		return res
	}

	items := ds.OrderItems
	orders := ds.Orders

	orderIdx := firstIndex(orders, ColOrderID)
	categories := productCategories(ds.Products)
	payments := AggregatePayments(ds.Payments)

	itemNumeric := items.ColumnsContaining(numericMarkers...)
	orderTemporal := orders.ColumnsContaining(temporalMarkers...)
	res.Columns = joinedColumns(items, orders)
	res.HasPurchaseDate = orders.Has(ColPurchaseTimestamp)

	res.Rows = make([]Row, 0, items.Len())
	for i := range items.Rows {
		row := Row{
			OrderID:     items.Get(i, ColOrderID),
			OrderItemID: items.Get(i, ColOrderItemID),
			ProductID:   items.Get(i, ColProductID),
			SellerID:    items.Get(i, ColSellerID),
			Attrs:       items.Record(i),
			Measures:    make(map[string]parse.Maybe[float64], len(itemNumeric)),
			Times:       make(map[string]parse.Maybe[time.Time], len(orderTemporal)),
		}
		for _, c := range itemNumeric {
			row.Measures[c] = parse.Float(items.Get(i, c))
		}
		row.Price = row.Measures[ColPrice]
		row.Freight = row.Measures[ColFreight]

		if j, ok := orderIdx[row.OrderID]; ok && row.OrderID != "" {
			row.OrderMatched = true
			for c, v := range orders.Record(j) {
				if _, taken := row.Attrs[c]; !taken {
					row.Attrs[c] = v
				}
			}
			row.CustomerID = orders.Get(j, ColCustomerID)
			row.OrderStatus = orders.Get(j, ColOrderStatus)
			for _, c := range orderTemporal {
				row.Times[c] = parse.Time(orders.Get(j, c))
			}
		} else {
			for _, c := range orderTemporal {
				row.Times[c] = parse.Missing[time.Time]()
			}
		}

		if cat, ok := categories[row.ProductID]; ok {
			row.Category = cat
			if cat.OK {
				row.Attrs[ColCategory] = cat.Value
			}
		}
		if p, ok := payments[row.OrderID]; ok {
			row.PaymentValue = p
			if p.OK {
				row.Attrs[ColPaymentValue] = strconv.FormatFloat(p.Value, 'f', -1, 64)
			}
		}

		row.PurchaseDate = row.Times[ColPurchaseTimestamp]
		row.EstimatedDelivery = row.Times[ColEstimatedDelivery]
		row.DeliveredDate = row.Times[ColDeliveredCustomer]
		row.DeliveryDeltaDays = parse.DaysBetween(row.EstimatedDelivery, row.DeliveredDate)

		res.Rows = append(res.Rows, row)
	}

	assignShortIDs(res)

	logging.Info().
		Int("rows", len(res.Rows)).
		Int("products", res.ProductIDs.Len()).
		Int("sellers", res.SellerIDs.Len()).
		Msg("Built master table")

	return res
}

// AggregatePayments sums payment_value per order_id, skipping values that
// are not numeric.
func AggregatePayments(payments *dataset.Table) map[string]parse.Maybe[float64] {
	grouped := make(map[string][]parse.Maybe[float64])
	if !payments.Has(ColOrderID) {
		return map[string]parse.Maybe[float64]{}
	}
	for i := range payments.Rows {
		id := payments.Get(i, ColOrderID)
		if id == "" {
			continue
		}
		grouped[id] = append(grouped[id], parse.Float(payments.Get(i, ColPaymentValue)))
	}

	out := make(map[string]parse.Maybe[float64], len(grouped))
	for id, values := range grouped {
		out[id] = parse.Sum(values)
	}
	return out
}

// productCategories maps product_id to its category name; the first row
// for a product wins.
func productCategories(products *dataset.Table) map[string]parse.Maybe[string] {
	out := make(map[string]parse.Maybe[string])
	if !products.Has(ColProductID) {
		return out
	}
	for i := range products.Rows {
		id := products.Get(i, ColProductID)
		if id == "" {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = parse.String(products.Get(i, ColCategory))
		}
	}
	return out
}

// firstIndex maps each non-empty key of column to its first row.
func firstIndex(t *dataset.Table, column string) map[string]int {
	idx := make(map[string]int, t.Len())
	if !t.Has(column) {
		return idx
	}
	for i := range t.Rows {
		k := t.Get(i, column)
		if k == "" {
			continue
		}
		if _, seen := idx[k]; !seen {
			idx[k] = i
		}
	}
	return idx
}

func joinedColumns(items, orders *dataset.Table) []string {
	seen := make(map[string]bool)
	var cols []string
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, c := range items.Columns {
		add(c)
	}
	for _, c := range orders.Columns {
		add(c)
	}
	add(ColCategory)
	add(ColPaymentValue)
	return cols
}

func assignShortIDs(res *Result) {
	productKeys := make([]string, len(res.Rows))
	sellerKeys := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		productKeys[i] = r.ProductID
		sellerKeys[i] = r.SellerID
	}
	res.ProductIDs = NewShortIDs(ProductPrefix, productKeys)
	res.SellerIDs = NewShortIDs(SellerPrefix, sellerKeys)

	for i := range res.Rows {
		res.Rows[i].ProductShortID, _ = res.ProductIDs.Lookup(res.Rows[i].ProductID)
		res.Rows[i].SellerShortID, _ = res.SellerIDs.Lookup(res.Rows[i].SellerID)
	}

	if !res.Products.IsEmpty() && res.Products.Has(ColProductID) {
		res.Products = res.Products.WithColumn(ColProductShortID,
			res.ProductIDs.Apply(res.Products.Column(ColProductID)))
	}
	if !res.Sellers.IsEmpty() && res.Sellers.Has(ColSellerID) {
		res.Sellers = res.Sellers.WithColumn(ColSellerShortID,
			res.SellerIDs.Apply(res.Sellers.Column(ColSellerID)))
	}
}
