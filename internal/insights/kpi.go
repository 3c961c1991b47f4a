//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package insights

import (
	"sort"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/parse"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

// KPIs are the headline figures of a view.
type KPIs struct {
	Orders           int                  `json:"orders"`
	Revenue          float64              `json:"revenue"`
	UniqueCustomers  int                  `json:"unique_customers"`
	AvgDeliveryDelta parse.Maybe[float64] `json:"avg_delivery_delta_days"`
}

// ComputeKPIs counts distinct orders and customers, sums revenue and
// averages the delivery delta. Revenue is the item price sum, or the
// payment sum when no row carries a price column.
func ComputeKPIs(rows []pipeline.Row) KPIs {
	orders := make(map[string]struct{})
	customers := make(map[string]struct{})
	prices := make([]parse.Maybe[float64], 0, len(rows))
	payments := make([]parse.Maybe[float64], 0, len(rows))
	deltas := make([]parse.Maybe[float64], 0, len(rows))
	hasPrice := false

	for _, r := range rows {
		if r.OrderID != "" {
			orders[r.OrderID] = struct{}{}
		}
		if r.CustomerID != "" {
			customers[r.CustomerID] = struct{}{}
		}
		if _, ok := r.Measures[pipeline.ColPrice]; ok {
			hasPrice = true
		}
		prices = append(prices, r.Price)
		payments = append(payments, r.PaymentValue)
		if r.DeliveryDeltaDays.OK {
			deltas = append(deltas, parse.Some(float64(r.DeliveryDeltaDays.Value)))
		}
	}

	revenue := parse.Sum(prices)
	if !hasPrice {
		revenue = parse.Sum(payments)
	}

	return KPIs{
		Orders:           len(orders),
		Revenue:          revenue.Or(0),
		UniqueCustomers:  len(customers),
		AvgDeliveryDelta: parse.Mean(deltas),
	}
}

// CategoryOptions returns the distinct non-missing categories, sorted.
func CategoryOptions(rows []pipeline.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if r.Category.OK {
			seen[r.Category.Value] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// DefaultCategories returns the first n options.
func DefaultCategories(options []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(options) < n {
		n = len(options)
	}
	return append([]string(nil), options[:n]...)
}

// DateBounds returns the earliest and latest purchase dates.
func DateBounds(rows []pipeline.Row) (first, last parse.Maybe[time.Time]) {
	for _, r := range rows {
		if !r.PurchaseDate.OK {
			continue
		}
		t := r.PurchaseDate.Value
		if !first.OK || t.Before(first.Value) {
			first = parse.Some(t)
		}
		if !last.OK || t.After(last.Value) {
			last = parse.Some(t)
		}
	}
	return first, last
}
