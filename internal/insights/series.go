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
	"time"

	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

// WeeklyPoint aggregates the orders purchased in the week ending on
// WeekEnding (a Sunday).
type WeeklyPoint struct {
	WeekEnding time.Time `json:"week_ending"`
	Orders     int       `json:"orders"`
	Revenue    float64   `json:"revenue"`
}

// WeekEnding returns the Sunday closing the week that contains t.
func WeekEnding(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (7 - int(day.Weekday())) % 7
	return day.AddDate(0, 0, offset)
}

// WeeklySeries buckets rows by purchase week. Weeks between the first and
// last purchase are all present, empty ones with zero figures. Rows
// without a purchase date are skipped.
func WeeklySeries(rows []pipeline.Row) []WeeklyPoint {
	type bucket struct {
		orders  map[string]struct{}
		revenue float64
	}
	buckets := make(map[time.Time]*bucket)
	var first, last time.Time

	for _, r := range rows {
		if !r.PurchaseDate.OK {
			continue
		}
		week := WeekEnding(r.PurchaseDate.Value)
		b, ok := buckets[week]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[week] = b
		}
		if r.OrderID != "" {
			b.orders[r.OrderID] = struct{}{}
		}
		b.revenue += r.Price.Or(0)

		if first.IsZero() || week.Before(first) {
			first = week
		}
		if week.After(last) {
			last = week
		}
	}
	if len(buckets) == 0 {
		return nil
	}

	var out []WeeklyPoint
	for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
		p := WeeklyPoint{WeekEnding: w}
		if b, ok := buckets[w]; ok {
			p.Orders = len(b.orders)
			p.Revenue = b.revenue
		}
		out = append(out, p)
	}
	return out
}
