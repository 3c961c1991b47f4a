//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"maps"
	"time"
)

// Criteria selects a view of the master rows. A zero Criteria selects
// everything.
type Criteria struct {
	// DateRange is applied only when it holds exactly two endpoints. Both
	// are compared by calendar date and are inclusive.
	DateRange []time.Time

	// Categories is applied only when non-empty.
	Categories []string
}

// Filter returns copies of the rows of res matching c. Writes to the
// returned rows, their maps included, never reach res.
func Filter(res *Result, c Criteria) []Row {
	if res.IsEmpty() {
		return nil
	}

	useDates := res.HasPurchaseDate && len(c.DateRange) == 2
	var start, end time.Time
	if useDates {
		start = civilDate(c.DateRange[0])
		end = civilDate(c.DateRange[1])
	}

	var cats map[string]struct{}
	if len(c.Categories) > 0 {
		cats = make(map[string]struct{}, len(c.Categories))
		for _, name := range c.Categories {
			cats[name] = struct{}{}
		}
	}

	out := make([]Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		if useDates {
			if !r.PurchaseDate.OK {
				continue
			}
			d := civilDate(r.PurchaseDate.Value)
			if d.Before(start) || d.After(end) {
				continue
			}
		}
		if cats != nil {
			if !r.Category.OK {
				continue
			}
			if _, ok := cats[r.Category.Value]; !ok {
				continue
			}
		}
		out = append(out, r.clone())
	}
	return out
}

// clone copies r with its own Attrs, Measures and Times maps.
func (r Row) clone() Row {
	r.Attrs = maps.Clone(r.Attrs)
	r.Measures = maps.Clone(r.Measures)
	r.Times = maps.Clone(r.Times)
	return r
}

// civilDate truncates t to midnight UTC of its calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
