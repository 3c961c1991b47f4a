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
	"testing"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/parse"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func syntheticResult() *Result {
	mk := func(id, cat string, purchase time.Time) Row {
		r := Row{OrderID: id, PurchaseDate: parse.Some(purchase)}
		if cat != "" {
			r.Category = parse.Some(cat)
		}
		return r
	}
	return &Result{
		HasPurchaseDate: true,
		Rows: []Row{
			mk("a", "toys", date(2016, 12, 31).Add(23*time.Hour)),
			mk("b", "toys", date(2017, 1, 1)),
			mk("c", "books", date(2017, 1, 15)),
			mk("d", "toys", date(2017, 1, 31).Add(18*time.Hour)),
			mk("e", "books", date(2017, 2, 1)),
			mk("f", "", date(2017, 1, 10)),
			{OrderID: "g", Category: parse.Some("toys")},
		},
	}
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.OrderID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	january := []time.Time{date(2017, 1, 1), date(2017, 1, 31)}

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"no criteria", Criteria{}, []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"empty categories is no filter", Criteria{Categories: []string{}}, []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"toys only", Criteria{Categories: []string{"toys"}}, []string{"a", "b", "d", "g"}},
		{"two categories", Criteria{Categories: []string{"toys", "books"}}, []string{"a", "b", "c", "d", "e", "g"}},
		{"january inclusive", Criteria{DateRange: january}, []string{"b", "c", "d", "f"}},
		{"one endpoint ignored", Criteria{DateRange: january[:1]}, []string{"a", "b", "c", "d", "e", "f", "g"}},
		{"january toys", Criteria{DateRange: january, Categories: []string{"toys"}}, []string{"b", "d"}},
		{"inverted range", Criteria{DateRange: []time.Time{date(2017, 2, 1), date(2017, 1, 1)}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(syntheticResult(), tt.c))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterWithoutPurchaseDateColumn(t *testing.T) {
	res := syntheticResult()
	res.HasPurchaseDate = false

	got := Filter(res, Criteria{DateRange: []time.Time{date(2017, 1, 1), date(2017, 1, 31)}})
	if len(got) != len(res.Rows) {
		t.Errorf("Date range must be ignored without a purchase date column, got %v", ids(got))
	}
}

func TestFilterDoesNotMutate(t *testing.T) {
	res := syntheticResult()
	before := ids(res.Rows)

	out := Filter(res, Criteria{Categories: []string{"books"}})
	if len(out) > 0 {
		out[0].OrderID = "changed"
	}

	if !equalIDs(ids(res.Rows), before) {
		t.Errorf("Master rows changed: %v", ids(res.Rows))
	}
}

func TestFilterRowMapsAreCopies(t *testing.T) {
	res := buildFixture(t)

	view := Filter(res, Criteria{})
	if len(view) != len(res.Rows) {
		t.Fatalf("Expected %d rows, got %d", len(res.Rows), len(view))
	}
	view[0].Attrs[ColCustomerID] = "changed"
	view[0].Measures[ColPrice] = parse.Some(-1.0)
	delete(view[0].Times, ColPurchaseTimestamp)

	master := res.Rows[0]
	if got := master.Attrs[ColCustomerID]; got != "c1" {
		t.Errorf("Master customer_id changed to %q", got)
	}
	if got := master.Measures[ColPrice]; !got.OK || got.Value != 100 {
		t.Errorf("Master price changed to %+v", got)
	}
	if _, ok := master.Times[ColPurchaseTimestamp]; !ok {
		t.Error("Master purchase timestamp was deleted through the view")
	}
}

func TestFilterFixtureCategories(t *testing.T) {
	res := buildFixture(t)

	got := Filter(res, Criteria{Categories: []string{"toys"}})
	for _, r := range got {
		if r.Category.Value != "toys" {
			t.Errorf("Row %s has category %q", r.OrderID, r.Category.Value)
		}
	}
	if len(got) != 3 {
		t.Errorf("Expected 3 toy rows, got %d", len(got))
	}
}
