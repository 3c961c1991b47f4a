//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package insights computes the dashboard figures (KPIs, weekly series,
// top products and sellers, review and delivery distributions, a
// geolocation sample) from a filtered view of the master rows.
package insights

import (
	"time"

	"github.com/pgEdge/pgedge-olist/internal/parse"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

// Capabilities lists optional enhancements, resolved once at startup and
// handed to every consumer.
type Capabilities struct {
	// Trendline enables the least-squares fit over delivery performance.
	Trendline bool `json:"trendline"`
}

// Options tunes the dashboard computation.
type Options struct {
	Capabilities Capabilities

	TopProducts int
	TopSellers  int

	GeoLimit int
	GeoSeed  uint64
}

// DefaultOptions returns the limits used by the dashboard.
func DefaultOptions() Options {
	return Options{
		Capabilities: Capabilities{Trendline: true},
		TopProducts:  15,
		TopSellers:   10,
		GeoLimit:     1000,
		GeoSeed:      42,
	}
}

// Dashboard is every figure of one filtered view.
type Dashboard struct {
	Filters     Filters          `json:"filters"`
	KPIs        KPIs             `json:"kpis"`
	Weekly      []WeeklyPoint    `json:"weekly"`
	TopProducts []ProductRevenue `json:"top_products"`
	TopSellers  []SellerRevenue  `json:"top_sellers"`
	Reviews     []ScoreCount     `json:"reviews"`
	Delivery    DeliveryReport   `json:"delivery"`
	Geo         GeoReport        `json:"geo"`
	Rows        int              `json:"rows"`
	Notes       []string         `json:"notes,omitempty"`
}

// Filters describes the selection a dashboard was computed for, along
// with the choices available to the caller.
type Filters struct {
	Start             parse.Maybe[time.Time] `json:"start"`
	End               parse.Maybe[time.Time] `json:"end"`
	Categories        []string               `json:"categories"`
	AvailableFrom     parse.Maybe[time.Time] `json:"available_from"`
	AvailableTo       parse.Maybe[time.Time] `json:"available_to"`
	CategoryOptions   []string               `json:"category_options"`
	DefaultCategories []string               `json:"default_categories"`
}

// DefaultCategoryCount is how many categories are preselected.
const DefaultCategoryCount = 6

// Build filters res with c and computes the dashboard figures.
func Build(res *pipeline.Result, c pipeline.Criteria, opts Options) *Dashboard {
	rows := pipeline.Filter(res, c)

	d := &Dashboard{
		Filters: describeFilters(res, c),
		Rows:    len(rows),
	}
	if res.IsEmpty() {
		d.Notes = append(d.Notes, "Data not found or datasets are empty")
		return d
	}

	d.KPIs = ComputeKPIs(rows)
	d.Weekly = WeeklySeries(rows)
	d.TopProducts = TopProducts(res, rows, opts.TopProducts)
	d.TopSellers = TopSellers(res, rows, opts.TopSellers)
	if res.Source != nil {
		d.Reviews = ReviewDistribution(res.Source.Reviews)
		d.Geo = GeoSample(res.Source.Geolocation, opts.GeoLimit, opts.GeoSeed)
	} else {
		d.Geo = GeoReport{Note: noGeoDataset}
	}
	d.Delivery = DeliveryPerformance(rows, opts.Capabilities)

	if d.Delivery.Note != "" {
		d.Notes = append(d.Notes, d.Delivery.Note)
	}
	if d.Geo.Note != "" {
		d.Notes = append(d.Notes, d.Geo.Note)
	}
	return d
}

func describeFilters(res *pipeline.Result, c pipeline.Criteria) Filters {
	f := Filters{Categories: c.Categories}
	if len(c.DateRange) == 2 {
		f.Start = parse.Some(c.DateRange[0])
		f.End = parse.Some(c.DateRange[1])
	}
	if res.IsEmpty() {
		return f
	}
	f.AvailableFrom, f.AvailableTo = DateBounds(res.Rows)
	f.CategoryOptions = CategoryOptions(res.Rows)
	f.DefaultCategories = DefaultCategories(f.CategoryOptions, DefaultCategoryCount)
	return f
}
