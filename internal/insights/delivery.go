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

	"github.com/pgEdge/pgedge-olist/internal/parse"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

const (
	noteTrendDisabled = "Trend line disabled; showing delivery points only"
	noteTrendTooFew   = "Not enough distinct delivery deltas to fit a trend line"
)

// OrderDelivery is one order's delivery delta against its value.
type OrderDelivery struct {
	OrderID   string               `json:"order_id"`
	DeltaDays parse.Maybe[float64] `json:"delta_days"`
	Value     float64              `json:"value"`
}

// Trend is an ordinary least-squares fit of value on delta days.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"n"`
}

// DeliveryReport is the delivery performance scatter with its optional
// trend.
type DeliveryReport struct {
	Points []OrderDelivery `json:"points"`
	Trend  *Trend          `json:"trend,omitempty"`
	Note   string          `json:"note,omitempty"`
}

// DeliveryPerformance groups rows per order, averaging the delivery delta
// and summing price. The trend is fitted only when caps allows it.
func DeliveryPerformance(rows []pipeline.Row, caps Capabilities) DeliveryReport {
	type acc struct {
		deltas []parse.Maybe[float64]
		value  float64
	}
	groups := make(map[string]*acc)
	for _, r := range rows {
		if r.OrderID == "" {
			continue
		}
		a, ok := groups[r.OrderID]
		if !ok {
			a = &acc{}
			groups[r.OrderID] = a
		}
		if r.DeliveryDeltaDays.OK {
			a.deltas = append(a.deltas, parse.Some(float64(r.DeliveryDeltaDays.Value)))
		}
		a.value += r.Price.Or(0)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := DeliveryReport{Points: make([]OrderDelivery, 0, len(ids))}
	var xs, ys []float64
	for _, id := range ids {
		a := groups[id]
		p := OrderDelivery{OrderID: id, DeltaDays: parse.Mean(a.deltas), Value: a.value}
		report.Points = append(report.Points, p)
		if p.DeltaDays.OK {
			xs = append(xs, p.DeltaDays.Value)
			ys = append(ys, p.Value)
		}
	}

	if !caps.Trendline {
		report.Note = noteTrendDisabled
		return report
	}
	if t, ok := FitLine(xs, ys); ok {
		report.Trend = &t
	} else if len(report.Points) > 0 {
		report.Note = noteTrendTooFew
	}
	return report
}

// FitLine fits y = slope*x + intercept by least squares. It fails when
// fewer than two points are given or all x are equal.
func FitLine(xs, ys []float64) (Trend, bool) {
	n := len(xs)
	if n < 2 || len(ys) != n {
		return Trend{}, false
	}

	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx, my := sx/float64(n), sy/float64(n)

	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return Trend{}, false
	}

	slope := sxy / sxx
	t := Trend{
		Slope:     slope,
		Intercept: my - slope*mx,
		N:         n,
		RSquared:  1,
	}
	if syy != 0 {
		t.RSquared = (sxy * sxy) / (sxx * syy)
	}
	return t, true
}
