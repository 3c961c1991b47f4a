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
	"math/rand/v2"
	"strings"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/parse"
)

const (
	noGeoDataset = "No geolocation dataset found"
	noGeoColumns = "No latitude/longitude columns found in geolocation dataset"
)

// GeoPoint is one sampled location.
type GeoPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// GeoReport is a sample of distinct geolocation points.
type GeoReport struct {
	LatColumn string     `json:"lat_column,omitempty"`
	LngColumn string     `json:"lng_column,omitempty"`
	Points    []GeoPoint `json:"points"`
	Note      string     `json:"note,omitempty"`
}

// GeoSample picks up to limit distinct (lat, lng) points from geo using a
// seeded shuffle. Latitude is the first column named like "lat";
// longitude the first named like "lon" or "lng". The label is the
// table's first column.
func GeoSample(geo *dataset.Table, limit int, seed uint64) GeoReport {
	if geo.IsEmpty() {
		return GeoReport{Note: noGeoDataset}
	}

	var latCol, lngCol string
	for _, c := range geo.Columns {
		lc := strings.ToLower(c)
		if latCol == "" && strings.Contains(lc, "lat") {
			latCol = c
		}
		if lngCol == "" && (strings.Contains(lc, "lon") || strings.Contains(lc, "lng")) {
			lngCol = c
		}
	}
	if latCol == "" || lngCol == "" {
		return GeoReport{Note: noGeoColumns}
	}

	type key struct{ lat, lng float64 }
	seen := make(map[key]struct{})
	var points []GeoPoint
	for i := 0; i < geo.Len(); i++ {
		lat := parse.Float(geo.Get(i, latCol))
		lng := parse.Float(geo.Get(i, lngCol))
		if !lat.OK || !lng.OK {
			continue
		}
		k := key{lat.Value, lng.Value}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		points = append(points, GeoPoint{
			Lat:   lat.Value,
			Lng:   lng.Value,
			Label: geo.Get(i, geo.Columns[0]),
		})
	}

	report := GeoReport{LatColumn: latCol, LngColumn: lngCol}
	if limit <= 0 || len(points) <= limit {
		report.Points = points
		return report
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })
	report.Points = points[:limit]
	return report
}
