//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/insights"
	"github.com/pgEdge/pgedge-olist/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := testutil.WriteOlistFixture(t, t.TempDir())
	s := New(dataset.NewLoader(dir, nil), insights.DefaultOptions())
	if err := s.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return s, dir
}

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["loaded"] != true {
		t.Errorf("Expected loaded true, got %v", body["loaded"])
	}
}

func TestKPIs(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name       string
		target     string
		wantOrders int
		wantRev    float64
	}{
		{"all", "/api/kpis", 5, 300},
		{"toys", "/api/kpis?category=toys", 3, 200},
		{"comma list", "/api/kpis?category=toys,electronics", 4, 280},
		{"january", "/api/kpis?start=2017-01-01&end=2017-01-31", 2, 250},
		{"single endpoint ignored", "/api/kpis?start=2017-03-01", 5, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s.Handler(), http.MethodGet, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var k insights.KPIs
			decode(t, rec, &k)
			if k.Orders != tt.wantOrders || k.Revenue != tt.wantRev {
				t.Errorf("Expected %d orders / %v revenue, got %d / %v",
					tt.wantOrders, tt.wantRev, k.Orders, k.Revenue)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{
		"/api/kpis?start=2017-13-01&end=2017-12-31",
		"/api/dashboard?start=2017-01-01&end=yesterday",
		"/api/top-products?limit=0",
		"/api/geo?limit=abc",
	} {
		rec := get(t, s.Handler(), http.MethodGet, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "INVALID_REQUEST") {
			t.Errorf("%s: expected an error code in %s", target, rec.Body.String())
		}
	}
}

func TestDashboard(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), http.MethodGet, "/api/dashboard?category=toys")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var d struct {
		Rows        int `json:"rows"`
		TopProducts []struct {
			ShortID string `json:"short_id"`
		} `json:"top_products"`
		Filters struct {
			CategoryOptions []string `json:"category_options"`
		} `json:"filters"`
	}
	decode(t, rec, &d)
	if d.Rows != 3 {
		t.Errorf("Expected 3 rows, got %d", d.Rows)
	}
	if len(d.TopProducts) == 0 || d.TopProducts[0].ShortID != "P0001" {
		t.Errorf("Unexpected top products: %+v", d.TopProducts)
	}
	if len(d.Filters.CategoryOptions) != 2 {
		t.Errorf("Unexpected category options: %v", d.Filters.CategoryOptions)
	}
}

func TestListEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/weekly", 10},
		{"/api/top-products?limit=2", 2},
		{"/api/top-sellers", 3},
		{"/api/reviews", 3},
	}
	for _, tt := range tests {
		rec := get(t, s.Handler(), http.MethodGet, tt.target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.target, rec.Code)
		}
		var items []json.RawMessage
		decode(t, rec, &items)
		if len(items) != tt.want {
			t.Errorf("%s: expected %d items, got %d", tt.target, tt.want, len(items))
		}
	}
}

func TestDeliveryAndGeo(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), http.MethodGet, "/api/delivery")
	var d insights.DeliveryReport
	decode(t, rec, &d)
	if len(d.Points) != 5 || d.Trend == nil {
		t.Errorf("Unexpected delivery report: %+v", d)
	}

	rec = get(t, s.Handler(), http.MethodGet, "/api/geo?limit=2")
	var g insights.GeoReport
	decode(t, rec, &g)
	if len(g.Points) != 2 {
		t.Errorf("Expected 2 geo points, got %d", len(g.Points))
	}
}

func TestFilters(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s.Handler(), http.MethodGet, "/api/filters")
	var f struct {
		CategoryOptions   []string `json:"category_options"`
		DefaultCategories []string `json:"default_categories"`
		AvailableFrom     *string  `json:"available_from"`
	}
	decode(t, rec, &f)
	if strings.Join(f.CategoryOptions, ",") != "electronics,toys" {
		t.Errorf("Unexpected options: %v", f.CategoryOptions)
	}
	if len(f.DefaultCategories) != 2 {
		t.Errorf("Expected both categories preselected, got %v", f.DefaultCategories)
	}
	if f.AvailableFrom == nil {
		t.Error("Expected available_from to be set")
	}
}

func TestRefreshPicksUpChanges(t *testing.T) {
	s, dir := newTestServer(t)

	if err := os.Remove(filepath.Join(dir, "olist_order_items_dataset.csv")); err != nil {
		t.Fatalf("Failed to remove items: %v", err)
	}

	// Served figures are unchanged until an explicit refresh.
	if got := len(s.Result().Rows); got != 6 {
		t.Fatalf("Expected 6 rows before refresh, got %d", got)
	}

	rec := get(t, s.Handler(), http.MethodPost, "/api/refresh")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !s.Result().IsEmpty() {
		t.Error("Expected an empty master table after items disappeared")
	}

	rec = get(t, s.Handler(), http.MethodGet, "/api/dashboard")
	var d insights.Dashboard
	decode(t, rec, &d)
	if len(d.Notes) == 0 {
		t.Error("Expected a note for empty data")
	}
}

func TestNotLoaded(t *testing.T) {
	s := New(dataset.NewLoader(t.TempDir(), nil), insights.DefaultOptions())

	rec := get(t, s.Handler(), http.MethodGet, "/api/kpis")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 before the first load, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	get(t, s.Handler(), http.MethodGet, "/api/kpis")
	rec := get(t, s.Handler(), http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`olist_http_requests_total{code="200",route="/api/kpis"} 1`,
		`olist_refreshes_total{outcome="ok"} 1`,
		`olist_master_rows 6`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}
