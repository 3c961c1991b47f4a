//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the PostgreSQL exporter.
// Run with: go test -tags=integration ./internal/export/postgres/...
// Requires PostgreSQL to be available.
// Set OLIST_TEST_CONN environment variable to override connection string.

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/db"
	"github.com/pgEdge/pgedge-olist/internal/export"
	"github.com/pgEdge/pgedge-olist/internal/testutil"
)

func TestExportIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr, "export")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	e := &Exporter{}
	first := dataset.NewTable(dataset.Orders,
		[]string{"order_id", "order_status"},
		[][]string{{"o1", "delivered"}, {"o2", ""}, {"o3", "shipped"}})
	n, err := e.Export(ctx, first, export.Target{DSN: connStr, Source: "olist_orders_dataset.csv"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows copied, got %d", n)
	}

	second := dataset.NewTable(dataset.Orders,
		[]string{"order_id", "order_status"}, [][]string{{"o9", "canceled"}})
	if _, err := e.Export(ctx, second, export.Target{DSN: connStr}); err != nil {
		t.Fatalf("Second export failed: %v", err)
	}

	pool, err := db.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected the table replaced with 1 row, got %d", count)
	}

	exists, err := db.MetadataExists(ctx, pool)
	if err != nil || !exists {
		t.Fatalf("Expected metadata table, exists=%v err=%v", exists, err)
	}
	meta, err := db.GetExportMetadata(ctx, pool, "orders")
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if meta["rows"] != "1" || meta["exporter"] != "postgres" {
		t.Errorf("Unexpected metadata: %v", meta)
	}
}
