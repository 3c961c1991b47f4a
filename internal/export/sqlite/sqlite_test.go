//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/export"
	"github.com/pgEdge/pgedge-olist/internal/testutil"
)

func ordersTable(rows [][]string) *dataset.Table {
	return dataset.NewTable(dataset.Orders,
		[]string{"order_id", "customer_id", "order_status"}, rows)
}

func countRows(t *testing.T, path, query string, args ...any) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Query %q failed: %v", query, err)
	}
	return n
}

func TestRegistered(t *testing.T) {
	e, err := export.Get("sqlite")
	if err != nil {
		t.Fatalf("sqlite exporter not registered: %v", err)
	}
	if e.Description() == "" {
		t.Error("Description should not be empty")
	}
}

func TestExportWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olist.db")
	tbl := ordersTable([][]string{
		{"o1", "c1", "delivered"},
		{"o2", "c2", ""},
		{"o3", "c3", "shipped"},
	})

	n, err := (&Exporter{}).Export(context.Background(), tbl, export.Target{DSN: path, Source: "olist_orders_dataset.csv"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows written, got %d", n)
	}

	if got := countRows(t, path, `SELECT COUNT(*) FROM "orders"`); got != 3 {
		t.Errorf("Expected 3 rows in orders, got %d", got)
	}
	if got := countRows(t, path, `SELECT COUNT(*) FROM "orders" WHERE order_status IS NULL`); got != 1 {
		t.Errorf("Expected the empty cell stored as NULL, got %d null rows", got)
	}
	if got := countRows(t, path,
		`SELECT COUNT(*) FROM `+export.MetadataTable+` WHERE table_name = ? AND key = 'rows' AND value = '3'`,
		"orders"); got != 1 {
		t.Error("Expected a metadata row recording 3 rows")
	}
}

func TestExportReplacesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olist.db")
	e := &Exporter{}
	ctx := context.Background()

	if _, err := e.Export(ctx, ordersTable([][]string{{"o1", "c1", "x"}, {"o2", "c2", "y"}}),
		export.Target{DSN: path, Table: "orders"}); err != nil {
		t.Fatalf("First export failed: %v", err)
	}
	if _, err := e.Export(ctx, ordersTable([][]string{{"o9", "c9", "z"}}),
		export.Target{DSN: path, Table: "orders"}); err != nil {
		t.Fatalf("Second export failed: %v", err)
	}

	if got := countRows(t, path, `SELECT COUNT(*) FROM "orders"`); got != 1 {
		t.Errorf("Expected the table replaced with 1 row, got %d", got)
	}
	if got := countRows(t, path, `SELECT COUNT(*) FROM "orders" WHERE order_id = 'o9'`); got != 1 {
		t.Error("Expected the replacement row")
	}
}

func TestExportQuotesIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olist.db")
	tbl := dataset.NewTable("odd", []string{`a"b`, "select"}, [][]string{{"1", "2"}})

	if _, err := (&Exporter{}).Export(context.Background(), tbl,
		export.Target{DSN: path, Table: "my table"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := countRows(t, path, `SELECT COUNT(*) FROM "my table" WHERE "select" = '2'`); got != 1 {
		t.Error("Expected the quoted column to be queryable")
	}
}

func TestExportNoColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "olist.db")
	if _, err := (&Exporter{}).Export(context.Background(), dataset.Empty(dataset.Orders),
		export.Target{DSN: path}); err == nil {
		t.Error("Expected an error exporting a table without columns")
	}
}

func TestExportRepeatedHeader(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "repeated.csv", []byte("a,a\nx,y\n"))

	tbl, err := dataset.NewLoader(dir, map[string]string{"repeated": "repeated.csv"}).Load("repeated")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "olist.db")
	if _, err := (&Exporter{}).Export(context.Background(), tbl,
		export.Target{DSN: path, Table: "t"}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := countRows(t, path, `SELECT COUNT(*) FROM "t" WHERE "a" = 'x' AND "a.1" = 'y'`); got != 1 {
		t.Error("Expected both repeated columns stored with their own values")
	}
}
