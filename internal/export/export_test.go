//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package export

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
)

type stubExporter struct{ name string }

func (s stubExporter) Name() string        { return s.name }
func (s stubExporter) Description() string { return "stub" }
func (s stubExporter) Export(context.Context, *dataset.Table, Target) (int64, error) {
	return 0, nil
}

func TestRegistry(t *testing.T) {
	Register(stubExporter{name: "zz-stub"})
	Register(stubExporter{name: "aa-stub"})

	e, err := Get("zz-stub")
	if err != nil {
		t.Fatalf("Failed to get exporter: %v", err)
	}
	if e.Name() != "zz-stub" {
		t.Errorf("Expected zz-stub, got %s", e.Name())
	}

	if _, err := Get("nonexistent"); err == nil {
		t.Error("Expected error for nonexistent exporter, got nil")
	}

	names := List()
	aa, zz := -1, -1
	for i, n := range names {
		switch n {
		case "aa-stub":
			aa = i
		case "zz-stub":
			zz = i
		}
	}
	if aa < 0 || zz < 0 || aa > zz {
		t.Errorf("Expected sorted names including both stubs, got %v", names)
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"orders", `"orders"`},
		{`a"b`, `"a""b"`},
		{"my table", `"my table"`},
	}
	for _, tt := range tests {
		if got := QuoteIdent(tt.in); got != tt.want {
			t.Errorf("QuoteIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestTargetValidate(t *testing.T) {
	tgt := Target{}
	if err := tgt.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tgt.Table != DefaultTable {
		t.Errorf("Expected default table %s, got %s", DefaultTable, tgt.Table)
	}

	bad := Target{Table: "a\x00b"}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for NUL in table name")
	}
}

func TestValuesAndDDL(t *testing.T) {
	tbl := dataset.NewTable("t", []string{"a", "b"}, [][]string{{"1", ""}})

	v := Values(tbl, 0)
	if v[0] != "1" || v[1] != nil {
		t.Errorf("Expected [1 <nil>], got %v", v)
	}

	want := `CREATE TABLE "t" ("a" TEXT, "b" TEXT)`
	if got := CreateTableSQL("t", tbl.Columns); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestValuesArePositional(t *testing.T) {
	tbl := dataset.NewTable("t", []string{"a", "a"}, [][]string{{"x", "y"}, {"z"}})

	if v := Values(tbl, 0); v[0] != "x" || v[1] != "y" {
		t.Errorf("Expected [x y], got %v", v)
	}
	if v := Values(tbl, 1); v[0] != "z" || v[1] != nil {
		t.Errorf("Expected a short row padded with nil, got %v", v)
	}
	if v := Values(tbl, 5); len(v) != 2 || v[0] != nil {
		t.Errorf("Expected nils for an out of range row, got %v", v)
	}
}

func TestMetadataSQL(t *testing.T) {
	if !strings.Contains(CreateMetadataTableSQL, "CREATE TABLE IF NOT EXISTS "+MetadataTable) {
		t.Errorf("DDL does not create %s: %s", MetadataTable, CreateMetadataTableSQL)
	}

	pg := UpsertMetadataSQL(func(n int) string { return fmt.Sprintf("$%d", n) })
	if !strings.Contains(pg, "INSERT INTO "+MetadataTable) || !strings.Contains(pg, "VALUES ($1, $2, $3)") {
		t.Errorf("Unexpected postgres upsert: %s", pg)
	}

	lite := UpsertMetadataSQL(func(int) string { return "?" })
	if !strings.Contains(lite, "VALUES (?, ?, ?)") {
		t.Errorf("Unexpected sqlite upsert: %s", lite)
	}
}

func TestMetadata(t *testing.T) {
	m := Metadata("sqlite", Target{Source: "orders.csv"}, 12)
	if m["rows"] != "12" || m["source"] != "orders.csv" || m["exporter"] != "sqlite" {
		t.Errorf("Unexpected metadata: %v", m)
	}
	if m["version"] == "" || m["exported_at"] == "" {
		t.Error("Expected version and timestamp")
	}
}
