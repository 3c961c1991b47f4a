//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package postgres

import (
	"context"
	"testing"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/export"
)

func TestRegistered(t *testing.T) {
	e, err := export.Get("postgres")
	if err != nil {
		t.Fatalf("postgres exporter not registered: %v", err)
	}
	if e.Name() != "postgres" {
		t.Errorf("Expected postgres, got %s", e.Name())
	}
}

func TestExportRequiresDSN(t *testing.T) {
	tbl := dataset.NewTable(dataset.Orders, []string{"order_id"}, [][]string{{"o1"}})
	if _, err := (&Exporter{}).Export(context.Background(), tbl, export.Target{}); err == nil {
		t.Error("Expected error without a connection string")
	}
}
