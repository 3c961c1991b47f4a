//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export defines the exporter interface used to persist one raw
// table into a relational store, and the registry exporters join.
package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/pkg/version"
)

const (
	// DefaultTable is the table name written when none is configured.
	DefaultTable = "orders"

	// DefaultSQLitePath is the database file used by the sqlite exporter
	// when no DSN is configured.
	DefaultSQLitePath = "olist_logistics.db"

	// MetadataTable records what was exported, when and by which version.
	MetadataTable = "olist_export_metadata"

	// CreateMetadataTableSQL creates MetadataTable. It is valid for both
	// SQLite and PostgreSQL.
	CreateMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS ` + MetadataTable + ` (
    table_name TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    PRIMARY KEY (table_name, key)
)`
)

// UpsertMetadataSQL returns the statement storing one metadata pair,
// taking table_name, key and value as parameters. bind renders the
// placeholder for the n-th parameter, counted from 1.
func UpsertMetadataSQL(bind func(n int) string) string {
	return fmt.Sprintf(`
INSERT INTO %s (table_name, key, value) VALUES (%s, %s, %s)
ON CONFLICT (table_name, key) DO UPDATE SET value = excluded.value`,
		MetadataTable, bind(1), bind(2), bind(3))
}

// Target names where an export goes.
type Target struct {
	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string

	// Table is the destination table, replaced on every export.
	Table string

	// Source is the file the table was loaded from, recorded as metadata.
	Source string
}

// Exporter writes a table into a store, replacing any previous contents
// of the target table. It returns the number of rows written.
type Exporter interface {
	// Name returns the exporter name used on the command line.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Export writes table to target.
	Export(ctx context.Context, table *dataset.Table, target Target) (int64, error)
}

// Validate fills defaults and rejects targets that cannot be written.
func (t *Target) Validate() error {
	if t.Table == "" {
		t.Table = DefaultTable
	}
	if strings.ContainsRune(t.Table, 0) {
		return fmt.Errorf("invalid table name %q", t.Table)
	}
	return nil
}

// QuoteIdent quotes name as an SQL identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Values returns the cells of row i in column order. Empty cells become
// nil so they are stored as NULL.
func Values(t *dataset.Table, i int) []any {
	out := make([]any, len(t.Columns))
	if i < 0 || i >= len(t.Rows) {
		return out
	}
	row := t.Rows[i]
	for j := range t.Columns {
		if j < len(row) && row[j] != "" {
			out[j] = row[j]
		}
	}
	return out
}

// CreateTableSQL returns the DDL for a table of TEXT columns.
func CreateTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = QuoteIdent(c) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdent(table), strings.Join(defs, ", "))
}

// Metadata returns the bookkeeping pairs recorded after an export.
func Metadata(exporter string, target Target, rows int64) map[string]string {
	return map[string]string{
		"exporter":    exporter,
		"source":      target.Source,
		"rows":        strconv.FormatInt(rows, 10),
		"version":     version.Short(),
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	}
}
