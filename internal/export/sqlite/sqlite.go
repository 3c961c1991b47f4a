//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sqlite exports tables into a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/export"
	"github.com/pgEdge/pgedge-olist/internal/logging"
)

func init() {
	export.Register(&Exporter{})
}

// Exporter writes tables into a SQLite file.
type Exporter struct{}

// Name returns the exporter name.
func (e *Exporter) Name() string {
	return "sqlite"
}

// Description returns the exporter description.
func (e *Exporter) Description() string {
	return "SQLite database file (pure Go driver)"
}

// Export replaces target.Table in the SQLite file target.DSN with the
// contents of table, inside one transaction.
func (e *Exporter) Export(ctx context.Context, table *dataset.Table, target export.Target) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if target.DSN == "" {
		target.DSN = export.DefaultSQLitePath
	}
	if len(table.Columns) == 0 {
		return 0, fmt.Errorf("table %s has no columns to export", table.Name)
	}

	db, err := sql.Open("sqlite", target.DSN)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", target.DSN, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quoted := export.QuoteIdent(target.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoted); err != nil {
		return 0, fmt.Errorf("failed to drop %s: %w", target.Table, err)
	}
	if _, err := tx.ExecContext(ctx, export.CreateTableSQL(target.Table, table.Columns)); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target.Table, err)
	}

	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = export.QuoteIdent(c)
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(cols, ","), placeholders))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var n int64
	for i := 0; i < table.Len(); i++ {
		if _, err := stmt.ExecContext(ctx, export.Values(table, i)...); err != nil {
			return n, fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		n++
	}

	if err := saveMetadata(ctx, tx, target.Table, export.Metadata(e.Name(), target, n)); err != nil {
		return n, err
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("failed to commit export: %w", err)
	}

	logging.Info().
		Str("file", target.DSN).
		Str("table", target.Table).
		Int64("rows", n).
		Msg("Exported table to SQLite")

	return n, nil
}

func saveMetadata(ctx context.Context, tx *sql.Tx, table string, metadata map[string]string) error {
	if _, err := tx.ExecContext(ctx, export.CreateMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}
	upsert := export.UpsertMetadataSQL(func(int) string { return "?" })
	for key, value := range metadata {
		if _, err := tx.ExecContext(ctx, upsert, table, key, value); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}
	return nil
}
