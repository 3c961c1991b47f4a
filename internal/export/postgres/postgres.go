//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package postgres exports tables into PostgreSQL using COPY.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/db"
	"github.com/pgEdge/pgedge-olist/internal/export"
	"github.com/pgEdge/pgedge-olist/internal/logging"
)

func init() {
	export.Register(&Exporter{})
}

// Exporter writes tables into a PostgreSQL database.
type Exporter struct{}

// Name returns the exporter name.
func (e *Exporter) Name() string {
	return "postgres"
}

// Description returns the exporter description.
func (e *Exporter) Description() string {
	return "PostgreSQL database (bulk COPY)"
}

// Export replaces target.Table in the database at target.DSN with the
// contents of table, inside one transaction.
func (e *Exporter) Export(ctx context.Context, table *dataset.Table, target export.Target) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if target.DSN == "" {
		return 0, fmt.Errorf("postgres export requires a connection string")
	}
	if len(table.Columns) == 0 {
		return 0, fmt.Errorf("table %s has no columns to export", table.Name)
	}

	pool, err := db.Connect(ctx, target.DSN)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+export.QuoteIdent(target.Table)); err != nil {
		return 0, fmt.Errorf("failed to drop %s: %w", target.Table, err)
	}
	if _, err := tx.Exec(ctx, export.CreateTableSQL(target.Table, table.Columns)); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target.Table, err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{target.Table},
		table.Columns,
		pgx.CopyFromSlice(table.Len(), func(i int) ([]any, error) {
			return export.Values(table, i), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy rows into %s: %w", target.Table, err)
	}

	if err := db.SaveExportMetadata(ctx, tx, target.Table, export.Metadata(e.Name(), target, n)); err != nil {
		return n, err
	}
	if err := tx.Commit(ctx); err != nil {
		return n, fmt.Errorf("failed to commit export: %w", err)
	}

	logging.Info().
		Str("table", target.Table).
		Int64("rows", n).
		Msg("Exported table to PostgreSQL")

	return n, nil
}
