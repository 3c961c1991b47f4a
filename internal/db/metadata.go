//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist/internal/export"
)

// SaveExportMetadata upserts metadata for an exported table.
func SaveExportMetadata(ctx context.Context, q DB, table string, metadata map[string]string) error {
	if _, err := q.Exec(ctx, export.CreateMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	upsert := export.UpsertMetadataSQL(func(n int) string { return fmt.Sprintf("$%d", n) })
	for key, value := range metadata {
		if _, err := q.Exec(ctx, upsert, table, key, value); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}
	return nil
}

// GetExportMetadata retrieves the metadata recorded for table.
func GetExportMetadata(ctx context.Context, q DB, table string) (map[string]string, error) {
	rows, err := q.Query(ctx,
		"SELECT key, value FROM "+export.MetadataTable+" WHERE table_name = $1", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = $1
        )
    `, export.MetadataTable).Scan(&exists)
	return exists, err
}
