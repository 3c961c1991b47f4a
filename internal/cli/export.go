//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist/internal/export"
)

var (
	exportDriver string
	exportDSN    string
	exportTable  string
	exportSource string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a raw dataset table to SQLite or PostgreSQL",
	Long: `Load one raw dataset table and write it to a relational store,
replacing the destination table. A row describing the export is recorded
in the olist_export_metadata table.

Example:
  pgedge-olist export --driver sqlite --dsn olist_logistics.db
  pgedge-olist export --driver postgres --dsn "postgres://user@localhost/olist" --source order_items --table items`,
	RunE: runExport,
}

var exportersCmd = &cobra.Command{
	Use:   "exporters",
	Short: "List available exporters",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available exporters:")
		cmd.Println()
		for _, name := range export.List() {
			e, _ := export.Get(name)
			cmd.Printf("  %-10s %s\n", name, e.Description())
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDriver, "driver", "",
		"exporter to use: sqlite or postgres (default: sqlite)")
	exportCmd.Flags().StringVar(&exportDSN, "dsn", "",
		"SQLite file or PostgreSQL connection string")
	exportCmd.Flags().StringVar(&exportTable, "table", "",
		"destination table name (default: orders)")
	exportCmd.Flags().StringVar(&exportSource, "source", "",
		"dataset table to export (default: orders)")

	exportCmd.AddCommand(exportersCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportDriver != "" {
		cfg.Export.Driver = exportDriver
	}
	if exportDSN != "" {
		cfg.Export.DSN = exportDSN
	}
	if exportTable != "" {
		cfg.Export.Table = exportTable
	}
	if exportSource != "" {
		cfg.Export.Source = exportSource
	}
	if err := cfg.ValidateExport(); err != nil {
		return err
	}

	exporter, err := export.Get(cfg.Export.Driver)
	if err != nil {
		return err
	}

	loader := newLoader()
	table, err := loader.Load(cfg.Export.Source)
	if err != nil {
		return err
	}

	target := export.Target{
		DSN:    cfg.Export.DSN,
		Table:  cfg.Export.Table,
		Source: filepath.Base(loader.Path(cfg.Export.Source)),
	}
	if err := target.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	n, err := exporter.Export(ctx, table, target)
	if err != nil {
		return err
	}

	cmd.Printf("Exported %d rows from %s into %s table %q\n",
		n, target.Source, exporter.Name(), target.Table)
	return nil
}
