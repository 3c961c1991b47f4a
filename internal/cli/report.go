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
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist/internal/logging"
	"github.com/pgEdge/pgedge-olist/internal/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the dashboard figures to an XLSX workbook",
	Long: `Compute the dashboard figures for the selected view and write them to
an XLSX workbook with one sheet per figure.

Example:
  pgedge-olist report --output olist_report.xlsx --start 2017-01-01 --end 2017-12-31`,
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "",
		"workbook path (default: olist_report.xlsx)")
}

func runReport(cmd *cobra.Command, args []string) error {
	applyFilterFlags()
	if reportOutput != "" {
		cfg.Report.Output = reportOutput
	}
	if err := cfg.ValidateReport(); err != nil {
		return err
	}

	d, err := buildDashboard()
	if err != nil {
		return err
	}
	if err := report.Write(d, cfg.Report.Output); err != nil {
		return err
	}

	logging.Info().
		Str("output", cfg.Report.Output).
		Int("rows", d.Rows).
		Msg("Report written")
	cmd.Printf("Report written to %s\n", cfg.Report.Output)
	return nil
}
