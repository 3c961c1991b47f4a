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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard figures as a JSON API",
	Long: `Load the dataset once and serve the dashboard figures over HTTP.
Every endpoint accepts start, end and category query parameters; the
dataset is reloaded from disk on POST /api/refresh.

Example:
  pgedge-olist serve --data-dir data --addr :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default: :8080)")
	serveCmd.Flags().BoolVar(&noTrendline, "no-trendline", false,
		"skip the delivery performance trend line")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Serve.Addr = serveAddr
	}
	if noTrendline {
		cfg.Features.Trendline = false
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	srv := server.New(newLoader(), cfg.InsightsOptions())
	if err := srv.Refresh(); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}
