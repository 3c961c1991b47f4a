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

	"github.com/pgEdge/pgedge-olist/internal/fetch"
)

var fetchDataset string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the dataset with the Kaggle CLI",
	Long: `Download and unzip the dataset into the data directory using the
kaggle command line tool. Kaggle credentials must already be configured
for that tool.

Example:
  pgedge-olist fetch --data-dir data`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDataset, "dataset", "",
		"Kaggle dataset slug (default: olistbr/brazilian-ecommerce)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchDataset != "" {
		cfg.Fetch.Dataset = fetchDataset
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}

	ctx, cancel := signalContext()
	defer cancel()

	f := fetch.New(cfg.Fetch.Dataset, cfg.Data.Dir)
	if err := f.Fetch(ctx); err != nil {
		return err
	}

	cmd.Printf("Dataset %s downloaded to %s\n", f.Dataset, f.Dir)
	return nil
}
