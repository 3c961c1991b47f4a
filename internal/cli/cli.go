//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-olist.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist/internal/config"
	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/logging"
	"github.com/pgEdge/pgedge-olist/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	dataDir  string
	logLevel string
	logJSON  bool

	// Filter flags shared by the commands that compute figures
	filterStart      string
	filterEnd        string
	filterCategories []string
	noTrendline      bool

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-olist",
		Short: "Analytics over the Olist e-commerce dataset",
		Long: `pgedge-olist loads the public Olist e-commerce CSV files, joins orders,
items, products and payments into one row per order item, and computes
dashboard figures over a filtered view: KPIs, weekly sales, top products
and sellers, review scores, delivery performance and a geolocation sample.

The figures can be printed, served as a JSON API or written to an XLSX
workbook. Raw tables can be exported to SQLite or PostgreSQL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-olist.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding the dataset CSV files (default: data)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"write JSON log lines instead of console output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(generateCmd)
}

// addFilterFlags registers the view selection flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterStart, "start", "",
		"first purchase date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filterEnd, "end", "",
		"last purchase date to include (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&filterCategories, "category", nil,
		"product categories to include (repeatable or comma separated)")
	cmd.Flags().BoolVar(&noTrendline, "no-trendline", false,
		"skip the delivery performance trend line")
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logJSON {
		cfg.LogJSON = true
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: !cfg.LogJSON,
	})

	return nil
}

// applyFilterFlags overrides the configured filter with CLI flags.
func applyFilterFlags() {
	if filterStart != "" {
		cfg.Filter.Start = filterStart
	}
	if filterEnd != "" {
		cfg.Filter.End = filterEnd
	}
	if len(filterCategories) > 0 {
		cfg.Filter.Categories = filterCategories
	}
	if noTrendline {
		cfg.Features.Trendline = false
	}
}

func newLoader() *dataset.Loader {
	return dataset.NewLoader(cfg.Data.Dir, cfg.Data.Files)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the dataset tables and their files",
	Long: `List the dataset tables, the CSV file each one is read from, and
whether that file is present in the data directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		loader := newLoader()
		cmd.Printf("Dataset tables in %s:\n\n", loader.Dir())
		for _, name := range loader.Names() {
			status := "present"
			if _, err := os.Stat(loader.Path(name)); err != nil {
				status = "missing"
			}
			cmd.Printf("  %-12s %-45s %s\n", name, loader.Path(name), status)
		}
	},
}
