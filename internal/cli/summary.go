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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-olist/internal/insights"
	"github.com/pgEdge/pgedge-olist/internal/logging"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard figures for a filtered view",
	Long: `Load the dataset, build the master table and print the dashboard
figures for the selected purchase date range and categories.

Example:
  pgedge-olist summary --data-dir data --start 2017-01-01 --end 2017-06-30
  pgedge-olist summary --category brinquedos --category telefonia --json`,
	RunE: runSummary,
}

func init() {
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false,
		"print the dashboard as JSON")
}

// buildDashboard loads the dataset and computes the configured view.
func buildDashboard() (*insights.Dashboard, error) {
	criteria, err := cfg.Criteria()
	if err != nil {
		return nil, err
	}

	ds, err := newLoader().LoadAll()
	if err != nil {
		return nil, err
	}
	res := pipeline.Build(ds)

	logging.Debug().
		Int("date_endpoints", len(criteria.DateRange)).
		Strs("categories", criteria.Categories).
		Msg("Computing dashboard")

	return insights.Build(res, criteria, cfg.InsightsOptions()), nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	applyFilterFlags()
	if err := cfg.ValidateReport(); err != nil {
		return err
	}

	d, err := buildDashboard()
	if err != nil {
		return err
	}

	if summaryJSON {
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode dashboard: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	printDashboard(cmd, d)
	return nil
}

func printDashboard(cmd *cobra.Command, d *insights.Dashboard) {
	for _, n := range d.Notes {
		cmd.Printf("Note: %s\n", n)
	}
	if d.Rows == 0 && len(d.Notes) > 0 {
		return
	}

	cmd.Println("Key figures:")
	cmd.Printf("  Orders:               %d\n", d.KPIs.Orders)
	cmd.Printf("  Revenue:              %.2f\n", d.KPIs.Revenue)
	cmd.Printf("  Unique customers:     %d\n", d.KPIs.UniqueCustomers)
	if d.KPIs.AvgDeliveryDelta.OK {
		cmd.Printf("  Avg delivery delta:   %.2f days\n", d.KPIs.AvgDeliveryDelta.Value)
	} else {
		cmd.Println("  Avg delivery delta:   n/a")
	}
	cmd.Printf("  Rows in view:         %d\n", d.Rows)
	if len(d.Filters.Categories) > 0 {
		cmd.Printf("  Categories:           %s\n", strings.Join(d.Filters.Categories, ", "))
	}
	cmd.Println()

	cmd.Println("Top products:")
	for _, p := range d.TopProducts {
		cmd.Printf("  %-6s %-28s %12.2f %5d orders\n", p.ShortID, p.Category, p.Revenue, p.Orders)
	}
	cmd.Println()

	cmd.Println("Top sellers:")
	for _, s := range d.TopSellers {
		cmd.Printf("  %-6s %-28s %12.2f %5d orders\n", s.ShortID, s.City+" "+s.State, s.Revenue, s.Orders)
	}
	cmd.Println()

	cmd.Println("Review scores:")
	for _, r := range d.Reviews {
		cmd.Printf("  %d: %d\n", r.Score, r.Count)
	}

	if t := d.Delivery.Trend; t != nil {
		cmd.Println()
		cmd.Printf("Delivery trend: value = %.2f * delta + %.2f (R² %.3f, n=%d)\n",
			t.Slope, t.Intercept, t.RSquared, t.N)
	}
}
