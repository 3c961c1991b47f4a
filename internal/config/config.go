//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-olist.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-olist/internal/datagen"
	"github.com/pgEdge/pgedge-olist/internal/export"
	"github.com/pgEdge/pgedge-olist/internal/fetch"
	"github.com/pgEdge/pgedge-olist/internal/insights"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

// DateLayout is the format of dates in config files and flags.
const DateLayout = "2006-01-02"

// Config holds all configuration for pgedge-olist.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogJSON writes JSON log lines instead of the console format.
	LogJSON bool `mapstructure:"log_json"`

	// Data locates the source CSV files.
	Data DataConfig `mapstructure:"data"`

	// Filter is the default view selection.
	Filter FilterConfig `mapstructure:"filter"`

	// Features toggles optional capabilities.
	Features FeaturesConfig `mapstructure:"features"`

	// Insights tunes the dashboard figures.
	Insights InsightsConfig `mapstructure:"insights"`

	// Serve holds configuration for the serve subcommand.
	Serve ServeConfig `mapstructure:"serve"`

	// Report holds configuration for the report subcommand.
	Report ReportConfig `mapstructure:"report"`

	// Export holds configuration for the export subcommand.
	Export ExportConfig `mapstructure:"export"`

	// Fetch holds configuration for the fetch subcommand.
	Fetch FetchConfig `mapstructure:"fetch"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	// Dir is the directory holding the CSV files.
	Dir string `mapstructure:"dir"`

	// Files overrides the file name of individual tables.
	Files map[string]string `mapstructure:"files"`
}

// FilterConfig is a view selection.
type FilterConfig struct {
	// Start and End bound the purchase date (YYYY-MM-DD). Both are
	// needed for the date range to apply.
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`

	// Categories restricts the view to these product categories.
	Categories []string `mapstructure:"categories"`
}

// FeaturesConfig toggles optional capabilities.
type FeaturesConfig struct {
	// Trendline fits a least-squares line over delivery performance.
	Trendline bool `mapstructure:"trendline"`
}

// InsightsConfig tunes the dashboard figures.
type InsightsConfig struct {
	TopProducts int    `mapstructure:"top_products"`
	TopSellers  int    `mapstructure:"top_sellers"`
	GeoLimit    int    `mapstructure:"geo_limit"`
	GeoSeed     uint64 `mapstructure:"geo_seed"`
}

// ServeConfig holds configuration for the HTTP API.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`
}

// ReportConfig holds configuration for the XLSX report.
type ReportConfig struct {
	// Output is the workbook path.
	Output string `mapstructure:"output"`
}

// ExportConfig holds configuration for exporting a raw table.
type ExportConfig struct {
	// Driver names the exporter: sqlite or postgres.
	Driver string `mapstructure:"driver"`

	// DSN is the SQLite file or PostgreSQL connection string.
	DSN string `mapstructure:"dsn"`

	// Table is the destination table name.
	Table string `mapstructure:"table"`

	// Source is the dataset table to export.
	Source string `mapstructure:"source"`
}

// FetchConfig holds configuration for downloading the dataset.
type FetchConfig struct {
	// Dataset is the Kaggle dataset slug.
	Dataset string `mapstructure:"dataset"`
}

// GenerateConfig holds configuration for the synthetic dataset.
type GenerateConfig struct {
	Seed        uint64         `mapstructure:"seed"`
	Counts      datagen.Counts `mapstructure:"counts"`
	Start       string         `mapstructure:"start"`
	Days        int            `mapstructure:"days"`
	MissingRate float64        `mapstructure:"missing_rate"`
	Latin1      bool           `mapstructure:"latin1"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	gen := datagen.DefaultOptions()
	opts := insights.DefaultOptions()

	return &Config{
		LogLevel: "info",
		Data: DataConfig{
			Dir: "data",
		},
		Features: FeaturesConfig{
			Trendline: opts.Capabilities.Trendline,
		},
		Insights: InsightsConfig{
			TopProducts: opts.TopProducts,
			TopSellers:  opts.TopSellers,
			GeoLimit:    opts.GeoLimit,
			GeoSeed:     opts.GeoSeed,
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
		Report: ReportConfig{
			Output: "olist_report.xlsx",
		},
		Export: ExportConfig{
			Driver: "sqlite",
			DSN:    export.DefaultSQLitePath,
			Table:  export.DefaultTable,
			Source: "orders",
		},
		Fetch: FetchConfig{
			Dataset: fetch.DefaultDataset,
		},
		Generate: GenerateConfig{
			Seed:        gen.Seed,
			Counts:      gen.Counts,
			Start:       gen.Start.Format(DateLayout),
			Days:        gen.Days,
			MissingRate: gen.MissingRate,
			Latin1:      gen.Latin1,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-olist.yaml
// 3. ~/.config/pgedge-olist/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-olist")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-olist"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	if _, err := c.Criteria(); err != nil {
		return err
	}
	return nil
}

// ValidateServe checks configuration required for the serve command.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Serve.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	return c.validateInsights()
}

// ValidateReport checks configuration required for the report command.
func (c *Config) ValidateReport() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Report.Output == "" {
		return fmt.Errorf("report output path is required")
	}
	return c.validateInsights()
}

// ValidateExport checks configuration required for the export command.
func (c *Config) ValidateExport() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Export.Driver != "sqlite" && c.Export.Driver != "postgres" {
		return fmt.Errorf("export driver must be 'sqlite' or 'postgres'")
	}
	if c.Export.Driver == "postgres" && c.Export.DSN == "" {
		return fmt.Errorf("connection string is required for postgres export")
	}
	if c.Export.Source == "" {
		return fmt.Errorf("export source table is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory is required")
	}
	opts, err := c.GenerateOptions()
	if err != nil {
		return err
	}
	return opts.Validate()
}

func (c *Config) validateInsights() error {
	if c.Insights.TopProducts < 1 || c.Insights.TopSellers < 1 {
		return fmt.Errorf("top_products and top_sellers must be at least 1")
	}
	if c.Insights.GeoLimit < 1 {
		return fmt.Errorf("geo_limit must be at least 1")
	}
	return nil
}

// Criteria converts the filter section. A single date endpoint is kept
// out of the range, which then does not apply.
func (c *Config) Criteria() (pipeline.Criteria, error) {
	crit := pipeline.Criteria{Categories: c.Filter.Categories}
	if c.Filter.Start == "" || c.Filter.End == "" {
		return crit, nil
	}
	start, err := time.Parse(DateLayout, c.Filter.Start)
	if err != nil {
		return crit, fmt.Errorf("invalid filter start date %q: %w", c.Filter.Start, err)
	}
	end, err := time.Parse(DateLayout, c.Filter.End)
	if err != nil {
		return crit, fmt.Errorf("invalid filter end date %q: %w", c.Filter.End, err)
	}
	crit.DateRange = []time.Time{start, end}
	return crit, nil
}

// InsightsOptions converts the insights and features sections.
func (c *Config) InsightsOptions() insights.Options {
	return insights.Options{
		Capabilities: insights.Capabilities{Trendline: c.Features.Trendline},
		TopProducts:  c.Insights.TopProducts,
		TopSellers:   c.Insights.TopSellers,
		GeoLimit:     c.Insights.GeoLimit,
		GeoSeed:      c.Insights.GeoSeed,
	}
}

// GenerateOptions converts the generate section.
func (c *Config) GenerateOptions() (datagen.Options, error) {
	start, err := time.Parse(DateLayout, c.Generate.Start)
	if err != nil {
		return datagen.Options{}, fmt.Errorf("invalid generate start date %q: %w", c.Generate.Start, err)
	}
	return datagen.Options{
		Seed:        c.Generate.Seed,
		Counts:      c.Generate.Counts,
		Start:       start,
		Days:        c.Generate.Days,
		MissingRate: c.Generate.MissingRate,
		Latin1:      c.Generate.Latin1,
	}, nil
}
