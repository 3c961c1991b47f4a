//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset loads the Olist CSV source files into untyped tables.
// Missing files load as empty tables; non UTF-8 files are decoded as
// ISO-8859-1. Loaded tables are cached per name until invalidated.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/charmap"

	"github.com/pgEdge/pgedge-olist/internal/logging"
)

// Source table names.
const (
	Orders      = "orders"
	OrderItems  = "order_items"
	Payments    = "payments"
	Customers   = "customers"
	Products    = "products"
	Sellers     = "sellers"
	Geolocation = "geolocation"
	Reviews     = "reviews"
)

// DefaultFiles maps each table name to its file in the published dataset.
var DefaultFiles = map[string]string{
	Orders:      "olist_orders_dataset.csv",
	OrderItems:  "olist_order_items_dataset.csv",
	Payments:    "olist_order_payments_dataset.csv",
	Customers:   "olist_customers_dataset.csv",
	Products:    "olist_products_dataset.csv",
	Sellers:     "olist_sellers_dataset.csv",
	Geolocation: "olist_geolocation_dataset.csv",
	Reviews:     "olist_order_reviews_dataset.csv",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset holds every source table of one load cycle.
type Dataset struct {
	Orders      *Table
	OrderItems  *Table
	Payments    *Table
	Customers   *Table
	Products    *Table
	Sellers     *Table
	Geolocation *Table
	Reviews     *Table
}

// Loader reads source tables from a directory and memoizes them by name.
type Loader struct {
	dir   string
	files map[string]string
	log   zerolog.Logger

	// readFile is os.ReadFile outside of tests.
	readFile func(string) ([]byte, error)

	mu    sync.Mutex
	cache map[string]*Table
	gen   uint64
	reads singleflight.Group
}

// NewLoader creates a loader for dir. files overrides entries of
// DefaultFiles; a nil map uses the defaults.
func NewLoader(dir string, files map[string]string) *Loader {
	merged := make(map[string]string, len(DefaultFiles))
	for k, v := range DefaultFiles {
		merged[k] = v
	}
	for k, v := range files {
		if v != "" {
			merged[k] = v
		}
	}
	return &Loader{
		dir:   dir,
		files:    merged,
		log:      logging.Component("loader"),
		readFile: os.ReadFile,
		cache:    make(map[string]*Table),
	}
}

// Dir returns the directory the loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the file path for a table name. Names without a mapping
// resolve to "<name>.csv".
func (l *Loader) Path(name string) string {
	file, ok := l.files[name]
	if !ok {
		file = name + ".csv"
	}
	return filepath.Join(l.dir, file)
}

// Names returns the mapped table names in sorted order.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.files))
	for n := range l.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load returns the named table, reading it on first use. A missing file
// yields an empty table and no error. Concurrent loads of the same name
// share one read. A read that started before an Invalidate or Refresh
// returns its table but does not cache it.
func (l *Loader) Load(name string) (*Table, error) {
	l.mu.Lock()
	t, ok := l.cache[name]
	gen := l.gen
	l.mu.Unlock()
	if ok {
		return t, nil
	}

	key := fmt.Sprintf("%s@%d", name, gen)
	v, err, _ := l.reads.Do(key, func() (any, error) {
		l.mu.Lock()
		t, ok := l.cache[name]
		l.mu.Unlock()
		if ok {
			return t, nil
		}

		t, err := l.read(name)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		if l.gen == gen {
			l.cache[name] = t
		}
		l.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Invalidate drops one cached table so the next Load rereads it.
func (l *Loader) Invalidate(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, name)
	l.gen++
}

// Refresh drops every cached table.
func (l *Loader) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.cache)
	l.gen++
	l.log.Debug().Msg("Loader cache cleared")
}

// Cached reports whether the named table is currently memoized.
func (l *Loader) Cached(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[name]
	return ok
}

// LoadAll loads every source table of the dataset, reading the files in
// parallel.
func (l *Loader) LoadAll() (*Dataset, error) {
	ds := &Dataset{}
	targets := []struct {
		name string
		dst  **Table
	}{
		{Orders, &ds.Orders},
		{OrderItems, &ds.OrderItems},
		{Payments, &ds.Payments},
		{Customers, &ds.Customers},
		{Products, &ds.Products},
		{Sellers, &ds.Sellers},
		{Geolocation, &ds.Geolocation},
		{Reviews, &ds.Reviews},
	}
	var g errgroup.Group
	for _, tgt := range targets {
		g.Go(func() error {
			t, err := l.Load(tgt.name)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", tgt.name, err)
			}
			*tgt.dst = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (l *Loader) read(name string) (*Table, error) {
	path := l.Path(name)

	content, err := l.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.log.Warn().
				Str("table", name).
				Str("path", path).
				Msg("Source file not found; using empty table")
			return Empty(name), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	encoding := "utf-8"
	if !utf8.Valid(content) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s as latin-1: %w", path, err)
		}
		content = decoded
		encoding = "latin-1"
	}

	t, err := parseCSV(name, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	l.log.Debug().
		Str("table", name).
		Str("encoding", encoding).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns)).
		Msg("Loaded table")

	return t, nil
}

func parseCSV(name string, content []byte) (*Table, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return Empty(name), nil
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return Empty(name), nil
	}
	return NewTable(name, uniqueColumns(records[0]), records[1:]), nil
}

// uniqueColumns renames blank header cells to "Unnamed: <i>" and repeated
// names to "<name>.<n>", so every column can be addressed by name.
func uniqueColumns(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, c := range header {
		if c == "" {
			c = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[c] = true
		out[i] = c
	}

	seen := make(map[string]int, len(header))
	for i, c := range out {
		n := seen[c]
		seen[c] = n + 1
		if n == 0 {
			continue
		}
		renamed := fmt.Sprintf("%s.%d", c, n)
		for taken[renamed] {
			n++
			renamed = fmt.Sprintf("%s.%d", c, n)
		}
		seen[c] = n + 1
		taken[renamed] = true
		out[i] = renamed
	}
	return out
}
