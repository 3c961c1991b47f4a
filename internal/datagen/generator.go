//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/logging"
)

const timestampLayout = "2006-01-02 15:04:05"

// Counts sizes the generated dataset.
type Counts struct {
	Customers        int `mapstructure:"customers"`
	Sellers          int `mapstructure:"sellers"`
	Products         int `mapstructure:"products"`
	Orders           int `mapstructure:"orders"`
	MaxItemsPerOrder int `mapstructure:"max_items_per_order"`
}

// Options configures a Generator.
type Options struct {
	Seed   uint64
	Counts Counts

	// Start and Days bound the purchase timestamps.
	Start time.Time
	Days  int

	// MissingRate is the probability of blanking optional cells such as
	// a delivered date or a product category.
	MissingRate float64

	// Latin1 writes the customers and geolocation files in ISO-8859-1.
	Latin1 bool
}

// DefaultOptions returns a small dataset spanning 2017.
func DefaultOptions() Options {
	return Options{
		Seed: 42,
		Counts: Counts{
			Customers:        500,
			Sellers:          50,
			Products:         200,
			Orders:           1000,
			MaxItemsPerOrder: 3,
		},
		Start:       time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:        365,
		MissingRate: 0.03,
		Latin1:      true,
	}
}

// Validate checks the options for values that cannot produce a dataset.
func (o Options) Validate() error {
	c := o.Counts
	if c.Customers < 1 || c.Sellers < 1 || c.Products < 1 || c.Orders < 1 {
		return fmt.Errorf("customers, sellers, products and orders must all be at least 1")
	}
	if c.MaxItemsPerOrder < 1 {
		return fmt.Errorf("max items per order must be at least 1")
	}
	if o.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if o.MissingRate < 0 || o.MissingRate > 1 {
		return fmt.Errorf("missing rate must be between 0 and 1")
	}
	return nil
}

// City is a Brazilian city used for customers, sellers and geolocation.
type City struct {
	Name  string
	State string
	Lat   float64
	Lng   float64
}

// Cities lists the cities the generator draws from. Several names carry
// accents so that Latin-1 output is exercised.
var Cities = []City{
	{"são paulo", "SP", -23.5505, -46.6333},
	{"rio de janeiro", "RJ", -22.9068, -43.1729},
	{"belo horizonte", "MG", -19.9167, -43.9345},
	{"brasília", "DF", -15.7939, -47.8828},
	{"curitiba", "PR", -25.4284, -49.2733},
	{"porto alegre", "RS", -30.0346, -51.2177},
	{"salvador", "BA", -12.9777, -38.5016},
	{"florianópolis", "SC", -27.5954, -48.5480},
	{"goiânia", "GO", -16.6869, -49.2648},
	{"campinas", "SP", -22.9099, -47.0626},
	{"niterói", "RJ", -22.8832, -43.1034},
	{"vitória", "ES", -20.3155, -40.3128},
}

// Categories lists the product categories the generator draws from.
var Categories = []string{
	"cama_mesa_banho",
	"beleza_saude",
	"esporte_lazer",
	"moveis_decoracao",
	"informatica_acessorios",
	"utilidades_domesticas",
	"relogios_presentes",
	"telefonia",
	"ferramentas_jardim",
	"automotivo",
	"brinquedos",
	"cool_stuff",
}

var (
	orderStatuses      = []string{"delivered", "shipped", "canceled", "invoiced", "processing"}
	orderStatusWeights = []int{90, 4, 2, 2, 2}

	paymentTypes       = []string{"credit_card", "boleto", "voucher", "debit_card"}
	paymentTypeWeights = []int{74, 19, 5, 2}

	reviewScores       = []int{5, 4, 3, 2, 1}
	reviewScoreWeights = []int{57, 19, 8, 3, 13}
)

// Summary reports the rows written per table.
type Summary map[string]int

// Generator writes a synthetic Olist dataset as CSV files.
type Generator struct {
	opts  Options
	faker *Faker
	files map[string]string
}

// NewGenerator creates a generator. The same options always produce the
// same files.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		opts:  opts,
		faker: NewFakerWithSeed(opts.Seed),
		files: dataset.DefaultFiles,
	}
}

type place struct {
	zip  string
	city City
}

type order struct {
	id       string
	customer string
	status   string
	purchase time.Time
	total    float64
}

// Generate writes all eight tables into dir, creating it if needed.
func (g *Generator) Generate(ctx context.Context, dir string) (Summary, error) {
	if err := g.opts.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	f := g.faker
	c := g.opts.Counts
	summary := make(Summary)

	customers := make([]string, c.Customers)
	customerPlaces := make([]place, c.Customers)
	for i := range customers {
		customers[i] = f.ID()
		customerPlaces[i] = place{zip: f.Digits(5), city: Choose(f, Cities)}
	}
	sellers := make([]string, c.Sellers)
	sellerPlaces := make([]place, c.Sellers)
	for i := range sellers {
		sellers[i] = f.ID()
		sellerPlaces[i] = place{zip: f.Digits(5), city: Choose(f, Cities)}
	}
	products := make([]string, c.Products)
	for i := range products {
		products[i] = f.ID()
	}

	steps := []struct {
		table string
		write func(w *csv.Writer) (int, error)
	}{
		{dataset.Customers, func(w *csv.Writer) (int, error) {
			return g.writeCustomers(w, customers, customerPlaces)
		}},
		{dataset.Sellers, func(w *csv.Writer) (int, error) {
			return g.writeSellers(w, sellers, sellerPlaces)
		}},
		{dataset.Products, func(w *csv.Writer) (int, error) {
			return g.writeProducts(w, products)
		}},
		{dataset.Geolocation, func(w *csv.Writer) (int, error) {
			return g.writeGeolocation(w, append(customerPlaces, sellerPlaces...))
		}},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		n, err := g.writeTable(dir, s.table, s.write)
		if err != nil {
			return summary, err
		}
		summary[s.table] = n
	}

	// Orders drive items, payments and reviews, so they are generated
	// together and written afterwards.
	orders, items := g.buildOrders(customers, products, sellers)

	rest := []struct {
		table string
		write func(w *csv.Writer) (int, error)
	}{
		{dataset.Orders, func(w *csv.Writer) (int, error) { return g.writeOrders(w, orders) }},
		{dataset.OrderItems, func(w *csv.Writer) (int, error) { return len(items), writeRows(w, itemHeader, items) }},
		{dataset.Payments, func(w *csv.Writer) (int, error) { return g.writePayments(w, orders) }},
		{dataset.Reviews, func(w *csv.Writer) (int, error) { return g.writeReviews(w, orders) }},
	}
	for _, s := range rest {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		n, err := g.writeTable(dir, s.table, s.write)
		if err != nil {
			return summary, err
		}
		summary[s.table] = n
	}

	return summary, nil
}

func (g *Generator) latin1(table string) bool {
	return g.opts.Latin1 && (table == dataset.Customers || table == dataset.Geolocation)
}

func (g *Generator) writeTable(dir, table string, write func(w *csv.Writer) (int, error)) (int, error) {
	path := filepath.Join(dir, g.files[table])
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	var out io.Writer = file
	var enc io.WriteCloser
	if g.latin1(table) {
		enc = transform.NewWriter(file, charmap.ISO8859_1.NewEncoder())
		out = enc
	}

	w := csv.NewWriter(out)
	n, err := write(w)
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", table, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", table, err)
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return n, fmt.Errorf("failed to encode %s: %w", table, err)
		}
	}

	logging.Info().
		Str("table", table).
		Str("file", path).
		Int("rows", n).
		Msg("Table complete")

	return n, nil
}

func writeRows(w *csv.Writer, header []string, rows [][]string) error {
	if err := w.Write(header); err != nil {
		return err
	}
	return w.WriteAll(rows)
}

var itemHeader = []string{"order_id", "order_item_id", "product_id", "seller_id",
	"shipping_limit_date", "price", "freight_value"}

func (g *Generator) writeCustomers(w *csv.Writer, ids []string, places []place) (int, error) {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		p := places[i]
		rows[i] = []string{id, g.faker.ID(), p.zip, p.city.Name, p.city.State}
	}
	return len(rows), writeRows(w, []string{"customer_id", "customer_unique_id",
		"customer_zip_code_prefix", "customer_city", "customer_state"}, rows)
}

func (g *Generator) writeSellers(w *csv.Writer, ids []string, places []place) (int, error) {
	rows := make([][]string, len(ids))
	for i, id := range ids {
		p := places[i]
		rows[i] = []string{id, p.zip, p.city.Name, p.city.State}
	}
	return len(rows), writeRows(w, []string{"seller_id", "seller_zip_code_prefix",
		"seller_city", "seller_state"}, rows)
}

func (g *Generator) writeProducts(w *csv.Writer, ids []string) (int, error) {
	f := g.faker
	rows := make([][]string, len(ids))
	for i, id := range ids {
		rows[i] = []string{
			id,
			f.NullableString(Choose(f, Categories), g.opts.MissingRate),
			fmt.Sprint(f.Int(5, 76)),
			fmt.Sprint(f.Int(4, 3992)),
			fmt.Sprint(f.Int(1, 20)),
			fmt.Sprint(f.Int(50, 30000)),
			fmt.Sprint(f.Int(7, 105)),
			fmt.Sprint(f.Int(2, 105)),
			fmt.Sprint(f.Int(6, 118)),
		}
	}
	return len(rows), writeRows(w, []string{"product_id", "product_category_name",
		"product_name_lenght", "product_description_lenght", "product_photos_qty",
		"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm"}, rows)
}

func (g *Generator) writeGeolocation(w *csv.Writer, places []place) (int, error) {
	f := g.faker
	rows := make([][]string, 0, len(places))
	for _, p := range places {
		lat := FormatCoord(p.city.Lat + f.Float64(-0.1, 0.1))
		lng := FormatCoord(p.city.Lng + f.Float64(-0.1, 0.1))
		rows = append(rows, []string{p.zip, f.NullableString(lat, g.opts.MissingRate), lng,
			p.city.Name, p.city.State})
	}
	return len(rows), writeRows(w, []string{"geolocation_zip_code_prefix", "geolocation_lat",
		"geolocation_lng", "geolocation_city", "geolocation_state"}, rows)
}

func (g *Generator) buildOrders(customers, products, sellers []string) ([]order, [][]string) {
	f := g.faker
	c := g.opts.Counts
	end := g.opts.Start.AddDate(0, 0, g.opts.Days)

	orders := make([]order, c.Orders)
	var items [][]string
	for i := range orders {
		o := order{
			id:       f.ID(),
			customer: Choose(f, customers),
			status:   ChooseWeighted(f, orderStatuses, orderStatusWeights),
			purchase: f.DateRange(g.opts.Start, end).UTC().Truncate(time.Second),
		}
		n := f.Int(1, c.MaxItemsPerOrder)
		for j := 1; j <= n; j++ {
			price := f.Price(5, 500)
			freight := f.Float64(5, 60)
			o.total += price + freight
			items = append(items, []string{
				o.id,
				fmt.Sprint(j),
				Choose(f, products),
				Choose(f, sellers),
				o.purchase.AddDate(0, 0, 6).Format(timestampLayout),
				FormatMoney(price),
				FormatMoney(freight),
			})
		}
		orders[i] = o
	}
	return orders, items
}

func (g *Generator) writeOrders(w *csv.Writer, orders []order) (int, error) {
	f := g.faker
	rows := make([][]string, len(orders))
	for i, o := range orders {
		approved := o.purchase.Add(time.Duration(f.Int(10, 48*60)) * time.Minute)
		carrier := approved.AddDate(0, 0, f.Int(1, 5))
		y, m, d := o.purchase.AddDate(0, 0, f.Int(10, 40)).Date()
		estimated := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

		var carrierCell, delivered string
		if o.status == "delivered" || o.status == "shipped" {
			carrierCell = carrier.Format(timestampLayout)
		}
		if o.status == "delivered" {
			at := carrier.Add(time.Duration(f.Int(2*24, 30*24)) * time.Hour)
			delivered = f.NullableString(at.Format(timestampLayout), g.opts.MissingRate)
		}

		rows[i] = []string{
			o.id,
			o.customer,
			o.status,
			o.purchase.Format(timestampLayout),
			approved.Format(timestampLayout),
			carrierCell,
			delivered,
			estimated.Format(timestampLayout),
		}
	}
	return len(rows), writeRows(w, []string{"order_id", "customer_id", "order_status",
		"order_purchase_timestamp", "order_approved_at", "order_delivered_carrier_date",
		"order_delivered_customer_date", "order_estimated_delivery_date"}, rows)
}

func (g *Generator) writePayments(w *csv.Writer, orders []order) (int, error) {
	f := g.faker
	var rows [][]string
	for _, o := range orders {
		remaining := o.total
		parts := 1
		if f.Chance(0.1) {
			parts = 2
		}
		for seq := 1; seq <= parts; seq++ {
			value := remaining
			if seq < parts {
				value = remaining * f.Float64(0.2, 0.8)
			}
			remaining -= value
			typ := ChooseWeighted(f, paymentTypes, paymentTypeWeights)
			installments := 1
			if typ == "credit_card" {
				installments = f.Int(1, 10)
			}
			rows = append(rows, []string{o.id, fmt.Sprint(seq), typ,
				fmt.Sprint(installments), FormatMoney(value)})
		}
	}
	return len(rows), writeRows(w, []string{"order_id", "payment_sequential", "payment_type",
		"payment_installments", "payment_value"}, rows)
}

func (g *Generator) writeReviews(w *csv.Writer, orders []order) (int, error) {
	f := g.faker
	var rows [][]string
	for _, o := range orders {
		if o.status != "delivered" {
			continue
		}
		created := o.purchase.AddDate(0, 0, f.Int(7, 45))
		y, m, d := created.Date()
		created = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		rows = append(rows, []string{
			f.ID(),
			o.id,
			fmt.Sprint(ChooseWeighted(f, reviewScores, reviewScoreWeights)),
			f.NullableString(f.Word(), 0.8),
			f.NullableString(f.Sentence(8), 0.5),
			created.Format(timestampLayout),
			created.Add(time.Duration(f.Int(1, 72)) * time.Hour).Format(timestampLayout),
		})
	}
	return len(rows), writeRows(w, []string{"review_id", "order_id", "review_score",
		"review_comment_title", "review_comment_message", "review_creation_date",
		"review_answer_timestamp"}, rows)
}
