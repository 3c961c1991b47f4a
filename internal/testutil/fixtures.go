//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides fixtures and helpers shared by package tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteCSV writes header and rows as a comma-separated file in dir.
func WriteCSV(t *testing.T, dir, file string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, file)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("Failed to write rows: %v", err)
	}
	return path
}

// WriteFile writes raw bytes to dir/file.
func WriteFile(t *testing.T, dir, file string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteOlistFixture writes a small, hand-checked Olist dataset into dir and
// returns dir. The figures tests rely on:
//
//   - six order items across orders o1..o4 plus o9, which has no order row
//   - price sum 300 (o3's price is not numeric), five distinct orders,
//     three distinct customers
//   - delivery delta: o1 +2 days, o2 -2 days, o3 and o4 missing
//   - categories: pA and pC are toys, pB electronics, pD has no product row
//   - payments: o1 165, o2 110, o4 33, o3 none
func WriteOlistFixture(t *testing.T, dir string) string {
	t.Helper()

	WriteCSV(t, dir, "olist_orders_dataset.csv",
		[]string{"order_id", "customer_id", "order_status", "order_purchase_timestamp",
			"order_approved_at", "order_delivered_carrier_date",
			"order_delivered_customer_date", "order_estimated_delivery_date"},
		[][]string{
			{"o1", "c1", "delivered", "2017-01-05 10:00:00", "2017-01-05 11:00:00",
				"2017-01-06 09:00:00", "2017-01-12 00:00:00", "2017-01-10 00:00:00"},
			{"o2", "c2", "delivered", "2017-01-20 09:30:00", "2017-01-20 10:00:00",
				"2017-01-22 08:00:00", "2017-01-28 00:00:00", "2017-01-30 00:00:00"},
			{"o3", "c1", "shipped", "2017-02-01 12:00:00", "2017-02-01 13:00:00",
				"2017-02-03 10:00:00", "", "2017-02-15 00:00:00"},
			{"o4", "c3", "delivered", "2017-03-10 08:00:00", "", "",
				"not recorded", "2017-03-20 00:00:00"},
		})

	WriteCSV(t, dir, "olist_order_items_dataset.csv",
		[]string{"order_id", "order_item_id", "product_id", "seller_id",
			"shipping_limit_date", "price", "freight_value"},
		[][]string{
			{"o1", "1", "pA", "s1", "2017-01-09 10:00:00", "100.00", "10.00"},
			{"o1", "2", "pB", "s2", "2017-01-09 10:00:00", "50.00", "5.00"},
			{"o2", "1", "pA", "s1", "2017-01-24 09:30:00", "100.00", "10.00"},
			{"o3", "1", "pC", "s1", "2017-02-05 12:00:00", "abc", "7.50"},
			{"o4", "1", "pB", "s2", "2017-03-14 08:00:00", "30.00", "3.00"},
			{"o9", "1", "pD", "s3", "2017-04-01 00:00:00", "20.00", "2.00"},
		})

	WriteCSV(t, dir, "olist_products_dataset.csv",
		[]string{"product_id", "product_category_name", "product_name_lenght",
			"product_description_lenght", "product_photos_qty", "product_weight_g"},
		[][]string{
			{"pA", "toys", "40", "300", "2", "500"},
			{"pB", "electronics", "35", "800", "1", "1200"},
			{"pC", "toys", "20", "150", "1", "250"},
		})

	WriteCSV(t, dir, "olist_order_payments_dataset.csv",
		[]string{"order_id", "payment_sequential", "payment_type",
			"payment_installments", "payment_value"},
		[][]string{
			{"o1", "1", "credit_card", "1", "100.00"},
			{"o1", "2", "voucher", "1", "65.00"},
			{"o2", "1", "boleto", "1", "110.00"},
			{"o4", "1", "credit_card", "2", "33.00"},
		})

	WriteCSV(t, dir, "olist_sellers_dataset.csv",
		[]string{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"},
		[][]string{
			{"s1", "13023", "campinas", "SP"},
			{"s2", "01310", "sao paulo", "SP"},
			{"s3", "80060", "curitiba", "PR"},
		})

	WriteCSV(t, dir, "olist_customers_dataset.csv",
		[]string{"customer_id", "customer_unique_id", "customer_zip_code_prefix",
			"customer_city", "customer_state"},
		[][]string{
			{"c1", "u1", "14409", "franca", "SP"},
			{"c2", "u2", "09790", "sao bernardo do campo", "SP"},
			{"c3", "u3", "01151", "sao paulo", "SP"},
		})

	WriteCSV(t, dir, "olist_order_reviews_dataset.csv",
		[]string{"review_id", "order_id", "review_score", "review_comment_title",
			"review_comment_message", "review_creation_date", "review_answer_timestamp"},
		[][]string{
			{"r1", "o1", "5", "", "otimo", "2017-01-13 00:00:00", "2017-01-14 10:00:00"},
			{"r2", "o2", "4", "", "", "2017-01-29 00:00:00", "2017-01-30 10:00:00"},
			{"r3", "o3", "1", "atraso", "nao chegou", "2017-02-20 00:00:00", "2017-02-21 10:00:00"},
			{"r4", "o4", "5", "", "", "2017-03-21 00:00:00", "2017-03-22 10:00:00"},
		})

	WriteCSV(t, dir, "olist_geolocation_dataset.csv",
		[]string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
			"geolocation_city", "geolocation_state"},
		[][]string{
			{"01037", "-23.545621", "-46.639292", "sao paulo", "SP"},
			{"01046", "-23.546081", "-46.644820", "sao paulo", "SP"},
			{"01046", "-23.546081", "-46.644820", "sao paulo", "SP"},
			{"13023", "", "-47.060001", "campinas", "SP"},
			{"80060", "-25.428954", "-49.267137", "curitiba", "PR"},
		})

	return dir
}
