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
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerID(t *testing.T) {
	f := NewFakerWithSeed(1)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := f.ID()
		if len(id) != 32 {
			t.Fatalf("Expected 32 characters, got %d (%s)", len(id), id)
		}
		for _, r := range id {
			if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
				t.Fatalf("Expected lowercase hex, got %s", id)
			}
		}
		if seen[id] {
			t.Fatalf("Duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestFakerPrice(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		p := f.Price(5, 500)
		if p < 5 || p > 500 {
			t.Errorf("Price out of range: %f", p)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Errorf("Date out of range: %v", d)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(10, 20)
		if v < 10 || v > 20 {
			t.Errorf("Int out of range: %d", v)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	d := f.Digits(5)
	if len(d) != 5 {
		t.Errorf("Expected 5 digits, got %d", len(d))
	}
	for _, c := range d {
		if c < '0' || c > '9' {
			t.Errorf("Non-digit character: %c", c)
		}
	}
}

func TestFakerNullableString(t *testing.T) {
	f := NewFaker()

	if got := f.NullableString("x", 0); got != "x" {
		t.Errorf("Probability 0 should keep the value, got %q", got)
	}
	if got := f.NullableString("x", 1); got != "" {
		t.Errorf("Probability 1 should blank the value, got %q", got)
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}

	for i := 0; i < 100; i++ {
		v := Choose(f, items)
		found := false
		for _, item := range items {
			if v == item {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned item not in list: %s", v)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	var items []string
	v := Choose(f, items)
	if v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %s", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"common", "rare"}
	weights := []int{100, 0}

	for i := 0; i < 100; i++ {
		if v := ChooseWeighted(f, items, weights); v != "common" {
			t.Fatalf("Zero-weight item chosen: %s", v)
		}
	}
}

func TestChooseWeightedEmpty(t *testing.T) {
	f := NewFaker()
	if v := ChooseWeighted(f, []int{}, []int{}); v != 0 {
		t.Errorf("ChooseWeighted on empty slice should return zero value, got %d", v)
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10.00"},
		{29.999, "30.00"},
		{0.5, "0.50"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
