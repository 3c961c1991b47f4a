//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package parse

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"58.90", 58.9, true},
		{" 13.29 ", 13.29, true},
		{"-1", -1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"12,5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Float(tt.in)
			if got.OK != tt.wantOK {
				t.Fatalf("Float(%q).OK = %v, want %v", tt.in, got.OK, tt.wantOK)
			}
			if got.OK && got.Value != tt.want {
				t.Errorf("Float(%q) = %v, want %v", tt.in, got.Value, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	if got := Int("4"); !got.OK || got.Value != 4 {
		t.Errorf("Int(4) = %+v", got)
	}
	if got := Int("5.0"); !got.OK || got.Value != 5 {
		t.Errorf("Int(5.0) = %+v", got)
	}
	if got := Int("4.5"); got.OK {
		t.Errorf("Int(4.5) should be missing, got %+v", got)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Time
		wantOK bool
	}{
		{"2017-10-02 10:56:33", time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), true},
		{"2017-10-18 00:00:00", time.Date(2017, 10, 18, 0, 0, 0, 0, time.UTC), true},
		{"2017-10-18", time.Date(2017, 10, 18, 0, 0, 0, 0, time.UTC), true},
		{"2017-10-18T08:00:00Z", time.Date(2017, 10, 18, 8, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"2017-13-40", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Time(tt.in)
			if got.OK != tt.wantOK {
				t.Fatalf("Time(%q).OK = %v, want %v", tt.in, got.OK, tt.wantOK)
			}
			if got.OK && !got.Value.Equal(tt.want) {
				t.Errorf("Time(%q) = %v, want %v", tt.in, got.Value, tt.want)
			}
		})
	}
}

func TestSumAndMeanSkipMissing(t *testing.T) {
	values := []Maybe[float64]{Some(1.0), Missing[float64](), Some(3.0)}

	if s := Sum(values); !s.OK || s.Value != 4 {
		t.Errorf("Sum = %+v, want 4", s)
	}
	if m := Mean(values); !m.OK || m.Value != 2 {
		t.Errorf("Mean = %+v, want 2", m)
	}

	none := []Maybe[float64]{Missing[float64]()}
	if s := Sum(none); s.OK {
		t.Error("Sum of only missing values should be missing")
	}
	if m := Mean(nil); m.OK {
		t.Error("Mean of nothing should be missing")
	}
}

func TestDaysBetween(t *testing.T) {
	day := func(d int) Maybe[time.Time] {
		return Some(time.Date(2017, 1, d, 0, 0, 0, 0, time.UTC))
	}

	if got := DaysBetween(day(10), day(12)); !got.OK || got.Value != 2 {
		t.Errorf("late delivery = %+v, want 2", got)
	}
	if got := DaysBetween(day(10), day(8)); !got.OK || got.Value != -2 {
		t.Errorf("early delivery = %+v, want -2", got)
	}
	if got := DaysBetween(day(10), Missing[time.Time]()); got.OK {
		t.Error("missing delivered date should give missing delta")
	}

	// Partial days floor toward negative infinity.
	est := Some(time.Date(2017, 1, 10, 0, 0, 0, 0, time.UTC))
	early := Some(time.Date(2017, 1, 9, 12, 0, 0, 0, time.UTC))
	if got := DaysBetween(est, early); got.Value != -1 {
		t.Errorf("half day early = %d, want -1", got.Value)
	}
	late := Some(time.Date(2017, 1, 10, 12, 0, 0, 0, time.UTC))
	if got := DaysBetween(est, late); got.Value != 0 {
		t.Errorf("half day late = %d, want 0", got.Value)
	}
}

func TestMaybeJSON(t *testing.T) {
	type row struct {
		A Maybe[float64] `json:"a"`
		B Maybe[float64] `json:"b"`
	}
	out, err := json.Marshal(row{A: Some(1.5)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"a":1.5,"b":null}` {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestMaybeJSONDecode(t *testing.T) {
	var got struct {
		A Maybe[float64] `json:"a"`
		B Maybe[float64] `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":2,"b":null}`), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.A.OK || got.A.Value != 2 {
		t.Errorf("a = %+v, want 2", got.A)
	}
	if got.B.OK {
		t.Errorf("b = %+v, want missing", got.B)
	}
}
