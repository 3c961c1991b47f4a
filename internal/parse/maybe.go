//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package parse provides opportunistic coercion of raw CSV cells into typed
// values. A failed coercion yields a missing Maybe rather than an error, so
// aggregations can skip it deterministically.
package parse

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Maybe holds either a parsed value or a missing marker.
type Maybe[T any] struct {
	Value T
	OK    bool
}

// Some wraps a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, OK: true}
}

// Missing returns the missing marker for T.
func Missing[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Or returns the value when present, otherwise def.
func (m Maybe[T]) Or(def T) T {
	if m.OK {
		return m.Value
	}
	return def
}

// MarshalJSON encodes a missing value as null.
func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.OK {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as missing.
func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Maybe[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// Float parses s as a float64. Empty, NaN and non-numeric input are missing.
func Float(s string) Maybe[float64] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing[float64]()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != v {
		return Missing[float64]()
	}
	return Some(v)
}

// Int parses s as an integer, accepting integral floats such as "4.0".
func Int(s string) Maybe[int] {
	f := Float(s)
	if !f.OK || f.Value != float64(int(f.Value)) {
		return Missing[int]()
	}
	return Some(int(f.Value))
}

// String returns s trimmed, or missing when empty.
func String(s string) Maybe[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing[string]()
	}
	return Some(s)
}

// timeLayouts are tried in order; the dataset uses the first one.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Time parses s as a timestamp in UTC. Unparseable input is missing.
func Time(s string) Maybe[time.Time] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Missing[time.Time]()
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Some(t)
		}
	}
	return Missing[time.Time]()
}

// Sum adds the present values; the result is missing only when none are.
func Sum(values []Maybe[float64]) Maybe[float64] {
	var total float64
	seen := false
	for _, v := range values {
		if v.OK {
			total += v.Value
			seen = true
		}
	}
	if !seen {
		return Missing[float64]()
	}
	return Some(total)
}

// Mean averages the present values.
func Mean(values []Maybe[float64]) Maybe[float64] {
	var total float64
	n := 0
	for _, v := range values {
		if v.OK {
			total += v.Value
			n++
		}
	}
	if n == 0 {
		return Missing[float64]()
	}
	return Some(total / float64(n))
}

// DaysBetween returns the whole days from start to end, floored, when both
// timestamps are present.
func DaysBetween(start, end Maybe[time.Time]) Maybe[int] {
	if !start.OK || !end.OK {
		return Missing[int]()
	}
	d := end.Value.Sub(start.Value)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return Some(days)
}
