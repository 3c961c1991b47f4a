//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

const dateLayout = "2006-01-02"

// ParseCriteria reads the filter from query parameters: start and end as
// YYYY-MM-DD (both are needed for a date range) and category, repeated or
// comma separated.
func ParseCriteria(r *http.Request) (pipeline.Criteria, error) {
	q := r.URL.Query()
	var c pipeline.Criteria

	start, end := q.Get("start"), q.Get("end")
	if start != "" && end != "" {
		s, err := time.Parse(dateLayout, start)
		if err != nil {
			return c, fmt.Errorf("invalid start date %q", start)
		}
		e, err := time.Parse(dateLayout, end)
		if err != nil {
			return c, fmt.Errorf("invalid end date %q", end)
		}
		c.DateRange = []time.Time{s, e}
	}

	for _, v := range q["category"] {
		for _, cat := range strings.Split(v, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				c.Categories = append(c.Categories, cat)
			}
		}
	}
	return c, nil
}

// parseLimit reads the limit parameter, falling back to def.
func parseLimit(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return n, nil
}
