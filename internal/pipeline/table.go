//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/parse"
)

// MasterTableName is the table name used when the master rows are
// exported.
const MasterTableName = "master"

var derivedColumns = []string{
	ColPurchaseDate,
	ColEstimated,
	ColDeliveredDate,
	ColDeliveryDeltaDays,
	ColProductShortID,
	ColSellerShortID,
}

// ToTable flattens rows into an untyped table: the joined raw columns of
// res followed by the derived columns. Missing values become empty cells.
func ToTable(res *Result, rows []Row) *dataset.Table {
	if res == nil {
		return dataset.Empty(MasterTableName)
	}
	cols := append(append([]string(nil), res.Columns...), derivedColumns...)

	out := make([][]string, len(rows))
	for i, r := range rows {
		rec := make([]string, 0, len(cols))
		for _, c := range res.Columns {
			rec = append(rec, r.Attrs[c])
		}
		rec = append(rec,
			formatTime(r.PurchaseDate),
			formatTime(r.EstimatedDelivery),
			formatTime(r.DeliveredDate),
			formatInt(r.DeliveryDeltaDays),
			r.ProductShortID,
			r.SellerShortID,
		)
		out[i] = rec
	}
	return dataset.NewTable(MasterTableName, cols, out)
}

func formatTime(m parse.Maybe[time.Time]) string {
	if !m.OK {
		return ""
	}
	return m.Value.Format("2006-01-02 15:04:05")
}

func formatInt(m parse.Maybe[int]) string {
	if !m.OK {
		return ""
	}
	return strconv.Itoa(m.Value)
}
