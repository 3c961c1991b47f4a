//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report writes dashboard figures to an XLSX workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pgEdge/pgedge-olist/internal/insights"
	"github.com/pgEdge/pgedge-olist/internal/parse"
)

// Sheet names, in workbook order.
const (
	SheetSummary     = "Summary"
	SheetWeekly      = "Weekly"
	SheetTopProducts = "Top Products"
	SheetTopSellers  = "Top Sellers"
	SheetReviews     = "Reviews"
	SheetDelivery    = "Delivery"
)

const dateLayout = "2006-01-02"

type sheet struct {
	name   string
	header []string
	rows   [][]any
}

// Write saves d as a workbook at path.
func Write(d *insights.Dashboard, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []sheet{
		summarySheet(d),
		weeklySheet(d),
		productsSheet(d),
		sellersSheet(d),
		reviewsSheet(d),
		deliverySheet(d),
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", s.name, err)
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", s.name, err)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+1, err)
		}
	}
	if len(s.header) > 0 {
		last, err := excelize.ColumnNumberToName(len(s.header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, "A", last, 18); err != nil {
			return fmt.Errorf("failed to size %s columns: %w", s.name, err)
		}
	}
	return nil
}

// cell renders a missing value as an empty cell.
func cell[T any](m parse.Maybe[T]) any {
	if !m.OK {
		return ""
	}
	return m.Value
}

func day(m parse.Maybe[time.Time]) any {
	if !m.OK {
		return ""
	}
	return m.Value.Format(dateLayout)
}

func summarySheet(d *insights.Dashboard) sheet {
	rows := [][]any{
		{"Orders", d.KPIs.Orders},
		{"Revenue", d.KPIs.Revenue},
		{"Unique customers", d.KPIs.UniqueCustomers},
		{"Avg delivery delta (days)", cell(d.KPIs.AvgDeliveryDelta)},
		{"Rows", d.Rows},
		{"Filter start", day(d.Filters.Start)},
		{"Filter end", day(d.Filters.End)},
		{"Categories", strings.Join(d.Filters.Categories, ", ")},
	}
	for _, n := range d.Notes {
		rows = append(rows, []any{"Note", n})
	}
	return sheet{name: SheetSummary, header: []string{"Metric", "Value"}, rows: rows}
}

func weeklySheet(d *insights.Dashboard) sheet {
	rows := make([][]any, len(d.Weekly))
	for i, p := range d.Weekly {
		rows[i] = []any{p.WeekEnding.Format(dateLayout), p.Orders, p.Revenue}
	}
	return sheet{name: SheetWeekly, header: []string{"Week ending", "Orders", "Revenue"}, rows: rows}
}

func productsSheet(d *insights.Dashboard) sheet {
	rows := make([][]any, len(d.TopProducts))
	for i, p := range d.TopProducts {
		rows[i] = []any{p.ShortID, p.ProductID, p.Category, cell(p.NameLength), p.Revenue, p.Orders}
	}
	return sheet{
		name:   SheetTopProducts,
		header: []string{"Short ID", "Product ID", "Category", "Name length", "Revenue", "Orders"},
		rows:   rows,
	}
}

func sellersSheet(d *insights.Dashboard) sheet {
	rows := make([][]any, len(d.TopSellers))
	for i, s := range d.TopSellers {
		rows[i] = []any{s.ShortID, s.SellerID, s.City, s.State, s.Revenue, s.Orders}
	}
	return sheet{
		name:   SheetTopSellers,
		header: []string{"Short ID", "Seller ID", "City", "State", "Revenue", "Orders"},
		rows:   rows,
	}
}

func reviewsSheet(d *insights.Dashboard) sheet {
	rows := make([][]any, len(d.Reviews))
	for i, r := range d.Reviews {
		rows[i] = []any{r.Score, r.Count}
	}
	return sheet{name: SheetReviews, header: []string{"Score", "Count"}, rows: rows}
}

func deliverySheet(d *insights.Dashboard) sheet {
	rows := make([][]any, 0, len(d.Delivery.Points)+2)
	for _, p := range d.Delivery.Points {
		rows = append(rows, []any{p.OrderID, cell(p.DeltaDays), p.Value})
	}
	if t := d.Delivery.Trend; t != nil {
		rows = append(rows,
			[]any{"Trend slope", t.Slope, ""},
			[]any{"Trend intercept", t.Intercept, ""},
		)
	}
	return sheet{name: SheetDelivery, header: []string{"Order ID", "Delta days", "Order value"}, rows: rows}
}
