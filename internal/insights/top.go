//-------------------------------------------------------------------------
//
// pgEdge Olist Analytics
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package insights

import (
	"sort"

	"github.com/pgEdge/pgedge-olist/internal/dataset"
	"github.com/pgEdge/pgedge-olist/internal/parse"
	"github.com/pgEdge/pgedge-olist/internal/pipeline"
)

// ProductRevenue is one entry of the top products ranking.
type ProductRevenue struct {
	ProductID  string           `json:"product_id"`
	ShortID    string           `json:"short_id"`
	Category   string           `json:"category,omitempty"`
	NameLength parse.Maybe[int] `json:"name_length"`
	Revenue    float64          `json:"revenue"`
	Orders     int              `json:"orders"`
}

// SellerRevenue is one entry of the top sellers ranking.
type SellerRevenue struct {
	SellerID string  `json:"seller_id"`
	ShortID  string  `json:"short_id"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

type ranked struct {
	key     string
	revenue float64
	orders  int
}

// rankBy groups rows by key, sums price and counts distinct orders, and
// returns the n largest by revenue. Ties keep key order.
func rankBy(rows []pipeline.Row, key func(pipeline.Row) string, n int) []ranked {
	if n <= 0 {
		return nil
	}
	type acc struct {
		revenue float64
		orders  map[string]struct{}
	}
	groups := make(map[string]*acc)
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		a, ok := groups[k]
		if !ok {
			a = &acc{orders: make(map[string]struct{})}
			groups[k] = a
		}
		a.revenue += r.Price.Or(0)
		if r.OrderID != "" {
			a.orders[r.OrderID] = struct{}{}
		}
	}

	out := make([]ranked, 0, len(groups))
	for k, a := range groups {
		out = append(out, ranked{key: k, revenue: a.revenue, orders: len(a.orders)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].revenue != out[j].revenue {
			return out[i].revenue > out[j].revenue
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopProducts ranks products by revenue and decorates them from the
// products reference table.
func TopProducts(res *pipeline.Result, rows []pipeline.Row, n int) []ProductRevenue {
	top := rankBy(rows, func(r pipeline.Row) string { return r.ProductID }, n)
	if len(top) == 0 {
		return nil
	}
	products := lookup(res.Products, pipeline.ColProductID)

	out := make([]ProductRevenue, len(top))
	for i, t := range top {
		p := ProductRevenue{ProductID: t.key, Revenue: t.revenue, Orders: t.orders}
		p.ShortID, _ = res.ProductIDs.Lookup(t.key)
		if j, ok := products[t.key]; ok {
			p.Category = res.Products.Get(j, pipeline.ColCategory)
			p.NameLength = parse.Int(res.Products.Get(j, "product_name_lenght"))
		}
		out[i] = p
	}
	return out
}

// TopSellers ranks sellers by revenue and decorates them from the sellers
// reference table.
func TopSellers(res *pipeline.Result, rows []pipeline.Row, n int) []SellerRevenue {
	top := rankBy(rows, func(r pipeline.Row) string { return r.SellerID }, n)
	if len(top) == 0 {
		return nil
	}
	sellers := lookup(res.Sellers, pipeline.ColSellerID)

	out := make([]SellerRevenue, len(top))
	for i, t := range top {
		s := SellerRevenue{SellerID: t.key, Revenue: t.revenue, Orders: t.orders}
		s.ShortID, _ = res.SellerIDs.Lookup(t.key)
		if j, ok := sellers[t.key]; ok {
			s.City = res.Sellers.Get(j, "seller_city")
			s.State = res.Sellers.Get(j, "seller_state")
		}
		out[i] = s
	}
	return out
}

func lookup(t *dataset.Table, column string) map[string]int {
	idx := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		k := t.Get(i, column)
		if _, seen := idx[k]; !seen && k != "" {
			idx[k] = i
		}
	}
	return idx
}
