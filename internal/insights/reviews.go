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
)

// ScoreCount is how many reviews gave one score.
type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// ReviewDistribution counts reviews per review_score, ascending by score.
// Unparseable scores are skipped.
func ReviewDistribution(reviews *dataset.Table) []ScoreCount {
	if !reviews.Has("review_score") {
		return nil
	}
	counts := make(map[int]int)
	for i := 0; i < reviews.Len(); i++ {
		if s := parse.Int(reviews.Get(i, "review_score")); s.OK {
			counts[s.Value]++
		}
	}

	out := make([]ScoreCount, 0, len(counts))
	for score, n := range counts {
		out = append(out, ScoreCount{Score: score, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}
