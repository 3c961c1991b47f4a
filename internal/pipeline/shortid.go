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
	"fmt"
)

// Short identifier prefixes.
const (
	ProductPrefix = "P"
	SellerPrefix  = "S"
)

// ShortIDs maps raw keys to compact display labels such as P0001. Keys are
// numbered from 1 in first-seen order; empty keys are skipped.
type ShortIDs struct {
	prefix string
	keys   []string
	ids    map[string]string
}

// NewShortIDs numbers the distinct non-empty keys in the order given.
func NewShortIDs(prefix string, keys []string) *ShortIDs {
	s := &ShortIDs{
		prefix: prefix,
		ids:    make(map[string]string),
	}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, seen := s.ids[k]; seen {
			continue
		}
		s.keys = append(s.keys, k)
		s.ids[k] = fmt.Sprintf("%s%04d", prefix, len(s.keys))
	}
	return s
}

// Lookup returns the short id for a raw key.
func (s *ShortIDs) Lookup(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	id, ok := s.ids[key]
	return id, ok
}

// Apply maps each key to its short id; unknown keys map to "".
func (s *ShortIDs) Apply(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i], _ = s.Lookup(k)
	}
	return out
}

// Len returns the number of mapped keys.
func (s *ShortIDs) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the raw keys in numbering order.
func (s *ShortIDs) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Map returns a copy of the raw key to short id mapping.
func (s *ShortIDs) Map() map[string]string {
	out := make(map[string]string, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.ids {
		out[k] = v
	}
	return out
}
