package market

import (
	"regexp"
	"strings"
)

// Filter narrows the catalog by free text, category, and price range. The
// zero value matches everything. Predicates combine conjunctively and are
// commutative, so the same Filter can be applied in memory or pushed down
// to the store without changing the result set.
type Filter struct {
	// Text is matched case-insensitively as a substring of the title.
	// Empty matches everything.
	Text string

	// Category must match exactly, except the CategoryAll sentinel (or
	// empty), which matches everything.
	Category Category

	// MinPrice and MaxPrice are inclusive bounds; nil means unbounded.
	// When MinPrice > MaxPrice the filter matches nothing.
	MinPrice *float64
	MaxPrice *float64
}

// Match reports whether a single listing satisfies every predicate.
func (f Filter) Match(l Listing) bool {
	if f.impossible() {
		return false
	}
	if f.Text != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Text)) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && l.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the listings satisfying the filter, preserving input order.
// The input slice is never mutated.
func (f Filter) Apply(items []Listing) []Listing {
	if f.impossible() {
		return nil
	}
	var out []Listing
	for _, l := range items {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

func (f Filter) impossible() bool {
	return f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice
}

// query translates the filter into the store's predicate document. An
// impossible price range is translated as-is: the contradictory bounds
// match no document, mirroring Apply.
func (f Filter) query() map[string]any {
	q := map[string]any{}

	if f.Text != "" {
		q["title"] = map[string]any{
			"$regex":   regexp.QuoteMeta(f.Text),
			"$options": "i",
		}
	}
	if f.Category != "" && f.Category != CategoryAll {
		q["category"] = string(f.Category)
	}

	price := map[string]any{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}

	return q
}

// Price returns a pointer to v, for building filter bounds inline.
func Price(v float64) *float64 {
	return &v
}
