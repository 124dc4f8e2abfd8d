package market_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/market"
)

func sampleCatalog() []market.Listing {
	posted := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)
	return []market.Listing{
		{ID: "1", Title: "Standing Desk", Category: market.CategoryHomeGoods, Price: 50, DatePosted: posted, SellerID: "a@x.com"},
		{ID: "2", Title: "Mechanical Keyboard", Category: market.CategoryElectronics, Price: 80, DatePosted: posted, SellerID: "b@x.com"},
		{ID: "3", Title: "Rice Cooker", Category: market.CategoryKitchen, Price: 25, DatePosted: posted, SellerID: "c@x.com"},
		{ID: "4", Title: "Desk Lamp", Category: market.CategoryHomeGoods, Price: 15, DatePosted: posted, SellerID: "b@x.com"},
		{ID: "5", Title: "Winter Jacket", Category: market.CategoryClothing, Price: 40, DatePosted: posted, SellerID: "a@x.com"},
	}
}

func ids(listings []market.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter market.Filter
		want   []string
	}{
		{
			name:   "zero filter matches everything",
			filter: market.Filter{},
			want:   []string{"1", "2", "3", "4", "5"},
		},
		{
			name:   "All category sentinel matches everything",
			filter: market.Filter{Category: market.CategoryAll},
			want:   []string{"1", "2", "3", "4", "5"},
		},
		{
			name:   "category exact match",
			filter: market.Filter{Category: market.CategoryHomeGoods},
			want:   []string{"1", "4"},
		},
		{
			name:   "text is case-insensitive substring on title",
			filter: market.Filter{Text: "desk"},
			want:   []string{"1", "4"},
		},
		{
			name:   "empty text matches everything",
			filter: market.Filter{Text: ""},
			want:   []string{"1", "2", "3", "4", "5"},
		},
		{
			name:   "price bounds are inclusive",
			filter: market.Filter{MinPrice: market.Price(25), MaxPrice: market.Price(50)},
			want:   []string{"1", "3", "5"},
		},
		{
			name:   "filters compose with AND",
			filter: market.Filter{Text: "desk", Category: market.CategoryHomeGoods, MaxPrice: market.Price(20)},
			want:   []string{"4"},
		},
		{
			name:   "min above max matches nothing",
			filter: market.Filter{MinPrice: market.Price(500), MaxPrice: market.Price(100)},
			want:   nil,
		},
		{
			name:   "no match",
			filter: market.Filter{Text: "spaceship"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.filter.Apply(sampleCatalog())
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_ApplyIsCommutative(t *testing.T) {
	t.Parallel()

	items := sampleCatalog()
	byCategory := market.Filter{Category: market.CategoryHomeGoods}
	byText := market.Filter{Text: "desk"}
	combined := market.Filter{Category: market.CategoryHomeGoods, Text: "desk"}

	catThenText := byText.Apply(byCategory.Apply(items))
	textThenCat := byCategory.Apply(byText.Apply(items))
	oneShot := combined.Apply(items)

	assert.Equal(t, ids(oneShot), ids(catThenText))
	assert.Equal(t, ids(oneShot), ids(textThenCat))
}

func TestFilter_ApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := sampleCatalog()
	want := ids(items)

	_ = market.Filter{Text: "desk", MaxPrice: market.Price(20)}.Apply(items)

	assert.Equal(t, want, ids(items))
	require.Len(t, items, 5)
}

func TestFilter_Match(t *testing.T) {
	t.Parallel()

	desk := sampleCatalog()[0]

	assert.True(t, market.Filter{Text: "DESK"}.Match(desk))
	assert.True(t, market.Filter{MinPrice: market.Price(50), MaxPrice: market.Price(50)}.Match(desk))
	assert.False(t, market.Filter{Category: market.CategoryElectronics}.Match(desk))
	assert.False(t, market.Filter{MinPrice: market.Price(60), MaxPrice: market.Price(10)}.Match(desk))
}
