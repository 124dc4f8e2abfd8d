package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huskymart/huskymart/internal/market"
)

func TestCategory_Valid(t *testing.T) {
	t.Parallel()

	for _, c := range market.Categories() {
		assert.True(t, c.Valid(), string(c))
	}

	assert.False(t, market.CategoryAll.Valid(), "All is a browse sentinel, not storable")
	assert.False(t, market.Category("Vehicles").Valid())
	assert.False(t, market.Category("").Valid())
}

func TestDraft_Validate(t *testing.T) {
	t.Parallel()

	valid := market.Draft{Title: "Desk", Category: market.CategoryHomeGoods, Price: 50}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name      string
		mutate    func(*market.Draft)
		wantField string
	}{
		{name: "empty title", mutate: func(d *market.Draft) { d.Title = "" }, wantField: "title"},
		{name: "whitespace title", mutate: func(d *market.Draft) { d.Title = "   " }, wantField: "title"},
		{name: "negative price", mutate: func(d *market.Draft) { d.Price = -1 }, wantField: "price"},
		{name: "unknown category", mutate: func(d *market.Draft) { d.Category = "Boats" }, wantField: "category"},
		{name: "All is not storable", mutate: func(d *market.Draft) { d.Category = market.CategoryAll }, wantField: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := valid
			tt.mutate(&d)

			var verr *market.ValidationError
			require.ErrorAs(t, d.Validate(), &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}

	t.Run("zero price is allowed", func(t *testing.T) {
		t.Parallel()
		d := valid
		d.Price = 0
		assert.NoError(t, d.Validate())
	})
}

func TestPatch_Validate(t *testing.T) {
	t.Parallel()

	title := "New title"
	empty := ""
	neg := -5.0
	bad := market.Category("Boats")

	assert.NoError(t, market.Patch{Title: &title}.Validate())
	assert.NoError(t, market.Patch{}.Validate())

	var verr *market.ValidationError
	require.ErrorAs(t, market.Patch{Title: &empty}.Validate(), &verr)
	require.ErrorAs(t, market.Patch{Price: &neg}.Validate(), &verr)
	require.ErrorAs(t, market.Patch{Category: &bad}.Validate(), &verr)

	assert.True(t, market.Patch{}.Empty())
	assert.False(t, market.Patch{Title: &title}.Empty())
}
