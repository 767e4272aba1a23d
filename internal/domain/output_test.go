package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputRow_StringsFollowColumns(t *testing.T) {
	bid := 1000.0
	remaining := "1d 2h 3m"
	label := Undervalued
	estimate := 2000.0
	ratio := 0.57

	row := OutputRow{
		ID:             42,
		Title:          "Omega Seamaster",
		TimeRemaining:  &remaining,
		HighestBid:     &bid,
		CatawikiFee:    90,
		DeliveryFee:    50,
		FinalPrice:     1140,
		MarketEstimate: &estimate,
		Ratio:          &ratio,
		Valuation:      &label,
	}

	cells := row.Strings()
	require.Len(t, cells, len(Columns))
	assert.Equal(t, "42", cells[0])
	assert.Equal(t, "1d 2h 3m", cells[5])
	assert.Equal(t, "", cells[6], "absent bidding start renders empty")
	assert.Equal(t, "", cells[7], "absent buy now price renders empty")
	assert.Equal(t, "1000", cells[8])
	assert.Equal(t, "90", cells[9])
	assert.Equal(t, "1140", cells[11])
	assert.Equal(t, "0.57", cells[13])
	assert.Equal(t, "undervalued", cells[14])
}

func TestOutputRow_JSONKeyOrder(t *testing.T) {
	data, err := json.Marshal(OutputRow{ID: 1})
	require.NoError(t, err)

	text := string(data)
	last := -1
	for _, col := range Columns {
		idx := strings.Index(text, `"`+col+`":`)
		require.GreaterOrEqual(t, idx, 0, "missing column %q", col)
		assert.Greater(t, idx, last, "column %q out of order", col)
		last = idx
	}
	assert.Contains(t, text, `"Valuation":null`)
	assert.Contains(t, text, `"Final Price vs. Market Est. Ratio":null`)
}

func TestQueryMode(t *testing.T) {
	assert.Equal(t, ModeCategory, Query{}.Mode())
	assert.Equal(t, ModeCategory, Query{Search: "   "}.Mode())
	assert.Equal(t, ModeSearch, Query{Search: "rolex"}.Mode())
	assert.Equal(t, "categoryLots", ModeCategory.ResultsKey())
	assert.Equal(t, "searchLots", ModeSearch.ResultsKey())
	assert.Equal(t, "search", ModeSearch.String())
}
