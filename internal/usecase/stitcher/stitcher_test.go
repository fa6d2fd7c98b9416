package stitcher

import (
	"testing"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStitchPrices_LiveOverridesStatic(t *testing.T) {
	static := []domain.PricePoint{
		{Date: "2024-01-01", Price: 100},
		{Date: "2024-01-02", Price: 110},
	}
	live := []domain.PricePoint{
		{Date: "2024-01-02", Price: 115},
		{Date: "2024-01-03", Price: 120},
	}

	got := StitchPrices(static, live)

	assert.Equal(t, []domain.PricePoint{
		{Date: "2024-01-01", Price: 100},
		{Date: "2024-01-02", Price: 115},
		{Date: "2024-01-03", Price: 120},
	}, got)
}

func TestStitch_Totality(t *testing.T) {
	static := []domain.DeflatorPoint{
		{Date: "2023-03-01", Value: 3},
		{Date: "2023-01-01", Value: 1},
		{Date: "2023-02-01", Value: 2},
	}
	live := []domain.DeflatorPoint{
		{Date: "2023-02-01", Value: 20},
		{Date: "2023-04-01", Value: 40},
	}

	got := StitchDeflators(static, live)

	// every date of either input appears exactly once, in ascending order
	dates := make([]string, len(got))
	for i, p := range got {
		dates[i] = p.Date
	}
	assert.Equal(t, []string{"2023-01-01", "2023-02-01", "2023-03-01", "2023-04-01"}, dates)

	// each live point appears with its value
	byDate := make(map[string]float64, len(got))
	for _, p := range got {
		byDate[p.Date] = p.Value
	}
	for _, p := range live {
		assert.Equal(t, p.Value, byDate[p.Date])
	}

	// inputs untouched
	assert.Equal(t, "2023-03-01", static[0].Date)
}

func TestStitch_EmptyInputs(t *testing.T) {
	assert.Empty(t, StitchPrices(nil, nil))

	static := []domain.PricePoint{{Date: "2024-01-01", Price: 1}}
	assert.Equal(t, static, StitchPrices(static, nil))
	assert.Equal(t, static, StitchPrices(nil, static))
}
