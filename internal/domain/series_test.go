package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(d))
	assert.Equal(t, "2024-03-01", FormatDate(AddDays(d, 1)))

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysBetween(t *testing.T) {
	start, _ := ParseDate("2024-01-01")
	end, _ := ParseDate("2024-03-01")
	assert.Equal(t, 60, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
}

func TestDailyMap_Dates(t *testing.T) {
	m := DailyMap{"2024-01-03": 3, "2024-01-01": 1, "2024-01-02": 2}
	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, m.Dates())
}

func TestSeriesKey(t *testing.T) {
	assert.Equal(t, "btc-daily.json", SeriesBTC.FileName())
	assert.Equal(t, "cpi-monthly.json", SeriesCPI.FileName())
	assert.Equal(t, "housing-monthly.json", SeriesHousing.FileName())
	assert.True(t, SeriesSP500.PriceShaped())
	assert.False(t, SeriesGold.PriceShaped())

	key, err := ParseSeriesKey("DXY")
	require.NoError(t, err)
	assert.Equal(t, SeriesDXY, key)

	_, err = ParseSeriesKey("eth")
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestBundles_SetConvertsShape(t *testing.T) {
	var b Bundles
	b.Set(SeriesBTC, []DeflatorPoint{{Date: "2024-01-01", Value: 42000}})
	b.Set(SeriesCPI, []DeflatorPoint{{Date: "2024-01-01", Value: 308.4}})

	assert.Equal(t, []PricePoint{{Date: "2024-01-01", Price: 42000}}, b.BTC)
	assert.Equal(t, 1, b.Len(SeriesCPI))
	assert.Equal(t, 0, b.Len(SeriesHousing))
}

func TestLiveSeries_MergeKeepsPreviousOnEmpty(t *testing.T) {
	prev := LiveSeries{
		BTC: []PricePoint{{Date: "2025-06-01", Price: 100000}},
		M2:  []DeflatorPoint{{Date: "2025-06-01", Value: 21000}},
	}
	next := LiveSeries{
		BTC:    []PricePoint{{Date: "2025-06-02", Price: 101000}},
		Status: LiveStatusPartial,
	}

	merged := prev.Merge(next)
	assert.Equal(t, next.BTC, merged.BTC)
	assert.Equal(t, prev.M2, merged.M2)
	assert.Equal(t, LiveStatusPartial, merged.Status)
}

func TestFilterEventsToRange(t *testing.T) {
	events := FilterEventsToRange(ChartEvents, "2020-03-12", "2021-12-31")
	require.Len(t, events, 3)
	assert.Equal(t, "COVID", events[0].Label)
	assert.Equal(t, "ATH $69K", events[2].Label)

	assert.Empty(t, FilterEventsToRange(ChartEvents, "2025-01-01", "2025-12-31"))
}
