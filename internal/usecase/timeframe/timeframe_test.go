package timeframe

import (
	"testing"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(dates ...string) []domain.AdjustedPricePoint {
	points := make([]domain.AdjustedPricePoint, len(dates))
	for i, d := range dates {
		points[i] = domain.AdjustedPricePoint{Date: d, NominalPrice: float64(i), AdjustedPrice: float64(i)}
	}
	return points
}

func TestFilterByTimeframe(t *testing.T) {
	input := series("2018-12-31", "2019-01-01", "2022-06-30", "2023-01-01", "2023-06-30", "2024-01-01")

	tests := []struct {
		name  string
		tf    domain.Timeframe
		dates []string
	}{
		{
			name:  "ALL returns everything",
			tf:    domain.TimeframeAll,
			dates: []string{"2018-12-31", "2019-01-01", "2022-06-30", "2023-01-01", "2023-06-30", "2024-01-01"},
		},
		{
			name:  "1Y keeps the cutoff date",
			tf:    domain.Timeframe1Y,
			dates: []string{"2023-01-01", "2023-06-30", "2024-01-01"},
		},
		{
			name:  "5Y keeps the cutoff date",
			tf:    domain.Timeframe5Y,
			dates: []string{"2019-01-01", "2022-06-30", "2023-01-01", "2023-06-30", "2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByTimeframe(input, tt.tf)
			dates := make([]string, len(got))
			for i, p := range got {
				dates[i] = p.Date
			}
			assert.Equal(t, tt.dates, dates)
		})
	}
}

func TestFilterByTimeframe_Idempotent(t *testing.T) {
	input := series("2020-02-29", "2021-02-28", "2021-03-01", "2022-03-01")

	for _, tf := range []domain.Timeframe{domain.Timeframe1Y, domain.Timeframe5Y, domain.TimeframeAll} {
		once := FilterByTimeframe(input, tf)
		assert.Equal(t, once, FilterByTimeframe(once, tf), string(tf))
	}
}

func TestFilterByTimeframe_LeapDayCutoff(t *testing.T) {
	// 2024-02-29 minus one year normalises to 2023-03-01
	got := FilterByTimeframe(series("2023-02-28", "2023-03-01", "2024-02-29"), domain.Timeframe1Y)
	require.Len(t, got, 2)
	assert.Equal(t, "2023-03-01", got[0].Date)
}

func TestFilterByTimeframe_Empty(t *testing.T) {
	assert.Empty(t, FilterByTimeframe([]domain.PricePoint{}, domain.Timeframe1Y))
	assert.Nil(t, FilterByTimeframe[domain.PricePoint](nil, domain.Timeframe5Y))
}
