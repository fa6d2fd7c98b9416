package compare

import (
	"testing"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjusted(points ...float64) []domain.AdjustedPricePoint {
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	series := make([]domain.AdjustedPricePoint, len(points))
	for i, v := range points {
		series[i] = domain.AdjustedPricePoint{Date: dates[i], NominalPrice: v, AdjustedPrice: v}
	}
	return series
}

func TestNormalizeToIndex(t *testing.T) {
	btc := adjusted(40000, 44000, 50000)
	sp500 := adjusted(4000, 4100)
	housing := adjusted(0, 310, 312)

	got := NormalizeToIndex(btc, []AssetSeries{
		{Asset: domain.AssetSP500, Data: sp500},
		{Asset: domain.AssetHousing, Data: housing},
	})

	require.Len(t, got, 3)
	assert.Equal(t, 100.0, got[0].BTC)
	assert.InDelta(t, 110.0, got[1].BTC, 1e-9)
	assert.InDelta(t, 125.0, got[2].BTC, 1e-9)

	assert.Equal(t, 100.0, got[0].Assets[domain.AssetSP500])
	assert.InDelta(t, 102.5, got[1].Assets[domain.AssetSP500], 1e-9)

	// sp500 has no third point, housing starts at zero and is skipped
	_, ok := got[2].Assets[domain.AssetSP500]
	assert.False(t, ok)
	for _, p := range got {
		_, ok := p.Assets[domain.AssetHousing]
		assert.False(t, ok)
	}
}

func TestNormalizeToIndex_BasePoint(t *testing.T) {
	got := NormalizeToIndex(adjusted(123.45, 130), []AssetSeries{
		{Asset: domain.AssetGold, Data: adjusted(1800.2)},
	})

	require.NotEmpty(t, got)
	assert.Equal(t, 100.0, got[0].BTC)
	assert.Equal(t, 100.0, got[0].Assets[domain.AssetGold])
}

func TestNormalizeToIndex_DegeneratePrimary(t *testing.T) {
	assert.Empty(t, NormalizeToIndex(nil, nil))
	assert.Empty(t, NormalizeToIndex(adjusted(0, 10), nil))
}
