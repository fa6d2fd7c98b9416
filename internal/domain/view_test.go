package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRequest_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		req     ViewRequest
		want    View
		wantErr error
	}{
		{
			name: "Empty request applies defaults",
			req:  ViewRequest{},
			want: View{
				Deflators:  []DeflatorChoice{DeflatorCPI},
				AnchorYear: DefaultAnchorYear,
				Timeframe:  TimeframeAll,
				Compare:    []ComparisonAsset{},
			},
		},
		{
			name: "Full request is normalised",
			req: ViewRequest{
				Metrics:    []string{"m2", "cpi"},
				AnchorYear: 2020,
				Timeframe:  "1y",
				Compare:    []string{"gold", "SP500", "gold"},
			},
			want: View{
				Deflators:  []DeflatorChoice{DeflatorM2, DeflatorCPI},
				AnchorYear: 2020,
				Timeframe:  Timeframe1Y,
				Compare:    []ComparisonAsset{AssetGold, AssetSP500},
			},
		},
		{
			name:    "Anchor year before coverage fails",
			req:     ViewRequest{AnchorYear: 2009},
			wantErr: ErrInvalidAnchorYear,
		},
		{
			name:    "Anchor year in the future fails",
			req:     ViewRequest{AnchorYear: 2031},
			wantErr: ErrInvalidAnchorYear,
		},
		{
			name:    "Unknown asset fails",
			req:     ViewRequest{Compare: []string{"bonds"}},
			wantErr: ErrInvalidAsset,
		},
		{
			name:    "Unknown timeframe fails",
			req:     ViewRequest{Timeframe: "3M"},
			wantErr: ErrInvalidTimeframe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Resolve(2026)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_PrimaryAndCacheKey(t *testing.T) {
	gold, err := ViewRequest{Metrics: []string{"GOLD"}}.Resolve(2026)
	require.NoError(t, err)
	_, ok := gold.Primary()
	assert.False(t, ok)

	cpi, err := ViewRequest{Metrics: []string{"CPI", "M2"}}.Resolve(2026)
	require.NoError(t, err)
	primary, ok := cpi.Primary()
	assert.True(t, ok)
	assert.Equal(t, DeflatorCPI, primary)

	assert.NotEqual(t, gold.CacheKey(), cpi.CacheKey())

	again, err := ViewRequest{Metrics: []string{"cpi", "m2"}, AnchorYear: 2015}.Resolve(2026)
	require.NoError(t, err)
	assert.Equal(t, cpi.CacheKey(), again.CacheKey())
}
