package dashboard

import (
	"sync"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/usecase/deflator"
	"github.com/simaogato/bitflation-backend/internal/usecase/interpolate"
	"github.com/simaogato/bitflation-backend/internal/usecase/stitcher"
)

// snapshot is an immutable set of pipeline inputs together with the stage
// outputs derived from them. A new snapshot is built on every input change.
type snapshot struct {
	version uint64
	static  domain.Bundles
	live    domain.LiveSeries

	prices     []domain.PricePoint
	dailyCPI   domain.DailyMap
	dailyM2    domain.DailyMap
	dailyGold  domain.DailyMap
	dailyDXY   domain.DailyMap
	sp500      []domain.PricePoint
	housing    []domain.PricePoint
	goldPrices []domain.PricePoint

	bfiMu sync.Mutex
	bfi   map[int]domain.DailyMap // by anchor year
}

// newSnapshot runs the stitch and interpolation stages over the inputs
func newSnapshot(version uint64, static domain.Bundles, live domain.LiveSeries) *snapshot {
	dailyGold := interpolate.InterpolateMonthlyToDaily(static.Gold)

	return &snapshot{
		version: version,
		static:  static,
		live:    live,

		prices:     stitcher.StitchPrices(static.BTC, live.BTC),
		dailyCPI:   interpolate.InterpolateMonthlyToDaily(static.CPI),
		dailyM2:    interpolate.InterpolateMonthlyToDaily(stitcher.StitchDeflators(static.M2, live.M2)),
		dailyGold:  dailyGold,
		dailyDXY:   interpolate.ExtendDaily(stitcher.StitchDeflators(static.DXY, live.DXY)),
		sp500:      stitcher.StitchPrices(static.SP500, domain.DeflatorsToPrices(live.SP500)),
		housing:    interpolate.InterpolatePricesToDaily(static.Housing),
		goldPrices: interpolate.DailyMapToPrices(dailyGold),

		bfi: make(map[int]domain.DailyMap),
	}
}

// deflatorSeries returns the daily map backing a deflator choice
func (s *snapshot) deflatorSeries(choice domain.DeflatorChoice, anchorYear int) domain.DailyMap {
	switch choice {
	case domain.DeflatorM2:
		return s.dailyM2
	case domain.DeflatorDXY:
		return s.dailyDXY
	case domain.DeflatorBFI:
		return s.bitflationIndex(anchorYear)
	default:
		return s.dailyCPI
	}
}

// bitflationIndex computes the index once per anchor year
func (s *snapshot) bitflationIndex(anchorYear int) domain.DailyMap {
	s.bfiMu.Lock()
	defer s.bfiMu.Unlock()

	if index, ok := s.bfi[anchorYear]; ok {
		return index
	}
	index := deflator.ComputeBitflationIndex(s.dailyCPI, s.dailyM2, anchorYear)
	s.bfi[anchorYear] = index
	return index
}

// assetPrices returns the nominal price series of a comparison asset
func (s *snapshot) assetPrices(asset domain.ComparisonAsset) []domain.PricePoint {
	switch asset {
	case domain.AssetSP500:
		return s.sp500
	case domain.AssetGold:
		return s.goldPrices
	default:
		return s.housing
	}
}
