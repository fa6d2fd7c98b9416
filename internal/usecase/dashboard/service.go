package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/metrics"
	"github.com/simaogato/bitflation-backend/internal/usecase/compare"
	"github.com/simaogato/bitflation-backend/internal/usecase/deflator"
	"github.com/simaogato/bitflation-backend/internal/usecase/gold"
	"github.com/simaogato/bitflation-backend/internal/usecase/returns"
	"github.com/simaogato/bitflation-backend/internal/usecase/timeframe"
	"github.com/sirupsen/logrus"
)

// SecondaryMetric is the latest price adjusted by a non-primary deflator
type SecondaryMetric struct {
	Deflator      domain.DeflatorChoice
	AdjustedPrice float64
	Diff          float64 // (adjusted - nominal) / nominal
}

// ChartView represents everything needed to draw the price chart for one selection
type ChartView struct {
	View      domain.View
	Version   uint64
	Primary   []domain.AdjustedPricePoint // nil in gold mode
	Gold      []domain.GoldPricePoint     // nil unless gold mode
	Multi     []domain.MultiMetricPoint   // nil in gold mode
	Secondary []SecondaryMetric
	Events    []domain.ChartEvent
}

// Status represents the state of the pipeline inputs
type Status struct {
	Live          domain.LiveDataStatus
	Version       uint64
	FetchedAt     time.Time
	SeriesLengths map[domain.SeriesKey]int
	LivePoints    map[domain.SeriesKey]int
}

// DashboardService runs the adjustment pipeline over the current inputs
// and memoizes view results per input version
type DashboardService struct {
	mu      sync.RWMutex
	current *snapshot

	cache *cache.Cache
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewDashboardService creates a new DashboardService instance
// cacheTTL bounds how long a computed view is kept for the same input version.
func NewDashboardService(static domain.Bundles, cacheTTL time.Duration, log logrus.FieldLogger) *DashboardService {
	s := &DashboardService{
		current: newSnapshot(1, static, domain.LiveSeries{Status: domain.LiveStatusNone}),
		cache:   cache.New(cacheTTL, 2*cacheTTL),
		log:     log,
		now:     time.Now,
	}
	metrics.SetSnapshotVersion(1)
	return s
}

// snapshot returns the current immutable inputs
func (s *DashboardService) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// swap replaces the inputs and bumps the version; every memoized view of the
// previous version becomes unreachable
func (s *DashboardService) swap(build func(prev *snapshot) (domain.Bundles, domain.LiveSeries)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	static, live := build(s.current)
	next := newSnapshot(s.current.version+1, static, live)
	s.current = next

	s.cache.Flush()
	metrics.SetSnapshotVersion(next.version)
	s.log.WithFields(logrus.Fields{
		"version": next.version,
		"live":    next.live.Status,
		"btc":     len(next.prices),
	}).Info("Pipeline inputs updated")

	return next.version
}

// SetLive replaces the live series and returns the new input version
func (s *DashboardService) SetLive(live domain.LiveSeries) uint64 {
	return s.swap(func(prev *snapshot) (domain.Bundles, domain.LiveSeries) {
		return prev.static, live
	})
}

// SetStatic replaces the static bundles and returns the new input version
func (s *DashboardService) SetStatic(static domain.Bundles) uint64 {
	return s.swap(func(prev *snapshot) (domain.Bundles, domain.LiveSeries) {
		return static, prev.live
	})
}

// Live returns the live series currently in use
func (s *DashboardService) Live() domain.LiveSeries {
	return s.snapshot().live
}

// resolve validates a request against the current year
func (s *DashboardService) resolve(req domain.ViewRequest) (domain.View, error) {
	return req.Resolve(s.now().UTC().Year())
}

// memo returns the cached value for key or computes and stores it
func (s *DashboardService) memo(kind string, snap *snapshot, view domain.View, compute func() interface{}) interface{} {
	key := fmt.Sprintf("%s|v%d|%s", kind, snap.version, view.CacheKey())
	if cached, found := s.cache.Get(key); found {
		metrics.ObserveViewCache(kind, true)
		return cached
	}
	metrics.ObserveViewCache(kind, false)

	value := compute()
	s.cache.SetDefault(key, value)
	return value
}

// GetChart computes the chart series for a selection
// Logic:
//   - Gold mode: BTC in ounces of gold
//   - Otherwise: BTC adjusted by the primary deflator, plus every selected
//     deflator side by side and the latest value of each secondary one
//   - All series are cut to the timeframe; events are cut to the series range
func (s *DashboardService) GetChart(req domain.ViewRequest) (*ChartView, error) {
	view, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	snap := s.snapshot()
	result := s.memo("chart", snap, view, func() interface{} {
		return buildChart(snap, view)
	})
	return result.(*ChartView), nil
}

func buildChart(snap *snapshot, view domain.View) *ChartView {
	chart := &ChartView{View: view, Version: snap.version}

	if view.GoldMode {
		chart.Gold = timeframe.FilterByTimeframe(gold.ConvertToGold(snap.prices, snap.dailyGold), view.Timeframe)
		if len(chart.Gold) > 0 {
			chart.Events = domain.FilterEventsToRange(domain.ChartEvents, chart.Gold[0].Date, chart.Gold[len(chart.Gold)-1].Date)
		}
		return chart
	}

	series := make([]deflator.Series, len(view.Deflators))
	for i, choice := range view.Deflators {
		series[i] = deflator.Series{Choice: choice, Daily: snap.deflatorSeries(choice, view.AnchorYear)}
	}

	chart.Primary = timeframe.FilterByTimeframe(
		deflator.AdjustPrices(snap.prices, series[0].Daily, view.AnchorYear),
		view.Timeframe,
	)
	chart.Multi = timeframe.FilterByTimeframe(
		deflator.AdjustMulti(snap.prices, series, view.AnchorYear),
		view.Timeframe,
	)

	if len(chart.Multi) > 0 {
		last := chart.Multi[len(chart.Multi)-1]
		for _, choice := range view.Deflators[1:] {
			adjusted, ok := last.Adjusted[choice]
			if !ok || last.NominalPrice == 0 {
				continue
			}
			chart.Secondary = append(chart.Secondary, SecondaryMetric{
				Deflator:      choice,
				AdjustedPrice: adjusted,
				Diff:          (adjusted - last.NominalPrice) / last.NominalPrice,
			})
		}
	}

	if len(chart.Primary) > 0 {
		chart.Events = domain.FilterEventsToRange(domain.ChartEvents, chart.Primary[0].Date, chart.Primary[len(chart.Primary)-1].Date)
	}

	return chart
}

// GetComparison rebases adjusted BTC and each selected asset to an index of 100
// Returns nil in gold mode or when no asset is selected.
func (s *DashboardService) GetComparison(req domain.ViewRequest) ([]domain.ComparisonPoint, error) {
	view, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	primary, ok := view.Primary()
	if !ok || len(view.Compare) == 0 {
		return nil, nil
	}

	snap := s.snapshot()
	result := s.memo("comparison", snap, view, func() interface{} {
		daily := snap.deflatorSeries(primary, view.AnchorYear)
		btc := timeframe.FilterByTimeframe(deflator.AdjustPrices(snap.prices, daily, view.AnchorYear), view.Timeframe)

		assets := make([]compare.AssetSeries, 0, len(view.Compare))
		for _, asset := range view.Compare {
			adjusted := deflator.AdjustPrices(snap.assetPrices(asset), daily, view.AnchorYear)
			assets = append(assets, compare.AssetSeries{
				Asset: asset,
				Data:  timeframe.FilterByTimeframe(adjusted, view.Timeframe),
			})
		}
		return compare.NormalizeToIndex(btc, assets)
	})
	return result.([]domain.ComparisonPoint), nil
}

// CalculateReturns evaluates a BTC purchase through each inflation lens
func (s *DashboardService) CalculateReturns(purchaseDate string, investmentUSD float64) (*domain.CalculatorResult, error) {
	if _, err := domain.ParseDate(purchaseDate); err != nil {
		return nil, err
	}
	if investmentUSD <= 0 {
		return nil, fmt.Errorf("%w: investment must be positive", domain.ErrInvalidAmount)
	}

	snap := s.snapshot()
	result := returns.CalculateReturns(purchaseDate, investmentUSD, snap.prices, snap.dailyCPI, snap.dailyM2, snap.dailyGold)
	if result == nil {
		return nil, fmt.Errorf("%w: no BTC price on or after %s", domain.ErrSeriesNotFound, purchaseDate)
	}
	if result.BTCPriceThen <= 0 {
		return nil, fmt.Errorf("%w: no positive BTC price on %s", domain.ErrSeriesNotFound, result.PurchaseDate)
	}
	return result, nil
}

// GetShockStats summarises the move since DefaultShockReference
func (s *DashboardService) GetShockStats() domain.ShockStats {
	snap := s.snapshot()
	return returns.ComputeShockStats(snap.prices, snap.dailyCPI, snap.dailyM2, snap.dailyGold, returns.DefaultShockReference)
}

// GetStatus reports the live-data state and the size of every input series
func (s *DashboardService) GetStatus() Status {
	snap := s.snapshot()

	lengths := make(map[domain.SeriesKey]int, len(domain.AllSeries))
	for _, key := range domain.AllSeries {
		lengths[key] = snap.static.Len(key)
	}

	return Status{
		Live:          snap.live.Status,
		Version:       snap.version,
		FetchedAt:     snap.live.FetchedAt,
		SeriesLengths: lengths,
		LivePoints: map[domain.SeriesKey]int{
			domain.SeriesBTC:   len(snap.live.BTC),
			domain.SeriesDXY:   len(snap.live.DXY),
			domain.SeriesM2:    len(snap.live.M2),
			domain.SeriesSP500: len(snap.live.SP500),
		},
	}
}
