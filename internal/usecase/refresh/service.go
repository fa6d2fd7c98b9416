package refresh

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FRED series used for live data
const (
	SeriesDXY   = "DTWEXBGS"
	SeriesM2    = "M2SL"
	SeriesSP500 = "SP500"
)

// PriceFetcher returns recent BTC prices, or an empty slice on failure
type PriceFetcher interface {
	FetchLivePrices(ctx context.Context) []domain.PricePoint
}

// SeriesFetcher returns observations of a macro series since startDate, or an empty slice on failure
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, seriesID, startDate string) []domain.DeflatorPoint
}

// LiveStore receives refreshed live data
type LiveStore interface {
	Live() domain.LiveSeries
	SetLive(live domain.LiveSeries) uint64
}

// RefreshService pulls live data from every source and hands it to the pipeline
type RefreshService struct {
	Prices    PriceFetcher
	Series    SeriesFetcher
	Store     LiveStore
	StartDate string

	log logrus.FieldLogger
	now func() time.Time
}

// NewRefreshService creates a new RefreshService instance
func NewRefreshService(prices PriceFetcher, series SeriesFetcher, store LiveStore, startDate string, log logrus.FieldLogger) *RefreshService {
	return &RefreshService{
		Prices:    prices,
		Series:    series,
		Store:     store,
		StartDate: startDate,
		log:       log,
		now:       time.Now,
	}
}

// Refresh fetches all live sources concurrently and publishes the result
// Logic:
//   - BTC, DXY, M2 and S&P 500 are fetched in parallel; an empty source never
//     cancels the others
//   - Status counts BTC, DXY and M2: all, partial or none returned data
//   - A source that came back empty keeps its previously published data
func (s *RefreshService) Refresh(ctx context.Context) domain.LiveSeries {
	runID := uuid.New()
	start := s.now()
	log := s.log.WithField("refresh_id", runID.String())

	var fetched domain.LiveSeries
	var g errgroup.Group

	g.Go(func() error {
		fetched.BTC = s.Prices.FetchLivePrices(ctx)
		metrics.ObserveLiveFetch("btc", len(fetched.BTC))
		return nil
	})
	g.Go(func() error {
		fetched.DXY = s.Series.FetchSeries(ctx, SeriesDXY, s.StartDate)
		metrics.ObserveLiveFetch("dxy", len(fetched.DXY))
		return nil
	})
	g.Go(func() error {
		fetched.M2 = s.Series.FetchSeries(ctx, SeriesM2, s.StartDate)
		metrics.ObserveLiveFetch("m2", len(fetched.M2))
		return nil
	})
	g.Go(func() error {
		fetched.SP500 = s.Series.FetchSeries(ctx, SeriesSP500, s.StartDate)
		metrics.ObserveLiveFetch("sp500", len(fetched.SP500))
		return nil
	})
	_ = g.Wait()

	succeeded := 0
	for _, n := range []int{len(fetched.BTC), len(fetched.DXY), len(fetched.M2)} {
		if n > 0 {
			succeeded++
		}
	}
	fetched.Status = domain.LiveStatusFrom(succeeded, 3)
	fetched.FetchedAt = s.now().UTC()

	live := s.Store.Live().Merge(fetched)
	version := s.Store.SetLive(live)

	elapsed := s.now().Sub(start)
	metrics.ObserveRefresh(elapsed)
	log.WithFields(logrus.Fields{
		"status":   fetched.Status,
		"btc":      len(fetched.BTC),
		"dxy":      len(fetched.DXY),
		"m2":       len(fetched.M2),
		"sp500":    len(fetched.SP500),
		"version":  version,
		"duration": elapsed,
	}).Info("Live data refreshed")

	return live
}

// Run refreshes immediately and then on every interval until ctx is done
func (s *RefreshService) Run(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Live refresh loop stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
