package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simaogato/bitflation-backend/internal/adapter/bundle"
	"github.com/simaogato/bitflation-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/bitflation-backend/internal/adapter/sources"
	"github.com/simaogato/bitflation-backend/internal/config"
	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/logger"
)

var (
	outDir  string
	writeDB bool

	rootCmd = &cobra.Command{
		Use:   "prepare [all|btc|cpi|m2|gold|dxy|sp500|housing...]",
		Short: "Download the historical series that make up the static bundles",
		Long: `prepare fetches the full history of each requested series from its
upstream provider and writes it as a bundle file, optionally mirroring it
into the Postgres series_observations table.`,
		RunE: runPrepare,
	}
)

func init() {
	rootCmd.Flags().StringVar(&outDir, "out", "", "bundle directory (defaults to BUNDLE_DIR)")
	rootCmd.Flags().BoolVar(&writeDB, "db", false, "also write the series to Postgres")
}

// seriesFetcher downloads the full history of one bundle
type seriesFetcher interface {
	Fetch(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	keys, err := parseSeriesArgs(args)
	if err != nil {
		return err
	}

	dir := outDir
	if dir == "" {
		dir = cfg.BundleDir
	}
	repos := []domain.SeriesRepository{bundle.NewDirSource(dir)}

	ctx := cmd.Context()
	if writeDB {
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		repos = append(repos, postgres.NewSeriesRepository(db))
	}

	fetcher := sources.NewFetcher(
		sources.WithHTTPClient(&http.Client{Timeout: sources.DefaultTimeout}),
		sources.WithLogger(log),
		sources.WithRateLimit(cfg.FetchRatePerSecond),
	)

	return prepareSeries(ctx, fetcher, repos, keys, log)
}

// parseSeriesArgs maps CLI arguments to bundle keys; none or "all" selects every bundle
func parseSeriesArgs(args []string) ([]domain.SeriesKey, error) {
	if len(args) == 0 {
		return domain.AllSeries, nil
	}

	keys := make([]domain.SeriesKey, 0, len(args))
	for _, arg := range args {
		if strings.EqualFold(arg, "all") {
			return domain.AllSeries, nil
		}
		key, err := domain.ParseSeriesKey(arg)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// prepareSeries fetches each bundle and writes it to every repository
// Logic:
//   - A failed or empty fetch leaves the existing bundle untouched
//   - Remaining bundles are still processed; failures are reported together at the end
func prepareSeries(ctx context.Context, fetcher seriesFetcher, repos []domain.SeriesRepository, keys []domain.SeriesKey, log logrus.FieldLogger) error {
	var failed []string

	for _, key := range keys {
		entry := log.WithField("series", key)

		points, err := fetcher.Fetch(ctx, key)
		if err == nil && len(points) == 0 {
			err = fmt.Errorf("refusing to write empty series %s", key)
		}
		if err != nil {
			entry.WithError(err).Error("Failed to fetch series")
			failed = append(failed, string(key))
			continue
		}

		if err := writeSeries(ctx, repos, key, points); err != nil {
			entry.WithError(err).Error("Failed to write series")
			failed = append(failed, string(key))
			continue
		}

		entry.WithFields(logrus.Fields{
			"points": len(points),
			"first":  points[0].Date,
			"last":   points[len(points)-1].Date,
		}).Info("Series prepared")
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to prepare series: %s", strings.Join(failed, ", "))
	}
	return nil
}

func writeSeries(ctx context.Context, repos []domain.SeriesRepository, key domain.SeriesKey, points []domain.DeflatorPoint) error {
	for _, repo := range repos {
		if err := repo.Replace(ctx, key, points); err != nil {
			return err
		}
	}
	return nil
}
