package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/bitflation-backend/internal/adapter/bundle"
	"github.com/simaogato/bitflation-backend/internal/adapter/coingecko"
	"github.com/simaogato/bitflation-backend/internal/adapter/fred"
	grpcadapter "github.com/simaogato/bitflation-backend/internal/adapter/grpc"
	"github.com/simaogato/bitflation-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/bitflation-backend/internal/config"
	"github.com/simaogato/bitflation-backend/internal/logger"
	"github.com/simaogato/bitflation-backend/internal/metrics"
	"github.com/simaogato/bitflation-backend/internal/usecase/dashboard"
	"github.com/simaogato/bitflation-backend/internal/usecase/refresh"
)

func main() {
	// 1. Configuration and logging
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// 2. Static bundles (directory or Postgres)
	src, closeSrc, err := openBundleSource(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to open bundle source")
	}
	defer closeSrc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	static := bundle.LoadAll(ctx, src, log)
	log.WithField("btc", len(static.BTC)).Info("Static bundles loaded")

	// 3. Pipeline and live refresh
	dashboardService := dashboard.NewDashboardService(static, cfg.ViewCacheTTL, log)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	coinGecko := coingecko.NewClient(cfg.CoinGeckoAPIKey,
		coingecko.WithHTTPClient(httpClient),
		coingecko.WithLogger(log),
		coingecko.WithRateLimit(cfg.FetchRatePerSecond),
	)
	fredClient := fred.NewClient(cfg.FredAPIKey,
		fred.WithHTTPClient(httpClient),
		fred.WithLogger(log),
		fred.WithRateLimit(cfg.FetchRatePerSecond),
	)
	refreshService := refresh.NewRefreshService(coinGecko, fredClient, dashboardService, cfg.LiveStartDate, log)
	go refreshService.Run(ctx, cfg.RefreshInterval)

	// 4. Metrics endpoint
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("addr", cfg.MetricsAddr).Info("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	// 5. gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterBitflationServiceServer(grpcServer, grpcadapter.NewServer(dashboardService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		log.WithError(err).Fatalf("Failed to listen on %s", cfg.GRPCPort)
	}

	go func() {
		log.WithField("addr", cfg.GRPCPort).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Fatal("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown; SIGHUP reloads the static bundles
	waitForShutdown(log, func() {
		dashboardService.SetStatic(bundle.LoadAll(ctx, src, log))
	})

	cancel()
	grpcServer.GracefulStop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	log.Info("Servers stopped")
}

// openBundleSource returns the configured static bundle source and its cleanup func
func openBundleSource(cfg *config.Config) (bundle.Source, func(), error) {
	if cfg.BundleSource != config.BundleSourcePostgres {
		return bundle.NewDirSource(cfg.BundleDir), func() {}, nil
	}

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewSeriesRepository(db), func() { _ = db.Close() }, nil
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// waitForShutdown blocks until SIGTERM or SIGINT, calling reload on every SIGHUP
func waitForShutdown(log logrus.FieldLogger, reload func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)

	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			log.Info("Received SIGHUP. Reloading static bundles...")
			reload()
			continue
		}
		log.WithField("signal", sig.String()).Info("Shutting down gracefully...")
		return
	}
}
