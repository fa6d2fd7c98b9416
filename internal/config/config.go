package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// BundleSource names where static bundles are read from
type BundleSource string

// defaultFetchRatePerSecond applies when FETCH_RATE_PER_SECOND is unset or below 1
const defaultFetchRatePerSecond = 2

const (
	BundleSourceDir      BundleSource = "dir"
	BundleSourcePostgres BundleSource = "postgres"
)

// Config holds the runtime settings of the server and the prepare CLI
type Config struct {
	GRPCPort    string
	APIToken    string
	MetricsAddr string
	LogLevel    string
	LogFormat   string

	BundleSource BundleSource
	BundleDir    string
	DBConnStr    string

	CoinGeckoAPIKey    string
	FredAPIKey         string
	LiveStartDate      string
	RefreshInterval    time.Duration
	ViewCacheTTL       time.Duration
	FetchRatePerSecond int
	HTTPTimeout        time.Duration
}

// Load reads an optional .env file, then the environment, applying defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("No .env file loaded, relying on environment variables: %v", err)
	}

	cfg := &Config{
		GRPCPort:    getEnv("GRPC_PORT", ":8080"),
		APIToken:    getEnv("API_TOKEN", "dev-token"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),

		BundleSource: BundleSource(getEnv("BUNDLE_SOURCE", string(BundleSourceDir))),
		BundleDir:    getEnv("BUNDLE_DIR", "./data"),
		DBConnStr:    dbConnStr(),

		CoinGeckoAPIKey:    getEnv("COINGECKO_API_KEY", ""),
		FredAPIKey:         getEnv("FRED_API_KEY", ""),
		LiveStartDate:      getEnv("LIVE_START_DATE", "2025-06-01"),
		RefreshInterval:    getEnvAsDuration("REFRESH_INTERVAL", time.Hour),
		ViewCacheTTL:       getEnvAsDuration("VIEW_CACHE_TTL", 15*time.Minute),
		FetchRatePerSecond: getEnvAsInt("FETCH_RATE_PER_SECOND", defaultFetchRatePerSecond),
		HTTPTimeout:        getEnvAsDuration("HTTP_TIMEOUT", 15*time.Second),
	}

	if cfg.FetchRatePerSecond < 1 {
		logrus.Warnf("FETCH_RATE_PER_SECOND must be at least 1, got %d. Using default %d.", cfg.FetchRatePerSecond, defaultFetchRatePerSecond)
		cfg.FetchRatePerSecond = defaultFetchRatePerSecond
	}
	if cfg.APIToken == "dev-token" {
		logrus.Warn("Using default API_TOKEN. Set API_TOKEN for production.")
	}
	if cfg.FredAPIKey == "" {
		logrus.Warn("FRED_API_KEY is not set; live DXY, M2 and S&P 500 data is disabled.")
	}

	return cfg
}

// dbConnStr prefers DB_CONN_STR and otherwise assembles one from the DB_* variables
func dbConnStr() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "bitflation"),
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid integer for %s: %q. Using default %d.", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.Warnf("Invalid duration for %s: %q. Using default %s.", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
