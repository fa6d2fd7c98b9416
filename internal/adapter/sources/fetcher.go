// Package sources downloads the historical series that make up the static bundles.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/usecase/interpolate"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultCryptoCompareURL = "https://min-api.cryptocompare.com"
	DefaultBLSURL           = "https://api.bls.gov/publicAPI/v2/timeseries/data/"
	DefaultFredGraphURL     = "https://fred.stlouisfed.org"
	DefaultGoldURL          = "https://datahub.io/core/gold-prices/_r/-/data/monthly.csv"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 60 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second)
	DefaultRateLimit = 2

	// HistoryStart is the first date requested from macro sources
	HistoryStart = "2010-01-01"
)

// HTTPClient is the subset of *http.Client used by Fetcher
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads bundle series from their upstream providers
type Fetcher struct {
	cryptoCompareURL string
	blsURL           string
	fredGraphURL     string
	goldURL          string

	httpClient HTTPClient
	limiter    *rate.Limiter
	log        logrus.FieldLogger
	now        func() time.Time
}

// Option configures the Fetcher
type Option func(*Fetcher)

// WithCryptoCompareURL sets a custom CryptoCompare base URL
func WithCryptoCompareURL(u string) Option {
	return func(f *Fetcher) { f.cryptoCompareURL = u }
}

// WithBLSURL sets a custom BLS timeseries endpoint
func WithBLSURL(u string) Option {
	return func(f *Fetcher) { f.blsURL = u }
}

// WithFredGraphURL sets a custom FRED graph base URL
func WithFredGraphURL(u string) Option {
	return func(f *Fetcher) { f.fredGraphURL = u }
}

// WithGoldURL sets a custom gold CSV URL
func WithGoldURL(u string) Option {
	return func(f *Fetcher) { f.goldURL = u }
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c HTTPClient) Option {
	return func(f *Fetcher) { f.httpClient = c }
}

// WithLogger sets a logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *Fetcher) { f.log = log }
}

// WithRateLimit sets a custom rate limit
func WithRateLimit(requestsPerSecond int) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithClock sets the clock that bounds date ranges
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a new Fetcher
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		cryptoCompareURL: DefaultCryptoCompareURL,
		blsURL:           DefaultBLSURL,
		fredGraphURL:     DefaultFredGraphURL,
		goldURL:          DefaultGoldURL,
		httpClient:       &http.Client{Timeout: DefaultTimeout},
		limiter:          rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:              logrus.StandardLogger(),
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch downloads the full history of a bundle
// Daily trading series (DXY, S&P 500) are forward-filled over weekends and holidays.
func (f *Fetcher) Fetch(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error) {
	switch key {
	case domain.SeriesBTC:
		prices, err := f.FetchBTCDaily(ctx)
		if err != nil {
			return nil, err
		}
		return domain.PricesToDeflators(prices), nil
	case domain.SeriesCPI:
		return f.FetchCPI(ctx)
	case domain.SeriesM2:
		return f.FetchFredGraph(ctx, "M2SL", "Monthly")
	case domain.SeriesGold:
		return f.FetchGoldMonthly(ctx)
	case domain.SeriesDXY:
		points, err := f.FetchFredGraph(ctx, "DTWEXBGS", "Daily")
		if err != nil {
			return nil, err
		}
		return interpolate.ForwardFillDaily(points), nil
	case domain.SeriesSP500:
		points, err := f.FetchFredGraph(ctx, "SP500", "Daily")
		if err != nil {
			return nil, err
		}
		return interpolate.ForwardFillDaily(points), nil
	case domain.SeriesHousing:
		return f.FetchFredGraph(ctx, "CSUSHPINSA", "Monthly")
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrSeriesNotFound, key)
	}
}

// do sends req after waiting for the rate limiter and returns the response body
func (f *Fetcher) do(req *http.Request) ([]byte, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}
	return body, nil
}

// get performs a GET request
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return f.do(req)
}
