// Package coingecko fetches recent BTC prices from CoinGecko, falling back to
// the Blockchain.com ticker for today's spot price.
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the CoinGecko API
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// DefaultFallbackURL is the Blockchain.com ticker endpoint
	DefaultFallbackURL = "https://blockchain.info/ticker"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second)
	DefaultRateLimit = 2

	// HistoryDays is how many days of daily prices are requested
	HistoryDays = 365
)

// HTTPClient is the subset of *http.Client used by Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a CoinGecko market-chart client
type Client struct {
	baseURL     string
	fallbackURL string
	apiKey      string
	httpClient  HTTPClient
	limiter     *rate.Limiter
	log         logrus.FieldLogger
	now         func() time.Time
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom CoinGecko base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithFallbackURL sets a custom ticker URL
func WithFallbackURL(fallbackURL string) ClientOption {
	return func(c *Client) {
		c.fallbackURL = fallbackURL
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithRateLimit sets a custom rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithClock sets the clock used to date the fallback price
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new CoinGecko client
// An empty apiKey skips CoinGecko and goes straight to the fallback ticker.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		fallbackURL: DefaultFallbackURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:         logrus.StandardLogger(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

type tickerResponse struct {
	USD *struct {
		Last float64 `json:"last"`
	} `json:"USD"`
}

// FetchLivePrices returns the last year of daily BTC prices
// Logic:
//   - CoinGecko market chart when an API key is configured; prices rounded to cents
//   - Otherwise, or on any CoinGecko failure, today's Blockchain.com spot price
//   - Any failure of both: empty slice
func (c *Client) FetchLivePrices(ctx context.Context) []domain.PricePoint {
	if c.apiKey != "" {
		prices, err := c.fetchMarketChart(ctx)
		if err == nil && len(prices) > 0 {
			return prices
		}
		if err == nil {
			err = errors.New("empty price history")
		}
		c.log.WithError(err).Warn("CoinGecko fetch failed, falling back to ticker")
	}

	prices, err := c.fetchTicker(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Ticker fetch failed")
		return []domain.PricePoint{}
	}
	return prices
}

func (c *Client) fetchMarketChart(ctx context.Context) ([]domain.PricePoint, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", fmt.Sprintf("%d", HistoryDays))
	params.Set("interval", "daily")

	var body marketChartResponse
	headers := map[string]string{"x-cg-demo-api-key": c.apiKey}
	if err := c.getJSON(ctx, c.baseURL+"/coins/bitcoin/market_chart?"+params.Encode(), headers, &body); err != nil {
		return nil, err
	}

	prices := make([]domain.PricePoint, 0, len(body.Prices))
	for _, entry := range body.Prices {
		timestamp, price := entry[0], entry[1]
		prices = append(prices, domain.PricePoint{
			Date:  domain.FormatDate(time.UnixMilli(int64(timestamp))),
			Price: decimal.NewFromFloat(price).Round(2).InexactFloat64(),
		})
	}
	return prices, nil
}

func (c *Client) fetchTicker(ctx context.Context) ([]domain.PricePoint, error) {
	var body tickerResponse
	if err := c.getJSON(ctx, c.fallbackURL, nil, &body); err != nil {
		return nil, err
	}
	if body.USD == nil || body.USD.Last == 0 {
		return []domain.PricePoint{}, nil
	}

	return []domain.PricePoint{{
		Date:  domain.FormatDate(c.now()),
		Price: body.USD.Last,
	}}, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, headers map[string]string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
