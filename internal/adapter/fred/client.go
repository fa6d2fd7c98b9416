// Package fred fetches macro series observations from the FRED JSON API.
package fred

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
	// DefaultBaseURL is the base URL for the FRED API
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	// DefaultTimeout is the default HTTP timeout
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second)
	DefaultRateLimit = 2

	// missingValue marks an observation FRED has no value for
	missingValue = "."
)

// HTTPClient is the subset of *http.Client used by Client
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a FRED observations client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	limiter    *rate.Limiter
	log        logrus.FieldLogger
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
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

// NewClient creates a new FRED client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// FetchSeries returns the observations of seriesID from startDate onward
// Missing values (".") are skipped. A missing API key or any failure yields an empty slice.
func (c *Client) FetchSeries(ctx context.Context, seriesID, startDate string) []domain.DeflatorPoint {
	if c.apiKey == "" {
		return []domain.DeflatorPoint{}
	}

	points, err := c.fetchObservations(ctx, seriesID, startDate)
	if err != nil {
		c.log.WithError(err).WithField("series", seriesID).Warn("FRED fetch failed")
		return []domain.DeflatorPoint{}
	}
	return points
}

func (c *Client) fetchObservations(ctx context.Context, seriesID, startDate string) ([]domain.DeflatorPoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")
	params.Set("observation_start", startDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/series/observations?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode observations: %w", err)
	}

	points := make([]domain.DeflatorPoint, 0, len(body.Observations))
	for _, obs := range body.Observations {
		if obs.Value == missingValue {
			continue
		}
		value, err := decimal.NewFromString(obs.Value)
		if err != nil {
			c.log.WithField("series", seriesID).Debugf("Skipping unparseable value %q on %s", obs.Value, obs.Date)
			continue
		}
		points = append(points, domain.DeflatorPoint{Date: obs.Date, Value: value.InexactFloat64()})
	}
	return points, nil
}
