package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }

func newTestFetcher(baseURL string) *Fetcher {
	log, _ := test.NewNullLogger()
	return NewFetcher(
		WithCryptoCompareURL(baseURL),
		WithBLSURL(baseURL+"/bls"),
		WithFredGraphURL(baseURL),
		WithGoldURL(baseURL+"/gold.csv"),
		WithLogger(log),
		WithRateLimit(100),
		WithClock(fixedNow),
	)
}

func dayTs(date string) int64 {
	t, _ := domain.ParseDate(date)
	return t.Unix()
}

func TestFetchBTCDaily(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/v2/histoday", r.URL.Path)
		assert.Equal(t, "BTC", r.URL.Query().Get("fsym"))
		calls++

		if calls > 1 {
			assert.Equal(t, fmt.Sprintf("%d", dayTs("2025-06-28")), r.URL.Query().Get("toTs"))
			_, _ = w.Write([]byte(`{"Response":"Success","Data":{"Data":[]}}`))
			return
		}

		assert.Equal(t, fmt.Sprintf("%d", dayTs("2025-07-01")), r.URL.Query().Get("toTs"))
		_, _ = fmt.Fprintf(w, `{"Response":"Success","Data":{"Data":[
			{"time":%d,"close":107135.333},
			{"time":%d,"close":0},
			{"time":%d,"close":105700.126}
		]}}`, dayTs("2025-06-29"), dayTs("2025-06-30"), dayTs("2025-07-01"))
	}))
	defer server.Close()

	prices, err := newTestFetcher(server.URL).FetchBTCDaily(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []domain.PricePoint{
		{Date: "2025-06-29", Price: 107135.33},
		{Date: "2025-07-01", Price: 105700.13},
	}, prices)
}

func TestFetchBTCDaily_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"Error","Message":"rate limit"}`))
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).FetchBTCDaily(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestCPIRanges(t *testing.T) {
	assert.Equal(t, [][2]int{{2010, 2019}, {2020, 2025}}, cpiRanges(2025))
	assert.Equal(t, [][2]int{{2010, 2019}, {2020, 2029}, {2030, 2030}}, cpiRanges(2030))
}

func TestFetchCPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bls", r.URL.Path)

		var req blsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{CPISeriesID}, req.SeriesID)

		if req.StartYear == "2010" {
			_, _ = w.Write([]byte(`{"status":"REQUEST_NOT_PROCESSED","message":["daily threshold"]}`))
			return
		}

		assert.Equal(t, "2020", req.StartYear)
		assert.Equal(t, "2025", req.EndYear)
		_, _ = w.Write([]byte(`{"status":"REQUEST_SUCCEEDED","Results":{"series":[{"data":[
			{"year":"2025","period":"M02","value":"319.082"},
			{"year":"2025","period":"M01","value":"317.671"},
			{"year":"2024","period":"M13","value":"313.689"},
			{"year":"2024","period":"M12","value":"-"},
			{"year":"2024","period":"M10","value":"NaN"},
			{"year":"2024","period":"M11","value":"315.493"}
		]}]}}`))
	}))
	defer server.Close()

	points, err := newTestFetcher(server.URL).FetchCPI(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.DeflatorPoint{
		{Date: "2024-11-01", Value: 315.493},
		{Date: "2025-01-01", Value: 317.671},
		{Date: "2025-02-01", Value: 319.082},
	}, points)
}

func TestFetchCPI_AllRangesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestFetcher(server.URL).FetchCPI(context.Background())

	assert.Error(t, err)
}

func TestFetchFredGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graph/fredgraph.csv", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "M2SL", q.Get("id"))
		assert.Equal(t, HistoryStart, q.Get("cosd"))
		assert.Equal(t, "2025-12-31", q.Get("coed"))
		assert.Equal(t, "Monthly", q.Get("fq"))
		_, _ = w.Write([]byte("observation_date,M2SL\n2025-01-01,21561.4\n2025-02-01,.\n2025-03-01,21762.9\n2025-04-01,NaN\n2025-05-01,Inf\n"))
	}))
	defer server.Close()

	points, err := newTestFetcher(server.URL).FetchFredGraph(context.Background(), "M2SL", "Monthly")

	require.NoError(t, err)
	assert.Equal(t, []domain.DeflatorPoint{
		{Date: "2025-01-01", Value: 21561.4},
		{Date: "2025-03-01", Value: 21762.9},
	}, points)
}

func TestFetchGoldMonthly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gold.csv", r.URL.Path)
		_, _ = w.Write([]byte("Date,Price\n2010-02,1096.2\n2009-12,1134.7\n2010-01,1117.9\n"))
	}))
	defer server.Close()

	points, err := newTestFetcher(server.URL).FetchGoldMonthly(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.DeflatorPoint{
		{Date: "2010-01-01", Value: 1117.9},
		{Date: "2010-02-01", Value: 1096.2},
	}, points)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "DTWEXBGS":
			assert.Equal(t, "Daily", r.URL.Query().Get("fq"))
			_, _ = w.Write([]byte("observation_date,DTWEXBGS\n2025-06-27,120.5\n2025-06-30,119.8\n"))
		case "CSUSHPINSA":
			_, _ = w.Write([]byte("observation_date,CSUSHPINSA\n2025-04-01,331.7\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := newTestFetcher(server.URL)

	t.Run("Daily series are forward-filled", func(t *testing.T) {
		points, err := f.Fetch(context.Background(), domain.SeriesDXY)

		require.NoError(t, err)
		assert.Equal(t, []domain.DeflatorPoint{
			{Date: "2025-06-27", Value: 120.5},
			{Date: "2025-06-28", Value: 120.5},
			{Date: "2025-06-29", Value: 120.5},
			{Date: "2025-06-30", Value: 119.8},
		}, points)
	})

	t.Run("Monthly series are returned as published", func(t *testing.T) {
		points, err := f.Fetch(context.Background(), domain.SeriesHousing)

		require.NoError(t, err)
		assert.Equal(t, []domain.DeflatorPoint{{Date: "2025-04-01", Value: 331.7}}, points)
	})

	t.Run("Upstream failure", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), domain.SeriesSP500)
		assert.Error(t, err)
	})

	t.Run("Unknown series", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), domain.SeriesKey("oil"))
		assert.ErrorIs(t, err, domain.ErrSeriesNotFound)
	})
}
