package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bitflation-backend/internal/domain"
)

const (
	// BTCHistoryStart is the first date of the BTC bundle
	BTCHistoryStart = "2013-04-28"

	// histodayLimit is the number of days CryptoCompare returns per request
	histodayLimit = 2000

	secondsPerDay = 86400
)

type histodayResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []struct {
			Time  int64   `json:"time"`
			Close float64 `json:"close"`
		} `json:"Data"`
	} `json:"Data"`
}

// FetchBTCDaily downloads daily BTC closes from BTCHistoryStart to today
// Logic:
//   - Walk backwards from today in chunks of histodayLimit days
//   - Keep closes inside the range with a positive price
//   - Stop when a chunk makes no progress
//   - Deduplicate by date; prices rounded to cents
func (f *Fetcher) FetchBTCDaily(ctx context.Context) ([]domain.PricePoint, error) {
	start, _ := domain.ParseDate(BTCHistoryStart)
	end, _ := domain.ParseDate(domain.FormatDate(f.now()))
	startTs, endTs := start.Unix(), end.Unix()

	byDate := make(map[string]float64)
	cursor := endTs
	for cursor > startTs {
		f.log.WithField("to", domain.FormatDate(time.Unix(cursor, 0))).Info("Fetching BTC chunk")

		chunk, err := f.fetchHistoday(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if len(chunk.Data.Data) == 0 {
			break
		}

		earliest := chunk.Data.Data[0].Time
		for _, d := range chunk.Data.Data {
			if d.Time < earliest {
				earliest = d.Time
			}
			if d.Time < startTs || d.Time > endTs || d.Close <= 0 {
				continue
			}
			date := domain.FormatDate(time.Unix(d.Time, 0))
			byDate[date] = decimal.NewFromFloat(d.Close).Round(2).InexactFloat64()
		}

		if earliest >= cursor {
			break
		}
		cursor = earliest - secondsPerDay
	}

	prices := make([]domain.PricePoint, 0, len(byDate))
	for date, price := range byDate {
		prices = append(prices, domain.PricePoint{Date: date, Price: price})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Date < prices[j].Date })

	return prices, nil
}

func (f *Fetcher) fetchHistoday(ctx context.Context, toTs int64) (*histodayResponse, error) {
	params := url.Values{}
	params.Set("fsym", "BTC")
	params.Set("tsym", "USD")
	params.Set("limit", fmt.Sprintf("%d", histodayLimit))
	params.Set("toTs", fmt.Sprintf("%d", toTs))

	body, err := f.get(ctx, f.cryptoCompareURL+"/data/v2/histoday?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch BTC history: %w", err)
	}

	var resp histodayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode BTC history: %w", err)
	}
	if resp.Response != "Success" {
		return nil, fmt.Errorf("CryptoCompare error: %s", resp.Message)
	}
	return &resp, nil
}
