package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bitflation-backend/internal/domain"
)

// CPISeriesID is CPI-U, all items, not seasonally adjusted
const CPISeriesID = "CUUR0000SA0"

// blsMaxSpan is the widest year range BLS serves without a registration key
const blsMaxSpan = 10

type blsRequest struct {
	SeriesID  []string `json:"seriesid"`
	StartYear string   `json:"startyear"`
	EndYear   string   `json:"endyear"`
}

type blsResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []struct {
			Data []struct {
				Year   string `json:"year"`
				Period string `json:"period"`
				Value  string `json:"value"`
			} `json:"data"`
		} `json:"series"`
	} `json:"Results"`
}

// cpiRanges splits [2010, current year] into spans BLS accepts
func cpiRanges(currentYear int) [][2]int {
	var ranges [][2]int
	for start := 2010; start <= currentYear; start += blsMaxSpan {
		end := start + blsMaxSpan - 1
		if end > currentYear {
			end = currentYear
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// FetchCPI downloads monthly CPI-U from 2010 to the current year
// Logic:
//   - Request each year range separately; a failed range is logged and skipped
//   - Skip the annual average (M13) and missing values
//   - Dates are the first of the month
func (f *Fetcher) FetchCPI(ctx context.Context) ([]domain.DeflatorPoint, error) {
	byDate := make(map[string]float64)

	for _, r := range cpiRanges(f.now().UTC().Year()) {
		log := f.log.WithFields(map[string]interface{}{"start": r[0], "end": r[1]})
		resp, err := f.fetchBLSRange(ctx, r[0], r[1])
		if err != nil {
			log.WithError(err).Error("Failed to fetch CPI range")
			continue
		}

		for _, series := range resp.Results.Series {
			for _, entry := range series.Data {
				if entry.Period == "M13" || entry.Value == "-" || entry.Value == "" {
					continue
				}
				value, err := decimal.NewFromString(entry.Value)
				if err != nil {
					continue
				}
				month := strings.TrimPrefix(entry.Period, "M")
				if len(month) == 1 {
					month = "0" + month
				}
				byDate[fmt.Sprintf("%s-%s-01", entry.Year, month)] = value.InexactFloat64()
			}
		}
		log.Info("Fetched CPI range")
	}

	if len(byDate) == 0 {
		return nil, fmt.Errorf("no CPI observations returned")
	}

	points := make([]domain.DeflatorPoint, 0, len(byDate))
	for date, value := range byDate {
		points = append(points, domain.DeflatorPoint{Date: date, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return points, nil
}

func (f *Fetcher) fetchBLSRange(ctx context.Context, startYear, endYear int) (*blsResponse, error) {
	payload, err := json.Marshal(blsRequest{
		SeriesID:  []string{CPISeriesID},
		StartYear: strconv.Itoa(startYear),
		EndYear:   strconv.Itoa(endYear),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode BLS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.blsURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := f.do(req)
	if err != nil {
		return nil, err
	}

	var resp blsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode BLS response: %w", err)
	}
	if resp.Status != "REQUEST_SUCCEEDED" {
		return nil, fmt.Errorf("BLS API error: %s", strings.Join(resp.Message, "; "))
	}
	return &resp, nil
}
