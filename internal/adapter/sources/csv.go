package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bitflation-backend/internal/domain"
)

// readDateValueCSV parses a two-column CSV with a header row, skipping rows
// whose value is missing (".", "") or not a number
func readDateValueCSV(data []byte) ([]domain.DeflatorPoint, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	points := make([]domain.DeflatorPoint, 0, len(records))
	for i, record := range records {
		if i == 0 || len(record) < 2 {
			continue
		}
		date, raw := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if date == "" || raw == "" || raw == "." {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		points = append(points, domain.DeflatorPoint{Date: date, Value: value.InexactFloat64()})
	}
	return points, nil
}

// FetchFredGraph downloads a FRED series as CSV from HistoryStart to the end of
// the current year at the given frequency ("Daily", "Monthly")
func (f *Fetcher) FetchFredGraph(ctx context.Context, seriesID, frequency string) ([]domain.DeflatorPoint, error) {
	params := url.Values{}
	params.Set("id", seriesID)
	params.Set("cosd", HistoryStart)
	params.Set("coed", fmt.Sprintf("%d-12-31", f.now().UTC().Year()))
	params.Set("fq", frequency)

	body, err := f.get(ctx, f.fredGraphURL+"/graph/fredgraph.csv?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", seriesID, err)
	}

	points, err := readDateValueCSV(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", seriesID, err)
	}
	f.log.WithFields(map[string]interface{}{"series": seriesID, "points": len(points)}).Info("Fetched FRED series")

	return points, nil
}

// FetchGoldMonthly downloads the LBMA monthly gold price
// YYYY-MM dates are normalised to YYYY-MM-01 and only 2010 onward is kept.
func (f *Fetcher) FetchGoldMonthly(ctx context.Context) ([]domain.DeflatorPoint, error) {
	body, err := f.get(ctx, f.goldURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gold prices: %w", err)
	}

	raw, err := readDateValueCSV(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gold prices: %w", err)
	}

	points := make([]domain.DeflatorPoint, 0, len(raw))
	for _, p := range raw {
		if p.Date < "2010" {
			continue
		}
		if len(p.Date) == len("2006-01") {
			p.Date += "-01"
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	return points, nil
}
