package domain

import (
	"fmt"
	"strings"
	"time"
)

// Cadence is the native sampling frequency of a series
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceMonthly Cadence = "monthly"
)

// SeriesKey identifies a static bundle
type SeriesKey string

const (
	SeriesBTC     SeriesKey = "btc"
	SeriesCPI     SeriesKey = "cpi"
	SeriesM2      SeriesKey = "m2"
	SeriesGold    SeriesKey = "gold"
	SeriesDXY     SeriesKey = "dxy"
	SeriesSP500   SeriesKey = "sp500"
	SeriesHousing SeriesKey = "housing"
)

// AllSeries lists every bundle in load order
var AllSeries = []SeriesKey{
	SeriesBTC,
	SeriesCPI,
	SeriesM2,
	SeriesGold,
	SeriesDXY,
	SeriesSP500,
	SeriesHousing,
}

// ParseSeriesKey parses a bundle name, case-insensitively
func ParseSeriesKey(s string) (SeriesKey, error) {
	key := SeriesKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllSeries {
		if k == key {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSeriesNotFound, s)
}

// Cadence returns the native sampling frequency of the bundle
func (k SeriesKey) Cadence() Cadence {
	switch k {
	case SeriesBTC, SeriesDXY, SeriesSP500:
		return CadenceDaily
	default:
		return CadenceMonthly
	}
}

// PriceShaped reports whether the bundle stores {date, price} rather than {date, value}
func (k SeriesKey) PriceShaped() bool {
	switch k {
	case SeriesBTC, SeriesSP500, SeriesHousing:
		return true
	default:
		return false
	}
}

// FileName returns the bundle's JSON file name, e.g. "cpi-monthly.json"
func (k SeriesKey) FileName() string {
	return fmt.Sprintf("%s-%s.json", k, k.Cadence())
}

// Bundles holds the static series shipped with the application
type Bundles struct {
	BTC     []PricePoint
	CPI     []DeflatorPoint
	M2      []DeflatorPoint
	Gold    []DeflatorPoint
	DXY     []DeflatorPoint
	SP500   []PricePoint
	Housing []PricePoint
}

// Set stores points under the given key, converting to the key's shape
func (b *Bundles) Set(key SeriesKey, points []DeflatorPoint) {
	switch key {
	case SeriesBTC:
		b.BTC = DeflatorsToPrices(points)
	case SeriesCPI:
		b.CPI = points
	case SeriesM2:
		b.M2 = points
	case SeriesGold:
		b.Gold = points
	case SeriesDXY:
		b.DXY = points
	case SeriesSP500:
		b.SP500 = DeflatorsToPrices(points)
	case SeriesHousing:
		b.Housing = DeflatorsToPrices(points)
	}
}

// Len returns the number of points stored under key
func (b Bundles) Len(key SeriesKey) int {
	switch key {
	case SeriesBTC:
		return len(b.BTC)
	case SeriesCPI:
		return len(b.CPI)
	case SeriesM2:
		return len(b.M2)
	case SeriesGold:
		return len(b.Gold)
	case SeriesDXY:
		return len(b.DXY)
	case SeriesSP500:
		return len(b.SP500)
	case SeriesHousing:
		return len(b.Housing)
	default:
		return 0
	}
}

// LiveSeries holds the most recent data returned by the live fetchers
type LiveSeries struct {
	BTC       []PricePoint
	DXY       []DeflatorPoint
	M2        []DeflatorPoint
	SP500     []DeflatorPoint
	Status    LiveDataStatus
	FetchedAt time.Time
}

// Merge returns a copy of l where every non-empty series in next replaces the
// current one. Status and FetchedAt always come from next.
func (l LiveSeries) Merge(next LiveSeries) LiveSeries {
	merged := l
	if len(next.BTC) > 0 {
		merged.BTC = next.BTC
	}
	if len(next.DXY) > 0 {
		merged.DXY = next.DXY
	}
	if len(next.M2) > 0 {
		merged.M2 = next.M2
	}
	if len(next.SP500) > 0 {
		merged.SP500 = next.SP500
	}
	merged.Status = next.Status
	merged.FetchedAt = next.FetchedAt
	return merged
}
