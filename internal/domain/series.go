package domain

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used as the key of every series
const DateLayout = "2006-01-02"

// Dated is implemented by every point type keyed by a calendar date
type Dated interface {
	DateKey() string
}

// PricePoint represents a single nominal USD price observation
type PricePoint struct {
	Date  string
	Price float64
}

// DateKey returns the point's calendar date
func (p PricePoint) DateKey() string { return p.Date }

// DeflatorPoint represents a single deflator observation (CPI level, M2 stock, gold price, DXY)
type DeflatorPoint struct {
	Date  string
	Value float64
}

// DateKey returns the point's calendar date
func (p DeflatorPoint) DateKey() string { return p.Date }

// DailyMap maps a calendar date to a deflator value.
// Absent keys mean "no data"; they are never filled with zeros.
type DailyMap map[string]float64

// Dates returns the map's dates in ascending order
func (m DailyMap) Dates() []string {
	dates := make([]string, 0, len(m))
	for date := range m {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as a YYYY-MM-DD string in UTC
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// AddDays shifts a UTC calendar date by n days
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from start to end
func DaysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

// PricesToDeflators converts price points into value-shaped points
func PricesToDeflators(prices []PricePoint) []DeflatorPoint {
	points := make([]DeflatorPoint, len(prices))
	for i, p := range prices {
		points[i] = DeflatorPoint{Date: p.Date, Value: p.Price}
	}
	return points
}

// DeflatorsToPrices converts value-shaped points into price points
func DeflatorsToPrices(points []DeflatorPoint) []PricePoint {
	prices := make([]PricePoint, len(points))
	for i, p := range points {
		prices[i] = PricePoint{Date: p.Date, Price: p.Value}
	}
	return prices
}
