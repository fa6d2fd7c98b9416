package interpolate

import (
	"sort"
	"time"

	"github.com/simaogato/bitflation-backend/internal/domain"
)

// LookaheadDays is how far past the last known observation a series is held flat
const LookaheadDays = 90

type datedValue struct {
	date  time.Time
	value float64
}

// sortedValues parses and sorts a copy of the points, skipping unparseable dates
func sortedValues(points []domain.DeflatorPoint) []datedValue {
	values := make([]datedValue, 0, len(points))
	for _, p := range points {
		d, err := domain.ParseDate(p.Date)
		if err != nil {
			continue
		}
		values = append(values, datedValue{date: d, value: p.Value})
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].date.Before(values[j].date)
	})
	return values
}

// InterpolateMonthlyToDaily expands sparse (typically monthly) observations into
// a value for every calendar day.
// Logic:
//   - For each consecutive pair, fill [current, next) linearly:
//     current + (next - current) * d / totalDays
//   - Hold the last value flat from its own date through LookaheadDays after it
//
// Zero points yield an empty map; a single point yields only the flat window.
func InterpolateMonthlyToDaily(points []domain.DeflatorPoint) domain.DailyMap {
	daily := make(domain.DailyMap)
	values := sortedValues(points)
	if len(values) == 0 {
		return daily
	}

	for i := 0; i < len(values)-1; i++ {
		current, next := values[i], values[i+1]
		totalDays := domain.DaysBetween(current.date, next.date)
		if totalDays <= 0 {
			continue
		}
		diff := next.value - current.value
		for d := 0; d < totalDays; d++ {
			day := domain.AddDays(current.date, d)
			daily[domain.FormatDate(day)] = current.value + diff*float64(d)/float64(totalDays)
		}
	}

	last := values[len(values)-1]
	for d := 0; d <= LookaheadDays; d++ {
		daily[domain.FormatDate(domain.AddDays(last.date, d))] = last.value
	}

	return daily
}

// InterpolatePricesToDaily runs InterpolateMonthlyToDaily over a price series
// and returns the daily result as sorted price points
func InterpolatePricesToDaily(prices []domain.PricePoint) []domain.PricePoint {
	return DailyMapToPrices(InterpolateMonthlyToDaily(domain.PricesToDeflators(prices)))
}

// DailyMapToPrices converts a daily map into price points sorted by date
func DailyMapToPrices(daily domain.DailyMap) []domain.PricePoint {
	dates := daily.Dates()
	prices := make([]domain.PricePoint, len(dates))
	for i, date := range dates {
		prices[i] = domain.PricePoint{Date: date, Price: daily[date]}
	}
	return prices
}

// ExtendDaily turns an already-daily series into a DailyMap and holds the last
// value for LookaheadDays past the last point, never overwriting existing dates
func ExtendDaily(points []domain.DeflatorPoint) domain.DailyMap {
	daily := make(domain.DailyMap, len(points)+LookaheadDays)
	for _, p := range points {
		daily[p.Date] = p.Value
	}

	values := sortedValues(points)
	if len(values) == 0 {
		return daily
	}

	last := values[len(values)-1]
	for d := 1; d <= LookaheadDays; d++ {
		date := domain.FormatDate(domain.AddDays(last.date, d))
		if _, exists := daily[date]; !exists {
			daily[date] = last.value
		}
	}

	return daily
}

// ForwardFillDaily fills every calendar day between the first and last point
// with the most recent known value (weekends and holidays in trading series)
func ForwardFillDaily(points []domain.DeflatorPoint) []domain.DeflatorPoint {
	values := sortedValues(points)
	if len(values) == 0 {
		return []domain.DeflatorPoint{}
	}

	first, last := values[0].date, values[len(values)-1].date
	filled := make([]domain.DeflatorPoint, 0, domain.DaysBetween(first, last)+1)

	next := 0
	current := values[0].value
	for day := first; !day.After(last); day = domain.AddDays(day, 1) {
		for next < len(values) && !values[next].date.After(day) {
			current = values[next].value
			next++
		}
		filled = append(filled, domain.DeflatorPoint{Date: domain.FormatDate(day), Value: current})
	}

	return filled
}
