package timeframe

import "github.com/simaogato/bitflation-backend/internal/domain"

// FilterByTimeframe keeps the trailing window of a date-sorted series
// Logic:
//   - ALL, or an empty series: returned unchanged
//   - cutoff = last date minus 1 or 5 calendar years
//   - keep points dated on or after cutoff
func FilterByTimeframe[T domain.Dated](series []T, tf domain.Timeframe) []T {
	years := tf.Years()
	if years == 0 || len(series) == 0 {
		return series
	}

	last, err := domain.ParseDate(series[len(series)-1].DateKey())
	if err != nil {
		return series
	}
	cutoff := domain.FormatDate(last.AddDate(-years, 0, 0))

	filtered := make([]T, 0, len(series))
	for _, p := range series {
		if p.DateKey() >= cutoff {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
