package stitcher

import (
	"sort"

	"github.com/simaogato/bitflation-backend/internal/domain"
)

// Stitch merges a static series with a live one
// Logic:
//   - Seed a date-keyed map with the static points
//   - Overwrite with the live points (live wins on shared dates)
//   - Emit the union sorted ascending by date string
//
// Neither input is modified.
func Stitch[T domain.Dated](static, live []T) []T {
	byDate := make(map[string]T, len(static)+len(live))
	for _, p := range static {
		byDate[p.DateKey()] = p
	}
	for _, p := range live {
		byDate[p.DateKey()] = p
	}

	merged := make([]T, 0, len(byDate))
	for _, p := range byDate {
		merged = append(merged, p)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].DateKey() < merged[j].DateKey()
	})

	return merged
}

// StitchPrices merges static and live BTC (or other asset) prices
func StitchPrices(static, live []domain.PricePoint) []domain.PricePoint {
	return Stitch(static, live)
}

// StitchDeflators merges static and live deflator observations
func StitchDeflators(static, live []domain.DeflatorPoint) []domain.DeflatorPoint {
	return Stitch(static, live)
}
