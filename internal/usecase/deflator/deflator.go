package deflator

import (
	"fmt"
	"strings"

	"github.com/simaogato/bitflation-backend/internal/domain"
)

// BlendWeight is the weight of each component of the Bitflation Index
const BlendWeight = 0.5

// Series pairs a deflator choice with its daily values
type Series struct {
	Choice domain.DeflatorChoice
	Daily  domain.DailyMap
}

// AnchorAverage returns the mean of every entry dated within anchorYear.
// Entries are summed in date order so the result is reproducible.
// Returns false if the year has no entries.
func AnchorAverage(daily domain.DailyMap, anchorYear int) (float64, bool) {
	prefix := fmt.Sprintf("%04d", anchorYear)

	var sum float64
	var count int
	for _, date := range daily.Dates() {
		if strings.HasPrefix(date, prefix) {
			sum += daily[date]
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// AdjustPrices expresses each nominal price in anchor-year purchasing power
// Logic:
//   - anchor = average deflator value over the anchor year
//   - No anchor entries: every point passes through with adjusted = nominal
//   - Otherwise adjusted = nominal * anchor / deflator[date]
//   - Points whose date has no positive deflator value are dropped
func AdjustPrices(prices []domain.PricePoint, daily domain.DailyMap, anchorYear int) []domain.AdjustedPricePoint {
	adjusted := make([]domain.AdjustedPricePoint, 0, len(prices))

	anchor, ok := AnchorAverage(daily, anchorYear)
	if !ok {
		for _, p := range prices {
			adjusted = append(adjusted, domain.AdjustedPricePoint{
				Date:          p.Date,
				NominalPrice:  p.Price,
				AdjustedPrice: p.Price,
			})
		}
		return adjusted
	}

	for _, p := range prices {
		value, exists := daily[p.Date]
		if !exists || value <= 0 {
			continue
		}
		adjusted = append(adjusted, domain.AdjustedPricePoint{
			Date:          p.Date,
			NominalPrice:  p.Price,
			AdjustedPrice: p.Price * anchor / value,
		})
	}

	return adjusted
}

// AdjustMulti adjusts prices through several deflators at once
// Logic:
//   - The first deflator drives the date backbone (its AdjustPrices output)
//   - Each point carries the adjusted value of every deflator that has one on that date
//   - InflationGap = nominal - primary-adjusted
//
// Returns nil if no deflators are given.
func AdjustMulti(prices []domain.PricePoint, deflators []Series, anchorYear int) []domain.MultiMetricPoint {
	if len(deflators) == 0 {
		return nil
	}

	primary := AdjustPrices(prices, deflators[0].Daily, anchorYear)

	lookups := make([]map[string]float64, len(deflators))
	for i, d := range deflators {
		series := primary
		if i > 0 {
			series = AdjustPrices(prices, d.Daily, anchorYear)
		}
		lookup := make(map[string]float64, len(series))
		for _, p := range series {
			lookup[p.Date] = p.AdjustedPrice
		}
		lookups[i] = lookup
	}

	points := make([]domain.MultiMetricPoint, 0, len(primary))
	for _, p := range primary {
		values := make(map[domain.DeflatorChoice]float64, len(deflators))
		for i, d := range deflators {
			if v, ok := lookups[i][p.Date]; ok {
				values[d.Choice] = v
			}
		}
		gap := p.NominalPrice - p.AdjustedPrice
		points = append(points, domain.MultiMetricPoint{
			Date:         p.Date,
			NominalPrice: p.NominalPrice,
			Adjusted:     values,
			InflationGap: &gap,
		})
	}

	return points
}

// ComputeBitflationIndex blends CPI and M2 into a single daily deflator
// Logic:
//   - Both anchors are averaged independently over the anchor year
//   - Either anchor missing: empty map
//   - For dates present in both maps:
//     BlendWeight*(cpi/cpiAnchor) + BlendWeight*(m2/m2Anchor)
func ComputeBitflationIndex(dailyCPI, dailyM2 domain.DailyMap, anchorYear int) domain.DailyMap {
	index := make(domain.DailyMap)

	cpiAnchor, ok := AnchorAverage(dailyCPI, anchorYear)
	if !ok {
		return index
	}
	m2Anchor, ok := AnchorAverage(dailyM2, anchorYear)
	if !ok {
		return index
	}

	for date, cpi := range dailyCPI {
		m2, exists := dailyM2[date]
		if !exists {
			continue
		}
		index[date] = BlendWeight*(cpi/cpiAnchor) + BlendWeight*(m2/m2Anchor)
	}

	return index
}
