package domain

import (
	"fmt"
	"strings"
)

// DeflatorChoice selects which deflator series adjusts the nominal price
type DeflatorChoice string

const (
	DeflatorCPI DeflatorChoice = "CPI"
	DeflatorM2  DeflatorChoice = "M2"
	DeflatorDXY DeflatorChoice = "DXY"
	DeflatorBFI DeflatorChoice = "BFI"
)

// Metric is a user-facing metric selection. It is a DeflatorChoice or GOLD.
type Metric string

const (
	MetricCPI  Metric = "CPI"
	MetricM2   Metric = "M2"
	MetricDXY  Metric = "DXY"
	MetricBFI  Metric = "BFI"
	MetricGold Metric = "GOLD"
)

// ParseMetric parses a metric name, case-insensitively
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToUpper(strings.TrimSpace(s))); m {
	case MetricCPI, MetricM2, MetricDXY, MetricBFI, MetricGold:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
}

// ParseMetrics resolves a metric selection into the deflators to apply and
// whether the view is gold-denominated.
// Logic:
//   - Gold mode is active only when GOLD is the sole selected metric
//   - GOLD mixed with other metrics is dropped from the deflator list
//   - Duplicates keep their first position
//   - An empty selection defaults to CPI
func ParseMetrics(names []string) ([]DeflatorChoice, bool, error) {
	metrics := make([]Metric, 0, len(names))
	seen := make(map[Metric]bool, len(names))
	for _, name := range names {
		m, err := ParseMetric(name)
		if err != nil {
			return nil, false, err
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		metrics = append(metrics, m)
	}

	if len(metrics) == 0 {
		return []DeflatorChoice{DeflatorCPI}, false, nil
	}
	if len(metrics) == 1 && metrics[0] == MetricGold {
		return nil, true, nil
	}

	deflators := make([]DeflatorChoice, 0, len(metrics))
	for _, m := range metrics {
		if m == MetricGold {
			continue
		}
		deflators = append(deflators, DeflatorChoice(m))
	}
	return deflators, false, nil
}

// ComparisonAsset is an alternative asset the adjusted BTC series can be compared against
type ComparisonAsset string

const (
	AssetSP500   ComparisonAsset = "sp500"
	AssetGold    ComparisonAsset = "gold"
	AssetHousing ComparisonAsset = "housing"
)

// ParseComparisonAsset parses an asset name, case-insensitively
func ParseComparisonAsset(s string) (ComparisonAsset, error) {
	switch a := ComparisonAsset(strings.ToLower(strings.TrimSpace(s))); a {
	case AssetSP500, AssetGold, AssetHousing:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
}

// Timeframe restricts a series to a trailing window
type Timeframe string

const (
	Timeframe1Y  Timeframe = "1Y"
	Timeframe5Y  Timeframe = "5Y"
	TimeframeAll Timeframe = "ALL"
)

// ParseTimeframe parses a timeframe, case-insensitively. Empty input means ALL.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeframeAll, nil
	}
	switch tf := Timeframe(strings.ToUpper(s)); tf {
	case Timeframe1Y, Timeframe5Y, TimeframeAll:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
}

// Years returns the trailing window length, or 0 for ALL
func (tf Timeframe) Years() int {
	switch tf {
	case Timeframe1Y:
		return 1
	case Timeframe5Y:
		return 5
	default:
		return 0
	}
}

// LiveDataStatus reports how many live sources contributed fresh data
type LiveDataStatus string

const (
	LiveStatusAll     LiveDataStatus = "all"
	LiveStatusPartial LiveDataStatus = "partial"
	LiveStatusNone    LiveDataStatus = "none"
)

// LiveStatusFrom classifies a refresh by the number of tracked sources that returned data
func LiveStatusFrom(succeeded, total int) LiveDataStatus {
	switch {
	case total > 0 && succeeded >= total:
		return LiveStatusAll
	case succeeded > 0:
		return LiveStatusPartial
	default:
		return LiveStatusNone
	}
}
