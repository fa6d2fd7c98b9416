package domain

import (
	"fmt"
	"strings"
)

const (
	// MinAnchorYear is the earliest year with complete deflator coverage
	MinAnchorYear = 2010
	// DefaultAnchorYear is used when a request leaves the anchor year unset
	DefaultAnchorYear = 2015
)

// ViewRequest represents the raw chart selection received from a client
type ViewRequest struct {
	Metrics    []string
	AnchorYear int // 0 means DefaultAnchorYear
	Timeframe  string
	Compare    []string
}

// View is a validated chart selection
type View struct {
	Deflators  []DeflatorChoice // first entry is the primary deflator; empty in gold mode
	GoldMode   bool
	AnchorYear int
	Timeframe  Timeframe
	Compare    []ComparisonAsset
}

// Resolve validates the request and applies defaults
// currentYear bounds the anchor year from above
func (r ViewRequest) Resolve(currentYear int) (View, error) {
	deflators, goldMode, err := ParseMetrics(r.Metrics)
	if err != nil {
		return View{}, err
	}

	anchorYear := r.AnchorYear
	if anchorYear == 0 {
		anchorYear = DefaultAnchorYear
	}
	if anchorYear < MinAnchorYear || anchorYear > currentYear {
		return View{}, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidAnchorYear, anchorYear, MinAnchorYear, currentYear)
	}

	tf, err := ParseTimeframe(r.Timeframe)
	if err != nil {
		return View{}, err
	}

	compare := make([]ComparisonAsset, 0, len(r.Compare))
	seen := make(map[ComparisonAsset]bool, len(r.Compare))
	for _, name := range r.Compare {
		asset, err := ParseComparisonAsset(name)
		if err != nil {
			return View{}, err
		}
		if seen[asset] {
			continue
		}
		seen[asset] = true
		compare = append(compare, asset)
	}

	return View{
		Deflators:  deflators,
		GoldMode:   goldMode,
		AnchorYear: anchorYear,
		Timeframe:  tf,
		Compare:    compare,
	}, nil
}

// Primary returns the deflator that drives the chart, or false in gold mode
func (v View) Primary() (DeflatorChoice, bool) {
	if v.GoldMode || len(v.Deflators) == 0 {
		return "", false
	}
	return v.Deflators[0], true
}

// CacheKey renders the view as a stable string usable as a memoization key
func (v View) CacheKey() string {
	deflators := make([]string, len(v.Deflators))
	for i, d := range v.Deflators {
		deflators[i] = string(d)
	}
	assets := make([]string, len(v.Compare))
	for i, a := range v.Compare {
		assets[i] = string(a)
	}
	return fmt.Sprintf("m=%s|gold=%t|anchor=%d|tf=%s|cmp=%s",
		strings.Join(deflators, ","), v.GoldMode, v.AnchorYear, v.Timeframe, strings.Join(assets, ","))
}
