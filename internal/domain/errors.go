package domain

import "errors"

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidMetric     = errors.New("invalid metric")
	ErrInvalidTimeframe  = errors.New("invalid timeframe")
	ErrInvalidAnchorYear = errors.New("invalid anchor year")
	ErrInvalidAsset      = errors.New("invalid comparison asset")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrSeriesNotFound    = errors.New("series not found")
)
