package domain

import "context"

// SeriesRepository defines the interface for static bundle storage
type SeriesRepository interface {
	// Load retrieves every observation of a bundle, sorted by date
	// Returns ErrSeriesNotFound if the bundle does not exist
	Load(ctx context.Context, key SeriesKey) ([]DeflatorPoint, error)

	// Replace swaps the whole bundle for the given points
	Replace(ctx context.Context, key SeriesKey, points []DeflatorPoint) error
}
