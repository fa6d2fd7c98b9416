// Package bundle loads the static series shipped with the application.
package bundle

import (
	"context"
	"errors"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/sirupsen/logrus"
)

// Source provides static bundle observations
type Source interface {
	Load(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error)
}

// LoadAll loads every bundle from src
// A missing or unreadable bundle is logged and left empty; the pipeline then
// degrades to nominal-only output for whatever depends on it.
func LoadAll(ctx context.Context, src Source, log logrus.FieldLogger) domain.Bundles {
	var bundles domain.Bundles

	for _, key := range domain.AllSeries {
		points, err := src.Load(ctx, key)
		if err != nil {
			entry := log.WithError(err).WithField("series", key)
			if errors.Is(err, domain.ErrSeriesNotFound) {
				entry.Warn("Static bundle missing")
			} else {
				entry.Error("Failed to load static bundle")
			}
			continue
		}
		bundles.Set(key, points)
		log.WithFields(logrus.Fields{"series": key, "points": len(points)}).Debug("Static bundle loaded")
	}

	return bundles
}
