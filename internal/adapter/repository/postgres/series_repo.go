package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/bitflation-backend/internal/domain"
)

// seriesRepository implements domain.SeriesRepository
type seriesRepository struct {
	db *DB
}

// NewSeriesRepository creates a new series repository
func NewSeriesRepository(db *DB) domain.SeriesRepository {
	return &seriesRepository{db: db}
}

// Load retrieves every observation of a bundle ordered by date
// Returns domain.ErrSeriesNotFound if the bundle has no rows.
func (r *seriesRepository) Load(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), value::text
		FROM series_observations
		WHERE series_key = $1
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(key))
	if err != nil {
		return nil, fmt.Errorf("failed to query series %s: %w", key, err)
	}
	defer rows.Close()

	var points []domain.DeflatorPoint
	for rows.Next() {
		var date, valueStr string
		if err := rows.Scan(&date, &valueStr); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		// Parse value (NUMERIC)
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse value for %s on %s: %w", key, date, err)
		}

		points = append(points, domain.DeflatorPoint{Date: date, Value: value.InexactFloat64()})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrSeriesNotFound, key)
	}

	return points, nil
}

// Replace swaps every observation of a bundle in a single transaction
func (r *seriesRepository) Replace(ctx context.Context, key domain.SeriesKey, points []domain.DeflatorPoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series_observations WHERE series_key = $1`, string(key)); err != nil {
		return fmt.Errorf("failed to clear series %s: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO series_observations (series_key, date, value)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := domain.ParseDate(p.Date); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, string(key), p.Date, decimal.NewFromFloat(p.Value).String()); err != nil {
			return fmt.Errorf("failed to insert %s observation on %s: %w", key, p.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit series %s: %w", key, err)
	}

	return nil
}
