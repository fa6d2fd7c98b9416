package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/simaogato/bitflation-backend/internal/domain"
)

// pointJSON is the on-disk shape of a bundle entry: {date, price} or {date, value}
type pointJSON struct {
	Date  string   `json:"date"`
	Price *float64 `json:"price,omitempty"`
	Value *float64 `json:"value,omitempty"`
}

// DirSource reads and writes bundles as JSON files in a directory
type DirSource struct {
	Dir string
}

// NewDirSource creates a new DirSource rooted at dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) path(key domain.SeriesKey) string {
	return filepath.Join(s.Dir, key.FileName())
}

// Load reads a bundle file
// Returns domain.ErrSeriesNotFound if the file does not exist.
func (s *DirSource) Load(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSeriesNotFound, key.FileName())
		}
		return nil, fmt.Errorf("failed to read bundle %s: %w", key, err)
	}

	var raw []pointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", key, err)
	}

	points := make([]domain.DeflatorPoint, 0, len(raw))
	for _, p := range raw {
		var value float64
		switch {
		case p.Value != nil:
			value = *p.Value
		case p.Price != nil:
			value = *p.Price
		default:
			continue
		}
		points = append(points, domain.DeflatorPoint{Date: p.Date, Value: value})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	return points, nil
}

// Replace writes the whole bundle file, using the key's {date, price} or {date, value} shape
func (s *DirSource) Replace(ctx context.Context, key domain.SeriesKey, points []domain.DeflatorPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := make([]pointJSON, len(points))
	for i, p := range points {
		value := p.Value
		raw[i] = pointJSON{Date: p.Date}
		if key.PriceShaped() {
			raw[i].Price = &value
		} else {
			raw[i].Value = &value
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle %s: %w", key, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create bundle directory: %w", err)
	}

	// readers never observe a partially written file
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write bundle %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to move bundle %s into place: %w", key, err)
	}

	return nil
}
