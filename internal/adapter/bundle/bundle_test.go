package bundle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource is a mock implementation of Source for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeflatorPoint), args.Error(1)
}

func TestDirSource_LoadBothShapes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "btc-daily.json"),
		[]byte(`[{"date":"2024-01-02","price":44179.92},{"date":"2024-01-01","price":42261.05}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cpi-monthly.json"),
		[]byte(`[{"date":"2024-01-01","value":308.417},{"date":"2024-02-01"}]`), 0o644))

	src := NewDirSource(dir)
	ctx := context.Background()

	btc, err := src.Load(ctx, domain.SeriesBTC)
	require.NoError(t, err)
	assert.Equal(t, []domain.DeflatorPoint{
		{Date: "2024-01-01", Value: 42261.05},
		{Date: "2024-01-02", Value: 44179.92},
	}, btc)

	cpi, err := src.Load(ctx, domain.SeriesCPI)
	require.NoError(t, err)
	assert.Equal(t, []domain.DeflatorPoint{{Date: "2024-01-01", Value: 308.417}}, cpi)
}

func TestDirSource_Missing(t *testing.T) {
	_, err := NewDirSource(t.TempDir()).Load(context.Background(), domain.SeriesGold)
	assert.ErrorIs(t, err, domain.ErrSeriesNotFound)
}

func TestDirSource_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m2-monthly.json"), []byte(`{"not":"a list"}`), 0o644))

	_, err := NewDirSource(dir).Load(context.Background(), domain.SeriesM2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSeriesNotFound)
}

func TestDirSource_ReplaceRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	src := NewDirSource(dir)
	ctx := context.Background()
	points := []domain.DeflatorPoint{
		{Date: "2024-01-01", Value: 4742.83},
		{Date: "2024-01-02", Value: 4704.81},
	}

	require.NoError(t, src.Replace(ctx, domain.SeriesSP500, points))

	raw, err := os.ReadFile(filepath.Join(dir, "sp500-daily.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price": 4742.83`)
	assert.NotContains(t, string(raw), `"value"`)

	loaded, err := src.Load(ctx, domain.SeriesSP500)
	require.NoError(t, err)
	assert.Equal(t, points, loaded)
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	src := new(MockSource)
	log, hook := test.NewNullLogger()

	src.On("Load", ctx, domain.SeriesBTC).Return([]domain.DeflatorPoint{{Date: "2024-01-01", Value: 42000}}, nil)
	src.On("Load", ctx, domain.SeriesCPI).Return([]domain.DeflatorPoint{{Date: "2024-01-01", Value: 308}}, nil)
	src.On("Load", ctx, domain.SeriesM2).Return(nil, errors.New("connection reset"))
	src.On("Load", ctx, mock.Anything).Return(nil, domain.ErrSeriesNotFound)

	bundles := LoadAll(ctx, src, log)

	assert.Equal(t, []domain.PricePoint{{Date: "2024-01-01", Price: 42000}}, bundles.BTC)
	assert.Len(t, bundles.CPI, 1)
	assert.Empty(t, bundles.M2)
	assert.Empty(t, bundles.Housing)
	assert.Len(t, hook.AllEntries(), len(domain.AllSeries)-2)
	src.AssertNumberOfCalls(t, "Load", len(domain.AllSeries))
}
