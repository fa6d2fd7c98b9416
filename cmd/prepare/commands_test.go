package main

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/bitflation-backend/internal/adapter/bundle"
	"github.com/simaogato/bitflation-backend/internal/domain"
)

// MockFetcher is a mock implementation of seriesFetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, key domain.SeriesKey) ([]domain.DeflatorPoint, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeflatorPoint), args.Error(1)
}

func TestParseSeriesArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []domain.SeriesKey
		wantErr bool
	}{
		{name: "No arguments", args: nil, want: domain.AllSeries},
		{name: "All", args: []string{"cpi", "ALL"}, want: domain.AllSeries},
		{name: "Selected", args: []string{"cpi", "Gold"}, want: []domain.SeriesKey{domain.SeriesCPI, domain.SeriesGold}},
		{name: "Unknown", args: []string{"oil"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSeriesArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrepareSeries(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	dir := bundle.NewDirSource(t.TempDir())
	existing := []domain.DeflatorPoint{{Date: "2010-01-01", Value: 1117.9}}
	require.NoError(t, dir.Replace(ctx, domain.SeriesGold, existing))

	cpi := []domain.DeflatorPoint{
		{Date: "2010-01-01", Value: 216.687},
		{Date: "2010-02-01", Value: 216.741},
	}

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", ctx, domain.SeriesCPI).Return(cpi, nil)
	fetcher.On("Fetch", ctx, domain.SeriesGold).Return([]domain.DeflatorPoint{}, nil)
	fetcher.On("Fetch", ctx, domain.SeriesM2).Return(nil, errors.New("HTTP 503"))

	err := prepareSeries(ctx, fetcher, []domain.SeriesRepository{dir},
		[]domain.SeriesKey{domain.SeriesCPI, domain.SeriesGold, domain.SeriesM2}, log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gold, m2")

	written, err := dir.Load(ctx, domain.SeriesCPI)
	require.NoError(t, err)
	assert.Equal(t, cpi, written)

	kept, err := dir.Load(ctx, domain.SeriesGold)
	require.NoError(t, err)
	assert.Equal(t, existing, kept)

	_, err = dir.Load(ctx, domain.SeriesM2)
	assert.ErrorIs(t, err, domain.ErrSeriesNotFound)

	fetcher.AssertExpectations(t)
}
