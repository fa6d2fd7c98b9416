package compare

import "github.com/simaogato/bitflation-backend/internal/domain"

// IndexBase is the value every normalized series starts at
const IndexBase = 100

// AssetSeries is an adjusted price series for a comparison asset
type AssetSeries struct {
	Asset domain.ComparisonAsset
	Data  []domain.AdjustedPricePoint
}

// NormalizeToIndex rebases the primary series and each asset series to IndexBase
// at their own first point
// Logic:
//   - The primary series drives the date backbone
//   - Empty primary, or a zero first value: empty result
//   - An asset whose first value is zero is skipped entirely
//   - An asset with no point on a backbone date is omitted for that date
func NormalizeToIndex(primary []domain.AdjustedPricePoint, others []AssetSeries) []domain.ComparisonPoint {
	if len(primary) == 0 || primary[0].AdjustedPrice == 0 {
		return []domain.ComparisonPoint{}
	}
	base := primary[0].AdjustedPrice

	type rebased struct {
		asset  domain.ComparisonAsset
		byDate map[string]float64
	}
	assets := make([]rebased, 0, len(others))
	for _, series := range others {
		if len(series.Data) == 0 || series.Data[0].AdjustedPrice == 0 {
			continue
		}
		assetBase := series.Data[0].AdjustedPrice
		byDate := make(map[string]float64, len(series.Data))
		for _, p := range series.Data {
			byDate[p.Date] = p.AdjustedPrice / assetBase * IndexBase
		}
		assets = append(assets, rebased{asset: series.Asset, byDate: byDate})
	}

	points := make([]domain.ComparisonPoint, 0, len(primary))
	for _, p := range primary {
		values := make(map[domain.ComparisonAsset]float64, len(assets))
		for _, a := range assets {
			if v, ok := a.byDate[p.Date]; ok {
				values[a.asset] = v
			}
		}
		points = append(points, domain.ComparisonPoint{
			Date:   p.Date,
			BTC:    p.AdjustedPrice / base * IndexBase,
			Assets: values,
		})
	}

	return points
}
