package gold

import "github.com/simaogato/bitflation-backend/internal/domain"

// ConvertToGold expresses each BTC price in troy ounces of gold
// Dates without a positive gold price are skipped.
func ConvertToGold(prices []domain.PricePoint, dailyGold domain.DailyMap) []domain.GoldPricePoint {
	points := make([]domain.GoldPricePoint, 0, len(prices))
	for _, p := range prices {
		goldPrice, ok := dailyGold[p.Date]
		if !ok || goldPrice <= 0 {
			continue
		}
		points = append(points, domain.GoldPricePoint{
			Date:         p.Date,
			NominalPrice: p.Price,
			GoldOunces:   p.Price / goldPrice,
			GoldPriceUSD: goldPrice,
		})
	}
	return points
}
