package returns

import "github.com/simaogato/bitflation-backend/internal/domain"

// DefaultShockReference is the reference date used by ComputeShockStats
const DefaultShockReference = "2020-01-01"

// known returns the value at date, treating absent and zero as missing
func known(daily domain.DailyMap, date string) (float64, bool) {
	v, ok := daily[date]
	return v, ok && v != 0
}

// ratio returns then/now when both are known, otherwise 1
func ratio(daily domain.DailyMap, thenDate, nowDate string) float64 {
	then, ok := known(daily, thenDate)
	if !ok {
		return 1
	}
	now, ok := known(daily, nowDate)
	if !ok {
		return 1
	}
	return then / now
}

// findOnOrAfter returns the first price dated on or after date
func findOnOrAfter(prices []domain.PricePoint, date string) (domain.PricePoint, bool) {
	for _, p := range prices {
		if p.Date >= date {
			return p, true
		}
	}
	return domain.PricePoint{}, false
}

// CalculateReturns evaluates a BTC purchase made on purchaseDate at the latest price
// Logic:
//   - entry = first price on or after purchaseDate; latest = last price
//   - btcAmount = investment / entryPrice; nominalValue = btcAmount * latestPrice
//   - CPI and M2 lenses scale nominalValue by deflator(entry)/deflator(latest),
//     falling back to a ratio of 1 when either side is missing
//   - Gold lens compares ounces bought then with ounces the position buys now,
//     falling back to zero when a gold price is missing
//
// Returns nil if prices is empty or no price is on or after purchaseDate.
func CalculateReturns(
	purchaseDate string,
	investmentUSD float64,
	prices []domain.PricePoint,
	dailyCPI, dailyM2, dailyGold domain.DailyMap,
) *domain.CalculatorResult {
	if len(prices) == 0 {
		return nil
	}
	entry, ok := findOnOrAfter(prices, purchaseDate)
	if !ok {
		return nil
	}
	latest := prices[len(prices)-1]

	btcAmount := investmentUSD / entry.Price
	nominalValue := btcAmount * latest.Price

	cpiValue := nominalValue * ratio(dailyCPI, entry.Date, latest.Date)
	m2Value := nominalValue * ratio(dailyM2, entry.Date, latest.Date)

	var ouncesThen, ouncesNow, goldReturn float64
	if goldThen, ok := known(dailyGold, entry.Date); ok {
		ouncesThen = investmentUSD / goldThen
	}
	if goldNow, ok := known(dailyGold, latest.Date); ok {
		ouncesNow = nominalValue / goldNow
	}
	if ouncesThen > 0 {
		goldReturn = (ouncesNow - ouncesThen) / ouncesThen
	}

	return &domain.CalculatorResult{
		PurchaseDate:      entry.Date,
		InvestmentUSD:     investmentUSD,
		BTCAmount:         btcAmount,
		BTCPriceThen:      entry.Price,
		BTCPriceNow:       latest.Price,
		NominalValue:      nominalValue,
		NominalReturn:     (nominalValue - investmentUSD) / investmentUSD,
		CPIAdjustedValue:  cpiValue,
		CPIAdjustedReturn: (cpiValue - investmentUSD) / investmentUSD,
		M2AdjustedValue:   m2Value,
		M2AdjustedReturn:  (m2Value - investmentUSD) / investmentUSD,
		GoldOuncesThen:    ouncesThen,
		GoldOuncesNow:     ouncesNow,
		GoldReturn:        goldReturn,
	}
}

// ComputeShockStats summarises the move between refDate and the latest price date
// Each statistic is nil when one of its inputs is missing.
func ComputeShockStats(
	prices []domain.PricePoint,
	dailyCPI, dailyM2, dailyGold domain.DailyMap,
	refDate string,
) domain.ShockStats {
	stats := domain.ShockStats{ReferenceDate: refDate}
	if len(prices) == 0 {
		return stats
	}
	latest := prices[len(prices)-1]
	stats.LatestDate = latest.Date

	cpiRef, hasCPIRef := known(dailyCPI, refDate)
	cpiNow, hasCPINow := known(dailyCPI, latest.Date)
	hasCPI := hasCPIRef && hasCPINow
	if hasCPI {
		stats.DollarLoss = float64Ptr(1 - cpiRef/cpiNow)
	}

	btcRef, hasBTCRef := findOnOrAfter(prices, refDate)
	hasBTC := hasBTCRef && btcRef.Price != 0
	if hasBTC {
		gain := latest.Price / btcRef.Price
		stats.BTCNominalGain = float64Ptr(gain)
		if hasCPI {
			stats.BTCRealGain = float64Ptr(gain * (cpiRef / cpiNow))
		}
	}

	m2Ref, hasM2Ref := known(dailyM2, refDate)
	m2Now, hasM2Now := known(dailyM2, latest.Date)
	if hasM2Ref && hasM2Now {
		stats.M2Increase = float64Ptr((m2Now - m2Ref) / m2Ref)
	}

	goldRef, hasGoldRef := known(dailyGold, refDate)
	goldNow, hasGoldNow := known(dailyGold, latest.Date)
	if hasBTC && hasGoldRef && hasGoldNow {
		stats.BTCGoldChange = float64Ptr((latest.Price / goldNow) / (btcRef.Price / goldRef))
	}

	return stats
}

func float64Ptr(v float64) *float64 {
	return &v
}
