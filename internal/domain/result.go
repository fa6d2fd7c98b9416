package domain

// AdjustedPricePoint represents a nominal price and its inflation-adjusted equivalent
type AdjustedPricePoint struct {
	Date          string
	NominalPrice  float64
	AdjustedPrice float64
}

// DateKey returns the point's calendar date
func (p AdjustedPricePoint) DateKey() string { return p.Date }

// GoldPricePoint represents a BTC price expressed in troy ounces of gold
type GoldPricePoint struct {
	Date         string
	NominalPrice float64
	GoldOunces   float64
	GoldPriceUSD float64
}

// DateKey returns the point's calendar date
func (p GoldPricePoint) DateKey() string { return p.Date }

// MultiMetricPoint carries one nominal price adjusted by several deflators at once
type MultiMetricPoint struct {
	Date         string
	NominalPrice float64
	Adjusted     map[DeflatorChoice]float64 // missing key = no data for that deflator
	InflationGap *float64                   // nominal minus primary-adjusted
}

// DateKey returns the point's calendar date
func (p MultiMetricPoint) DateKey() string { return p.Date }

// ComparisonPoint represents BTC and other assets rebased to an index of 100
type ComparisonPoint struct {
	Date   string
	BTC    float64
	Assets map[ComparisonAsset]float64 // missing key = no data for that asset
}

// DateKey returns the point's calendar date
func (p ComparisonPoint) DateKey() string { return p.Date }

// CalculatorResult represents the outcome of a hypothetical BTC purchase
// evaluated at the latest available price, through each inflation lens
type CalculatorResult struct {
	PurchaseDate      string
	InvestmentUSD     float64
	BTCAmount         float64
	BTCPriceThen      float64
	BTCPriceNow       float64
	NominalValue      float64
	NominalReturn     float64
	CPIAdjustedValue  float64
	CPIAdjustedReturn float64
	M2AdjustedValue   float64
	M2AdjustedReturn  float64
	GoldOuncesThen    float64
	GoldOuncesNow     float64
	GoldReturn        float64
}

// ShockStats summarises how the dollar and BTC moved since a reference date.
// A nil field means one of its inputs was unavailable.
type ShockStats struct {
	ReferenceDate  string
	LatestDate     string
	DollarLoss     *float64
	BTCNominalGain *float64
	BTCRealGain    *float64
	M2Increase     *float64
	BTCGoldChange  *float64
}
