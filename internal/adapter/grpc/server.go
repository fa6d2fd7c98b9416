package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/bitflation-backend/internal/domain"
	"github.com/simaogato/bitflation-backend/internal/usecase/dashboard"
)

// Dashboard is the pipeline API exposed over gRPC
type Dashboard interface {
	GetChart(req domain.ViewRequest) (*dashboard.ChartView, error)
	GetComparison(req domain.ViewRequest) ([]domain.ComparisonPoint, error)
	CalculateReturns(purchaseDate string, investmentUSD float64) (*domain.CalculatorResult, error)
	GetShockStats() domain.ShockStats
	GetStatus() dashboard.Status
}

var _ BitflationServiceServer = (*Server)(nil)

// Server implements the BitflationService gRPC server
type Server struct {
	DashboardService Dashboard
}

// NewServer creates a new gRPC server instance
func NewServer(dashboardService Dashboard) *Server {
	return &Server{DashboardService: dashboardService}
}

// GetChart handles the GetChart RPC
func (s *Server) GetChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	viewReq, err := parseViewRequest(req)
	if err != nil {
		return nil, err
	}

	chart, err := s.DashboardService.GetChart(viewReq)
	if err != nil {
		return nil, mapError(err)
	}

	primary := adjustedPointsToList(chart.Primary)
	goldPoints := goldPointsToList(chart.Gold)

	// latest is the last point of whichever series drives the chart, or null
	var latest interface{}
	if chart.View.GoldMode && len(goldPoints) > 0 {
		latest = goldPoints[len(goldPoints)-1]
	} else if !chart.View.GoldMode && len(primary) > 0 {
		latest = primary[len(primary)-1]
	}

	return encode(map[string]interface{}{
		"version":   float64(chart.Version),
		"view":      viewToMap(chart.View),
		"primary":   primary,
		"gold":      goldPoints,
		"latest":    latest,
		"multi":     multiPointsToList(chart.Multi),
		"secondary": secondaryToList(chart.Secondary),
		"events":    eventsToList(chart.Events),
	})
}

// GetComparison handles the GetComparison RPC
func (s *Server) GetComparison(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	viewReq, err := parseViewRequest(req)
	if err != nil {
		return nil, err
	}

	points, err := s.DashboardService.GetComparison(viewReq)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]interface{}, len(points))
	for i, p := range points {
		assets := make(map[string]interface{}, len(p.Assets))
		for asset, value := range p.Assets {
			assets[string(asset)] = value
		}
		list[i] = map[string]interface{}{
			"date":   p.Date,
			"btc":    p.BTC,
			"assets": assets,
		}
	}

	return encode(map[string]interface{}{"points": list})
}

// CalculateReturns handles the CalculateReturns RPC
func (s *Server) CalculateReturns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	purchaseDate, err := stringField(req, "purchase_date")
	if err != nil {
		return nil, err
	}

	// Parse amount from string or number to decimal
	amount, err := amountField(req, "amount")
	if err != nil {
		return nil, err
	}

	result, err := s.DashboardService.CalculateReturns(purchaseDate, amount.InexactFloat64())
	if err != nil {
		return nil, mapError(err)
	}

	return encode(map[string]interface{}{
		"purchase_date":       result.PurchaseDate,
		"investment_usd":      result.InvestmentUSD,
		"btc_amount":          result.BTCAmount,
		"btc_price_then":      result.BTCPriceThen,
		"btc_price_now":       result.BTCPriceNow,
		"nominal_value":       result.NominalValue,
		"nominal_return":      result.NominalReturn,
		"cpi_adjusted_value":  result.CPIAdjustedValue,
		"cpi_adjusted_return": result.CPIAdjustedReturn,
		"m2_adjusted_value":   result.M2AdjustedValue,
		"m2_adjusted_return":  result.M2AdjustedReturn,
		"gold_ounces_then":    result.GoldOuncesThen,
		"gold_ounces_now":     result.GoldOuncesNow,
		"gold_return":         result.GoldReturn,
	})
}

// GetShockStats handles the GetShockStats RPC
func (s *Server) GetShockStats(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	stats := s.DashboardService.GetShockStats()

	return encode(map[string]interface{}{
		"reference_date":   stats.ReferenceDate,
		"latest_date":      stats.LatestDate,
		"dollar_loss":      optional(stats.DollarLoss),
		"btc_nominal_gain": optional(stats.BTCNominalGain),
		"btc_real_gain":    optional(stats.BTCRealGain),
		"m2_increase":      optional(stats.M2Increase),
		"btc_gold_change":  optional(stats.BTCGoldChange),
	})
}

// GetStatus handles the GetStatus RPC
func (s *Server) GetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	st := s.DashboardService.GetStatus()

	fetchedAt := ""
	if !st.FetchedAt.IsZero() {
		fetchedAt = st.FetchedAt.UTC().Format(time.RFC3339)
	}

	return encode(map[string]interface{}{
		"live_status":    string(st.Live),
		"version":        float64(st.Version),
		"fetched_at":     fetchedAt,
		"series_lengths": countsToMap(st.SeriesLengths),
		"live_points":    countsToMap(st.LivePoints),
	})
}

// parseViewRequest reads metrics, anchor_year, timeframe and compare from a request
func parseViewRequest(req *structpb.Struct) (domain.ViewRequest, error) {
	metrics, err := stringListField(req, "metrics")
	if err != nil {
		return domain.ViewRequest{}, err
	}
	compare, err := stringListField(req, "compare")
	if err != nil {
		return domain.ViewRequest{}, err
	}
	timeframe, err := optionalStringField(req, "timeframe")
	if err != nil {
		return domain.ViewRequest{}, err
	}

	anchorYear := 0
	if v, ok := req.GetFields()["anchor_year"]; ok {
		n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
		if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
			return domain.ViewRequest{}, status.Error(codes.InvalidArgument, "anchor_year must be an integer")
		}
		anchorYear = int(n.NumberValue)
	}

	return domain.ViewRequest{
		Metrics:    metrics,
		AnchorYear: anchorYear,
		Timeframe:  timeframe,
		Compare:    compare,
	}, nil
}

func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	s, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return "", status.Errorf(codes.InvalidArgument, "%s must be a string", name)
	}
	return s.StringValue, nil
}

func optionalStringField(req *structpb.Struct, name string) (string, error) {
	if _, ok := req.GetFields()[name]; !ok {
		return "", nil
	}
	return stringField(req, name)
}

func stringListField(req *structpb.Struct, name string) ([]string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, nil
	}
	list, isList := v.GetKind().(*structpb.Value_ListValue)
	if !isList {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a list of strings", name)
	}

	values := make([]string, 0, len(list.ListValue.GetValues()))
	for _, item := range list.ListValue.GetValues() {
		s, isString := item.GetKind().(*structpb.Value_StringValue)
		if !isString {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be a list of strings", name)
		}
		values = append(values, s.StringValue)
	}
	return values, nil
}

func amountField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		amount, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
		}
		return amount, nil
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s must be a string or number", name)
	}
}

func encode(fields map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func viewToMap(v domain.View) map[string]interface{} {
	metrics := make([]interface{}, len(v.Deflators))
	for i, d := range v.Deflators {
		metrics[i] = string(d)
	}
	if v.GoldMode {
		metrics = []interface{}{string(domain.MetricGold)}
	}
	compare := make([]interface{}, len(v.Compare))
	for i, a := range v.Compare {
		compare[i] = string(a)
	}

	return map[string]interface{}{
		"metrics":     metrics,
		"gold_mode":   v.GoldMode,
		"anchor_year": float64(v.AnchorYear),
		"timeframe":   string(v.Timeframe),
		"compare":     compare,
	}
}

func adjustedPointsToList(points []domain.AdjustedPricePoint) []interface{} {
	list := make([]interface{}, len(points))
	for i, p := range points {
		list[i] = map[string]interface{}{
			"date":           p.Date,
			"nominal_price":  p.NominalPrice,
			"adjusted_price": p.AdjustedPrice,
		}
	}
	return list
}

func goldPointsToList(points []domain.GoldPricePoint) []interface{} {
	list := make([]interface{}, len(points))
	for i, p := range points {
		list[i] = map[string]interface{}{
			"date":           p.Date,
			"nominal_price":  p.NominalPrice,
			"gold_ounces":    p.GoldOunces,
			"gold_price_usd": p.GoldPriceUSD,
		}
	}
	return list
}

func multiPointsToList(points []domain.MultiMetricPoint) []interface{} {
	list := make([]interface{}, len(points))
	for i, p := range points {
		adjusted := make(map[string]interface{}, len(p.Adjusted))
		for choice, value := range p.Adjusted {
			adjusted[string(choice)] = value
		}
		list[i] = map[string]interface{}{
			"date":          p.Date,
			"nominal_price": p.NominalPrice,
			"adjusted":      adjusted,
			"inflation_gap": optional(p.InflationGap),
		}
	}
	return list
}

func secondaryToList(metrics []dashboard.SecondaryMetric) []interface{} {
	list := make([]interface{}, len(metrics))
	for i, m := range metrics {
		list[i] = map[string]interface{}{
			"deflator":       string(m.Deflator),
			"adjusted_price": m.AdjustedPrice,
			"diff":           m.Diff,
		}
	}
	return list
}

func eventsToList(events []domain.ChartEvent) []interface{} {
	list := make([]interface{}, len(events))
	for i, e := range events {
		list[i] = map[string]interface{}{
			"date":  e.Date,
			"label": e.Label,
			"color": e.Color,
		}
	}
	return list
}

func countsToMap(counts map[domain.SeriesKey]int) map[string]interface{} {
	m := make(map[string]interface{}, len(counts))
	for key, n := range counts {
		m[string(key)] = float64(n)
	}
	return m
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMetric),
		errors.Is(err, domain.ErrInvalidTimeframe),
		errors.Is(err, domain.ErrInvalidAnchorYear),
		errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrInvalidAmount):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrSeriesNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
