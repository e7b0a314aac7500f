package service

import (
	"context"

	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/rolling"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"github.com/uyouii/fuelprice-timeseries/window"
	"go.uber.org/zap"
)

type SeriesStore interface {
	Filter(ctx context.Context, city, product, from, to string) (model.Series, error)
	Cities() []string
	Products() []string
}

// Query is what a caller asks for. From and To are optional calendar dates,
// Window is a spec like "7d" or "2w" and Z the anomaly threshold.
type Query struct {
	City    string
	Product string
	From    string
	To      string
	Window  string
	Z       float64
}

// DefaultQuery fills the window and threshold defaults.
func DefaultQuery(city, product string) Query {
	return Query{
		City:    city,
		Product: product,
		Window:  window.DefaultSpec,
		Z:       rolling.DefaultZThreshold,
	}
}

type PriceService struct {
	store SeriesStore
}

func NewPriceService(store SeriesStore) *PriceService {
	return &PriceService{store: store}
}

func (s *PriceService) Cities() []string {
	return s.store.Cities()
}

func (s *PriceService) Products() []string {
	return s.store.Products()
}

func (s *PriceService) Raw(ctx context.Context, q Query) (model.Series, error) {
	return s.filter(ctx, q)
}

func (s *PriceService) MovingAverage(ctx context.Context, q Query) ([]model.MovingAveragePoint, error) {
	days := window.Parse(q.Window)
	series, err := s.filter(ctx, q)
	if err != nil {
		return nil, err
	}
	return rolling.MovingAverage(series, days), nil
}

func (s *PriceService) Anomalies(ctx context.Context, q Query) ([]model.AnomalyPoint, error) {
	logger := utils.GetLogger(ctx)

	days := window.Parse(q.Window)
	series, err := s.filter(ctx, q)
	if err != nil {
		return nil, err
	}

	points := rolling.Anomalies(series, days, q.Z)

	anomalyCnt := 0
	for _, p := range points {
		if p.IsAnomaly {
			anomalyCnt++
		}
	}
	logger.Debug("anomalies computed", zap.Int("windowDays", days), zap.Float64("z", q.Z),
		zap.Int("anomalyCnt", anomalyCnt))
	return points, nil
}

func (s *PriceService) filter(ctx context.Context, q Query) (model.Series, error) {
	logger := utils.GetLogger(ctx)

	series, err := s.store.Filter(ctx, q.City, q.Product, q.From, q.To)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("city", q.City), zap.String("product", q.Product),
		zap.String("series", series.DebugString())}
	if !series.IsEmpty() {
		fields = append(fields, zap.Int64("spanDays", utils.DayCntBetween(series[0].Date, series[len(series)-1].Date)))
	}
	logger.Debug("series filtered", fields...)
	return series, nil
}
