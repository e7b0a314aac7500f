package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/uyouii/fuelprice-timeseries/common"
	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"go.uber.org/zap"
)

// Store is the in-memory dataset. It is built once and never mutated afterwards,
// so it can be read from any number of goroutines without locking.
type Store struct {
	records  []model.Record
	cities   []string
	products []string
}

// New copies records into a new Store. Later changes to records don't affect it.
func New(records []model.Record) *Store {
	copied := make([]model.Record, len(records))
	copy(copied, records)

	for i := range copied {
		copied[i].Date = utils.TruncateDay(copied[i].Date)
	}

	return &Store{
		records:  copied,
		cities:   uniqueSorted(copied, func(r model.Record) string { return r.City }),
		products: uniqueSorted(copied, func(r model.Record) string { return r.Product }),
	}
}

func (s *Store) Len() int {
	return len(s.records)
}

// Cities returns the sorted distinct city names.
func (s *Store) Cities() []string {
	return slices.Clone(s.cities)
}

// Products returns the sorted distinct product names.
func (s *Store) Products() []string {
	return slices.Clone(s.products)
}

// Filter parses from and to as calendar dates and returns the matching series.
// An empty string leaves that bound open. Both bounds are parsed before any row is
// looked at, a malformed one gives a *common.InvalidDateError.
func (s *Store) Filter(ctx context.Context, city, product, from, to string) (model.Series, error) {
	logger := utils.GetLogger(ctx)

	fromDate, err := parseBound("from", from)
	if err != nil {
		logger.Info("invalid filter bound", zap.String("from", from), zap.Error(err))
		return nil, err
	}
	toDate, err := parseBound("to", to)
	if err != nil {
		logger.Info("invalid filter bound", zap.String("to", to), zap.Error(err))
		return nil, err
	}

	return s.FilterRange(city, product, fromDate, toDate), nil
}

// FilterRange returns the rows of city and product whose date lies in [from, to],
// newest first. Matching ignores case. A nil bound is open.
// Rows sharing a date keep their store order.
func (s *Store) FilterRange(city, product string, from, to *time.Time) model.Series {
	res := model.Series{}

	for _, record := range s.records {
		if !strings.EqualFold(record.City, city) || !strings.EqualFold(record.Product, product) {
			continue
		}
		if from != nil && record.Date.Before(*from) {
			continue
		}
		if to != nil && record.Date.After(*to) {
			continue
		}
		res = append(res, record.PricePoint)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[j].Before(res[i])
	})
	return res
}

func parseBound(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := utils.ParseDate(value)
	if err != nil {
		return nil, common.NewInvalidDateError(field, value)
	}
	return &date, nil
}

func uniqueSorted(records []model.Record, key func(model.Record) string) []string {
	seen := map[string]bool{}
	res := []string{}
	for _, record := range records {
		k := key(record)
		if seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
