package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/uyouii/fuelprice-timeseries/common"
	"github.com/uyouii/fuelprice-timeseries/model"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func record(city, product, date string, price float64) model.Record {
	return model.Record{
		City:    city,
		Product: product,
		PricePoint: model.PricePoint{
			Date:  day(date),
			Price: price,
			Unit:  model.DefaultUnit,
		},
	}
}

func testStore() *Store {
	return New([]model.Record{
		record("Delhi", "Petrol", "2024-01-02", 96.72),
		record("Delhi", "Diesel", "2024-01-02", 89.62),
		record("Mumbai", "Petrol", "2024-01-01", 106.31),
		record("Delhi", "Petrol", "2024-01-01", 96.70),
		record("Delhi", "Petrol", "2024-01-04", 96.80),
		record("Kolkata", "Petrol", "2024-01-03", 106.03),
		record("Delhi", "Petrol", "2024-01-03", 96.75),
		record("Delhi", "Diesel", "2024-01-01", 89.60),
	})
}

func TestFilterMatchesCityAndProduct(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	series, err := s.Filter(ctx, "delhi", "PETROL", "", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	if len(series) != 4 {
		t.Fatalf("Expected 4 points, got %d", len(series))
	}

	expected := []float64{96.80, 96.75, 96.72, 96.70}
	for i, v := range expected {
		if series[i].Price != v {
			t.Errorf("Price at index %d: expected %f, got %f", i, v, series[i].Price)
		}
	}

	// every matching row must be returned
	var want int
	for _, r := range s.records {
		if strings.EqualFold(r.City, "delhi") && strings.EqualFold(r.Product, "petrol") {
			want++
		}
	}
	if want != len(series) {
		t.Errorf("Expected %d matching rows, got %d", want, len(series))
	}
}

func TestFilterDescendingOrder(t *testing.T) {
	s := testStore()

	for _, city := range s.Cities() {
		for _, product := range s.Products() {
			series := s.FilterRange(city, product, nil, nil)
			for i := 1; i < len(series); i++ {
				if series[i-1].Date.Before(series[i].Date) {
					t.Errorf("%s/%s not descending at %d: %v before %v", city, product, i,
						series[i-1].Date, series[i].Date)
				}
			}
		}
	}
}

func TestFilterDateBounds(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	tests := []struct {
		name     string
		from     string
		to       string
		expected []string
	}{
		{"open", "", "", []string{"2024-01-04", "2024-01-03", "2024-01-02", "2024-01-01"}},
		{"from inclusive", "2024-01-03", "", []string{"2024-01-04", "2024-01-03"}},
		{"to inclusive", "", "2024-01-02", []string{"2024-01-02", "2024-01-01"}},
		{"both", "2024-01-02", "2024-01-03", []string{"2024-01-03", "2024-01-02"}},
		{"single day", "2024-01-03", "2024-01-03", []string{"2024-01-03"}},
		{"from after to", "2024-01-04", "2024-01-01", []string{}},
		{"out of range", "2025-01-01", "", []string{}},
		{"time of day ignored", "2024-01-03T18:30:00", "", []string{"2024-01-04", "2024-01-03"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := s.Filter(ctx, "Delhi", "Petrol", tt.from, tt.to)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if series == nil {
				t.Fatal("Expected empty series, got nil")
			}
			if len(series) != len(tt.expected) {
				t.Fatalf("Expected %d points, got %d", len(tt.expected), len(series))
			}
			for i, date := range tt.expected {
				if got := series[i].Date.Format(time.DateOnly); got != date {
					t.Errorf("Date at index %d: expected %s, got %s", i, date, got)
				}
			}
		})
	}
}

func TestFilterNoMatch(t *testing.T) {
	s := testStore()

	series, err := s.Filter(context.Background(), "Mumbai", "Diesel", "", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if series == nil || len(series) != 0 {
		t.Errorf("Expected empty series, got %v", series)
	}

	series, err = s.Filter(context.Background(), "Chennai", "Petrol", "", "")
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("Expected empty series for unknown city, got %d points", len(series))
	}
}

func TestFilterInvalidDate(t *testing.T) {
	s := testStore()

	tests := []struct {
		name  string
		from  string
		to    string
		field string
	}{
		{"bad from", "yesterday", "", "from"},
		{"bad to", "", "2024-13-45", "to"},
		{"both bad reports from", "x", "y", "from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := s.Filter(context.Background(), "Delhi", "Petrol", tt.from, tt.to)
			if err == nil {
				t.Fatalf("Expected error, got series %v", series)
			}
			if !errors.Is(err, common.ErrorInvalidDate) {
				t.Errorf("Expected ErrorInvalidDate, got %v", err)
			}
			var dateErr *common.InvalidDateError
			if !errors.As(err, &dateErr) {
				t.Fatalf("Expected *InvalidDateError, got %T", err)
			}
			if dateErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, dateErr.Field)
			}
		})
	}
}

func TestFilterKeepsDuplicateDates(t *testing.T) {
	s := New([]model.Record{
		record("Delhi", "Petrol", "2024-01-01", 1),
		record("Delhi", "Petrol", "2024-01-02", 2),
		record("Delhi", "Petrol", "2024-01-01", 3),
	})

	series := s.FilterRange("Delhi", "Petrol", nil, nil)
	expected := []float64{2, 1, 3}
	if len(series) != len(expected) {
		t.Fatalf("Expected %d points, got %d", len(expected), len(series))
	}
	for i, v := range expected {
		if series[i].Price != v {
			t.Errorf("Price at index %d: expected %f, got %f", i, v, series[i].Price)
		}
	}
}

func TestStoreIsImmutable(t *testing.T) {
	records := []model.Record{record("Delhi", "Petrol", "2024-01-01", 1)}
	s := New(records)

	records[0].Price = 100
	cities := s.Cities()
	cities[0] = "Changed"

	series := s.FilterRange("Delhi", "Petrol", nil, nil)
	if len(series) != 1 || series[0].Price != 1 {
		t.Errorf("Store changed through input slice: %v", series)
	}
	series[0].Price = 50
	if again := s.FilterRange("Delhi", "Petrol", nil, nil); again[0].Price != 1 {
		t.Errorf("Store changed through returned series: %v", again)
	}
	if s.Cities()[0] != "Delhi" {
		t.Errorf("Store changed through Cities: %v", s.Cities())
	}
}

func TestCitiesProducts(t *testing.T) {
	s := testStore()

	cities := s.Cities()
	expectedCities := []string{"Delhi", "Kolkata", "Mumbai"}
	if strings.Join(cities, ",") != strings.Join(expectedCities, ",") {
		t.Errorf("Expected cities %v, got %v", expectedCities, cities)
	}

	products := s.Products()
	expectedProducts := []string{"Diesel", "Petrol"}
	if strings.Join(products, ",") != strings.Join(expectedProducts, ",") {
		t.Errorf("Expected products %v, got %v", expectedProducts, products)
	}

	if s.Len() != 8 {
		t.Errorf("Expected 8 records, got %d", s.Len())
	}
}
