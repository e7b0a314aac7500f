package loader

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/uyouii/fuelprice-timeseries/common"
	"github.com/uyouii/fuelprice-timeseries/model"
)

const rspHeader = `Calendar Day,Metro Cities,Products ,"Retail Selling Price (Rsp) Of Petrol And Diesel (UOM:INR/L(IndianRupeesperLitre)), Scaling Factor:1"`

func TestLoadCSVFromReader(t *testing.T) {
	csvData := rspHeader + `
2024-01-01, Delhi ,Petrol,96.72
2024-01-01,Delhi,Diesel,89.62
2024-01-02,Mumbai, Petrol ,106.31`

	records, err := LoadCSVFromReader(context.Background(), strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.City != "Delhi" || first.Product != "Petrol" {
		t.Errorf("Expected trimmed Delhi/Petrol, got %q/%q", first.City, first.Product)
	}
	if first.Price != 96.72 {
		t.Errorf("Expected price 96.72, got %f", first.Price)
	}
	if first.Unit != model.DefaultUnit {
		t.Errorf("Expected unit %s, got %s", model.DefaultUnit, first.Unit)
	}
	if !first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2024-01-01, got %v", first.Date)
	}

	if records[2].Product != "Petrol" {
		t.Errorf("Expected trimmed product, got %q", records[2].Product)
	}
}

func TestLoadCSVMissingPrices(t *testing.T) {
	csvData := rspHeader + `
2024-01-01,Delhi,Petrol,
2024-01-02,Delhi,Petrol,NaN
2024-01-03,Delhi,Petrol,-
2024-01-04,Delhi,Petrol,-5
2024-01-05,Delhi,Petrol,97.10`

	records, err := LoadCSVFromReader(context.Background(), strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	expected := []float64{0, 0, 0, 0, 97.10}
	if len(records) != len(expected) {
		t.Fatalf("Expected %d records, got %d", len(expected), len(records))
	}
	for i, v := range expected {
		if records[i].Price != v {
			t.Errorf("Price at index %d: expected %f, got %f", i, v, records[i].Price)
		}
	}
}

func TestLoadCSVSkipsBadRows(t *testing.T) {
	csvData := rspHeader + `
not a date,Delhi,Petrol,96.00
2024-01-02,,Petrol,96.10
2024-01-03,Delhi,,96.20
2024-01-04,Delhi,Petrol,96.30`

	records, err := LoadCSVFromReader(context.Background(), strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Price != 96.30 {
		t.Errorf("Expected price 96.30, got %f", records[0].Price)
	}
}

func TestLoadCSVDateFormats(t *testing.T) {
	testCases := []struct {
		name string
		date string
	}{
		{"ISO format", "2024-03-05"},
		{"slashes", "2024/03/05"},
		{"day first", "05-03-2024"},
		{"timestamp", "2024-03-05T10:15:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			csvData := rspHeader + "\n" + tc.date + ",Chennai,Diesel,94.24"
			records, err := LoadCSVFromReader(context.Background(), strings.NewReader(csvData), nil)
			if err != nil {
				t.Fatalf("Failed to load CSV: %v", err)
			}
			if got := records[0].Date.Format(time.DateOnly); got != "2024-03-05" {
				t.Errorf("Expected 2024-03-05, got %s", got)
			}
		})
	}
}

func TestLoadCSVCustomColumns(t *testing.T) {
	csvData := `date;city;fuel;rsp
2024-01-01;Kolkata;Petrol;106.03`

	opts := &CSVOptions{
		DateColumn:    "date",
		CityColumn:    "city",
		ProductColumn: "fuel",
		PriceColumn:   "rsp",
		Delimiter:     ';',
	}

	records, err := LoadCSVFromReader(context.Background(), strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if len(records) != 1 || records[0].City != "Kolkata" || records[0].Price != 106.03 {
		t.Errorf("Unexpected records: %+v", records)
	}
	if records[0].Unit != model.DefaultUnit {
		t.Errorf("Expected default unit, got %q", records[0].Unit)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	testCases := []struct {
		name    string
		csvData string
		want    error
	}{
		{"empty input", "", common.ErrorEmptyDataset},
		{"header only", rspHeader, common.ErrorEmptyDataset},
		{"missing column", "Calendar Day,Metro Cities,Products\n2024-01-01,Delhi,Petrol", common.ErrorMissingColumn},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCSVFromReader(context.Background(), strings.NewReader(tc.csvData), nil)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(context.Background(), "does-not-exist.csv", nil)
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	if opts.ProductColumn != "Products" {
		t.Errorf("Expected product column 'Products', got '%s'", opts.ProductColumn)
	}
	if opts.Unit != "INR/L" {
		t.Errorf("Expected unit 'INR/L', got '%s'", opts.Unit)
	}
	if opts.Delimiter != ',' {
		t.Errorf("Expected default delimiter ',', got '%c'", opts.Delimiter)
	}
}
