package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/uyouii/fuelprice-timeseries/common"
	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"go.uber.org/zap"
)

// Column names of the "Retail Selling Price (RSP) of Petrol and Diesel in Metro Cities" dataset.
const (
	RSPDateColumn    = "Calendar Day"
	RSPCityColumn    = "Metro Cities"
	RSPProductColumn = "Products"
	RSPPriceColumn   = "Retail Selling Price (Rsp) Of Petrol And Diesel (UOM:INR/L(IndianRupeesperLitre)), Scaling Factor:1"
)

// CSVOptions holds options for CSV loading.
// Header names are compared after trimming surrounding whitespace.
type CSVOptions struct {
	DateColumn    string
	CityColumn    string
	ProductColumn string
	PriceColumn   string
	Unit          string // unit attached to every point (default: "INR/L")
	Delimiter     rune   // default: ','
}

// DefaultCSVOptions returns options for the RSP dataset.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:    RSPDateColumn,
		CityColumn:    RSPCityColumn,
		ProductColumn: RSPProductColumn,
		PriceColumn:   RSPPriceColumn,
		Unit:          model.DefaultUnit,
		Delimiter:     ',',
	}
}

type columns struct {
	date, city, product, price int
}

// LoadCSV loads the dataset from a CSV file.
func LoadCSV(ctx context.Context, filename string, opts *CSVOptions) ([]model.Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "LoadCSV Open")
	}
	defer file.Close()

	return LoadCSVFromReader(ctx, file, opts)
}

// LoadCSVFromReader reads dataset rows from r.
// Missing, unparseable or negative prices become 0. Rows with an unreadable date or
// an empty city or product are skipped.
func LoadCSVFromReader(ctx context.Context, r io.Reader, opts *CSVOptions) ([]model.Record, error) {
	logger := utils.GetLogger(ctx)

	if opts == nil {
		opts = DefaultCSVOptions()
	}
	unit := opts.Unit
	if unit == "" {
		unit = model.DefaultUnit
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, common.ErrorEmptyDataset
	}
	if err != nil {
		return nil, errors.Wrap(err, "LoadCSV Read header")
	}

	cols, err := findColumns(header, opts)
	if err != nil {
		return nil, err
	}

	records := []model.Record{}
	var skipped, zeroPrices int

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "LoadCSV Read line %d", line)
		}

		date, err := utils.ParseDate(field(row, cols.date))
		if err != nil {
			logger.Warn("skip row with invalid date", zap.Int("line", line),
				zap.String("date", field(row, cols.date)))
			skipped++
			continue
		}

		city, product := field(row, cols.city), field(row, cols.product)
		if city == "" || product == "" {
			logger.Warn("skip row without city or product", zap.Int("line", line))
			skipped++
			continue
		}

		price, ok := parsePrice(field(row, cols.price))
		if !ok {
			zeroPrices++
		}

		records = append(records, model.Record{
			City:    city,
			Product: product,
			PricePoint: model.PricePoint{
				Date:  date,
				Price: price,
				Unit:  unit,
			},
		})
	}

	if len(records) == 0 {
		return nil, common.ErrorEmptyDataset
	}

	logger.Info("dataset loaded", zap.Int("records", len(records)),
		zap.Int("skipped", skipped), zap.Int("zeroPrices", zeroPrices))
	return records, nil
}

func findColumns(header []string, opts *CSVOptions) (columns, error) {
	cols := columns{date: -1, city: -1, product: -1, price: -1}

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case strings.TrimSpace(opts.DateColumn):
			cols.date = i
		case strings.TrimSpace(opts.CityColumn):
			cols.city = i
		case strings.TrimSpace(opts.ProductColumn):
			cols.product = i
		case strings.TrimSpace(opts.PriceColumn):
			cols.price = i
		}
	}

	missing := []string{}
	if cols.date == -1 {
		missing = append(missing, opts.DateColumn)
	}
	if cols.city == -1 {
		missing = append(missing, opts.CityColumn)
	}
	if cols.product == -1 {
		missing = append(missing, opts.ProductColumn)
	}
	if cols.price == -1 {
		missing = append(missing, opts.PriceColumn)
	}
	if len(missing) > 0 {
		return cols, errors.Wrapf(common.ErrorMissingColumn, "%q", missing)
	}
	return cols, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsePrice reports false when the value had to be replaced by 0.
func parsePrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	return d.InexactFloat64(), true
}
