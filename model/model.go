package model

import (
	"fmt"
	"time"
)

const DefaultUnit = "INR/L"

type PricePoint struct {
	Date  time.Time
	Price float64
	Unit  string
}

func (p *PricePoint) Before(point PricePoint) bool {
	return p.Date.Before(point.Date)
}

// Record is one row of the dataset, a price point tagged with its city and product.
type Record struct {
	City    string
	Product string
	PricePoint
}

// Series holds the price points of one city+product pair, newest first.
type Series []PricePoint

func (s Series) DebugString() string {
	if len(s) == 0 {
		return "valueCount: 0"
	}
	return fmt.Sprintf("valueCount: %v, newest: %v, oldest: %v", len(s),
		s[0].Date.Format(time.DateOnly), s[len(s)-1].Date.Format(time.DateOnly))
}

func (s Series) IsEmpty() bool {
	return len(s) == 0
}

func (s Series) Prices() []float64 {
	res := make([]float64, len(s))
	for i := range s {
		res[i] = s[i].Price
	}
	return res
}

type MovingAveragePoint struct {
	PricePoint
	MA float64
}

type AnomalyPoint struct {
	PricePoint
	Z         float64
	IsAnomaly bool
}
