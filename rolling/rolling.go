package rolling

import (
	"math"

	"github.com/uyouii/fuelprice-timeseries/model"
	"gonum.org/v1/gonum/stat"
)

// MovingAverage attaches to every point the mean price of its trailing window of w
// observations. The series must be newest first, so the trailing window of position i
// is [i, i+w-1]; near the oldest end fewer points are used.
// w below 1 is treated as 1. Output keeps the input order.
func MovingAverage(series model.Series, w int) []model.MovingAveragePoint {
	res := make([]model.MovingAveragePoint, len(series))
	if len(series) == 0 {
		return res
	}

	eachTrailingWindow(series, w, func(i int, window []float64) {
		res[i] = model.MovingAveragePoint{
			PricePoint: series[i],
			MA:         stat.Mean(window, nil),
		}
	})
	return res
}

// Anomalies scores every point against the mean and population standard deviation of
// the same trailing window MovingAverage uses. A zero deviation is replaced by
// StdFloor. A point is an anomaly when its z-score reaches zThresh.
func Anomalies(series model.Series, w int, zThresh float64) []model.AnomalyPoint {
	res := make([]model.AnomalyPoint, len(series))
	if len(series) == 0 {
		return res
	}

	eachTrailingWindow(series, w, func(i int, window []float64) {
		z := ZScore(series[i].Price, window)
		res[i] = model.AnomalyPoint{
			PricePoint: series[i],
			Z:          z,
			IsAnomaly:  z >= zThresh,
		}
	})
	return res
}

// ZScore returns |x - mean| / std over window, std being the population standard
// deviation floored at StdFloor.
func ZScore(x float64, window []float64) float64 {
	mean, variance := stat.PopMeanVariance(window, nil)
	// rounding can leave the variance of a flat window a hair below zero
	std := math.Sqrt(math.Max(variance, 0))
	if std == 0 {
		std = StdFloor
	}
	return math.Abs(x-mean) / std
}
