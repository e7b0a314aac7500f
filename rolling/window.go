package rolling

import (
	"github.com/gammazero/deque"
	"github.com/uyouii/fuelprice-timeseries/model"
)

func normalizeWindow(w int) int {
	if w < minWindow {
		return minWindow
	}
	return w
}

// eachTrailingWindow calls fn for every position i of a newest-first series with the
// prices at positions [i, i+w-1], clipped to the end of the series.
// Walking from the oldest point keeps the window in a deque: the point at i is pushed
// at the front and the one at i+w drops off the back.
// The window slice is reused between calls.
func eachTrailingWindow(series model.Series, w int, fn func(i int, window []float64)) {
	w = normalizeWindow(w)

	var q deque.Deque[float64]
	buf := make([]float64, 0, min(w, len(series)))

	for i := len(series) - 1; i >= 0; i-- {
		q.PushFront(series[i].Price)
		if q.Len() > w {
			q.PopBack()
		}

		buf = buf[:0]
		for j := 0; j < q.Len(); j++ {
			buf = append(buf, q.At(j))
		}
		fn(i, buf)
	}
}
