package window

import (
	"strconv"
	"strings"
)

const (
	DefaultSpec = "7d"
	DefaultDays = 7

	daysPerWeek = 7
)

// Parse converts a window spec like "7d" or "2w" into a number of days.
// The result is used as a row count by the rolling package.
// Anything it can't read falls back to DefaultDays. Negative counts such as "-3d"
// are returned as is.
func Parse(spec string) int {
	switch {
	case strings.HasSuffix(spec, "d"):
		days, err := strconv.Atoi(strings.TrimSuffix(spec, "d"))
		if err != nil {
			return DefaultDays
		}
		return days
	case strings.HasSuffix(spec, "w"):
		weeks, err := strconv.Atoi(strings.TrimSuffix(spec, "w"))
		if err != nil {
			return DefaultDays
		}
		return weeks * daysPerWeek
	default:
		return DefaultDays
	}
}
