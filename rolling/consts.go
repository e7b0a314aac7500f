package rolling

const (
	// StdFloor replaces a window standard deviation of exactly 0.
	StdFloor = 1e-9

	DefaultZThreshold = 2.5

	minWindow = 1
)
