package position

import "math"

// RR is reward/risk per unit: |target-entry| / |entry-stop|. A zero
// stop distance yields 0, never Inf.
func RR(entry, stop, target float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(target - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}
