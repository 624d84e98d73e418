package position

import "math"

const (
	// DefaultCurveSteps gives a smooth line on screen; the P&L is linear
	// so any resolution is exact at the sampled points.
	DefaultCurveSteps = 60

	// RangeFraction widens the chart window around the entry price.
	RangeFraction = 0.4

	stopPad = 0.9
	exitPad = 1.1
)

type CurvePoint struct {
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"`
}

// CurveRange is the price window a chart should cover: ±40% around entry,
// stretched so stop*0.9 and exit*1.1 both fall inside.
func CurveRange(in Inputs) (lo, hi float64) {
	lo = math.Min(in.EntryPrice*(1-RangeFraction), in.StopLossPrice*stopPad)
	hi = math.Max(in.EntryPrice*(1+RangeFraction), in.ExitPrice*exitPad)
	return lo, hi
}

// ProfitAt is the closed-form P&L line at price.
func ProfitAt(in Inputs, m Metrics, price float64) float64 {
	return (price - in.EntryPrice) * m.Quantity
}

// BreakEven is where the P&L line crosses zero.
func BreakEven(in Inputs) float64 {
	return in.EntryPrice
}

// SampleProfitCurve returns steps+1 evenly spaced points across
// CurveRange. It returns nil when there is nothing to chart (entry <= 0
// or zero quantity). steps <= 0 means DefaultCurveSteps.
func SampleProfitCurve(in Inputs, m Metrics, steps int) []CurvePoint {
	if in.EntryPrice <= 0 || m.Quantity == 0 {
		return nil
	}
	if steps <= 0 {
		steps = DefaultCurveSteps
	}

	lo, hi := CurveRange(in)
	step := (hi - lo) / float64(steps)

	pts := make([]CurvePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		price := lo + float64(i)*step
		if i == steps {
			// land exactly on hi so the window edge is never short by an ulp
			price = hi
		}
		pts = append(pts, CurvePoint{
			Price:  price,
			Profit: ProfitAt(in, m, price),
		})
	}
	return pts
}
