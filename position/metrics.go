// Package position derives P&L, ROI and risk/reward for a single
// entry/exit/stop trade setup, and samples the profit line for charting.
//
// Every function here is pure and total. Degenerate inputs (zero entry,
// zero investment, entry == stop) resolve to 0 rather than NaN or Inf.
// Negative prices are accepted as-is.
package position

import "math"

type Metrics struct {
	Investment float64 `json:"investment"`
	Quantity   float64 `json:"quantity"`

	TargetRevenue float64 `json:"target_revenue"`
	TargetProfit  float64 `json:"target_profit"`
	TargetROIPct  float64 `json:"target_roi_pct"`

	StopRevenue float64 `json:"stop_revenue"`
	StopProfit  float64 `json:"stop_profit"`
	StopROIPct  float64 `json:"stop_roi_pct"`

	RiskPerUnit     float64 `json:"risk_per_unit"`
	RewardPerUnit   float64 `json:"reward_per_unit"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// Compute derives all metrics from in.
func Compute(in Inputs) Metrics {
	var m Metrics

	if in.Mode == ByQuantity {
		m.Investment = in.Amount * in.EntryPrice
	} else {
		m.Investment = in.Amount
	}

	// zero entry means no position regardless of mode
	switch {
	case in.EntryPrice == 0:
		m.Quantity = 0
	case in.Mode == ByQuantity:
		m.Quantity = in.Amount
	default:
		m.Quantity = in.Amount / in.EntryPrice
	}

	m.TargetRevenue = m.Quantity * in.ExitPrice
	m.TargetProfit = m.TargetRevenue - m.Investment
	m.TargetROIPct = roiPct(m.TargetProfit, m.Investment)

	m.StopRevenue = m.Quantity * in.StopLossPrice
	m.StopProfit = m.StopRevenue - m.Investment
	m.StopROIPct = roiPct(m.StopProfit, m.Investment)

	m.RiskPerUnit = math.Abs(in.EntryPrice - in.StopLossPrice)
	m.RewardPerUnit = math.Abs(in.ExitPrice - in.EntryPrice)
	m.RiskRewardRatio = RR(in.EntryPrice, in.StopLossPrice, in.ExitPrice)

	return m
}

func roiPct(profit, investment float64) float64 {
	if investment == 0 {
		return 0
	}
	return profit / investment * 100
}

// Profitable reports whether the exit target is at or above break-even.
func (m Metrics) Profitable() bool {
	return m.TargetProfit >= 0
}

// MaxLoss is the cash at risk if the stop fills, as a positive number.
func (m Metrics) MaxLoss() float64 {
	if m.StopProfit >= 0 {
		return 0
	}
	return -m.StopProfit
}
