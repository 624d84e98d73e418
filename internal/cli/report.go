package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rustyeddy/tradecalc/position"
)

func printReport(w io.Writer, ticker string, in position.Inputs, m position.Metrics) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if ticker != "" {
		fmt.Fprintf(tw, "Ticker\t%s\n", ticker)
	}
	fmt.Fprintf(tw, "Entry Price\t%s\n", position.FormatCurrency(in.EntryPrice))
	fmt.Fprintf(tw, "Exit Target\t%s\n", position.FormatCurrency(in.ExitPrice))
	fmt.Fprintf(tw, "Stop Loss\t%s\n", position.FormatCurrency(in.StopLossPrice))
	fmt.Fprintf(tw, "Size Mode\t%s\n", in.Mode)
	fmt.Fprintf(tw, "Total Investment\t%s\n", position.FormatCurrency(m.Investment))
	fmt.Fprintf(tw, "Share Quantity\t%.4f\n", m.Quantity)
	fmt.Fprintln(tw, "\t")
	fmt.Fprintf(tw, "Target P&L\t%s (%s ROI)\n",
		position.FormatSignedCurrency(m.TargetProfit), position.FormatPercent(m.TargetROIPct, 1))
	fmt.Fprintf(tw, "Target Value\t%s\n", position.FormatCurrency(m.TargetRevenue))
	fmt.Fprintf(tw, "Stop P&L\t%s (%s)\n",
		position.FormatCurrency(m.StopProfit), position.FormatPercent(m.StopROIPct, 1))
	fmt.Fprintf(tw, "Max Loss\t%s\n", position.FormatCurrency(m.MaxLoss()))
	fmt.Fprintf(tw, "Break-even\t%s\n", position.FormatCurrency(position.BreakEven(in)))
	fmt.Fprintf(tw, "Risk/Reward\t%s\n", position.FormatRatio(m.RiskRewardRatio, 1))

	return tw.Flush()
}
