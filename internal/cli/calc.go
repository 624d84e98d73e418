package cli

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradecalc/internal/metrics"
	"github.com/rustyeddy/tradecalc/position"
)

func newCalcCmd(rc *RootConfig) *cobra.Command {
	var tf tradeFlags

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute P&L, ROI and risk/reward for a trade",
		Long: `Compute the trade metrics for the configured setup, overridden by flags.

Examples:
  tradecalc calc --entry 150 --exit 175.5 --stop 135 --amount 5000
  tradecalc calc --mode quantity --amount 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.trade(cmd, rc.Cfg.Trade)
			if err != nil {
				return err
			}
			in := t.Inputs()
			metrics.Calculations.WithLabelValues("calculate").Inc()
			return printReport(cmd.OutOrStdout(), t.Ticker, in, position.Compute(in))
		},
	}
	tf.register(cmd)
	return cmd
}
