package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradecalc/internal/metrics"
	"github.com/rustyeddy/tradecalc/position"
)

func newCurveCmd(rc *RootConfig) *cobra.Command {
	var (
		tf    tradeFlags
		steps int
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the sampled profit curve as price,profit rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.trade(cmd, rc.Cfg.Trade)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("steps") {
				steps = rc.Cfg.Chart.Steps
			}
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}

			in := t.Inputs()
			pts := position.SampleProfitCurve(in, position.Compute(in), steps)
			metrics.Calculations.WithLabelValues("curve").Inc()
			if len(pts) == 0 {
				rc.Log.Warn("nothing to chart: entry price must be positive and quantity non-zero")
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write([]string{"price", "profit"}); err != nil {
				return err
			}
			for _, p := range pts {
				if err := w.Write([]string{
					strconv.FormatFloat(p.Price, 'f', 4, 64),
					strconv.FormatFloat(p.Profit, 'f', 2, 64),
				}); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	}
	tf.register(cmd)
	cmd.Flags().IntVar(&steps, "steps", position.DefaultCurveSteps, "Number of equal steps across the price range")
	return cmd
}
