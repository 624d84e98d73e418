package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/export"
	"github.com/rustyeddy/tradecalc/internal/metrics"
)

func newExportCmd(rc *RootConfig) *cobra.Command {
	var (
		tf     tradeFlags
		dir    string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the trade as a one-row CSV record",
		Long: `Write Date, Ticker, prices, investment, quantity, target profit, ROI and
risk/reward as CSV for spreadsheet import.

Examples:
  tradecalc export --ticker AAPL --dir ./exports
  tradecalc export --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.trade(cmd, rc.Cfg.Trade)
			if err != nil {
				return err
			}
			rec := export.NewRecord(time.Now(), t.Ticker, t.Inputs())
			metrics.Calculations.WithLabelValues("export").Inc()

			if stdout {
				return export.Write(cmd.OutOrStdout(), rec)
			}

			if !cmd.Flags().Changed("dir") {
				dir = rc.Cfg.Export.Dir
			}
			path, err := export.WriteFile(dir, rec)
			if err != nil {
				return err
			}
			rc.Log.Info("trade exported", zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s\n", path)
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory for the exported file")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write the CSV to stdout instead of a file")
	return cmd
}
