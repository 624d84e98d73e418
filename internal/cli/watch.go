package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/feed"
	"github.com/rustyeddy/tradecalc/internal/logger"
	"github.com/rustyeddy/tradecalc/position"
)

func newWatchCmd(rc *RootConfig) *cobra.Command {
	var (
		tf     tradeFlags
		symbol string
		url    string
		apply  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute the trade on every live price update",
		Long: `Subscribe to the live trade stream for a symbol and copy each price into
one of the trade's price fields (--apply entry|exit|stop), printing the
recomputed P&L after every update.

Examples:
  tradecalc watch --symbol BTCUSDT --apply entry
  tradecalc watch --max 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tf.trade(cmd, rc.Cfg.Trade)
			if err != nil {
				return err
			}
			if symbol == "" {
				symbol = rc.Cfg.FeedSymbol()
				if cmd.Flags().Changed("ticker") {
					symbol = t.Ticker
				}
			}
			if url == "" {
				url = rc.Cfg.Feed.URL
			}
			if !cmd.Flags().Changed("apply") && rc.Cfg.Feed.ApplyTo != "" {
				apply = rc.Cfg.Feed.ApplyTo
			}
			field, err := position.ParsePriceField(apply)
			if err != nil {
				return err
			}

			client, err := feed.New(feed.Config{URL: url, Symbol: symbol}, logger.Module(rc.Log, "feed"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			updates := make(chan feed.Update, 64)
			errc := make(chan error, 1)
			go func() { errc <- client.Run(ctx, updates) }()

			out := cmd.OutOrStdout()
			base := t.Inputs()
			fmt.Fprintf(out, "watching %s, applying live price to %s\n", client.URL(), field)

			seen := 0
			for {
				select {
				case u := <-updates:
					in := base.WithPrice(field, u.Price)
					m := position.Compute(in)
					fmt.Fprintf(out, "%s  %s  %s  P&L %s (%s)  max loss %s  R:R %s\n",
						u.Time.Format("15:04:05"),
						u.Symbol,
						position.FormatCurrency(u.Price),
						position.FormatSignedCurrency(m.TargetProfit),
						position.FormatPercent(m.TargetROIPct, 1),
						position.FormatCurrency(m.StopProfit),
						position.FormatRatio(m.RiskRewardRatio, 2),
					)
					seen++
					if limit > 0 && seen >= limit {
						cancel()
						<-errc
						return nil
					}
				case err := <-errc:
					if errors.Is(err, context.Canceled) {
						rc.Log.Info("watch stopped", zap.Int("updates", seen))
						return nil
					}
					return err
				}
			}
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&symbol, "symbol", "", "Stream symbol (default: feed.symbol or trade.ticker)")
	cmd.Flags().StringVar(&url, "url", "", "Stream base URL (default: feed.url)")
	cmd.Flags().StringVar(&apply, "apply", "entry", "Price field that receives live prices: entry|exit|stop")
	cmd.Flags().IntVar(&limit, "max", 0, "Stop after this many updates (0 = until interrupted)")
	return cmd
}
