package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/api"
	"github.com/rustyeddy/tradecalc/feed"
	"github.com/rustyeddy/tradecalc/internal/logger"
)

func newServeCmd(rc *RootConfig) *cobra.Command {
	var (
		addr     string
		withFeed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Start the HTTP API:

  POST /api/v1/calculate   metrics for a JSON trade
  POST /api/v1/curve       sampled profit curve
  POST /api/v1/export      one-row CSV record
  GET  /api/v1/price       latest live price (when the feed is on)
  GET  /metrics            Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rc.Cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("feed") {
				cfg.Feed.Enabled = withFeed
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := api.Options{
				Ticker:     cfg.Trade.Ticker,
				CurveSteps: cfg.Chart.Steps,
				Log:        logger.Module(rc.Log, "api"),
			}

			if cfg.Feed.Enabled {
				client, err := feed.New(feed.Config{URL: cfg.Feed.URL, Symbol: cfg.FeedSymbol()}, logger.Module(rc.Log, "feed"))
				if err != nil {
					return err
				}
				opts.Prices = client
				go func() {
					if err := client.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
						rc.Log.Error("price feed stopped", zap.Error(err))
					}
				}()
			}

			srv := api.NewServer(cfg.Server.Addr, api.NewRouter(opts), rc.Log)
			return srv.Run(ctx, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
	cmd.Flags().BoolVar(&withFeed, "feed", false, "Enable the live price feed")
	return cmd
}
