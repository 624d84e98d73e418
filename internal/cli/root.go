package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradecalc/config"
	"github.com/rustyeddy/tradecalc/internal/logger"
)

// RootConfig carries the global flags and what PersistentPreRunE builds
// from them.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	Dev        bool

	Cfg *config.Config
	Log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "tradecalc",
		Short: "Position calculator: P&L, ROI, risk/reward and profit curves",
		Long: `tradecalc sizes a single trade from an entry price, an exit target and a
stop loss, and reports profit, ROI, maximum loss and the risk/reward ratio.

Position size is either a dollar investment (--mode investment) or a share
quantity (--mode quantity); the other is derived from the entry price.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON, optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().BoolVar(&rc.Dev, "dev", false, "Human-readable console logging")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc.ConfigPath)
		if err != nil {
			return err
		}
		if rc.LogLevel != "" {
			cfg.Log.Level = rc.LogLevel
		}
		if rc.Dev {
			cfg.Log.Development = true
		}

		log, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		rc.Cfg = cfg
		rc.Log = log
		return nil
	}

	cmd.AddCommand(
		newCalcCmd(rc),
		newCurveCmd(rc),
		newExportCmd(rc),
		newWatchCmd(rc),
		newServeCmd(rc),
		newConfigCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
