package cli

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradecalc/config"
	"github.com/rustyeddy/tradecalc/position"
)

// tradeFlags are the per-command overrides of the configured trade.
// Numbers are taken as text and parsed like form input: junk becomes 0.
type tradeFlags struct {
	entry, exit, stop, amount string
	mode, ticker              string
}

func (f *tradeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.entry, "entry", "", "Entry price")
	fl.StringVar(&f.exit, "exit", "", "Exit target price")
	fl.StringVar(&f.stop, "stop", "", "Stop-loss price")
	fl.StringVar(&f.amount, "amount", "", "Investment ($) or share quantity, per --mode")
	fl.StringVar(&f.mode, "mode", "", "Size mode: investment|quantity")
	fl.StringVar(&f.ticker, "ticker", "", "Ticker symbol")
}

// trade overlays the flags the user set onto the configured trade.
func (f *tradeFlags) trade(cmd *cobra.Command, base config.TradeConfig) (config.TradeConfig, error) {
	fl := cmd.Flags()
	t := base
	if fl.Changed("entry") {
		t.EntryPrice = position.ParseNumber(f.entry)
	}
	if fl.Changed("exit") {
		t.ExitPrice = position.ParseNumber(f.exit)
	}
	if fl.Changed("stop") {
		t.StopLossPrice = position.ParseNumber(f.stop)
	}
	if fl.Changed("amount") {
		t.Amount = position.ParseNumber(f.amount)
	}
	if fl.Changed("mode") {
		m, err := position.ParseSizeMode(f.mode)
		if err != nil {
			return t, err
		}
		t.Mode = m
	}
	if fl.Changed("ticker") {
		t.Ticker = f.ticker
	}
	return t, nil
}
