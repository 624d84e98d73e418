// Package export writes trade setups as delimited records for spreadsheet
// import. The column set and number formats are fixed; downstream sheets
// depend on them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradecalc/pkg/id"
	"github.com/rustyeddy/tradecalc/position"
)

// Header is the exported column order.
var Header = []string{
	"Date",
	"Ticker",
	"Entry Price",
	"Exit Target",
	"Stop Loss",
	"Total Investment",
	"Share Quantity",
	"Target Profit",
	"Target ROI %",
	"Risk/Reward",
}

const DateLayout = "2006-01-02"

type Record struct {
	Date    time.Time
	Ticker  string
	Inputs  position.Inputs
	Metrics position.Metrics
}

// NewRecord computes metrics for in and stamps the record with now.
func NewRecord(now time.Time, ticker string, in position.Inputs) Record {
	return Record{
		Date:    now,
		Ticker:  strings.ToUpper(strings.TrimSpace(ticker)),
		Inputs:  in,
		Metrics: position.Compute(in),
	}
}

// Row renders r in Header order.
func (r Record) Row() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.Ticker,
		fixed(r.Inputs.EntryPrice, 2),
		fixed(r.Inputs.ExitPrice, 2),
		fixed(r.Inputs.StopLossPrice, 2),
		fixed(r.Metrics.Investment, 2),
		fixed(r.Metrics.Quantity, 4),
		fixed(r.Metrics.TargetProfit, 2),
		fixed(r.Metrics.TargetROIPct, 2),
		"1:" + fixed(r.Metrics.RiskRewardRatio, 2),
	}
}

// fixed matches JavaScript's Number.prototype.toFixed: round the exact
// binary value half away from zero, and keep the sign of a negative value
// that rounds to zero ("-0.00").
func fixed(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', int(places), 64)
	}
	// 1074 fractional digits hold any float64 exactly.
	exact := new(big.Float).SetFloat64(x).Text('f', 1074)
	d, err := decimal.NewFromString(exact)
	if err != nil {
		return strconv.FormatFloat(x, 'f', int(places), 64)
	}
	s := d.StringFixed(places)
	if x < 0 && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// Write emits the header followed by one row per record.
func Write(w io.Writer, recs ...Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is trade_<TICKER>_<ULID>.csv; the ULID keeps repeated exports
// of the same ticker distinct and time-ordered.
func FileName(ticker string, at time.Time) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		t = "UNKNOWN"
	}
	return fmt.Sprintf("trade_%s_%s.csv", t, id.At(at))
}

// WriteFile writes rec to a new file under dir and returns its path.
func WriteFile(dir string, rec Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(rec.Ticker, rec.Date))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}

	if err := Write(f, rec); err != nil {
		f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	return path, nil
}
