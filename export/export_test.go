package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradecalc/position"
)

var day = time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

func TestRecordRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ticker string
		in     position.Inputs
		want   []string
	}{
		{
			name:   "default setup",
			ticker: "aapl",
			in:     position.Inputs{EntryPrice: 150, ExitPrice: 175.5, StopLossPrice: 135, Mode: position.ByAmount, Amount: 5000},
			want:   []string{"2024-01-02", "AAPL", "150.00", "175.50", "135.00", "5000.00", "33.3333", "850.00", "17.00", "1:1.70"},
		},
		{
			name:   "flat",
			ticker: "MSFT",
			in:     position.Inputs{EntryPrice: 100, ExitPrice: 100, StopLossPrice: 100, Mode: position.ByAmount, Amount: 1000},
			want:   []string{"2024-01-02", "MSFT", "100.00", "100.00", "100.00", "1000.00", "10.0000", "0.00", "0.00", "1:0.00"},
		},
		{
			name:   "zero entry",
			ticker: "X",
			in:     position.Inputs{EntryPrice: 0, ExitPrice: 50, StopLossPrice: 40, Mode: position.ByAmount, Amount: 1000},
			want:   []string{"2024-01-02", "X", "0.00", "50.00", "40.00", "1000.00", "0.0000", "-1000.00", "-100.00", "1:1.25"},
		},
		{
			name:   "binary halves round like toFixed",
			ticker: "HALF",
			in:     position.Inputs{EntryPrice: 1.005, ExitPrice: 2.675, StopLossPrice: 1.005, Mode: position.ByAmount, Amount: 1000},
			want:   []string{"2024-01-02", "HALF", "1.00", "2.67", "1.00", "1000.00", "995.0249", "1661.69", "166.17", "1:0.00"},
		},
		{
			name:   "by quantity",
			ticker: "BTCUSDT",
			in:     position.Inputs{EntryPrice: 20, ExitPrice: 26, StopLossPrice: 18, Mode: position.ByQuantity, Amount: 50},
			want:   []string{"2024-01-02", "BTCUSDT", "20.00", "26.00", "18.00", "1000.00", "50.0000", "300.00", "30.00", "1:3.00"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := NewRecord(day, tt.ticker, tt.in)
			assert.Equal(t, tt.want, rec.Row())
		})
	}
}

func TestFixed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x      float64
		places int32
		want   string
	}{
		{1.005, 2, "1.00"},
		{2.675, 2, "2.67"},
		{1.045, 2, "1.04"},
		{0.125, 2, "0.13"},
		{-0.125, 2, "-0.13"},
		{-0.001, 2, "-0.00"},
		{0, 2, "0.00"},
		{33.333333333333336, 4, "33.3333"},
		{5000, 2, "5000.00"},
		{-1000, 2, "-1000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fixed(tt.x, tt.places), "%v to %d places", tt.x, tt.places)
	}
}

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := NewRecord(day, "AAPL", position.Inputs{EntryPrice: 150, ExitPrice: 175.5, StopLossPrice: 135, Amount: 5000})
	require.NoError(t, Write(&buf, rec))

	want := "Date,Ticker,Entry Price,Exit Target,Stop Loss,Total Investment,Share Quantity,Target Profit,Target ROI %,Risk/Reward\n" +
		"2024-01-02,AAPL,150.00,175.50,135.00,5000.00,33.3333,850.00,17.00,1:1.70\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	rec := NewRecord(day, "eth", position.Inputs{EntryPrice: 2000, ExitPrice: 2500, StopLossPrice: 1800, Mode: position.ByQuantity, Amount: 2})

	path, err := WriteFile(dir, rec)
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "trade_ETH_"), base)
	assert.True(t, strings.HasSuffix(base, ".csv"), base)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "4000.00", rows[1][5])
	assert.Equal(t, "1:2.50", rows[1][9])
}

func TestFileNameUnknownTicker(t *testing.T) {
	t.Parallel()
	assert.True(t, strings.HasPrefix(FileName("  ", day), "trade_UNKNOWN_"))
}
