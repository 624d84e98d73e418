package position

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Inputs is one trade setup. Amount is a dollar investment or a share
// count depending on Mode.
type Inputs struct {
	EntryPrice    float64  `json:"entry_price" yaml:"entry_price"`
	ExitPrice     float64  `json:"exit_price" yaml:"exit_price"`
	StopLossPrice float64  `json:"stop_loss_price" yaml:"stop_loss_price"`
	Mode          SizeMode `json:"mode" yaml:"mode"`
	Amount        float64  `json:"amount" yaml:"amount"`
}

// PriceField names one of the three price inputs.
type PriceField string

const (
	FieldEntry PriceField = "entry"
	FieldExit  PriceField = "exit"
	FieldStop  PriceField = "stop"
)

func ParsePriceField(s string) (PriceField, error) {
	switch f := PriceField(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldEntry, FieldExit, FieldStop:
		return f, nil
	}
	return "", fmt.Errorf("unknown price field %q (want entry|exit|stop)", s)
}

// WithPrice returns a copy of in with the named price replaced. Unknown
// fields leave the copy unchanged.
func (in Inputs) WithPrice(field PriceField, price float64) Inputs {
	switch field {
	case FieldEntry:
		in.EntryPrice = price
	case FieldExit:
		in.ExitPrice = price
	case FieldStop:
		in.StopLossPrice = price
	}
	return in
}

// ParseNumber turns raw field text into a number the way a form input
// does: the leading decimal literal wins, anything unparsable is 0.
func ParseNumber(s string) float64 {
	lit := numberPrefix.FindString(strings.TrimSpace(s))
	if lit == "" {
		return 0
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
