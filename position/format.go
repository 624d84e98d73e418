package position

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as en-US dollars, e.g. $1,234.56 or -$500.00.
func FormatCurrency(v float64) string {
	digits := usd.Sprint(number.Decimal(math.Abs(v),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if v < 0 && digits != "0.00" {
		return "-$" + digits
	}
	return "$" + digits
}

// FormatSignedCurrency is FormatCurrency with an explicit + on gains.
func FormatSignedCurrency(v float64) string {
	s := FormatCurrency(v)
	if s[0] == '$' {
		return "+" + s
	}
	return s
}

// FormatRatio renders a risk/reward ratio as 1:<r>.
func FormatRatio(r float64, places int) string {
	return "1:" + strconv.FormatFloat(r, 'f', places, 64)
}

// FormatPercent renders an ROI percentage with the given precision.
func FormatPercent(p float64, places int) string {
	return strconv.FormatFloat(p, 'f', places, 64) + "%"
}
