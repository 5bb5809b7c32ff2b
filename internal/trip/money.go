package trip

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Money renders a TWD amount in the display currency: "NT$ 1,234" or
// "RM 185.10". An unusable rate renders as "RM --".
func Money(amountTWD float64, c Currency, rate float64) string {
	v, ok := FormatForDisplay(amountTWD, c, rate)
	if c == MYR {
		if !ok {
			return "RM --"
		}
		return "RM " + humanize.FormatFloat("#,###.##", v)
	}
	return "NT$ " + humanize.FormatFloat("#,###.", v)
}

// Symbol is the short prefix used next to amounts in c.
func (c Currency) Symbol() string {
	if c == MYR {
		return "RM"
	}
	return "NT$"
}

// ParseAmount reads a user-entered amount. Blank or non-numeric input is
// zero; amounts are never left as NaN.
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(v)
}
