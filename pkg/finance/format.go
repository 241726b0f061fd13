package finance

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders v with two decimals, rounded half away from zero, and
// comma thousands separators. The sign, if any, leads: -1234.5 → "-1,234.50".
func FormatMoney(v float64) string {
	s := decimal.NewFromFloat(v).Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}
