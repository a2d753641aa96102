// Package money formats rupiah amounts. IDR has no minor unit.
package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders 50000 as "Rp 50.000".
func FormatIDR(amount int64) string {
	if amount < 0 {
		return "-Rp " + idPrinter.Sprintf("%d", -amount)
	}
	return "Rp " + idPrinter.Sprintf("%d", amount)
}

// ParseIDR reads back a formatted amount. Grouping dots are dropped; a comma
// starts the (ignored) fraction.
func ParseIDR(s string) (int64, error) {
	neg := strings.HasPrefix(strings.TrimSpace(s), "-")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return n, nil
}
