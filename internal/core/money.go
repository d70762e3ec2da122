// Package core provides money parsing and display utilities.
//
// Amounts are whole Vietnamese dong carried as decimals so that values the
// backend sends as floats ("50000.0") keep their exact digits.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid amount")

var viPrinter = message.NewPrinter(language.Vietnamese)

// ParseAmount parses a user-entered amount. Grouping dots and spaces are
// tolerated ("1.500.000"), a single comma is read as the decimal mark.
// Zero and negative amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, " ", "")
	if strings.Count(s, ".") > 1 || (strings.Contains(s, ",") && strings.Contains(s, ".")) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// GroupDigits renders the integer part with vi-VN grouping ("1.234.567"),
// truncating any fraction.
func GroupDigits(d decimal.Decimal) string {
	return viPrinter.Sprintf("%d", d.IntPart())
}

// FormatDong renders an amount the way transaction rows and wallet selects
// show it: "1.234.567 đ".
func FormatDong(d decimal.Decimal) string {
	return GroupDigits(d) + " đ"
}

// FormatVND renders a currency amount rounded to whole dong with the
// currency sign after the digits: "1.234.567 ₫".
func FormatVND(d decimal.Decimal) string {
	r := d.Round(0)
	if r.IsNegative() {
		return "-" + viPrinter.Sprintf("%d", r.Abs().IntPart()) + " ₫"
	}
	return viPrinter.Sprintf("%d", r.IntPart()) + " ₫"
}
