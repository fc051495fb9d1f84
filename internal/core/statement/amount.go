package statement

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmptyAmount = errors.New("empty amount")

var (
	currencyPrefix = regexp.MustCompile(`^(?:[$€£¥₹]|[A-Z]{3})\s*`)
	currencySuffix = regexp.MustCompile(`\s*(?:[$€£¥₹]|[A-Z]{3})$`)
)

// ParseAmount reads a signed amount as banks print it: "1,234.56", "(123.45)",
// "-$42.10", "$(42.10)", "USD 42.10", "42.10-", "42.10 DR", "42.10 CR", "1.234,56".
// Anything else in the cell is an error.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	negative, forcePositive := false, false
	switch {
	case strings.HasSuffix(s, "DR"):
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "DR"))
	case strings.HasSuffix(s, "CR"):
		forcePositive = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "CR"))
	}

	signs := 0
	takeSign := func() {
		switch {
		case strings.HasPrefix(s, "-"):
			negative = true
			signs++
			s = strings.TrimSpace(s[1:])
		case strings.HasPrefix(s, "+"):
			signs++
			s = strings.TrimSpace(s[1:])
		case strings.HasSuffix(s, "-"):
			negative = true
			signs++
			s = strings.TrimSpace(s[:len(s)-1])
		}
	}
	stripCurrency := func() {
		s = currencyPrefix.ReplaceAllString(s, "")
		s = currencySuffix.ReplaceAllString(s, "")
	}

	takeSign()
	stripCurrency()
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		signs++
		s = strings.TrimSpace(s[1 : len(s)-1])
		stripCurrency()
	}
	takeSign()
	if signs > 1 {
		return decimal.Zero, fmt.Errorf("conflicting signs in amount %q", raw)
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == ' ', r == '\u00a0', r == '\'':
			// digit grouping: "1 234,56", "1'234.56"
		default:
			return decimal.Zero, fmt.Errorf("unexpected %q in amount %q", r, raw)
		}
	}
	num := normalizeSeparators(b.String())
	if strings.Trim(num, ".") == "" {
		return decimal.Zero, fmt.Errorf("no digits in amount %q", raw)
	}

	v, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, err
	}
	switch {
	case forcePositive:
		return v.Abs(), nil
	case negative:
		return v.Abs().Neg(), nil
	}
	return v, nil
}

// normalizeSeparators removes grouping separators and turns a decimal comma into a point.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastComma < 0:
		return s
	case lastDot > lastComma:
		// 1,234.56
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0:
		// 1.234,56
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case len(s)-lastComma-1 <= 2 && strings.Count(s, ",") == 1:
		// 12,5 or 12,50
		return strings.Replace(s, ",", ".", 1)
	default:
		return strings.ReplaceAll(s, ",", "")
	}
}
