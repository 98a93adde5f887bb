package domain

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	thousandsOnly = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)
	leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// ParseMonto converts user input into an amount rounded to cents. It accepts
// plain decimals ("1234.5"), the es-AR display form ("$1.234,50") and dot
// grouped thousands ("1.500"). Trailing garbage after a number is ignored, so
// "12abc" reads as 12. Unparseable or negative input yields zero.
func ParseMonto(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.TrimSuffix(leadingNumber.FindString(s), ".")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// FormatMonto renders an amount the way an es-AR locale does with two
// fraction digits: "150.000,00".
func FormatMonto(d decimal.Decimal) string {
	r := d.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}
	fixed := r.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
