// Package locale handles the numeric literal forms that show up in customer
// input: canonical machine encodings next to German-formatted strings such as
// "1.234,56".
package locale

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// canonicalNumber matches already-canonical int.frac literals. Those must not
// run through the German normalization, which would misread the dot as a
// thousands separator.
var canonicalNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParseDecimal parses a numeric literal, accepting canonical forms directly
// and falling back to German formatting (thousands dot, decimal comma).
// Unparseable input reports ok=false, never an error.
func ParseDecimal(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if canonicalNumber.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}

	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var germanPrinter = message.NewPrinter(language.German)

// FormatDecimal renders a value for display. Integral values with no
// configured decimals stay ungrouped so they re-parse to the same number;
// everything else uses German grouping and decimal comma.
func FormatDecimal(v float64, decimals int) string {
	if decimals <= 0 && v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if decimals <= 0 {
		decimals = 2
	}
	return germanPrinter.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals)))
}
