package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// datePrecision selects which date components take part in a comparison. It
// is inferred from the referenced value's literal pattern, so a year-only
// answer compares year-to-year even against a full timestamp.
type datePrecision int

const (
	precisionISO datePrecision = iota
	precisionDay
	precisionMonth
	precisionYear
	precisionDayAnyMonthAnyYear
	precisionDayAndMonthAnyYear
)

var (
	reYearOnly     = regexp.MustCompile(`^\d{4}$`)
	reDayOnly      = regexp.MustCompile(`^\d{1,2}$`)
	reMonthYear    = regexp.MustCompile(`^(\d{1,2})\.(\d{4})$`)
	reIsoMonth     = regexp.MustCompile(`^\d{4}-\d{2}$`)
	reDayMonth     = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.?$`)
	reGermanDate   = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
	reIsoLocalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func precisionOf(literal string) datePrecision {
	s := strings.TrimSpace(literal)
	switch {
	case reYearOnly.MatchString(s):
		return precisionYear
	case reDayOnly.MatchString(s):
		return precisionDayAnyMonthAnyYear
	case reMonthYear.MatchString(s), reIsoMonth.MatchString(s):
		return precisionMonth
	case reDayMonth.MatchString(s):
		return precisionDayAndMonthAnyYear
	case reGermanDate.MatchString(s), reIsoLocalDate.MatchString(s):
		return precisionDay
	default:
		return precisionISO
	}
}

// parseDate runs the coercion cascade: zoned ISO parse, ISO local date,
// dd.MM.yyyy, then partial reconstruction padded with the fixed defaults day
// "01", month "01", year "2000". Every failure falls through to the next
// strategy; total failure reports ok=false.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2.1.2006", s); err == nil {
		return t, true
	}

	padded := ""
	switch {
	case reDayOnly.MatchString(s):
		padded = s + ".01.2000"
	case reMonthYear.MatchString(s):
		m := reMonthYear.FindStringSubmatch(s)
		padded = "01." + m[1] + "." + m[2]
	case reYearOnly.MatchString(s):
		padded = "01.01." + s
	case reDayMonth.MatchString(s):
		m := reDayMonth.FindStringSubmatch(s)
		padded = m[1] + "." + m[2] + ".2000"
	}
	if padded == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2.1.2006", padded)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func coerceDate(raw any) any {
	switch v := raw.(type) {
	case time.Time:
		return v
	case string:
		if t, ok := parseDate(v); ok {
			return t
		}
	}
	return nil
}

func validateDate(in *form.Input, resolvedID string, raw any) *Issue {
	if isAbsent(raw) {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Dieses Feld ist ein Pflichtfeld.")
		}
		return nil
	}

	value, ok := coerceDate(raw).(time.Time)
	if !ok {
		return issue(resolvedID, CodeInvalidDate, "Bitte ein gültiges Datum eingeben.")
	}

	spec := in.Date
	if spec == nil {
		return nil
	}
	if spec.Min != "" {
		if min, ok := parseDate(spec.Min); ok && value.Before(min) {
			return issueWith(resolvedID, CodeBeforeMin,
				fmt.Sprintf("Bitte ein Datum nicht vor dem %s eingeben.", min.Format("02.01.2006")),
				map[string]any{"min": spec.Min})
		}
	}
	if spec.Max != "" {
		if max, ok := parseDate(spec.Max); ok && value.After(max) {
			return issueWith(resolvedID, CodeAfterMax,
				fmt.Sprintf("Bitte ein Datum nicht nach dem %s eingeben.", max.Format("02.01.2006")),
				map[string]any{"max": spec.Max})
		}
	}
	return nil
}

// displayDate picks the display pattern from the literal's precision, so a
// month-plus-year answer never gains an invented day.
func displayDate(raw any) string {
	if t, ok := raw.(time.Time); ok {
		return t.Format("02.01.2006")
	}
	literal, ok := raw.(string)
	if !ok {
		return ""
	}
	t, parsed := parseDate(literal)
	if !parsed {
		return ""
	}
	switch precisionOf(literal) {
	case precisionYear:
		return t.Format("2006")
	case precisionMonth:
		return t.Format("01.2006")
	case precisionDayAnyMonthAnyYear:
		return t.Format("02.")
	case precisionDayAndMonthAnyYear:
		return t.Format("02.01.")
	default:
		return t.Format("02.01.2006")
	}
}

// compareDate orders a against b using only the components the precision
// selects. Returns -1, 0, or 1.
func compareDate(precision datePrecision, a, b time.Time) int {
	switch precision {
	case precisionYear:
		return compareInts(a.Year(), b.Year())
	case precisionMonth:
		if c := compareInts(a.Year(), b.Year()); c != 0 {
			return c
		}
		return compareInts(int(a.Month()), int(b.Month()))
	case precisionDay:
		if c := compareInts(a.Year(), b.Year()); c != 0 {
			return c
		}
		if c := compareInts(int(a.Month()), int(b.Month())); c != 0 {
			return c
		}
		return compareInts(a.Day(), b.Day())
	case precisionDayAnyMonthAnyYear:
		return compareInts(a.Day(), b.Day())
	case precisionDayAndMonthAnyYear:
		if c := compareInts(int(a.Month()), int(b.Month())); c != 0 {
			return c
		}
		return compareInts(a.Day(), b.Day())
	default:
		return a.UTC().Compare(b.UTC())
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evaluateDate(op form.Operator, referenced, compared any, now time.Time) bool {
	ref, ok := coerceDate(referenced).(time.Time)
	if !ok {
		return false
	}

	switch op {
	case form.OpEmpty:
		return false
	case form.OpNotEmpty:
		return true
	case form.OpYearsInPast, form.OpMonthsInPast, form.OpDaysInPast,
		form.OpYearsInFuture, form.OpMonthsInFuture, form.OpDaysInFuture:
		return evaluateRelativeDate(op, ref, compared, now)
	}

	cmp, ok := coerceDate(compared).(time.Time)
	if !ok {
		return false
	}
	precision := precisionISO
	if literal, ok := referenced.(string); ok {
		precision = precisionOf(literal)
	}
	c := compareDate(precision, ref, cmp)

	switch op {
	case form.OpEquals:
		return c == 0
	case form.OpNotEquals:
		return c != 0
	case form.OpLessThan:
		return c < 0
	case form.OpLessThanOrEqual:
		return c <= 0
	case form.OpGreaterThan:
		return c > 0
	case form.OpGreaterThanOrEqual:
		return c >= 0
	}
	return false
}

// evaluateRelativeDate compares the referenced date against now shifted by
// an integer offset parsed from the compared operand. The shifted boundary
// day itself counts, so "yearsInPast 18" accepts a birthday falling exactly
// today minus eighteen years.
func evaluateRelativeDate(op form.Operator, ref time.Time, compared any, now time.Time) bool {
	offset, ok := relativeOffset(compared)
	if !ok {
		return false
	}

	var boundary time.Time
	switch op {
	case form.OpYearsInPast:
		boundary = now.AddDate(-offset, 0, 0)
	case form.OpMonthsInPast:
		boundary = now.AddDate(0, -offset, 0)
	case form.OpDaysInPast:
		boundary = now.AddDate(0, 0, -offset)
	case form.OpYearsInFuture:
		boundary = now.AddDate(offset, 0, 0)
	case form.OpMonthsInFuture:
		boundary = now.AddDate(0, offset, 0)
	case form.OpDaysInFuture:
		boundary = now.AddDate(0, 0, offset)
	default:
		return false
	}

	refDay := truncateToDay(ref)
	boundaryDay := truncateToDay(boundary)
	switch op {
	case form.OpYearsInPast, form.OpMonthsInPast, form.OpDaysInPast:
		return !refDay.After(boundaryDay)
	default:
		return !refDay.Before(boundaryDay)
	}
}

func relativeOffset(compared any) (int, bool) {
	switch v := compared.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
