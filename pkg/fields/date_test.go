package fields

import (
	"testing"
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

func dateInput(required bool) *form.Input {
	return &form.Input{
		Element: form.Element{ID: "birthdate", Required: required},
		Kind:    form.FieldDate,
	}
}

func TestParseDateCascade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"zoned iso", "2024-05-01T10:30:00Z", "2024-05-01", true},
		{"local iso", "2024-05-01", "2024-05-01", true},
		{"german", "01.05.2024", "2024-05-01", true},
		{"german single digits", "1.5.2024", "2024-05-01", true},
		{"day only padded", "15", "2000-01-15", true},
		{"month and year padded", "05.2024", "2024-05-01", true},
		{"year only padded", "2024", "2024-01-01", true},
		{"day and month padded", "15.05.", "2000-05-15", true},
		{"impossible day", "99", "", false},
		{"garbage", "gestern", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseDate(tc.input)
			if ok != tc.ok {
				t.Fatalf("parseDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && got.Format("2006-01-02") != tc.want {
				t.Fatalf("parseDate(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestDatePrecisionComparison(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	in := dateInput(false)

	// Year precision: only the year component participates.
	if !Evaluate(in, form.OpEquals, "2024", "2024-05-01T00:00:00Z", now) {
		t.Fatalf("year precision Equals should match")
	}
	if Evaluate(in, form.OpEquals, "2023", "2024-05-01T00:00:00Z", now) {
		t.Fatalf("different years must not match")
	}

	// Day-any-month-any-year precision compares the day of month only.
	if !Evaluate(in, form.OpEquals, "15", "15.03.1999", now) {
		t.Fatalf("day precision Equals should match")
	}

	// Month precision compares year and month.
	if !Evaluate(in, form.OpLessThan, "04.2024", "01.05.2024", now) {
		t.Fatalf("april should order before may")
	}

	// Full dates compare all components.
	if !Evaluate(in, form.OpGreaterThan, "02.05.2024", "2024-05-01", now) {
		t.Fatalf("expected 02.05 > 01.05")
	}
}

func TestRelativeDateOperators(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	in := dateInput(false)

	// Exactly eighteen years ago counts (boundary inclusive).
	if !Evaluate(in, form.OpYearsInPast, "01.06.2006", "18", now) {
		t.Fatalf("boundary birthday must satisfy yearsInPast 18")
	}
	if Evaluate(in, form.OpYearsInPast, "02.06.2006", "18", now) {
		t.Fatalf("one day short of eighteen years must fail")
	}
	if !Evaluate(in, form.OpDaysInFuture, "04.06.2024", "3", now) {
		t.Fatalf("three days ahead should satisfy daysInFuture 3")
	}
	if Evaluate(in, form.OpDaysInFuture, "03.06.2024", "3", now) {
		t.Fatalf("two days ahead must fail daysInFuture 3")
	}
	if Evaluate(in, form.OpYearsInPast, "01.06.2006", "volljährig", now) {
		t.Fatalf("non-numeric offset must evaluate to false")
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	in := dateInput(true)
	if iss := Validate(in, "birthdate", nil); iss == nil || iss.Code != CodeRequired {
		t.Fatalf("missing required date: got %+v", iss)
	}
	if iss := Validate(in, "birthdate", "kein datum"); iss == nil || iss.Code != CodeInvalidDate {
		t.Fatalf("unparseable date: got %+v", iss)
	}

	in.Date = &form.DateSpec{Min: "01.01.2020", Max: "31.12.2024"}
	if iss := Validate(in, "birthdate", "15.06.2019"); iss == nil || iss.Code != CodeBeforeMin {
		t.Fatalf("date before min: got %+v", iss)
	}
	if iss := Validate(in, "birthdate", "01.01.2025"); iss == nil || iss.Code != CodeAfterMax {
		t.Fatalf("date after max: got %+v", iss)
	}
	if iss := Validate(in, "birthdate", "15.06.2022"); iss != nil {
		t.Fatalf("valid date: got %+v", iss)
	}
}

func TestDisplayDateByPrecision(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{"2024-05-01T00:00:00Z", "01.05.2024"},
		{"2024", "2024"},
		{"05.2024", "05.2024"},
		{"15", "15."},
		{"15.05.", "15.05."},
	}
	for _, tc := range cases {
		if got := displayDate(tc.input); got != tc.want {
			t.Fatalf("displayDate(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
