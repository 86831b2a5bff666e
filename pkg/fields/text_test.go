package fields

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/form"
)

func textInput(spec *form.TextSpec, required bool) *form.Input {
	return &form.Input{
		Element: form.Element{ID: "notes", Required: required},
		Kind:    form.FieldText,
		Text:    spec,
	}
}

func TestValidateText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   *form.Input
		raw  any
		code string
	}{
		{"missing required", textInput(nil, true), nil, CodeRequired},
		{"whitespace only required", textInput(nil, true), "   ", CodeRequired},
		{"missing optional", textInput(nil, false), nil, ""},
		{"too short", textInput(&form.TextSpec{MinLength: 5}, false), "abc", CodeTooShort},
		{"too long", textInput(&form.TextSpec{MaxLength: 3}, false), "abcd", CodeTooLong},
		{"umlauts count as one rune", textInput(&form.TextSpec{MaxLength: 4}, false), "Grüß", ""},
		{"pattern mismatch", textInput(&form.TextSpec{Pattern: `^\d{5}$`}, false), "12AB5", CodePattern},
		{"pattern match", textInput(&form.TextSpec{Pattern: `^\d{5}$`}, false), "12345", ""},
		{"malformed pattern", textInput(&form.TextSpec{Pattern: `[`}, false), "x", CodeBadPattern},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			iss := Validate(tc.in, "notes", tc.raw)
			if tc.code == "" {
				if iss != nil {
					t.Fatalf("unexpected issue: %+v", iss)
				}
				return
			}
			if iss == nil || iss.Code != tc.code {
				t.Fatalf("got %+v, want code %s", iss, tc.code)
			}
		})
	}
}

func TestEvaluateText(t *testing.T) {
	t.Parallel()

	in := textInput(nil, false)
	now := fixedNow()

	cases := []struct {
		name       string
		op         form.Operator
		referenced any
		compared   any
		want       bool
	}{
		{"equals", form.OpEquals, "München", "München", true},
		{"equals ignore case", form.OpEqualsIgnoreCase, "BERLIN", "berlin", true},
		{"includes", form.OpIncludes, "Hauptstraße 12", "straße", true},
		{"starts with", form.OpStartsWith, "DE-12345", "DE-", true},
		{"ends with negated", form.OpNotEndsWith, "report.pdf", ".doc", true},
		{"matches full pattern", form.OpMatchesPattern, "80331", `\d{5}`, true},
		{"full pattern rejects partial", form.OpMatchesPattern, "80331x", `\d{5}`, false},
		{"includes pattern", form.OpIncludesPattern, "80331x", `\d{5}`, true},
		{"malformed pattern is false", form.OpMatchesPattern, "x", `[`, false},
		{"empty on whitespace", form.OpEmpty, "  ", nil, true},
		{"number coerced to string", form.OpEquals, float64(7), "7", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(in, tc.op, tc.referenced, tc.compared, now); got != tc.want {
				t.Fatalf("Evaluate(%s, %v, %v) = %v, want %v", tc.op, tc.referenced, tc.compared, got, tc.want)
			}
		})
	}
}
