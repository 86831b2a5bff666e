package fields

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/form"
)

func incomeTable() *form.Input {
	return &form.Input{
		Element: form.Element{ID: "income"},
		Kind:    form.FieldTable,
		Table: &form.TableSpec{
			Columns: []form.TableColumn{
				{ID: "source", Label: "Einkommensart", Kind: form.ColumnString, Required: true},
				{ID: "amount", Label: "Betrag", Kind: form.ColumnNumber, Min: floatPtr(0), Max: floatPtr(100000)},
			},
			MinRows: 1,
			MaxRows: 3,
		},
	}
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  any
		code string
	}{
		{"below minimum rows", []any{}, CodeTooFewRows},
		{
			"valid rows",
			[]any{map[string]any{"source": "Gehalt", "amount": float64(2500)}},
			"",
		},
		{
			"blank string cell counts as missing",
			[]any{map[string]any{"source": "  ", "amount": float64(2500)}},
			CodeCellRequired,
		},
		{
			"non-numeric amount",
			[]any{map[string]any{"source": "Gehalt", "amount": "viel"}},
			CodeCellType,
		},
		{
			"amount above column maximum",
			[]any{map[string]any{"source": "Gehalt", "amount": float64(100001)}},
			CodeCellOutOfRange,
		},
		{
			"german decimal amount accepted",
			[]any{map[string]any{"source": "Gehalt", "amount": "2.500,50"}},
			"",
		},
		{
			"too many rows",
			[]any{
				map[string]any{"source": "a", "amount": float64(1)},
				map[string]any{"source": "b", "amount": float64(1)},
				map[string]any{"source": "c", "amount": float64(1)},
				map[string]any{"source": "d", "amount": float64(1)},
			},
			CodeTooManyRows,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			iss := Validate(incomeTable(), "income", tc.raw)
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

func TestDisplayTable(t *testing.T) {
	t.Parallel()

	got := Display(incomeTable(), []any{
		map[string]any{"source": "Gehalt", "amount": float64(2500)},
		map[string]any{"source": "Miete", "amount": float64(800)},
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
	if lines[0] != "Gehalt | 2500" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}
