package pdfrow

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/derive"
	"github.com/goliatone/go-formflow/pkg/form"
)

func summaryRoot() *form.Root {
	return &form.Root{
		Element: form.Element{ID: "dogTax"},
		Steps: []*form.Step{
			{
				Element: form.Element{ID: "dogData"},
				Role:    form.StepForm,
				Title:   "<b>Angaben   zum</b> Hund",
				Elements: []form.Node{
					&form.Input{
						Element: form.Element{ID: "dogName"},
						Kind:    form.FieldText,
						Label:   "Name <script>alert(1)</script>des Hundes",
					},
					&form.Input{
						Element: form.Element{ID: "kennelNumber"},
						Kind:    form.FieldText,
						Label:   "Zwingernummer",
					},
					&form.Replicator{
						Element:     form.Element{ID: "owners"},
						InstanceIDs: []string{"a", "b"},
						Template: []form.Node{
							&form.Input{
								Element: form.Element{ID: "ownerName"},
								Kind:    form.FieldText,
								Label:   "Name",
							},
						},
					},
				},
			},
			{
				Element:  form.Element{ID: "emptyStep"},
				Role:     form.StepForm,
				Elements: []form.Node{},
			},
		},
	}
}

func TestSections(t *testing.T) {
	t.Parallel()

	result := derive.Result{
		Visibility: map[string]bool{"kennelNumber": false},
		Values: map[string]any{
			"dogName":            "Rex",
			"kennelNumber":       "K-42",
			"owners.a.ownerName": "Anna",
			"owners.b.ownerName": "Ben",
		},
	}

	got := NewBuilder().Sections(summaryRoot(), result)
	want := []Section{
		{
			StepID: "dogData",
			Title:  "Angaben zum Hund",
			Rows: []Row{
				{ElementID: "dogName", Label: "Name des Hundes", Value: "Rex"},
				{ElementID: "owners.a.ownerName", Label: "Name", Value: "Anna"},
				{ElementID: "owners.b.ownerName", Label: "Name", Value: "Ben"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Sections mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionsKeepsEmptyRows(t *testing.T) {
	t.Parallel()

	root := summaryRoot()
	result := derive.Result{Values: map[string]any{}}

	got := NewBuilder(WithEmptyRows()).Sections(root, result)
	if len(got) != 1 {
		t.Fatalf("expected one section, got %d", len(got))
	}
	// Unanswered inputs show up as empty rows, replicas included.
	if len(got[0].Rows) != 4 {
		t.Fatalf("expected 4 rows, got %+v", got[0].Rows)
	}
	for _, row := range got[0].Rows {
		if row.Value != "" {
			t.Fatalf("expected empty value in %+v", row)
		}
	}
}

func TestSectionsSkipsHiddenStep(t *testing.T) {
	t.Parallel()

	result := derive.Result{
		Visibility: map[string]bool{"dogData": false},
		Values:     map[string]any{"dogName": "Rex"},
	}
	if got := NewBuilder().Sections(summaryRoot(), result); len(got) != 0 {
		t.Fatalf("hidden step must not render, got %+v", got)
	}
}
