package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const dogTaxJSON = `{
	"type": "root",
	"id": "dogTax",
	"title": "Hundesteuer-Anmeldung",
	"requiresIdentity": true,
	"introduction": {
		"id": "intro",
		"title": "Willkommen",
		"elements": [
			{"type": "checkbox", "id": "privacyConsent", "required": true, "label": "Datenschutzerklärung gelesen"}
		]
	},
	"steps": [
		{
			"type": "step",
			"id": "dogData",
			"title": "Angaben zum Hund",
			"elements": [
				{"type": "text", "id": "dogName", "required": true, "label": "Name des Hundes", "text": {"maxLength": 50}},
				{
					"type": "radio",
					"id": "dogKind",
					"required": true,
					"options": {"options": [{"value": "listed", "label": "Listenhund"}, "regular"]}
				},
				{
					"type": "text",
					"id": "kennelNumber",
					"visibility": {"refId": "dogKind", "operator": "equals", "value": "listed"}
				},
				{
					"type": "replicator",
					"id": "owners",
					"instanceIds": ["a"],
					"minInstances": 1,
					"elements": [
						{"type": "text", "id": "ownerName", "required": true}
					]
				}
			]
		}
	],
	"summary": {
		"id": "summary",
		"elements": [
			{"type": "checkbox", "id": "summaryConfirm", "required": true}
		]
	}
}`

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	root, err := DecodeJSON([]byte(dogTaxJSON))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if root.ID != "dogTax" || !root.RequiresIdentity {
		t.Fatalf("root attributes wrong: %+v", root.Element)
	}
	if root.Introduction == nil || root.Introduction.Role != StepIntroduction {
		t.Fatalf("introduction role not defaulted: %+v", root.Introduction)
	}
	if root.Summary == nil || root.Summary.Role != StepSummary {
		t.Fatalf("summary role not defaulted: %+v", root.Summary)
	}
	if len(root.Steps) != 1 || root.Steps[0].Role != StepForm {
		t.Fatalf("unexpected steps: %+v", root.Steps)
	}

	step := root.Steps[0]
	if len(step.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(step.Elements))
	}

	dogKind, ok := step.Elements[1].(*Input)
	if !ok || dogKind.Kind != FieldRadio {
		t.Fatalf("dogKind not decoded as radio input: %T", step.Elements[1])
	}
	wantOptions := []Option{
		{Value: "listed", Label: "Listenhund"},
		{Value: "regular"},
	}
	if diff := cmp.Diff(wantOptions, dogKind.Options.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	kennel, ok := step.Elements[2].(*Input)
	if !ok || kennel.Visibility == nil {
		t.Fatalf("kennelNumber condition missing")
	}
	if kennel.Visibility.RefID != "dogKind" || kennel.Visibility.Operator != OpEquals {
		t.Fatalf("unexpected condition: %+v", kennel.Visibility)
	}

	owners, ok := step.Elements[3].(*Replicator)
	if !ok {
		t.Fatalf("owners not decoded as replicator: %T", step.Elements[3])
	}
	if len(owners.InstanceIDs) != 1 || owners.MinInstances != 1 {
		t.Fatalf("replicator attributes wrong: %+v", owners)
	}
	if len(owners.Template) != 1 {
		t.Fatalf("replicator template missing")
	}
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	payload := []byte(`
type: root
id: dogTax
steps:
  - type: step
    id: dogData
    elements:
      - type: select
        id: district
        options:
          options:
            - Mitte
            - value: nord
              label: Nord
`)
	root, err := DecodeYAML(payload)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	district, ok := root.Steps[0].Elements[0].(*Input)
	if !ok || district.Kind != FieldSelect {
		t.Fatalf("district not decoded: %+v", root.Steps[0].Elements[0])
	}
	want := []Option{{Value: "Mitte"}, {Value: "nord", Label: "Nord"}}
	if diff := cmp.Diff(want, district.Options.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOrdersSiblingsByWeight(t *testing.T) {
	t.Parallel()

	payload := `{
		"type": "root",
		"id": "f",
		"steps": [
			{
				"type": "step",
				"id": "second",
				"weight": 20,
				"elements": [
					{"type": "text", "id": "c", "weight": 2},
					{"type": "text", "id": "a"},
					{"type": "text", "id": "b", "weight": 2}
				]
			},
			{"type": "step", "id": "first", "weight": 10}
		]
	}`
	root, err := DecodeJSON([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if root.Steps[0].ID != "first" || root.Steps[1].ID != "second" {
		t.Fatalf("steps not ordered by weight: %s, %s", root.Steps[0].ID, root.Steps[1].ID)
	}

	var ids []string
	for _, node := range root.Steps[1].Elements {
		ids = append(ids, node.Base().ID)
	}
	// Unweighted "a" sorts first; "c" and "b" share a weight and keep their
	// serialized order.
	want := []string{"a", "c", "b"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("element order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
	}{
		{"empty payload", ""},
		{"wrong root type", `{"type": "step", "id": "x"}`},
		{"unknown element type", `{"type": "root", "id": "x", "steps": [{"type": "step", "id": "s", "elements": [{"type": "carousel", "id": "c"}]}]}`},
		{"missing type tag", `{"type": "root", "id": "x", "steps": [{"type": "step", "id": "s", "elements": [{"id": "c"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeJSON([]byte(tc.payload)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
