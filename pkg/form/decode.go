package form

import (
	"errors"
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Element type tags used by serialized definitions. Input elements use their
// FieldKind as the tag.
const (
	typeRoot       = "root"
	typeStep       = "step"
	typeGroup      = "group"
	typeReplicator = "replicator"
)

// DecodeJSON parses a serialized form definition. Conditions referencing
// unknown element ids are accepted here; the derivation passes reject them
// lazily, matching the platform's permissive authoring model.
func DecodeJSON(data []byte) (*Root, error) {
	if len(data) == 0 {
		return nil, errors.New("form: definition payload is empty")
	}
	var raw map[string]any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("form: decode definition: %w", err)
	}
	return decodeRoot(raw)
}

// DecodeYAML parses a YAML form definition.
func DecodeYAML(data []byte) (*Root, error) {
	if len(data) == 0 {
		return nil, errors.New("form: definition payload is empty")
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("form: decode definition: %w", err)
	}
	return decodeRoot(raw)
}

func decodeRoot(raw map[string]any) (*Root, error) {
	if tag, ok := raw["type"].(string); ok && tag != "" && tag != typeRoot {
		return nil, fmt.Errorf("form: definition root has type %q, want %q", tag, typeRoot)
	}

	var root Root
	if err := reassemble(raw, &root); err != nil {
		return nil, fmt.Errorf("form: decode root: %w", err)
	}

	var err error
	if root.Introduction, err = decodeStepField(raw, "introduction", StepIntroduction); err != nil {
		return nil, err
	}
	if root.Summary, err = decodeStepField(raw, "summary", StepSummary); err != nil {
		return nil, err
	}
	if root.Submit, err = decodeStepField(raw, "submit", StepSubmit); err != nil {
		return nil, err
	}

	root.Steps = root.Steps[:0]
	steps, _ := raw["steps"].([]any)
	for i, entry := range steps {
		stepRaw, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("form: step %d is not an object", i)
		}
		step, err := decodeStep(stepRaw, StepForm)
		if err != nil {
			return nil, err
		}
		root.Steps = append(root.Steps, step)
	}
	sort.SliceStable(root.Steps, func(i, j int) bool {
		return root.Steps[i].Weight < root.Steps[j].Weight
	})
	return &root, nil
}

func decodeStepField(raw map[string]any, key string, role StepRole) (*Step, error) {
	entry, ok := raw[key].(map[string]any)
	if !ok {
		return nil, nil
	}
	return decodeStep(entry, role)
}

func decodeStep(raw map[string]any, role StepRole) (*Step, error) {
	var step Step
	if err := reassemble(raw, &step); err != nil {
		return nil, fmt.Errorf("form: decode step: %w", err)
	}
	if step.Role == "" {
		step.Role = role
	}
	elements, err := decodeChildren(raw)
	if err != nil {
		return nil, fmt.Errorf("form: step %q: %w", step.ID, err)
	}
	step.Elements = elements
	return &step, nil
}

func decodeChildren(raw map[string]any) ([]Node, error) {
	entries, _ := raw["elements"].([]any)
	if len(entries) == 0 {
		return nil, nil
	}
	out := make([]Node, 0, len(entries))
	for i, entry := range entries {
		childRaw, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d is not an object", i)
		}
		node, err := decodeNode(childRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	// Siblings order by weight; the stable sort keeps serialized order for
	// equal weights.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Base().Weight < out[j].Base().Weight
	})
	return out, nil
}

func decodeNode(raw map[string]any) (Node, error) {
	tag, _ := raw["type"].(string)
	switch tag {
	case typeStep:
		return decodeStep(raw, StepForm)
	case typeGroup:
		var group Group
		if err := reassemble(raw, &group); err != nil {
			return nil, fmt.Errorf("form: decode group: %w", err)
		}
		elements, err := decodeChildren(raw)
		if err != nil {
			return nil, fmt.Errorf("form: group %q: %w", group.ID, err)
		}
		group.Elements = elements
		return &group, nil
	case typeReplicator:
		var repl Replicator
		if err := reassemble(raw, &repl); err != nil {
			return nil, fmt.Errorf("form: decode replicator: %w", err)
		}
		template, err := decodeChildren(raw)
		if err != nil {
			return nil, fmt.Errorf("form: replicator %q: %w", repl.ID, err)
		}
		repl.Template = template
		return &repl, nil
	case "":
		return nil, errors.New("form: element is missing a type tag")
	default:
		return decodeInput(raw, tag)
	}
}

func decodeInput(raw map[string]any, tag string) (*Input, error) {
	kind := FieldKind(tag)
	switch kind {
	case FieldText, FieldNumber, FieldDate, FieldTime, FieldCheckbox,
		FieldRadio, FieldSelect, FieldMultiCheckbox, FieldFileUpload, FieldTable:
	default:
		return nil, fmt.Errorf("form: unknown element type %q", tag)
	}

	var in Input
	if err := reassemble(raw, &in); err != nil {
		return nil, fmt.Errorf("form: decode %s input: %w", tag, err)
	}
	in.Kind = kind
	return &in, nil
}

// reassemble round-trips a generic map through JSON into a typed struct so
// the polymorphic decode only handles the node dispatch by hand.
func reassemble(raw map[string]any, target any) error {
	data, err := gojson.Marshal(raw)
	if err != nil {
		return err
	}
	return gojson.Unmarshal(data, target)
}
