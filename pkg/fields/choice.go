package fields

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
)

func coerceChoice(raw any) any {
	switch v := raw.(type) {
	case string:
		return v
	case float64, int, int64, bool:
		return fmt.Sprint(v)
	}
	return nil
}

func validateChoice(in *form.Input, resolvedID string, raw any) *Issue {
	value, _ := coerceChoice(raw).(string)
	if strings.TrimSpace(value) == "" {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Bitte eine Option auswählen.")
		}
		return nil
	}
	if in.Options != nil && !in.Options.Contains(value) {
		return issueWith(resolvedID, CodeInvalidOption,
			"Die gewählte Option ist nicht zulässig.",
			map[string]any{"value": value})
	}
	return nil
}

func displayChoice(in *form.Input, raw any) string {
	value, ok := coerceChoice(raw).(string)
	if !ok {
		return ""
	}
	return in.Options.LabelFor(value)
}

// Radio and select conditions are the plain string-equality family; the
// pattern and ordering operators stay with free-text fields.
func evaluateChoice(op form.Operator, referenced, compared any) bool {
	ref, ok := coerceChoice(referenced).(string)
	if !ok {
		return false
	}
	cmp, _ := coerceChoice(compared).(string)

	switch op {
	case form.OpEquals:
		return ref == cmp
	case form.OpNotEquals:
		return ref != cmp
	case form.OpEqualsIgnoreCase:
		return strings.EqualFold(ref, cmp)
	case form.OpNotEqualsIgnoreCase:
		return !strings.EqualFold(ref, cmp)
	case form.OpEmpty:
		return strings.TrimSpace(ref) == ""
	case form.OpNotEmpty:
		return strings.TrimSpace(ref) != ""
	}
	return false
}

func coerceMultiChoice(raw any) any {
	switch v := raw.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			s, ok := coerceChoice(entry).(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	}
	return nil
}

func validateMultiChoice(in *form.Input, resolvedID string, raw any) *Issue {
	values, _ := coerceMultiChoice(raw).([]string)
	if len(values) == 0 {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Bitte mindestens eine Option auswählen.")
		}
		if in.Options != nil && in.Options.MinimumRequiredOptions > 0 {
			return issueWith(resolvedID, CodeTooFewOptions,
				fmt.Sprintf("Bitte mindestens %d Optionen auswählen.", in.Options.MinimumRequiredOptions),
				map[string]any{"min": in.Options.MinimumRequiredOptions, "got": 0})
		}
		return nil
	}

	spec := in.Options
	if spec == nil {
		return nil
	}
	for _, value := range values {
		if !spec.Contains(value) {
			return issueWith(resolvedID, CodeInvalidOption,
				"Die gewählte Option ist nicht zulässig.",
				map[string]any{"value": value})
		}
	}
	if spec.MinimumRequiredOptions > 0 && len(values) < spec.MinimumRequiredOptions {
		return issueWith(resolvedID, CodeTooFewOptions,
			fmt.Sprintf("Bitte mindestens %d Optionen auswählen.", spec.MinimumRequiredOptions),
			map[string]any{"min": spec.MinimumRequiredOptions, "got": len(values)})
	}
	if spec.MaximumAllowedOptions > 0 && len(values) > spec.MaximumAllowedOptions {
		return issueWith(resolvedID, CodeTooManyOptions,
			fmt.Sprintf("Bitte höchstens %d Optionen auswählen.", spec.MaximumAllowedOptions),
			map[string]any{"max": spec.MaximumAllowedOptions, "got": len(values)})
	}
	return nil
}

func displayMultiChoice(in *form.Input, raw any) string {
	values, _ := coerceMultiChoice(raw).([]string)
	if len(values) == 0 {
		return ""
	}
	labels := make([]string, 0, len(values))
	for _, value := range values {
		labels = append(labels, in.Options.LabelFor(value))
	}
	return strings.Join(labels, ", ")
}

// Multi-checkbox conditions are set membership of the compared value in the
// current selection.
func evaluateMultiChoice(op form.Operator, referenced, compared any) bool {
	values, ok := coerceMultiChoice(referenced).([]string)
	if !ok {
		return false
	}
	switch op {
	case form.OpEmpty:
		return len(values) == 0
	case form.OpNotEmpty:
		return len(values) > 0
	case form.OpIncludes, form.OpNotIncludes:
		cmp, _ := coerceChoice(compared).(string)
		found := false
		for _, value := range values {
			if value == cmp {
				found = true
				break
			}
		}
		if op == form.OpIncludes {
			return found
		}
		return !found
	}
	return false
}

// evaluateCollection covers the structural operators file-upload and table
// references support.
func evaluateCollection(op form.Operator, count int, _ any) bool {
	switch op {
	case form.OpEmpty:
		return count == 0
	case form.OpNotEmpty:
		return count > 0
	}
	return false
}
