package fields

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
)

// coerceCheckbox tolerates the legacy textual encodings older submissions
// carry, notably the literal "Ja (True)" / "Nein (False)" pair.
func coerceCheckbox(raw any) any {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "ja (true)", "ja", "1", "on":
			return true
		case "false", "nein (false)", "nein", "0", "off", "":
			return false
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return nil
}

func validateCheckbox(in *form.Input, resolvedID string, raw any) *Issue {
	value, ok := coerceCheckbox(raw).(bool)
	// A required checkbox must actually be ticked.
	if in.Required && (!ok || !value) {
		return issue(resolvedID, CodeRequired, "Dieses Feld muss bestätigt werden.")
	}
	return nil
}

func displayCheckbox(raw any) string {
	value, ok := coerceCheckbox(raw).(bool)
	if !ok {
		return ""
	}
	if value {
		return "Ja"
	}
	return "Nein"
}

func evaluateCheckbox(op form.Operator, referenced, compared any) bool {
	ref, ok := coerceCheckbox(referenced).(bool)
	if !ok {
		return false
	}
	switch op {
	case form.OpEmpty:
		return false
	case form.OpNotEmpty:
		return true
	}

	cmp, ok := coerceCheckbox(compared).(bool)
	if !ok {
		return false
	}
	switch op {
	case form.OpEquals:
		return ref == cmp
	case form.OpNotEquals:
		return ref != cmp
	}
	return false
}

// CheckboxChecked reports whether a raw answer represents a ticked checkbox.
// The error pass uses it for the consent and confirmation checks.
func CheckboxChecked(raw any) bool {
	value, ok := coerceCheckbox(raw).(bool)
	return ok && value
}
