package fields

import (
	"fmt"

	"github.com/goliatone/go-formflow/internal/locale"
	"github.com/goliatone/go-formflow/pkg/form"
)

// absoluteNumberBound caps every numeric answer regardless of configured
// field limits.
const absoluteNumberBound = float64(1 << 31)

func coerceNumber(raw any) any {
	if f, ok := numberValue(raw); ok {
		return f
	}
	return nil
}

func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return locale.ParseDecimal(v)
	}
	return 0, false
}

func validateNumber(in *form.Input, resolvedID string, raw any) *Issue {
	if isAbsent(raw) {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Dieses Feld ist ein Pflichtfeld.")
		}
		return nil
	}

	value, ok := numberValue(raw)
	if !ok {
		return issue(resolvedID, CodeInvalidNumber, "Bitte eine gültige Zahl eingeben.")
	}
	if value < -absoluteNumberBound || value > absoluteNumberBound {
		return issueWith(resolvedID, CodeOutOfRange,
			"Der eingegebene Wert liegt außerhalb des zulässigen Bereichs.",
			map[string]any{"got": value})
	}

	spec := in.Number
	if spec == nil {
		return nil
	}
	if spec.Min != nil && value < *spec.Min {
		return issueWith(resolvedID, CodeBelowMin,
			fmt.Sprintf("Bitte einen Wert nicht kleiner als %s eingeben.", locale.FormatDecimal(*spec.Min, spec.Decimals)),
			map[string]any{"min": *spec.Min, "got": value})
	}
	if spec.Max != nil && value > *spec.Max {
		return issueWith(resolvedID, CodeAboveMax,
			fmt.Sprintf("Bitte einen Wert nicht größer als %s eingeben.", locale.FormatDecimal(*spec.Max, spec.Decimals)),
			map[string]any{"max": *spec.Max, "got": value})
	}
	return nil
}

func displayNumber(in *form.Input, raw any) string {
	value, ok := numberValue(raw)
	if !ok {
		return ""
	}
	decimals := 0
	if in.Number != nil {
		decimals = in.Number.Decimals
	}
	return locale.FormatDecimal(value, decimals)
}

func evaluateNumber(op form.Operator, referenced, compared any) bool {
	ref, ok := numberValue(referenced)
	if !ok {
		return false
	}

	switch op {
	case form.OpEmpty:
		return false
	case form.OpNotEmpty:
		return true
	}

	cmp, ok := numberValue(compared)
	if !ok {
		return false
	}
	switch op {
	case form.OpEquals:
		return ref == cmp
	case form.OpNotEquals:
		return ref != cmp
	case form.OpLessThan:
		return ref < cmp
	case form.OpLessThanOrEqual:
		return ref <= cmp
	case form.OpGreaterThan:
		return ref > cmp
	case form.OpGreaterThanOrEqual:
		return ref >= cmp
	}
	return false
}
