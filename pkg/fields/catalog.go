// Package fields is the field-type catalog: per input kind it coerces raw
// customer input into the field's native type, validates it, renders a
// display value, and evaluates condition operators. Dispatch is an
// exhaustive switch on form.FieldKind, so a new kind is a compile-visible,
// single-point change.
package fields

import (
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Coerce converts heterogeneous raw JSON into the field's native type:
// string, float64, time.Time, bool, []string, []form.FileItem, or
// []map[string]any depending on the kind. Unparseable input yields nil,
// never an error.
func Coerce(in *form.Input, raw any) any {
	if raw == nil {
		return nil
	}
	switch in.Kind {
	case form.FieldText:
		return coerceText(raw)
	case form.FieldNumber:
		return coerceNumber(raw)
	case form.FieldDate:
		return coerceDate(raw)
	case form.FieldTime:
		return coerceTime(raw)
	case form.FieldCheckbox:
		return coerceCheckbox(raw)
	case form.FieldRadio, form.FieldSelect:
		return coerceChoice(raw)
	case form.FieldMultiCheckbox:
		return coerceMultiChoice(raw)
	case form.FieldFileUpload:
		return coerceFiles(raw)
	case form.FieldTable:
		return coerceRows(raw)
	}
	return nil
}

// Validate checks the raw answer against the input's constraints and returns
// the first failure, or nil. The resolved id (replication prefix applied)
// keys the issue. Required elements with no answer fail with CodeRequired.
func Validate(in *form.Input, resolvedID string, raw any) *Issue {
	switch in.Kind {
	case form.FieldText:
		return validateText(in, resolvedID, raw)
	case form.FieldNumber:
		return validateNumber(in, resolvedID, raw)
	case form.FieldDate:
		return validateDate(in, resolvedID, raw)
	case form.FieldTime:
		return validateTime(in, resolvedID, raw)
	case form.FieldCheckbox:
		return validateCheckbox(in, resolvedID, raw)
	case form.FieldRadio, form.FieldSelect:
		return validateChoice(in, resolvedID, raw)
	case form.FieldMultiCheckbox:
		return validateMultiChoice(in, resolvedID, raw)
	case form.FieldFileUpload:
		return validateFiles(in, resolvedID, raw)
	case form.FieldTable:
		return validateTable(in, resolvedID, raw)
	}
	return nil
}

// Display renders the human-readable representation of an answer: German
// number and date formatting, "Ja"/"Nein" booleans, option labels.
func Display(in *form.Input, raw any) string {
	switch in.Kind {
	case form.FieldText:
		return displayText(raw)
	case form.FieldNumber:
		return displayNumber(in, raw)
	case form.FieldDate:
		return displayDate(raw)
	case form.FieldTime:
		return displayTime(raw)
	case form.FieldCheckbox:
		return displayCheckbox(raw)
	case form.FieldRadio, form.FieldSelect:
		return displayChoice(in, raw)
	case form.FieldMultiCheckbox:
		return displayMultiChoice(in, raw)
	case form.FieldFileUpload:
		return displayFiles(raw)
	case form.FieldTable:
		return displayTable(in, raw)
	}
	return ""
}

// Evaluate decides a condition operator between the referenced element's
// current value and the compared literal, using the referenced element's
// field-type semantics. Unsupported operator/kind combinations are false.
// now anchors the relative date operators.
func Evaluate(in *form.Input, op form.Operator, referenced, compared any, now time.Time) bool {
	if isAbsent(referenced) {
		return evaluateAbsent(op, compared)
	}
	switch in.Kind {
	case form.FieldText:
		return evaluateText(op, referenced, compared)
	case form.FieldNumber:
		return evaluateNumber(op, referenced, compared)
	case form.FieldDate:
		return evaluateDate(op, referenced, compared, now)
	case form.FieldTime:
		return evaluateTime(op, referenced, compared)
	case form.FieldCheckbox:
		return evaluateCheckbox(op, referenced, compared)
	case form.FieldRadio, form.FieldSelect:
		return evaluateChoice(op, referenced, compared)
	case form.FieldMultiCheckbox:
		return evaluateMultiChoice(op, referenced, compared)
	case form.FieldFileUpload:
		return evaluateCollection(op, len(coerceFiles(referenced)), compared)
	case form.FieldTable:
		return evaluateCollection(op, len(coerceRows(referenced)), compared)
	}
	return false
}

// evaluateAbsent short-circuits a nil referenced value to type-independent
// defaults. NotEmpty deliberately ignores the referenced/compared relation
// and is true whenever any non-nil compared value exists; this mirrors
// long-standing platform behavior and is intentionally not "fixed" here.
func evaluateAbsent(op form.Operator, compared any) bool {
	switch op {
	case form.OpEquals, form.OpEqualsIgnoreCase:
		return isAbsent(compared)
	case form.OpNotEquals, form.OpNotEqualsIgnoreCase:
		return !isAbsent(compared)
	case form.OpEmpty, form.OpNotIncludes:
		return true
	case form.OpNotEmpty:
		return compared != nil
	}
	return false
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
