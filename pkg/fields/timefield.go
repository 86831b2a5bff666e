package fields

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// coerceTime normalizes a clock answer to "HH:MM". Accepts "H:MM", "HH:MM",
// and "HH:MM:SS" (seconds dropped).
func coerceTime(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return nil
}

func timeMinutes(raw any) (int, bool) {
	s, ok := coerceTime(raw).(string)
	if !ok {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func validateTime(in *form.Input, resolvedID string, raw any) *Issue {
	if isAbsent(raw) {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Dieses Feld ist ein Pflichtfeld.")
		}
		return nil
	}
	if _, ok := coerceTime(raw).(string); !ok {
		return issue(resolvedID, CodeInvalidTime, "Bitte eine gültige Uhrzeit eingeben.")
	}
	return nil
}

func displayTime(raw any) string {
	s, ok := coerceTime(raw).(string)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s Uhr", s)
}

func evaluateTime(op form.Operator, referenced, compared any) bool {
	ref, ok := timeMinutes(referenced)
	if !ok {
		return false
	}

	switch op {
	case form.OpEmpty:
		return false
	case form.OpNotEmpty:
		return true
	}

	cmp, ok := timeMinutes(compared)
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
