package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formflow/pkg/form"
)

func coerceText(raw any) any {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64, int, int64:
		return fmt.Sprint(v)
	}
	return nil
}

func validateText(in *form.Input, resolvedID string, raw any) *Issue {
	value, _ := coerceText(raw).(string)
	if strings.TrimSpace(value) == "" {
		if in.Required {
			return issue(resolvedID, CodeRequired, "Dieses Feld ist ein Pflichtfeld.")
		}
		return nil
	}

	spec := in.Text
	if spec == nil {
		return nil
	}
	length := len([]rune(value))
	if spec.MinLength > 0 && length < spec.MinLength {
		return issueWith(resolvedID, CodeTooShort,
			fmt.Sprintf("Bitte mindestens %d Zeichen eingeben.", spec.MinLength),
			map[string]any{"min": spec.MinLength, "got": length})
	}
	if spec.MaxLength > 0 && length > spec.MaxLength {
		return issueWith(resolvedID, CodeTooLong,
			fmt.Sprintf("Bitte höchstens %d Zeichen eingeben.", spec.MaxLength),
			map[string]any{"max": spec.MaxLength, "got": length})
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			// A malformed authored pattern is surfaced as a validation
			// issue instead of crashing the evaluation.
			return issueWith(resolvedID, CodeBadPattern,
				"Die Eingabe kann nicht geprüft werden (ungültiges Muster).",
				map[string]any{"pattern": spec.Pattern})
		}
		if !re.MatchString(value) {
			msg := spec.PatternMessage
			if msg == "" {
				msg = "Die Eingabe entspricht nicht dem geforderten Format."
			}
			return issueWith(resolvedID, CodePattern, msg,
				map[string]any{"pattern": spec.Pattern})
		}
	}
	return nil
}

func displayText(raw any) string {
	value, _ := coerceText(raw).(string)
	return value
}

func evaluateText(op form.Operator, referenced, compared any) bool {
	ref, ok := coerceText(referenced).(string)
	if !ok {
		return false
	}
	cmp, _ := coerceText(compared).(string)

	switch op {
	case form.OpEquals:
		return ref == cmp
	case form.OpNotEquals:
		return ref != cmp
	case form.OpEqualsIgnoreCase:
		return strings.EqualFold(ref, cmp)
	case form.OpNotEqualsIgnoreCase:
		return !strings.EqualFold(ref, cmp)
	case form.OpLessThan:
		return ref < cmp
	case form.OpLessThanOrEqual:
		return ref <= cmp
	case form.OpGreaterThan:
		return ref > cmp
	case form.OpGreaterThanOrEqual:
		return ref >= cmp
	case form.OpIncludes:
		return strings.Contains(ref, cmp)
	case form.OpNotIncludes:
		return !strings.Contains(ref, cmp)
	case form.OpStartsWith:
		return strings.HasPrefix(ref, cmp)
	case form.OpNotStartsWith:
		return !strings.HasPrefix(ref, cmp)
	case form.OpEndsWith:
		return strings.HasSuffix(ref, cmp)
	case form.OpNotEndsWith:
		return !strings.HasSuffix(ref, cmp)
	case form.OpMatchesPattern:
		return matchFull(cmp, ref)
	case form.OpNotMatchesPattern:
		return !matchFull(cmp, ref)
	case form.OpIncludesPattern:
		return matchPartial(cmp, ref)
	case form.OpNotIncludesPattern:
		return !matchPartial(cmp, ref)
	case form.OpEmpty:
		return strings.TrimSpace(ref) == ""
	case form.OpNotEmpty:
		return strings.TrimSpace(ref) != ""
	}
	return false
}

// matchFull anchors the pattern to the whole string. A malformed pattern
// evaluates to false rather than erroring.
func matchFull(pattern, value string) bool {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

func matchPartial(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
