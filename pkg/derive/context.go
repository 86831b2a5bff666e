package derive

import (
	"time"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Context accumulates the derived facts of one evaluation: the customer
// input snapshot, the working values (input plus overrides and derived
// values), visibility flags, and errors. A Context belongs to exactly one
// Derive call and is discarded afterwards; it is never shared across
// concurrent evaluations.
type Context struct {
	answers form.Answers
	values  form.Answers
	visible map[string]bool
	errors  map[string]string
	now     time.Time
}

func newContext(answers form.Answers, now time.Time) *Context {
	return &Context{
		answers: answers,
		values:  answers.Clone(),
		visible: make(map[string]bool),
		errors:  make(map[string]string),
		now:     now,
	}
}

// Value returns the current working value for a resolved element id.
// Overrides and derived values written by earlier passes shadow the raw
// customer input.
func (c *Context) Value(resolvedID string) any {
	return c.values[resolvedID]
}

// Answer returns the raw customer input, unaffected by overrides.
func (c *Context) Answer(resolvedID string) any {
	return c.answers[resolvedID]
}

// Visible reports the derived visibility flag; elements never derived
// default to visible.
func (c *Context) Visible(resolvedID string) bool {
	v, ok := c.visible[resolvedID]
	if !ok {
		return true
	}
	return v
}

func (c *Context) setValue(resolvedID string, value any) {
	c.values[resolvedID] = value
}

func (c *Context) setVisible(resolvedID string, visible bool) {
	c.visible[resolvedID] = visible
}

// addError records the first error per element; later passes never
// overwrite an existing message.
func (c *Context) addError(resolvedID, message string) {
	if _, exists := c.errors[resolvedID]; exists {
		return
	}
	c.errors[resolvedID] = message
}

// snapshot exposes the working values to the expression evaluator.
func (c *Context) snapshot() map[string]any {
	return map[string]any(c.values)
}
