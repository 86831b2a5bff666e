// Package pdfrow flattens a derived form into the label/value rows the
// platform's PDF and summary renderers consume. It produces presentation
// data only; actual rendering happens elsewhere.
package pdfrow

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/derive"
	"github.com/goliatone/go-formflow/pkg/fields"
	"github.com/goliatone/go-formflow/pkg/form"
)

// Row is one rendered answer.
type Row struct {
	ElementID string `json:"elementId"`
	Label     string `json:"label"`
	Value     string `json:"value"`
}

// Section groups the rows of one wizard step.
type Section struct {
	StepID string `json:"stepId"`
	Title  string `json:"title,omitempty"`
	Rows   []Row  `json:"rows,omitempty"`
}

// Option customises a Builder.
type Option func(*Builder)

// WithEmptyRows keeps rows whose value rendered empty; by default they are
// dropped.
func WithEmptyRows() Option {
	return func(b *Builder) { b.keepEmpty = true }
}

// Builder turns a derivation result into sections of rows. Authored labels
// may carry HTML from the form designer; the builder strips it before the
// text reaches a PDF cell.
type Builder struct {
	sanitizer *bluemonday.Policy
	keepEmpty bool
}

// NewBuilder constructs a Builder with a strict sanitizer.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{sanitizer: bluemonday.StrictPolicy()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Sections renders every visible input of the author-defined steps, walking
// replicated sub-trees per instance.
func (b *Builder) Sections(root *form.Root, result derive.Result) []Section {
	if root == nil {
		return nil
	}
	out := make([]Section, 0, len(root.Steps))
	for _, step := range root.Steps {
		if !visible(result, step.ID) {
			continue
		}
		section := Section{
			StepID: step.ID,
			Title:  b.clean(step.Title),
		}
		for _, child := range step.Elements {
			section.Rows = append(section.Rows, b.rows(child, "", result)...)
		}
		if len(section.Rows) > 0 {
			out = append(out, section)
		}
	}
	return out
}

func (b *Builder) rows(node form.Node, prefix string, result derive.Result) []Row {
	resolvedID := form.ResolvedID(prefix, node.Base().ID)
	if !visible(result, resolvedID) {
		return nil
	}

	switch typed := node.(type) {
	case *form.Input:
		value := fields.Display(typed, result.Values[resolvedID])
		if value == "" && !b.keepEmpty {
			return nil
		}
		return []Row{{
			ElementID: resolvedID,
			Label:     b.clean(typed.DisplayLabel()),
			Value:     value,
		}}
	case *form.Replicator:
		var out []Row
		for _, instanceID := range typed.InstanceIDs {
			replicaPrefix := prefix + typed.InstancePrefix(instanceID)
			for _, child := range typed.Template {
				out = append(out, b.rows(child, replicaPrefix, result)...)
			}
		}
		return out
	default:
		var out []Row
		for _, child := range node.Children() {
			out = append(out, b.rows(child, prefix, result)...)
		}
		return out
	}
}

// clean strips authored HTML and collapses the whitespace that stripping
// leaves behind.
func (b *Builder) clean(raw string) string {
	stripped := b.sanitizer.Sanitize(raw)
	return strings.Join(strings.Fields(stripped), " ")
}

func visible(result derive.Result, resolvedID string) bool {
	v, ok := result.Visibility[resolvedID]
	if !ok {
		return true
	}
	return v
}
