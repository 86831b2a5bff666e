package formflow

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/derive"
	"github.com/goliatone/go-formflow/pkg/expr/exprhcl"
	"github.com/goliatone/go-formflow/pkg/form"
)

// Root aliases the element tree root for callers that only touch the top
// level.
type Root = form.Root

// Answers is the flat customer-input map keyed by resolved element id.
type Answers = form.Answers

// Result is the read-back of one evaluation.
type Result = derive.Result

// ScopeConfig selects which steps each derivation pass covers.
type ScopeConfig = derive.ScopeConfig

// Option configures the deriver built by the convenience entry points.
type Option = derive.Option

// WithTokenVerifier forwards the verification-token option from the top-level
// module.
var WithTokenVerifier = derive.WithTokenVerifier

// WithLogger forwards the logger option.
var WithLogger = derive.WithLogger

// WithClock forwards the clock option.
var WithClock = derive.WithClock

// NewDeriver exposes the deriver constructor with the HCL expression
// evaluator pre-wired; pass derive options to customise further.
func NewDeriver(options ...derive.Option) *derive.Deriver {
	base := []derive.Option{derive.WithExpressionEvaluator(exprhcl.New())}
	return derive.New(append(base, options...)...)
}

// Evaluate runs a full-scope derivation over a definition, the configuration
// a submission check uses. It is the simplest entry point for callers that
// just want errors and values.
func Evaluate(root *form.Root, answers form.Answers, options ...derive.Option) (derive.Result, error) {
	return NewDeriver(options...).Derive(derive.FullValidation(), root, answers)
}

// EvaluateStep recomputes visibility, overrides, and values for one step
// while the customer is editing it; error derivation stays off.
func EvaluateStep(root *form.Root, stepID string, answers form.Answers, options ...derive.Option) (derive.Result, error) {
	return NewDeriver(options...).Derive(derive.StepRecomputation(stepID), root, answers)
}

// LoadDefinition decodes a serialized form definition, sniffing JSON versus
// YAML from the payload.
func LoadDefinition(data []byte) (*form.Root, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return form.DecodeJSON(data)
	}
	return form.DecodeYAML(data)
}

// CheckDefinition reports authoring-time structural problems: duplicate
// element ids and condition references to ids that do not exist. Evaluation
// itself stays permissive; these checks belong at save time.
func CheckDefinition(root *form.Root) error {
	if dupes := form.DuplicateIDs(root); len(dupes) > 0 {
		return fmt.Errorf("formflow: duplicate element ids: %v", dupes)
	}
	index := form.BuildIndex(root)
	var unknown []string
	var walk func(node form.Node)
	walk = func(node form.Node) {
		base := node.Base()
		refs := append(base.VisibilityRefs(), base.OverrideRefs()...)
		if in, ok := node.(*form.Input); ok {
			refs = append(refs, in.FormulaRefs...)
		}
		for _, ref := range refs {
			if _, ok := index[ref]; !ok {
				unknown = append(unknown, base.ID+" -> "+ref)
			}
		}
		for _, child := range node.Children() {
			walk(child)
		}
	}
	walk(root)
	if len(unknown) > 0 {
		return fmt.Errorf("formflow: references to unknown element ids: %v", unknown)
	}
	return nil
}
