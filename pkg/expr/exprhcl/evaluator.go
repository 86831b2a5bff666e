// Package exprhcl evaluates form expressions as HCL, binding the working
// values map into the evaluation context. Answer ids that are valid HCL
// identifiers are addressable directly (`age * 2`); every id, including
// replicated ones with dotted prefixes, is reachable through the `values`
// object (`values["applicants.a1.name"]`).
package exprhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Evaluator implements expr.Evaluator over hclsyntax expressions.
type Evaluator struct{}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Evaluate parses and evaluates one expression against the context snapshot.
func (e *Evaluator) Evaluate(expression string, context map[string]any) (any, error) {
	parsed, diags := hclsyntax.ParseExpression([]byte(expression), "expression.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("exprhcl: parse expression: %s", diags.Error())
	}

	value, diags := parsed.Value(evalContext(context))
	if diags.HasErrors() {
		return nil, fmt.Errorf("exprhcl: evaluate expression: %s", diags.Error())
	}
	return fromCty(value), nil
}

func evalContext(context map[string]any) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(context)+1)
	values := make(map[string]cty.Value, len(context))
	for key, raw := range context {
		value := toCty(raw)
		values[key] = value
		if hclsyntax.ValidIdentifier(key) {
			vars[key] = value
		}
	}
	if len(values) > 0 {
		vars["values"] = cty.ObjectVal(values)
	} else {
		vars["values"] = cty.EmptyObjectVal
	}
	return &hcl.EvalContext{Variables: vars}
}

func toCty(raw any) cty.Value {
	switch v := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case string:
		return cty.StringVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case []string:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		items := make([]cty.Value, 0, len(v))
		for _, entry := range v {
			items = append(items, cty.StringVal(entry))
		}
		return cty.TupleVal(items)
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		items := make([]cty.Value, 0, len(v))
		for _, entry := range v {
			items = append(items, toCty(entry))
		}
		return cty.TupleVal(items)
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, len(v))
		for key, entry := range v {
			attrs[key] = toCty(entry)
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.StringVal(fmt.Sprint(v))
	}
}

func fromCty(value cty.Value) any {
	if value.IsNull() || !value.IsKnown() {
		return nil
	}
	t := value.Type()
	switch {
	case t == cty.Bool:
		return value.True()
	case t == cty.String:
		return value.AsString()
	case t == cty.Number:
		f, _ := value.AsBigFloat().Float64()
		return f
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var out []any
		for it := value.ElementIterator(); it.Next(); {
			_, element := it.Element()
			out = append(out, fromCty(element))
		}
		return out
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any)
		for it := value.ElementIterator(); it.Next(); {
			key, element := it.Element()
			out[key.AsString()] = fromCty(element)
		}
		return out
	default:
		return nil
	}
}
