// Package expr defines the narrow expression-evaluation capability the
// derivation engine consumes. The engine never implements a scripting
// language itself; the host application supplies an Evaluator (for example
// the HCL-backed one in exprhcl) and the engine treats it as an opaque
// synchronous call.
package expr

// Evaluator computes a JSON-compatible value from an expression and the
// current working values. Implementations must be deterministic for a given
// context snapshot. A returned error aborts the whole derivation as a fatal
// error, never as a validation message.
type Evaluator interface {
	Evaluate(expression string, context map[string]any) (any, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(expression string, context map[string]any) (any, error)

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(expression string, context map[string]any) (any, error) {
	return fn(expression, context)
}
