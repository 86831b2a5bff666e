package form

// Operator is a condition comparison between a referenced element's current
// value and a literal. Each field kind implements only the subset meaningful
// to its value type; unsupported combinations evaluate to false.
type Operator string

const (
	OpEquals              Operator = "equals"
	OpNotEquals           Operator = "notEquals"
	OpEqualsIgnoreCase    Operator = "equalsIgnoreCase"
	OpNotEqualsIgnoreCase Operator = "notEqualsIgnoreCase"
	OpLessThan            Operator = "lessThan"
	OpLessThanOrEqual     Operator = "lessThanOrEqual"
	OpGreaterThan         Operator = "greaterThan"
	OpGreaterThanOrEqual  Operator = "greaterThanOrEqual"
	OpIncludes            Operator = "includes"
	OpNotIncludes         Operator = "notIncludes"
	OpStartsWith          Operator = "startsWith"
	OpNotStartsWith       Operator = "notStartsWith"
	OpEndsWith            Operator = "endsWith"
	OpNotEndsWith         Operator = "notEndsWith"
	OpMatchesPattern      Operator = "matchesPattern"
	OpNotMatchesPattern   Operator = "notMatchesPattern"
	OpIncludesPattern     Operator = "includesPattern"
	OpNotIncludesPattern  Operator = "notIncludesPattern"
	OpEmpty               Operator = "empty"
	OpNotEmpty            Operator = "notEmpty"

	// Relative date operators compare against "now" shifted by an integer
	// offset parsed from the compared operand, boundary day inclusive.
	OpYearsInPast    Operator = "yearsInPast"
	OpMonthsInPast   Operator = "monthsInPast"
	OpDaysInPast     Operator = "daysInPast"
	OpYearsInFuture  Operator = "yearsInFuture"
	OpMonthsInFuture Operator = "monthsInFuture"
	OpDaysInFuture   Operator = "daysInFuture"
)

// Condition gates an element's visibility or override. Either RefID/Operator/
// Value describe a declared comparison against another element, or Script
// holds an expression for the injected evaluator. When both are present the
// declared comparison wins.
type Condition struct {
	RefID    string   `json:"refId,omitempty" yaml:"refId,omitempty"`
	Operator Operator `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`

	Script string `json:"script,omitempty" yaml:"script,omitempty"`
	// ScriptRefs declares the element ids the script reads; scripts are
	// opaque, so the author states the dependency explicitly.
	ScriptRefs []string `json:"scriptRefs,omitempty" yaml:"scriptRefs,omitempty"`
}

// ReferenceIDs lists the element ids the condition reads.
func (c *Condition) ReferenceIDs() []string {
	if c == nil {
		return nil
	}
	var out []string
	if c.RefID != "" {
		out = append(out, c.RefID)
	}
	out = append(out, c.ScriptRefs...)
	return out
}

// Override recomputes an element's value via the expression evaluator when
// its gate passes. A nil gate means the override always applies while its
// step is derived.
type Override struct {
	When       *Condition `json:"when,omitempty" yaml:"when,omitempty"`
	Expression string     `json:"expression,omitempty" yaml:"expression,omitempty"`
	// ExpressionRefs declares the element ids the expression reads.
	ExpressionRefs []string `json:"expressionRefs,omitempty" yaml:"expressionRefs,omitempty"`
}

// ReferenceIDs lists the element ids the override reads.
func (o *Override) ReferenceIDs() []string {
	if o == nil {
		return nil
	}
	var out []string
	out = append(out, o.When.ReferenceIDs()...)
	out = append(out, o.ExpressionRefs...)
	return out
}
