// Package derive computes the four derived facts of a form evaluation —
// visibility, validation errors, overridden values, computed values — by
// walking the element tree in four fixed passes. Evaluation is synchronous
// and single-threaded; the element tree is read-only and may be shared, the
// Context never is.
package derive

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/expr"
	"github.com/goliatone/go-formflow/pkg/fields"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/verify"
)

// Option customises a Deriver.
type Option func(*Deriver)

// WithExpressionEvaluator injects the evaluator used for scripted
// conditions, overrides, and value formulas.
func WithExpressionEvaluator(evaluator expr.Evaluator) Option {
	return func(d *Deriver) { d.evaluator = evaluator }
}

// WithTokenVerifier injects the human-verification token check used by the
// error pass on forms that require verification.
func WithTokenVerifier(verifier verify.TokenVerifier) Option {
	return func(d *Deriver) { d.verifier = verifier }
}

// WithLogger overrides the logger; the default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the time source relative date operators and token
// expiry checks observe.
func WithClock(now func() time.Time) Option {
	return func(d *Deriver) {
		if now != nil {
			d.now = now
		}
	}
}

// Deriver runs derivation passes over an element tree. A Deriver is
// stateless between calls and safe for concurrent use.
type Deriver struct {
	evaluator expr.Evaluator
	verifier  verify.TokenVerifier
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs a Deriver applying the provided options.
func New(options ...Option) *Deriver {
	d := &Deriver{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	return d
}

// Result is the read-back of one evaluation, keyed by resolved element id.
type Result struct {
	// Errors maps element ids to user-facing validation messages. A
	// submission is rejected iff this map is non-empty after a full-scope
	// error pass.
	Errors map[string]string
	// Visibility holds the flags the visibility pass derived; elements
	// outside the pass scope are absent.
	Visibility map[string]bool
	// Values is the working values map: customer input with overrides and
	// derived values merged in.
	Values map[string]any
	// Issues carries the structured form of Errors for callers that need
	// stable codes instead of message text.
	Issues []fields.Issue
}

// Derive runs the passes in the fixed order visibility, errors, overrides,
// values, each over its configured scope, and returns the accumulated
// context. Validation failures land in Result.Errors; only expression
// evaluator failures and structurally impossible references return an
// error.
func (d *Deriver) Derive(cfg ScopeConfig, root *form.Root, answers form.Answers) (Result, error) {
	if root == nil {
		return Result{}, errors.New("derive: element tree root is required")
	}
	if answers == nil {
		answers = form.Answers{}
	}

	ctx := newContext(answers, d.now())
	index := form.BuildIndex(root)

	d.logger.Debug("derive: starting evaluation",
		slog.Int("answers", len(answers)),
		slog.Bool("fullErrors", cfg.Errors.All()))

	if err := d.visibilityPass(ctx, cfg.Visibility, root, index); err != nil {
		return Result{}, fmt.Errorf("derive: visibility pass: %w", err)
	}
	issues, err := d.errorPass(ctx, cfg.Errors, root, index)
	if err != nil {
		return Result{}, fmt.Errorf("derive: error pass: %w", err)
	}
	if err := d.overridePass(ctx, cfg.Overrides, root, index); err != nil {
		return Result{}, fmt.Errorf("derive: override pass: %w", err)
	}
	if err := d.valuePass(ctx, cfg.Values, root); err != nil {
		return Result{}, fmt.Errorf("derive: value pass: %w", err)
	}

	return Result{
		Errors:     ctx.errors,
		Visibility: ctx.visible,
		Values:     ctx.values,
		Issues:     issues,
	}, nil
}

// walkState carries the replication context of the current sub-tree walk.
type walkState struct {
	prefix   string
	localIDs map[string]struct{}
}

func (w walkState) resolve(id string) string {
	return form.ResolvedID(w.prefix, id)
}

// resolveRef resolves a condition reference: ids local to the current
// replica resolve inside it, everything else resolves globally.
func (w walkState) resolveRef(refID string) string {
	if _, ok := w.localIDs[refID]; ok {
		return form.ResolvedID(w.prefix, refID)
	}
	return refID
}

func (w walkState) enterReplica(repl *form.Replicator, instanceID string) walkState {
	local := collectIDs(repl.Template)
	for id := range w.localIDs {
		local[id] = struct{}{}
	}
	return walkState{
		prefix:   w.prefix + repl.InstancePrefix(instanceID),
		localIDs: local,
	}
}

func collectIDs(nodes []form.Node) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(form.Node)
	walk = func(n form.Node) {
		if n == nil {
			return
		}
		if id := n.Base().ID; id != "" {
			out[id] = struct{}{}
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

// stepGate applies the scope rule shared by the passes. Forced steps derive
// their own facts regardless of scope but suppress their children. What
// forces a step differs per pass: declared visibility references for the
// visibility and error passes, the mere presence of an override for the
// override pass.
func stepGate(scope Scope, stepID string, forced bool) (derive, skipChildren bool) {
	if scope.Contains(stepID) {
		return true, false
	}
	if forced {
		return true, true
	}
	return false, false
}

// evalCondition decides a declared or scripted condition against the
// current working values. Unknown reference ids are rejected here, lazily,
// as derivation-fatal errors.
func (d *Deriver) evalCondition(ctx *Context, cond *form.Condition, w walkState, index form.Index) (bool, error) {
	if cond == nil {
		return true, nil
	}
	if cond.RefID != "" {
		node, ok := index[cond.RefID]
		if !ok {
			return false, fmt.Errorf("condition references unknown element %q", cond.RefID)
		}
		refInput, ok := node.(*form.Input)
		if !ok {
			return false, fmt.Errorf("condition references non-input element %q", cond.RefID)
		}
		referenced := ctx.Value(w.resolveRef(cond.RefID))
		return fields.Evaluate(refInput, cond.Operator, referenced, cond.Value, ctx.now), nil
	}
	if cond.Script != "" {
		if d.evaluator == nil {
			return false, errors.New("no expression evaluator configured")
		}
		out, err := d.evaluator.Evaluate(cond.Script, ctx.snapshot())
		if err != nil {
			return false, err
		}
		return truthy(out), nil
	}
	return true, nil
}

// --- visibility pass ---

func (d *Deriver) visibilityPass(ctx *Context, scope Scope, root *form.Root, index form.Index) error {
	if scope.None() {
		return nil
	}
	w := walkState{}
	for _, step := range root.AllSteps() {
		derive, skipChildren := stepGate(scope, step.ID, len(step.VisibilityRefs()) > 0)
		if !derive {
			continue
		}
		visible, err := d.evalCondition(ctx, step.Visibility, w, index)
		if err != nil {
			return err
		}
		ctx.setVisible(step.ID, visible)
		if skipChildren {
			continue
		}
		for _, child := range step.Elements {
			if err := d.deriveVisibility(ctx, child, w, index, visible); err != nil {
				return err
			}
		}
	}
	return nil
}

// deriveVisibility sets an element's flag to the AND of its parent's
// visibility and its own condition, then recurses.
func (d *Deriver) deriveVisibility(ctx *Context, node form.Node, w walkState, index form.Index, parentVisible bool) error {
	base := node.Base()
	visible := parentVisible
	if visible && base.Visibility != nil {
		own, err := d.evalCondition(ctx, base.Visibility, w, index)
		if err != nil {
			return err
		}
		visible = own
	}
	ctx.setVisible(w.resolve(base.ID), visible)

	if repl, ok := node.(*form.Replicator); ok {
		for _, instanceID := range repl.InstanceIDs {
			rw := w.enterReplica(repl, instanceID)
			for _, child := range repl.Template {
				if err := d.deriveVisibility(ctx, child, rw, index, visible); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, child := range node.Children() {
		if err := d.deriveVisibility(ctx, child, w, index, visible); err != nil {
			return err
		}
	}
	return nil
}

// --- error pass ---

func (d *Deriver) errorPass(ctx *Context, scope Scope, root *form.Root, index form.Index) ([]fields.Issue, error) {
	if scope.None() {
		return nil, nil
	}
	var issues []fields.Issue
	w := walkState{}
	for _, step := range root.AllSteps() {
		derive, skipChildren := stepGate(scope, step.ID, len(step.VisibilityRefs()) > 0)
		if !derive {
			continue
		}
		stepIssues, err := d.crossCuttingChecks(ctx, root, step)
		if err != nil {
			return nil, err
		}
		issues = append(issues, stepIssues...)

		if skipChildren || !ctx.Visible(step.ID) {
			continue
		}
		for _, child := range step.Elements {
			childIssues := d.validateElement(ctx, child, w)
			issues = append(issues, childIssues...)
		}
	}
	for _, iss := range issues {
		ctx.addError(iss.ElementID, iss.Message)
	}
	return issues, nil
}

// crossCuttingChecks enforces the platform-level submission rules that are
// independent of field types: privacy consent, identity assertion, summary
// confirmation, and the human-verification token.
func (d *Deriver) crossCuttingChecks(ctx *Context, root *form.Root, step *form.Step) ([]fields.Issue, error) {
	var issues []fields.Issue
	stepIDs := collectIDs(step.Elements)

	switch step.Role {
	case form.StepIntroduction:
		if _, ok := stepIDs[form.IDPrivacyConsent]; ok && !fields.CheckboxChecked(ctx.Value(form.IDPrivacyConsent)) {
			issues = append(issues, fields.Issue{
				ElementID: form.IDPrivacyConsent,
				Code:      fields.CodeRequired,
				Message:   "Bitte stimmen Sie der Datenschutzerklärung zu.",
			})
		}
	case form.StepSummary:
		if _, ok := stepIDs[form.IDSummaryConfirm]; ok && !fields.CheckboxChecked(ctx.Value(form.IDSummaryConfirm)) {
			issues = append(issues, fields.Issue{
				ElementID: form.IDSummaryConfirm,
				Code:      fields.CodeRequired,
				Message:   "Bitte bestätigen Sie die Richtigkeit Ihrer Angaben.",
			})
		}
	case form.StepSubmit:
		if root.RequiresIdentity && !structuredValuePresent(ctx.Value(form.IDIdentityData)) {
			issues = append(issues, fields.Issue{
				ElementID: form.IDIdentityData,
				Code:      fields.CodeRequired,
				Message:   "Für dieses Formular ist ein Identitätsnachweis erforderlich.",
			})
		}
		if root.RequiresVerification {
			iss, err := d.verifyToken(ctx)
			if err != nil {
				return nil, err
			}
			if iss != nil {
				issues = append(issues, *iss)
			}
		}
	}
	return issues, nil
}

func (d *Deriver) verifyToken(ctx *Context) (*fields.Issue, error) {
	if d.verifier == nil {
		return nil, errors.New("form requires verification but no token verifier is configured")
	}
	token, _ := ctx.Value(form.IDVerificationToken).(string)
	err := d.verifier.Verify(token, ctx.now)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, verify.ErrTokenExpired):
		return &fields.Issue{
			ElementID: form.IDVerificationToken,
			Code:      fields.CodeRequired,
			Message:   "Die Sicherheitsprüfung ist abgelaufen. Bitte versuchen Sie es erneut.",
		}, nil
	default:
		return &fields.Issue{
			ElementID: form.IDVerificationToken,
			Code:      fields.CodeRequired,
			Message:   "Die Sicherheitsprüfung ist fehlgeschlagen. Bitte versuchen Sie es erneut.",
		}, nil
	}
}

// structuredValuePresent reports whether an identity assertion resolved to
// a non-empty structured value.
func structuredValuePresent(raw any) bool {
	switch v := raw.(type) {
	case map[string]any:
		return len(v) > 0
	case string:
		return strings.TrimSpace(v) != ""
	case nil:
		return false
	default:
		return true
	}
}

// validateElement merges field-level issues from every visible input below
// the node. Invisible elements are skipped wholesale.
func (d *Deriver) validateElement(ctx *Context, node form.Node, w walkState) []fields.Issue {
	base := node.Base()
	resolvedID := w.resolve(base.ID)
	if !ctx.Visible(resolvedID) {
		return nil
	}

	switch typed := node.(type) {
	case *form.Input:
		if iss := fields.Validate(typed, resolvedID, ctx.Value(resolvedID)); iss != nil {
			return []fields.Issue{*iss}
		}
		return nil
	case *form.Replicator:
		var issues []fields.Issue
		if typed.MinInstances > 0 && len(typed.InstanceIDs) < typed.MinInstances {
			issues = append(issues, fields.Issue{
				ElementID: resolvedID,
				Code:      fields.CodeTooFewRows,
				Message:   fmt.Sprintf("Bitte mindestens %d Einträge anlegen.", typed.MinInstances),
			})
		}
		if typed.MaxInstances > 0 && len(typed.InstanceIDs) > typed.MaxInstances {
			issues = append(issues, fields.Issue{
				ElementID: resolvedID,
				Code:      fields.CodeTooManyRows,
				Message:   fmt.Sprintf("Bitte höchstens %d Einträge anlegen.", typed.MaxInstances),
			})
		}
		for _, instanceID := range typed.InstanceIDs {
			rw := w.enterReplica(typed, instanceID)
			for _, child := range typed.Template {
				issues = append(issues, d.validateElement(ctx, child, rw)...)
			}
		}
		return issues
	default:
		var issues []fields.Issue
		for _, child := range node.Children() {
			issues = append(issues, d.validateElement(ctx, child, w)...)
		}
		return issues
	}
}

// --- override pass ---

func (d *Deriver) overridePass(ctx *Context, scope Scope, root *form.Root, index form.Index) error {
	if scope.None() {
		return nil
	}
	w := walkState{}
	for _, step := range root.AllSteps() {
		// Any override forces the step, even a constant expression with no
		// declared references.
		derive, skipChildren := stepGate(scope, step.ID, step.Override != nil)
		if !derive {
			continue
		}
		if err := d.applyOverride(ctx, &step.Element, w, index); err != nil {
			return err
		}
		if skipChildren {
			continue
		}
		for _, child := range step.Elements {
			if err := d.deriveOverrides(ctx, child, w, index); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Deriver) deriveOverrides(ctx *Context, node form.Node, w walkState, index form.Index) error {
	if err := d.applyOverride(ctx, node.Base(), w, index); err != nil {
		return err
	}
	if repl, ok := node.(*form.Replicator); ok {
		for _, instanceID := range repl.InstanceIDs {
			rw := w.enterReplica(repl, instanceID)
			for _, child := range repl.Template {
				if err := d.deriveOverrides(ctx, child, rw, index); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, child := range node.Children() {
		if err := d.deriveOverrides(ctx, child, w, index); err != nil {
			return err
		}
	}
	return nil
}

// applyOverride recomputes the element's value when its override gate
// passes. The write lands in the working values map, so later conditions
// and the value pass observe it.
func (d *Deriver) applyOverride(ctx *Context, base *form.Element, w walkState, index form.Index) error {
	if base.Override == nil {
		return nil
	}
	active, err := d.evalCondition(ctx, base.Override.When, w, index)
	if err != nil {
		return err
	}
	if !active {
		return nil
	}
	if d.evaluator == nil {
		return errors.New("override requires an expression evaluator")
	}
	out, err := d.evaluator.Evaluate(base.Override.Expression, ctx.snapshot())
	if err != nil {
		return err
	}
	ctx.setValue(w.resolve(base.ID), out)
	return nil
}

// --- value pass ---

func (d *Deriver) valuePass(ctx *Context, scope Scope, root *form.Root) error {
	if scope.None() {
		return nil
	}
	w := walkState{}
	for _, step := range root.AllSteps() {
		// No forcing escape hatch here: the value pass is scope-gated only.
		if !scope.Contains(step.ID) {
			continue
		}
		for _, child := range step.Elements {
			if err := d.deriveValues(ctx, child, w); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Deriver) deriveValues(ctx *Context, node form.Node, w walkState) error {
	if in, ok := node.(*form.Input); ok && in.Formula != "" {
		if d.evaluator == nil {
			return errors.New("value formula requires an expression evaluator")
		}
		out, err := d.evaluator.Evaluate(in.Formula, ctx.snapshot())
		if err != nil {
			return err
		}
		ctx.setValue(w.resolve(in.ID), out)
	}
	if repl, ok := node.(*form.Replicator); ok {
		for _, instanceID := range repl.InstanceIDs {
			rw := w.enterReplica(repl, instanceID)
			for _, child := range repl.Template {
				if err := d.deriveValues(ctx, child, rw); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, child := range node.Children() {
		if err := d.deriveValues(ctx, child, w); err != nil {
			return err
		}
	}
	return nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
