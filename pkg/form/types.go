package form

import (
	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// FieldKind enumerates the closed set of input element kinds. Adding a kind
// requires extending the fields catalog, which dispatches exhaustively on this
// tag.
type FieldKind string

const (
	FieldText          FieldKind = "text"
	FieldNumber        FieldKind = "number"
	FieldDate          FieldKind = "date"
	FieldTime          FieldKind = "time"
	FieldCheckbox      FieldKind = "checkbox"
	FieldRadio         FieldKind = "radio"
	FieldSelect        FieldKind = "select"
	FieldMultiCheckbox FieldKind = "multiCheckbox"
	FieldFileUpload    FieldKind = "fileUpload"
	FieldTable         FieldKind = "table"
)

// StepRole distinguishes the fixed steps every form carries from the
// author-defined middle steps.
type StepRole string

const (
	StepIntroduction StepRole = "introduction"
	StepForm         StepRole = "form"
	StepSummary      StepRole = "summary"
	StepSubmit       StepRole = "submit"
)

// Well-known element ids the error pass inspects independently of field
// types. Form definitions that opt into consent, identity, or verification
// checks place inputs under these ids.
const (
	IDPrivacyConsent    = "privacyConsent"
	IDIdentityData      = "identityData"
	IDSummaryConfirm    = "summaryConfirm"
	IDVerificationToken = "verificationToken"
)

// Answers is the flat customer-input mapping keyed by resolved element id.
// Absent keys mean "no answer".
type Answers map[string]any

// Clone returns a shallow copy suitable as a working values map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Node is implemented by every element in the tree.
type Node interface {
	// Base exposes the shared element attributes.
	Base() *Element
	// Children returns the ordered child nodes, nil for leaves.
	Children() []Node
}

// Element carries the attributes shared by every node. Ids are unique across
// the whole tree; replicated sub-trees are disambiguated with an id prefix at
// evaluation time, never by rewriting the element id itself.
type Element struct {
	ID string `json:"id" yaml:"id"`
	// Weight orders siblings during decode; equal weights keep their
	// serialized order.
	Weight int `json:"weight,omitempty" yaml:"weight,omitempty"`
	Required   bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Visibility *Condition        `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Override   *Override         `json:"override,omitempty" yaml:"override,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Base returns the element itself so embedding types satisfy Node.
func (e *Element) Base() *Element { return e }

// VisibilityRefs lists the element ids this element's visibility condition
// reads. Empty when the element has no condition.
func (e *Element) VisibilityRefs() []string {
	if e.Visibility == nil {
		return nil
	}
	return e.Visibility.ReferenceIDs()
}

// OverrideRefs lists the element ids the override condition reads.
func (e *Element) OverrideRefs() []string {
	if e.Override == nil {
		return nil
	}
	return e.Override.ReferenceIDs()
}

// Root owns the fixed step frame: an introduction, the author-defined steps,
// a summary, and the submit step. The tree is immutable during evaluation and
// may be shared across concurrent evaluations.
type Root struct {
	Element
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Introduction *Step  `json:"introduction,omitempty" yaml:"introduction,omitempty"`
	Steps        []*Step `json:"steps" yaml:"steps"`
	Summary      *Step  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Submit       *Step  `json:"submit,omitempty" yaml:"submit,omitempty"`

	// RequiresIdentity demands a non-empty structured identity assertion at
	// submission time.
	RequiresIdentity bool `json:"requiresIdentity,omitempty" yaml:"requiresIdentity,omitempty"`
	// RequiresVerification demands a parseable, unexpired human-verification
	// token at submission time.
	RequiresVerification bool `json:"requiresVerification,omitempty" yaml:"requiresVerification,omitempty"`
}

// Children returns the steps in fixed order: introduction, form steps,
// summary, submit. Nil steps are skipped.
func (r *Root) Children() []Node {
	out := make([]Node, 0, len(r.Steps)+3)
	if r.Introduction != nil {
		out = append(out, r.Introduction)
	}
	for _, s := range r.Steps {
		out = append(out, s)
	}
	if r.Summary != nil {
		out = append(out, r.Summary)
	}
	if r.Submit != nil {
		out = append(out, r.Submit)
	}
	return out
}

// AllSteps returns every step in walk order.
func (r *Root) AllSteps() []*Step {
	out := make([]*Step, 0, len(r.Steps)+3)
	if r.Introduction != nil {
		out = append(out, r.Introduction)
	}
	out = append(out, r.Steps...)
	if r.Summary != nil {
		out = append(out, r.Summary)
	}
	if r.Submit != nil {
		out = append(out, r.Submit)
	}
	return out
}

// Step groups elements shown on one wizard page.
type Step struct {
	Element
	Role     StepRole `json:"role,omitempty" yaml:"role,omitempty"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []Node   `json:"-" yaml:"-"`
}

func (s *Step) Children() []Node { return s.Elements }

// Group is a plain layout container.
type Group struct {
	Element
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []Node `json:"-" yaml:"-"`
}

func (g *Group) Children() []Node { return g.Elements }

// Option is a radio/select/multi-checkbox choice. Definitions may declare
// options as bare strings, in which case Value doubles as Label.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel returns the label, falling back to the value.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// UnmarshalJSON accepts both the `{value, label}` object form and the legacy
// bare-string form.
func (o *Option) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var bare string
		if err := gojson.Unmarshal(data, &bare); err != nil {
			return err
		}
		*o = Option{Value: bare}
		return nil
	}
	type plain Option
	var decoded plain
	if err := gojson.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = Option(decoded)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML definitions.
func (o *Option) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*o = Option{Value: value.Value}
		return nil
	}
	type plain Option
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return err
	}
	*o = Option(decoded)
	return nil
}

// TextSpec bounds a text input.
type TextSpec struct {
	MinLength int    `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// PatternMessage overrides the generic pattern-mismatch message.
	PatternMessage string `json:"patternMessage,omitempty" yaml:"patternMessage,omitempty"`
	Multiline      bool   `json:"multiline,omitempty" yaml:"multiline,omitempty"`
}

// NumberSpec bounds a numeric input. Min/Max are pointers so zero remains a
// usable bound.
type NumberSpec struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	// Decimals limits the displayed fraction digits.
	Decimals int `json:"decimals,omitempty" yaml:"decimals,omitempty"`
}

// DateSpec bounds a date input.
type DateSpec struct {
	Min string `json:"min,omitempty" yaml:"min,omitempty"`
	Max string `json:"max,omitempty" yaml:"max,omitempty"`
}

// OptionsSpec declares the choice list for radio, select, and multi-checkbox
// inputs.
type OptionsSpec struct {
	Options []Option `json:"options" yaml:"options"`
	// MinimumRequiredOptions applies to multi-checkbox inputs only.
	MinimumRequiredOptions int `json:"minimumRequiredOptions,omitempty" yaml:"minimumRequiredOptions,omitempty"`
	MaximumAllowedOptions  int `json:"maximumAllowedOptions,omitempty" yaml:"maximumAllowedOptions,omitempty"`
}

// Contains reports whether value matches one of the declared options.
func (s *OptionsSpec) Contains(value string) bool {
	if s == nil {
		return false
	}
	for _, opt := range s.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// LabelFor resolves an option value to its label, returning the value itself
// when no option matches.
func (s *OptionsSpec) LabelFor(value string) string {
	if s == nil {
		return value
	}
	for _, opt := range s.Options {
		if opt.Value == value {
			return opt.DisplayLabel()
		}
	}
	return value
}

// FileSpec bounds a file-upload input. MaxFileSize is in bytes.
type FileSpec struct {
	Multifile   bool     `json:"multifile,omitempty" yaml:"multifile,omitempty"`
	MinFiles    int      `json:"minFiles,omitempty" yaml:"minFiles,omitempty"`
	MaxFiles    int      `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
	MaxFileSize int64    `json:"maxFileSize,omitempty" yaml:"maxFileSize,omitempty"`
	Extensions  []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// ColumnKind is the value type of a table column.
type ColumnKind string

const (
	ColumnString ColumnKind = "string"
	ColumnNumber ColumnKind = "number"
)

// TableColumn declares one column of a table input.
type TableColumn struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind     ColumnKind `json:"kind" yaml:"kind"`
	Required bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Min      *float64   `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64   `json:"max,omitempty" yaml:"max,omitempty"`
}

// TableSpec bounds a table input.
type TableSpec struct {
	Columns []TableColumn `json:"columns" yaml:"columns"`
	MinRows int           `json:"minRows,omitempty" yaml:"minRows,omitempty"`
	MaxRows int           `json:"maxRows,omitempty" yaml:"maxRows,omitempty"`
}

// Input is a leaf element collecting a customer answer. Exactly one of the
// per-kind spec pointers matching Kind is populated; the others stay nil.
type Input struct {
	Element
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// Formula recomputes the value via the injected expression evaluator
	// during the value pass.
	Formula string `json:"formula,omitempty" yaml:"formula,omitempty"`
	// FormulaRefs declares the element ids the formula reads.
	FormulaRefs []string `json:"formulaRefs,omitempty" yaml:"formulaRefs,omitempty"`

	Text    *TextSpec    `json:"text,omitempty" yaml:"text,omitempty"`
	Number  *NumberSpec  `json:"number,omitempty" yaml:"number,omitempty"`
	Date    *DateSpec    `json:"date,omitempty" yaml:"date,omitempty"`
	Options *OptionsSpec `json:"options,omitempty" yaml:"options,omitempty"`
	File    *FileSpec    `json:"file,omitempty" yaml:"file,omitempty"`
	Table   *TableSpec   `json:"table,omitempty" yaml:"table,omitempty"`
}

func (in *Input) Children() []Node { return nil }

// DisplayLabel returns the label, falling back to the element id.
func (in *Input) DisplayLabel() string {
	if in.Label != "" {
		return in.Label
	}
	return in.ID
}

// FileItem is one uploaded file as it appears in customer input.
type FileItem struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	// StorageKey points at the stored blob; opaque to this engine.
	StorageKey string `json:"storageKey,omitempty"`
}
