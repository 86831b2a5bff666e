// Package openapi imports an OpenAPI operation's request schema as a form
// definition skeleton. Form designers use it to bootstrap a questionnaire
// from an existing API contract; the resulting tree is ordinary authoring
// input, not a finished form.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/form"
)

// Importer converts OpenAPI documents into element trees.
type Importer struct {
	resolveRefs bool
}

// Option customises an Importer.
type Option func(*Importer)

// WithReferenceResolution validates the document and resolves external
// references before import.
func WithReferenceResolution() Option {
	return func(i *Importer) { i.resolveRefs = true }
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	i := &Importer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(i)
	}
	return i
}

// Import loads the document and maps the named operation's JSON request
// body onto a single-step form.
func (i *Importer) Import(ctx context.Context, document []byte, operationID string) (*form.Root, error) {
	if len(document) == 0 {
		return nil, errors.New("openapi import: document payload is empty")
	}
	if operationID == "" {
		return nil, errors.New("openapi import: operation id is required")
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: i.resolveRefs}
	spec, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load document: %w", err)
	}
	if i.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi import: validate: %w", err)
		}
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("openapi import: operation %q not found", operationID)
	}
	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("openapi import: operation %q has no JSON request body", operationID)
	}

	step := &form.Step{
		Element: form.Element{ID: operationID},
		Role:    form.StepForm,
		Title:   strings.TrimSpace(operation.Summary),
	}
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}
	for _, name := range sortedPropertyNames(schema) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		_, isRequired := required[name]
		step.Elements = append(step.Elements, inputFromSchema(name, prop.Value, isRequired))
	}

	return &form.Root{
		Element: form.Element{ID: operationID + "-form"},
		Title:   strings.TrimSpace(operation.Summary),
		Steps:   []*form.Step{step},
	}, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	media := operation.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil {
		return nil
	}
	return media.Schema.Value
}

func sortedPropertyNames(schema *openapi3.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// inputFromSchema maps one schema property onto the closest field kind.
// Structures this engine has no equivalent for degrade to text inputs.
func inputFromSchema(name string, schema *openapi3.Schema, required bool) *form.Input {
	in := &form.Input{
		Element:     form.Element{ID: name, Required: required},
		Label:       labelFor(name, schema),
		Description: strings.TrimSpace(schema.Description),
	}

	switch {
	case len(schema.Enum) > 0:
		in.Kind = form.FieldSelect
		in.Options = &form.OptionsSpec{Options: optionsFromEnum(schema.Enum)}
	case schema.Type.Is(openapi3.TypeBoolean):
		in.Kind = form.FieldCheckbox
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		in.Kind = form.FieldNumber
		spec := &form.NumberSpec{}
		if schema.Min != nil {
			spec.Min = schema.Min
		}
		if schema.Max != nil {
			spec.Max = schema.Max
		}
		in.Number = spec
	case schema.Type.Is(openapi3.TypeString) && schema.Format == "date":
		in.Kind = form.FieldDate
	case schema.Type.Is(openapi3.TypeString) && schema.Format == "date-time":
		in.Kind = form.FieldDate
	case schema.Type.Is(openapi3.TypeString) && schema.Format == "binary":
		in.Kind = form.FieldFileUpload
		in.File = &form.FileSpec{}
	case schema.Type.Is(openapi3.TypeArray) && itemsAreEnum(schema):
		in.Kind = form.FieldMultiCheckbox
		in.Options = &form.OptionsSpec{Options: optionsFromEnum(schema.Items.Value.Enum)}
	default:
		in.Kind = form.FieldText
		spec := &form.TextSpec{}
		if schema.MinLength > 0 {
			spec.MinLength = int(schema.MinLength)
		}
		if schema.MaxLength != nil {
			spec.MaxLength = int(*schema.MaxLength)
		}
		spec.Pattern = schema.Pattern
		in.Text = spec
	}
	return in
}

func itemsAreEnum(schema *openapi3.Schema) bool {
	return schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0
}

func optionsFromEnum(enum []any) []form.Option {
	out := make([]form.Option, 0, len(enum))
	for _, entry := range enum {
		out = append(out, form.Option{Value: fmt.Sprint(entry)})
	}
	return out
}

func labelFor(name string, schema *openapi3.Schema) string {
	if title := strings.TrimSpace(schema.Title); title != "" {
		return title
	}
	return name
}
