package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// ExtComponent carries the component kind on every exported property.
	ExtComponent = "x-formbuilder-component"
	// ExtGenerate marks alphanumeric properties with a generate button.
	ExtGenerate = "x-formbuilder-generate"
	// ExtDescription marks properties projected into the product
	// description on submit.
	ExtDescription = "x-formbuilder-description"

	lettersPattern      = `^[A-Za-z\s]*$`
	digitsPattern       = `^\d*$`
	alphanumericPattern = `^[a-zA-Z0-9-]*$`
)

// ErrEmptyForm is returned when there is nothing to export.
var ErrEmptyForm = errors.New("openapi: form has no components")

// ExportOptions shape the exported document.
type ExportOptions struct {
	Title       string
	Version     string
	Path        string
	OperationID string
	SchemaName  string
}

func (o ExportOptions) withDefaults() ExportOptions {
	if o.Title == "" {
		o.Title = "Generated form"
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	if o.Path == "" {
		o.Path = "/submit"
	}
	if o.OperationID == "" {
		o.OperationID = "submitForm"
	}
	if o.SchemaName == "" {
		o.SchemaName = "FormSubmission"
	}
	return o
}

// Export describes the submission of a generated form as an OpenAPI 3
// document: one POST operation whose body schema mirrors the form-data keys
// and pre-submit rules of tree.
func Export(ctx context.Context, tree model.Tree, opts ExportOptions) (*openapi3.T, error) {
	if len(tree) == 0 {
		return nil, ErrEmptyForm
	}
	opts = opts.withDefaults()

	body := openapi3.NewObjectSchema()
	body.Title = opts.Title
	for _, c := range tree {
		if err := addComponent(body, c, c.Required, false); err != nil {
			return nil, err
		}
	}

	ref := openapi3.NewSchemaRef("#/components/schemas/"+opts.SchemaName, body)
	operation := openapi3.NewOperation()
	operation.OperationID = opts.OperationID
	operation.Summary = "Submit " + opts.Title
	operation.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchemaRef(ref, []string{"application/json", "multipart/form-data"})),
	}
	operation.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Form submitted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(opts.Path, &openapi3.PathItem{Post: operation})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				opts.SchemaName: openapi3.NewSchemaRef("", body),
			},
		},
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: exported document is invalid: %w", err)
	}
	return doc, nil
}

// ExportJSON is Export followed by indented JSON encoding.
func ExportJSON(ctx context.Context, tree model.Tree, opts ExportOptions) ([]byte, error) {
	doc, err := Export(ctx, tree, opts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Load parses and validates an exported document.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

// addComponent adds the properties of c to body. required is the effective
// requirement: a section child only counts when its section is required.
func addComponent(body *openapi3.Schema, c model.Component, required, inDescription bool) error {
	switch c.Type {
	case model.TypeSection:
		description := model.IsProductDescription(c)
		for _, child := range c.Children {
			if err := addComponent(body, child, required && child.Required, description); err != nil {
				return err
			}
		}
		return nil
	case model.TypeButton:
		return nil
	}

	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("openapi: component %q has no name", c.ID)
	}

	if model.IsRepeatable(c) {
		body.WithProperty(c.Name, tagged(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()), c, inDescription))
		body.WithProperty(c.Name+formdata.CountSuffix, openapi3.NewIntegerSchema().WithMin(0))
		numbers := openapi3.NewArraySchema().WithItems(&openapi3.Schema{
			OneOf: openapi3.SchemaRefs{
				openapi3.NewSchemaRef("", openapi3.NewIntegerSchema()),
				openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithMaxLength(0)),
			},
		})
		body.WithProperty(c.Name+formdata.NumbersSuffix, numbers)
		if required {
			body.Required = append(body.Required, c.Name)
		}
		return nil
	}

	schema, err := propertySchema(c)
	if err != nil {
		return err
	}
	body.WithProperty(c.Name, tagged(schema, c, inDescription))
	if required {
		body.Required = append(body.Required, c.Name)
	}
	return nil
}

func propertySchema(c model.Component) (*openapi3.Schema, error) {
	v := c.Validations
	switch c.Type {
	case model.TypeTextInput:
		s := openapi3.NewStringSchema().WithPattern(lettersPattern)
		if v != nil && v.MinLength != nil {
			s.WithMinLength(int64(*v.MinLength))
		}
		if v != nil && v.MaxLength != nil {
			s.WithMaxLength(int64(*v.MaxLength))
		}
		return s, nil
	case model.TypeAlphanumericInput:
		s := openapi3.NewStringSchema().WithPattern(alphanumericPattern)
		if v != nil && v.MaxLength != nil {
			s.WithMaxLength(int64(*v.MaxLength))
		}
		if c.HasGenerateButton {
			s.Extensions = map[string]any{ExtGenerate: true}
		}
		return s, nil
	case model.TypeNumberInput:
		s := openapi3.NewIntegerSchema()
		if v != nil && v.Min != nil {
			s.WithMin(*v.Min)
		}
		if v != nil && v.Max != nil {
			s.WithMax(*v.Max)
		}
		return s, nil
	case model.TypeDropdown, model.TypeRadioGroup:
		s := openapi3.NewStringSchema()
		if values := optionValues(c.Options); len(values) > 0 {
			s.WithEnum(values...)
		}
		return s, nil
	case model.TypeCheckboxGroup:
		items := openapi3.NewStringSchema()
		if values := optionValues(c.Options); len(values) > 0 {
			items.WithEnum(values...)
		}
		return openapi3.NewArraySchema().WithItems(items), nil
	case model.TypeImagePicker:
		s := openapi3.NewStringSchema()
		s.Format = "binary"
		return s, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported component type %q", c.Type)
	}
}

func tagged(s *openapi3.Schema, c model.Component, inDescription bool) *openapi3.Schema {
	s.Title = c.Label
	s.Description = c.Placeholder
	if s.Extensions == nil {
		s.Extensions = make(map[string]any)
	}
	s.Extensions[ExtComponent] = string(c.Type)
	if inDescription {
		s.Extensions[ExtDescription] = true
	}
	return s
}

func optionValues(options []model.Option) []any {
	out := make([]any, 0, len(options))
	for _, option := range options {
		out = append(out, option.Value)
	}
	return out
}
