package submission

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Field types used in the product description projection.
const (
	TypeDropdown    = "dropdown"
	TypeTextField   = "textField"
	TypeNumberField = "numberField"
)

// DescriptionField is one entry of the simplified product description.
type DescriptionField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Describe projects the children of the first "Product Description" section.
// The boolean is false when the form has no such section.
func Describe(tree model.Tree) ([]DescriptionField, bool) {
	for _, c := range tree {
		if !model.IsProductDescription(c) {
			continue
		}
		out := make([]DescriptionField, 0, len(c.Children))
		for _, child := range c.Children {
			out = append(out, describeField(child))
		}
		return out, true
	}
	return nil, false
}

func describeField(c model.Component) DescriptionField {
	field := DescriptionField{Name: c.Name, Label: c.Label, Type: string(c.Type)}
	switch c.Type {
	case model.TypeDropdown:
		field.Type = TypeDropdown
		field.Options = make([]string, 0, len(c.Options))
		for _, o := range c.Options {
			field.Options = append(field.Options, o.Label)
		}
	case model.TypeTextInput:
		field.Type = TypeTextField
		field.Placeholder = "Enter your " + c.Label
	case model.TypeNumberInput:
		field.Type = TypeNumberField
		field.Placeholder = "Enter " + strings.ToLower(c.Label)
	}
	return field
}
