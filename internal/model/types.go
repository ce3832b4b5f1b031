package model

import (
	"fmt"
	"strings"
)

// ComponentType is the closed set of component kinds a form can hold.
type ComponentType string

const (
	TypeTextInput         ComponentType = "text-input"
	TypeNumberInput       ComponentType = "number-input"
	TypeDropdown          ComponentType = "dropdown"
	TypeRadioGroup        ComponentType = "radio-group"
	TypeCheckboxGroup     ComponentType = "checkbox-group"
	TypeImagePicker       ComponentType = "image-picker"
	TypeSection           ComponentType = "section"
	TypeButton            ComponentType = "button"
	TypeAlphanumericInput ComponentType = "alphanumeric-input"
)

var componentTypes = []ComponentType{
	TypeTextInput,
	TypeNumberInput,
	TypeDropdown,
	TypeRadioGroup,
	TypeCheckboxGroup,
	TypeImagePicker,
	TypeSection,
	TypeButton,
	TypeAlphanumericInput,
}

// ComponentTypes returns every known component kind in palette order.
func ComponentTypes() []ComponentType {
	return append([]ComponentType(nil), componentTypes...)
}

// Valid reports whether t is one of the known component kinds.
func (t ComponentType) Valid() bool {
	for _, known := range componentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseComponentType converts a raw tag into a ComponentType, rejecting
// unknown kinds instead of carrying them through the tree.
func ParseComponentType(raw string) (ComponentType, error) {
	t := ComponentType(strings.TrimSpace(strings.ToLower(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("model: unknown component type %q", raw)
	}
	return t, nil
}

// Option is a single entry of a dropdown, radio or checkbox group.
type Option struct {
	ID       string `json:"id" yaml:"id,omitempty"`
	Label    string `json:"label" yaml:"label"`
	Value    string `json:"value" yaml:"value"`
	ImageURL string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// Validations holds the simple bounds a component is checked against before
// submission. Numeric inputs use Min/Max, text inputs MinLength/MaxLength.
// Nil pointers mean "no bound".
type Validations struct {
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// Component is one node of the form tree: a field or a section container.
// Children is only populated for sections and sections never nest.
type Component struct {
	ID                string        `json:"id"`
	Type              ComponentType `json:"type"`
	Label             string        `json:"label"`
	Name              string        `json:"name"`
	Icon              string        `json:"icon,omitempty"`
	Required          bool          `json:"required"`
	Placeholder       string        `json:"placeholder,omitempty"`
	Validations       *Validations  `json:"validations,omitempty"`
	Options           []Option      `json:"options,omitempty"`
	HasGenerateButton bool          `json:"hasGenerateButton,omitempty"`
	ButtonType        string        `json:"buttonType,omitempty"`
	Variant           string        `json:"variant,omitempty"`
	IsLocked          bool          `json:"isLocked,omitempty"`
	Children          []Component   `json:"children,omitempty"`
}

// IsSection reports whether the component is a section container.
func (c Component) IsSection() bool {
	return c.Type == TypeSection
}

// Tree is the ordered list of top-level components of a form.
type Tree []Component

// Float returns a pointer to v. It keeps validation literals readable.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
