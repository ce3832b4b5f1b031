package model

import internalmodel "github.com/goliatone/go-formbuilder/internal/model"

// ComponentType re-exports the internal component kind enumeration.
type ComponentType = internalmodel.ComponentType

const (
	TypeTextInput         = internalmodel.TypeTextInput
	TypeNumberInput       = internalmodel.TypeNumberInput
	TypeDropdown          = internalmodel.TypeDropdown
	TypeRadioGroup        = internalmodel.TypeRadioGroup
	TypeCheckboxGroup     = internalmodel.TypeCheckboxGroup
	TypeImagePicker       = internalmodel.TypeImagePicker
	TypeSection           = internalmodel.TypeSection
	TypeButton            = internalmodel.TypeButton
	TypeAlphanumericInput = internalmodel.TypeAlphanumericInput
)

const (
	LabelCategorySection    = internalmodel.LabelCategorySection
	LabelProductDescription = internalmodel.LabelProductDescription
	LabelContents           = internalmodel.LabelContents
	LabelSelectCategory     = internalmodel.LabelSelectCategory
	LabelSKU                = internalmodel.LabelSKU
)

type Component = internalmodel.Component
type Option = internalmodel.Option
type Validations = internalmodel.Validations
type Tree = internalmodel.Tree
type Patch = internalmodel.Patch
type WalkFunc = internalmodel.WalkFunc

var (
	ErrDuplicateID    = internalmodel.ErrDuplicateID
	ErrNestedSection  = internalmodel.ErrNestedSection
	ErrMissingID      = internalmodel.ErrMissingID
	ErrUnknownType    = internalmodel.ErrUnknownType
	ErrChildrenOnLeaf = internalmodel.ErrChildrenOnLeaf
)

// ComponentTypes lists every component kind in palette order.
func ComponentTypes() []ComponentType { return internalmodel.ComponentTypes() }

// ParseComponentType validates a raw kind tag.
func ParseComponentType(raw string) (ComponentType, error) {
	return internalmodel.ParseComponentType(raw)
}

// DeriveName turns a label into a form-data key.
func DeriveName(label string) string { return internalmodel.DeriveName(label) }

// DefaultLabel is the label used when none is supplied.
func DefaultLabel(t ComponentType) string { return internalmodel.DefaultLabel(t) }

// Validate checks the structural invariants of a tree.
func Validate(tree Tree) error { return internalmodel.Validate(tree) }

func IsLockedSection(c Component) bool      { return internalmodel.IsLockedSection(c) }
func IsProductDescription(c Component) bool { return internalmodel.IsProductDescription(c) }
func IsRepeatable(c Component) bool         { return internalmodel.IsRepeatable(c) }

func CloneOptions(options []Option) []Option { return internalmodel.CloneOptions(options) }

func Float(v float64) *float64              { return internalmodel.Float(v) }
func Int(v int) *int                        { return internalmodel.Int(v) }
func String(v string) *string               { return internalmodel.String(v) }
func Bool(v bool) *bool                     { return internalmodel.Bool(v) }
func OptionList(options []Option) *[]Option { return internalmodel.OptionList(options) }
