package factory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/palette"
)

const (
	defaultButtonIcon    = "Button"
	defaultButtonVariant = "primary"
	defaultButtonType    = "default"
	radioGroupOptionsKey = "radio-group"
)

// Option configures a Factory.
type Option func(*Factory)

// WithPalette sets the palette the factory takes its defaults from.
func WithPalette(p *palette.Palette) Option {
	return func(f *Factory) {
		if p != nil {
			f.palette = p
		}
	}
}

// WithIDGenerator overrides the id source. Tests use it for deterministic ids.
func WithIDGenerator(fn func() string) Option {
	return func(f *Factory) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// CreateOptions carries per-drop overrides from the palette entry.
type CreateOptions struct {
	HasGenerateButton bool
}

// Factory builds components with type-specific defaults. It holds no mutable
// state of its own, so a single instance can be shared.
type Factory struct {
	palette *palette.Palette
	newID   func() string
}

// New constructs a Factory backed by the bundled palette unless overridden.
func New(opts ...Option) *Factory {
	f := &Factory{
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.palette == nil {
		f.palette = palette.Default()
	}
	return f
}

// Palette returns the palette backing the factory.
func (f *Factory) Palette() *palette.Palette {
	return f.palette
}

// NewID returns a fresh component id.
func (f *Factory) NewID() string {
	return f.newID()
}

// Create builds a component of type t. An empty label falls back to
// "New <type>".
func (f *Factory) Create(t model.ComponentType, label string) model.Component {
	return f.CreateWith(t, label, CreateOptions{})
}

// CreateWith is Create with palette-entry overrides.
func (f *Factory) CreateWith(t model.ComponentType, label string, opts CreateOptions) model.Component {
	original := strings.TrimSpace(label)
	if original == "" {
		label = model.DefaultLabel(t)
	} else {
		label = original
	}

	c := model.Component{
		ID:    f.newID(),
		Type:  t,
		Label: label,
		Name:  model.DeriveName(label),
	}

	switch t {
	case model.TypeDropdown:
		c.Options = f.options(label)
	case model.TypeRadioGroup:
		c.Options = f.options(radioGroupOptionsKey)
	case model.TypeNumberInput:
		c.Placeholder = "Enter " + strings.ToLower(label)
		c.Validations = f.palette.NumberBoundsFor(label)
	case model.TypeTextInput:
		c.Placeholder = "Enter " + label
		c.Validations = f.palette.TextBoundsFor(label)
	case model.TypeSection:
		c.Children = f.sectionChildren(original)
		c.IsLocked = original == model.LabelCategorySection
	case model.TypeButton:
		c.Icon = defaultButtonIcon
		c.Variant = defaultButtonVariant
		c.ButtonType = defaultButtonType
		if preset, ok := f.palette.Button(original); ok {
			c.Icon = firstNonEmpty(preset.Icon, c.Icon)
			c.Variant = firstNonEmpty(preset.Variant, c.Variant)
			c.ButtonType = firstNonEmpty(preset.ButtonType, c.ButtonType)
		}
	case model.TypeAlphanumericInput:
		c.Placeholder = "Enter " + strings.ToLower(label)
		c.HasGenerateButton = opts.HasGenerateButton || label == model.LabelSKU
		c.Validations = f.palette.AlphanumericBoundsFor()
	}
	return c
}

// CreateFromItem builds a component for a palette entry, applying the entry's
// explicit overrides on top of the type defaults.
func (f *Factory) CreateFromItem(item palette.Item) model.Component {
	c := f.CreateWith(item.Type, item.Label, CreateOptions{HasGenerateButton: item.HasGenerateButton})
	return f.applyOverrides(c, item)
}

func (f *Factory) sectionChildren(label string) []model.Component {
	presets, ok := f.palette.Section(label)
	if !ok {
		return []model.Component{}
	}
	children := make([]model.Component, 0, len(presets))
	for _, preset := range presets {
		children = append(children, f.CreateFromItem(preset))
	}
	return children
}

func (f *Factory) applyOverrides(c model.Component, item palette.Item) model.Component {
	if item.Name != "" {
		c.Name = item.Name
	}
	if item.Required {
		c.Required = true
	}
	if item.Placeholder != "" {
		c.Placeholder = item.Placeholder
	}
	if item.Options != nil {
		c.Options = f.rekeyOptions(*item.Options)
	}
	if item.Icon != "" && c.Type != model.TypeButton {
		c.Icon = item.Icon
	}
	return c
}

func (f *Factory) options(key string) []model.Option {
	return f.rekeyOptions(f.palette.OptionsFor(key))
}

func (f *Factory) rekeyOptions(options []model.Option) []model.Option {
	out := make([]model.Option, len(options))
	for i, o := range options {
		o.ID = f.newID()
		out[i] = o
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
