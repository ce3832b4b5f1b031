package palette

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Item describes a palette entry or a preset section child. Zero values mean
// "use the factory default"; Options distinguishes an explicit empty list
// (non-nil pointer) from no override (nil).
type Item struct {
	Type              model.ComponentType `json:"type" yaml:"type"`
	Label             string              `json:"label" yaml:"label"`
	Icon              string              `json:"icon,omitempty" yaml:"icon,omitempty"`
	Name              string              `json:"name,omitempty" yaml:"name,omitempty"`
	Required          bool                `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder       string              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options           *[]model.Option     `json:"options,omitempty" yaml:"options,omitempty"`
	HasGenerateButton bool                `json:"hasGenerateButton,omitempty" yaml:"hasGenerateButton,omitempty"`
	Variant           string              `json:"variant,omitempty" yaml:"variant,omitempty"`
	ButtonType        string              `json:"buttonType,omitempty" yaml:"buttonType,omitempty"`
	IsLocked          bool                `json:"isLocked,omitempty" yaml:"isLocked,omitempty"`
}

// Group is a titled block of palette entries.
type Group struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
	Items []Item `json:"items" yaml:"items"`
}

// Palette is the component library together with the label-keyed defaults
// used by the factory.
type Palette struct {
	Groups              []Group                      `json:"groups" yaml:"groups"`
	Buttons             []Item                       `json:"buttons" yaml:"buttons"`
	Sections            map[string][]Item            `json:"sections" yaml:"sections"`
	Options             map[string][]model.Option    `json:"options" yaml:"options"`
	FallbackOptions     []model.Option               `json:"fallbackOptions" yaml:"fallbackOptions"`
	NumberBounds        map[string]model.Validations `json:"numberBounds" yaml:"numberBounds"`
	DefaultNumberBounds model.Validations            `json:"defaultNumberBounds" yaml:"defaultNumberBounds"`
	TextBounds          map[string]model.Validations `json:"textBounds" yaml:"textBounds"`
	DefaultTextBounds   model.Validations            `json:"defaultTextBounds" yaml:"defaultTextBounds"`
	AlphanumericBounds  model.Validations            `json:"alphanumericBounds" yaml:"alphanumericBounds"`
}

// Section returns the preset children for a known section label.
func (p *Palette) Section(label string) ([]Item, bool) {
	if p == nil {
		return nil, false
	}
	items, ok := p.Sections[label]
	return items, ok
}

// OptionsFor returns a fresh copy of the option table registered for key,
// falling back to the generic list when the key is unknown. A key registered
// with an empty list yields an empty, non-nil slice.
func (p *Palette) OptionsFor(key string) []model.Option {
	if p == nil {
		return []model.Option{}
	}
	options, ok := p.Options[key]
	if !ok {
		options = p.FallbackOptions
	}
	out := model.CloneOptions(options)
	if out == nil {
		out = []model.Option{}
	}
	return out
}

// NumberBoundsFor returns a copy of the numeric bounds registered for label.
func (p *Palette) NumberBoundsFor(label string) *model.Validations {
	if p == nil {
		return &model.Validations{}
	}
	if bounds, ok := p.NumberBounds[label]; ok {
		return bounds.Clone()
	}
	return p.DefaultNumberBounds.Clone()
}

// TextBoundsFor returns a copy of the length bounds registered for label.
func (p *Palette) TextBoundsFor(label string) *model.Validations {
	if p == nil {
		return &model.Validations{}
	}
	if bounds, ok := p.TextBounds[label]; ok {
		return bounds.Clone()
	}
	return p.DefaultTextBounds.Clone()
}

// AlphanumericBoundsFor returns a copy of the bounds applied to every
// alphanumeric input.
func (p *Palette) AlphanumericBoundsFor() *model.Validations {
	if p == nil {
		return &model.Validations{}
	}
	return p.AlphanumericBounds.Clone()
}

// Button returns the button preset registered for label.
func (p *Palette) Button(label string) (Item, bool) {
	if p == nil {
		return Item{}, false
	}
	for _, b := range p.Buttons {
		if b.Label == label {
			return b, true
		}
	}
	return Item{}, false
}

// Items returns every palette entry across groups in display order.
func (p *Palette) Items() []Item {
	if p == nil {
		return nil
	}
	var out []Item
	for _, g := range p.Groups {
		out = append(out, g.Items...)
	}
	return out
}

// Lookup finds a palette entry by kind and label.
func (p *Palette) Lookup(t model.ComponentType, label string) (Item, bool) {
	for _, item := range p.Items() {
		if item.Type == t && item.Label == label {
			return item, true
		}
	}
	return Item{}, false
}
