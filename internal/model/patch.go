package model

// Patch is a partial update applied to a single component. Nil fields are
// left untouched. Identity, kind and children are not patchable; structural
// changes go through insert, remove and move.
type Patch struct {
	Label             *string      `json:"label,omitempty"`
	Name              *string      `json:"name,omitempty"`
	Icon              *string      `json:"icon,omitempty"`
	Required          *bool        `json:"required,omitempty"`
	Placeholder       *string      `json:"placeholder,omitempty"`
	Validations       *Validations `json:"validations,omitempty"`
	Options           *[]Option    `json:"options,omitempty"`
	HasGenerateButton *bool        `json:"hasGenerateButton,omitempty"`
	ButtonType        *string      `json:"buttonType,omitempty"`
	Variant           *string      `json:"variant,omitempty"`
	IsLocked          *bool        `json:"isLocked,omitempty"`
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Apply returns a copy of c with every non-nil field of p merged in.
func (p Patch) Apply(c Component) Component {
	out := c.Clone()
	if p.Label != nil {
		out.Label = *p.Label
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.Required != nil {
		out.Required = *p.Required
	}
	if p.Placeholder != nil {
		out.Placeholder = *p.Placeholder
	}
	if p.Validations != nil {
		out.Validations = p.Validations.Clone()
	}
	if p.Options != nil {
		out.Options = CloneOptions(*p.Options)
		if out.Options == nil {
			out.Options = []Option{}
		}
	}
	if p.HasGenerateButton != nil {
		out.HasGenerateButton = *p.HasGenerateButton
	}
	if p.ButtonType != nil {
		out.ButtonType = *p.ButtonType
	}
	if p.Variant != nil {
		out.Variant = *p.Variant
	}
	if p.IsLocked != nil {
		out.IsLocked = *p.IsLocked
	}
	return out
}

// String returns a pointer to v for building patches.
func String(v string) *string {
	return &v
}

// Bool returns a pointer to v for building patches.
func Bool(v bool) *bool {
	return &v
}

// OptionList returns a pointer to options for building patches.
func OptionList(options []Option) *[]Option {
	return &options
}
