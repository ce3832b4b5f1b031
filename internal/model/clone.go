package model

// Clone returns a deep copy of the component. Options, validations and
// children are copied so the result shares no mutable state with c.
func (c Component) Clone() Component {
	out := c
	out.Validations = c.Validations.Clone()
	out.Options = CloneOptions(c.Options)
	if c.Children != nil {
		out.Children = make([]Component, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Clone returns a copy of v, or nil when v is nil.
func (v *Validations) Clone() *Validations {
	if v == nil {
		return nil
	}
	out := &Validations{}
	if v.Min != nil {
		out.Min = Float(*v.Min)
	}
	if v.Max != nil {
		out.Max = Float(*v.Max)
	}
	if v.MinLength != nil {
		out.MinLength = Int(*v.MinLength)
	}
	if v.MaxLength != nil {
		out.MaxLength = Int(*v.MaxLength)
	}
	return out
}

// CloneOptions copies an option list, preserving nil versus empty.
func CloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// Clone deep-copies the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, c := range t {
		out[i] = c.Clone()
	}
	return out
}
