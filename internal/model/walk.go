package model

// WalkFunc is called for every component of a tree. parent is nil for root
// components. Returning false stops the walk.
type WalkFunc func(c Component, parent *Component) bool

// Walk visits components depth-first in document order.
func (t Tree) Walk(fn WalkFunc) {
	for i := range t {
		root := t[i]
		if !fn(root, nil) {
			return
		}
		for _, child := range root.Children {
			if !fn(child, &root) {
				return
			}
		}
	}
}

// Count returns the number of components in the tree, nested ones included.
func (t Tree) Count() int {
	total := 0
	t.Walk(func(Component, *Component) bool {
		total++
		return true
	})
	return total
}

// Find returns the first component with the given id.
func (t Tree) Find(id string) (Component, bool) {
	var (
		found Component
		ok    bool
	)
	t.Walk(func(c Component, _ *Component) bool {
		if c.ID == id {
			found, ok = c, true
			return false
		}
		return true
	})
	return found, ok
}

// ParentOf returns the section holding id. The boolean is false when id is a
// root component or absent.
func (t Tree) ParentOf(id string) (Component, bool) {
	var (
		parent Component
		ok     bool
	)
	t.Walk(func(c Component, p *Component) bool {
		if c.ID == id {
			if p != nil {
				parent, ok = *p, true
			}
			return false
		}
		return true
	})
	return parent, ok
}

// IDs returns every id in document order.
func (t Tree) IDs() []string {
	ids := make([]string, 0, len(t))
	t.Walk(func(c Component, _ *Component) bool {
		ids = append(ids, c.ID)
		return true
	})
	return ids
}
