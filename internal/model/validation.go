package model

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID    = errors.New("model: duplicate component id")
	ErrNestedSection  = errors.New("model: section nested inside a section")
	ErrMissingID      = errors.New("model: component id is required")
	ErrUnknownType    = errors.New("model: unknown component type")
	ErrChildrenOnLeaf = errors.New("model: only sections can hold children")
)

// Validate checks the structural invariants of a tree: known component kinds,
// non-empty unique ids, at most two levels and no section inside a section.
func Validate(tree Tree) error {
	seen := make(map[string]struct{}, len(tree))
	for _, c := range tree {
		if err := validateComponent(c, seen); err != nil {
			return err
		}
		for _, child := range c.Children {
			if child.IsSection() {
				return fmt.Errorf("%w: %q in %q", ErrNestedSection, child.ID, c.ID)
			}
			if err := validateComponent(child, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateComponent(c Component, seen map[string]struct{}) error {
	if c.ID == "" {
		return fmt.Errorf("%w (label %q)", ErrMissingID, c.Label)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w %q on %q", ErrUnknownType, c.Type, c.ID)
	}
	if !c.IsSection() && len(c.Children) > 0 {
		return fmt.Errorf("%w: %q", ErrChildrenOnLeaf, c.ID)
	}
	if _, dup := seen[c.ID]; dup {
		return fmt.Errorf("%w %q", ErrDuplicateID, c.ID)
	}
	seen[c.ID] = struct{}{}
	return nil
}
