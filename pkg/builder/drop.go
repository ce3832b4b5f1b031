package builder

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/factory"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tree"
)

// DropIntent is a palette item dropped on the canvas root or on a section.
type DropIntent struct {
	Type              model.ComponentType `json:"type"`
	Label             string              `json:"label,omitempty"`
	HasGenerateButton bool                `json:"hasGenerateButton,omitempty"`
	ParentID          string              `json:"parentId,omitempty"`
	Index             *int                `json:"index,omitempty"`
}

// Position converts the optional index into a tree position.
func (d DropIntent) Position() tree.Position {
	if d.Index == nil {
		return tree.End
	}
	return tree.At(*d.Index)
}

// CanDrop reports whether an item of type itemType may be dropped onto
// targetID. The root (empty target) accepts everything; sections accept
// anything but sections, except the locked section which accepts nothing.
func (s *Session) CanDrop(itemType model.ComponentType, targetID string) bool {
	if targetID == "" {
		return itemType.Valid()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.rootSection(targetID)
	if !ok {
		return false
	}
	return canDropInto(itemType, target)
}

func canDropInto(itemType model.ComponentType, target model.Component) bool {
	if !itemType.Valid() || model.IsLockedSection(target) {
		return false
	}
	return itemType != model.TypeSection
}

// Drop creates a component for the intent through the factory and inserts it.
func (s *Session) Drop(ctx context.Context, intent DropIntent) (model.Component, error) {
	if !intent.Type.Valid() {
		return model.Component{}, s.fail(ctx, fmt.Errorf("%w: unknown component type %q", ErrDropRejected, intent.Type), "")
	}

	if intent.ParentID != "" {
		s.mu.Lock()
		target, ok := s.rootSection(intent.ParentID)
		s.mu.Unlock()
		switch {
		case ok && model.IsLockedSection(target):
			return model.Component{}, s.fail(ctx, fmt.Errorf("%w: %s", ErrLockedSection, msgLockedDrop), intent.ParentID)
		case ok && !canDropInto(intent.Type, target):
			return model.Component{}, s.fail(ctx, fmt.Errorf("%w: %s cannot be dropped into a section", ErrDropRejected, intent.Type), intent.ParentID)
		}
	}

	label := intent.Label
	if label == "" && intent.Type == model.TypeButton {
		label = fmt.Sprintf("Button %d", s.ComponentCount(model.TypeButton)+1)
	}
	c := s.factory.CreateWith(intent.Type, label, factory.CreateOptions{HasGenerateButton: intent.HasGenerateButton})
	return s.Insert(ctx, c, intent.ParentID, intent.Position())
}
