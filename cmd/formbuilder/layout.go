package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/factory"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

var errEmptyLayout = errors.New("layout: no components")

// layoutItem is one drop in a layout file. Children are dropped into the
// section created for the item.
type layoutItem struct {
	Type              model.ComponentType `yaml:"type"`
	Label             string              `yaml:"label,omitempty"`
	HasGenerateButton bool                `yaml:"hasGenerateButton,omitempty"`
	Required          *bool               `yaml:"required,omitempty"`
	Children          []layoutItem        `yaml:"children,omitempty"`
}

func parseLayout(data []byte) ([]layoutItem, error) {
	var items []layoutItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("layout: parse: %w", err)
	}
	if len(items) == 0 {
		return nil, errEmptyLayout
	}
	return items, nil
}

func readLayout(path string) ([]layoutItem, error) {
	if path == "" {
		return nil, errors.New("layout: --layout is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return parseLayout(data)
}

// replay drops every item into a fresh session, the way a user would drag
// them from the palette.
func replay(ctx context.Context, f *factory.Factory, logger logrus.FieldLogger, items []layoutItem) (*builder.Session, error) {
	s := builder.New(builder.WithFactory(f), builder.WithLogger(logger))
	for _, item := range items {
		if err := drop(ctx, s, item, ""); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func drop(ctx context.Context, s *builder.Session, item layoutItem, parentID string) error {
	c, err := s.Drop(ctx, builder.DropIntent{
		Type:              item.Type,
		Label:             item.Label,
		HasGenerateButton: item.HasGenerateButton,
		ParentID:          parentID,
	})
	if err != nil {
		return fmt.Errorf("layout: drop %s %q: %w", item.Type, item.Label, err)
	}
	if item.Required != nil {
		s.Update(ctx, c.ID, model.Patch{Required: item.Required})
	}
	if len(item.Children) > 0 && !c.IsSection() {
		return fmt.Errorf("layout: %s %q cannot hold children", item.Type, item.Label)
	}
	for _, child := range item.Children {
		if err := drop(ctx, s, child, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// generatedLayout replays path and generates the form.
func (a *app) generatedLayout(ctx context.Context, path string) (*builder.Session, model.Tree, error) {
	items, err := readLayout(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := replay(ctx, a.factory(), a.logger, items)
	if err != nil {
		return nil, nil, err
	}
	generated, err := s.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, generated, nil
}
