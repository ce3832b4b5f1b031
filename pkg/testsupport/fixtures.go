// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"embed"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// ProductTree returns the generated product form used across tests: a locked
// Category section, a bounded Product Name, MRP, a generated SKU and a
// submit button.
func ProductTree(t *testing.T) model.Tree {
	t.Helper()
	data, err := fixtures.ReadFile("fixtures/product_form.json")
	if err != nil {
		t.Fatalf("testsupport: read fixture: %v", err)
	}
	tree, err := DecodeTree(data)
	if err != nil {
		t.Fatalf("testsupport: %v", err)
	}
	return tree
}

// DecodeTree decodes and validates a JSON component tree.
func DecodeTree(data []byte) (model.Tree, error) {
	var tree model.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if err := model.Validate(tree); err != nil {
		return nil, err
	}
	return tree, nil
}
