package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeriveName(t *testing.T) {
	cases := map[string]string{
		"Select Brand":            "brand",
		"Select Subcategory Type": "subcategory_type",
		"Product  Name":           "product_name",
		"MRP(INR)":                "mrp(inr)",
		"Opening\tStock Value":    "opening_stock_value",
		"Selection":               "selection",
		"":                        "",
	}
	for label, want := range cases {
		if got := DeriveName(label); got != want {
			t.Errorf("DeriveName(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestParseComponentType(t *testing.T) {
	got, err := ParseComponentType(" Number-Input ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != TypeNumberInput {
		t.Fatalf("got %q", got)
	}
	if _, err := ParseComponentType("slider"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if len(ComponentTypes()) != 9 {
		t.Fatalf("expected nine component kinds, got %d", len(ComponentTypes()))
	}
}

func sampleTree() Tree {
	return Tree{
		{ID: "a", Type: TypeTextInput, Label: "Product Name", Validations: &Validations{MinLength: Int(3)}},
		{
			ID: "s", Type: TypeSection, Label: "Stock",
			Children: []Component{
				{ID: "b", Type: TypeDropdown, Label: "Brand", Options: []Option{{ID: "o1", Label: "Apple", Value: "apple"}}},
				{ID: "c", Type: TypeNumberInput, Label: "Weight"},
			},
		},
	}
}

func TestTreeCloneIsIndependent(t *testing.T) {
	orig := sampleTree()
	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone mismatch (-want +got):\n%s", diff)
	}

	clone[0].Validations.MinLength = Int(10)
	clone[1].Children[0].Options[0].Label = "Changed"
	clone[1].Children[1].Label = "Changed"

	if diff := cmp.Diff(sampleTree(), orig); diff != "" {
		t.Fatalf("original mutated through clone (-want +got):\n%s", diff)
	}
}

func TestWalkHelpers(t *testing.T) {
	tree := sampleTree()
	if got := tree.Count(); got != 4 {
		t.Fatalf("Count = %d, want 4", got)
	}
	if diff := cmp.Diff([]string{"a", "s", "b", "c"}, tree.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	c, ok := tree.Find("c")
	if !ok || c.Label != "Weight" {
		t.Fatalf("Find(c) = %+v, %v", c, ok)
	}
	parent, ok := tree.ParentOf("b")
	if !ok || parent.ID != "s" {
		t.Fatalf("ParentOf(b) = %q, %v", parent.ID, ok)
	}
	if _, ok := tree.ParentOf("a"); ok {
		t.Fatalf("root component must not report a parent")
	}
	if _, ok := tree.Find("missing"); ok {
		t.Fatalf("Find(missing) reported a match")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleTree()); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	dup := sampleTree()
	dup[1].Children[1].ID = "a"
	if err := Validate(dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	nested := sampleTree()
	nested[1].Children = append(nested[1].Children, Component{ID: "x", Type: TypeSection})
	if err := Validate(nested); !errors.Is(err, ErrNestedSection) {
		t.Fatalf("expected ErrNestedSection, got %v", err)
	}

	unknown := Tree{{ID: "z", Type: "slider"}}
	if err := Validate(unknown); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	leaf := Tree{{ID: "l", Type: TypeTextInput, Children: []Component{{ID: "m", Type: TypeTextInput}}}}
	if err := Validate(leaf); !errors.Is(err, ErrChildrenOnLeaf) {
		t.Fatalf("expected ErrChildrenOnLeaf, got %v", err)
	}
}

func TestPatchApply(t *testing.T) {
	base := sampleTree()[1].Children[0]
	patched := Patch{
		Label:    String("Select Brand"),
		Required: Bool(true),
		Options:  OptionList(nil),
	}.Apply(base)

	want := base.Clone()
	want.Label = "Select Brand"
	want.Required = true
	want.Options = []Option{}
	if diff := cmp.Diff(want, patched); diff != "" {
		t.Fatalf("patched mismatch (-want +got):\n%s", diff)
	}
	if base.Options[0].Label != "Apple" {
		t.Fatalf("Apply mutated its input")
	}
	if !(Patch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
}

func TestLockedSectionDetection(t *testing.T) {
	if !IsLockedSection(Component{Type: TypeSection, Label: LabelCategorySection}) {
		t.Fatalf("Category section must be locked")
	}
	if !IsLockedSection(Component{Type: TypeSection, Label: "Taxonomy", IsLocked: true}) {
		t.Fatalf("explicit lock flag must be honoured")
	}
	if IsLockedSection(Component{Type: TypeDropdown, Label: LabelCategorySection}) {
		t.Fatalf("only sections can be locked")
	}
}
