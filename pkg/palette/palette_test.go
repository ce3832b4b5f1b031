package palette_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/palette"
)

func TestDefaultPaletteSections(t *testing.T) {
	p := palette.Default()

	children, ok := p.Section(model.LabelCategorySection)
	if !ok {
		t.Fatalf("Category preset missing")
	}
	var names []string
	for _, child := range children {
		if !child.Required {
			t.Errorf("Category child %q should be required", child.Label)
		}
		if child.Options == nil || len(*child.Options) != 0 {
			t.Errorf("Category child %q should carry an explicit empty option list", child.Label)
		}
		names = append(names, child.Name)
	}
	want := []string{"category", "subcategory", "subcategory_type", "product_type", "product_style"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("category children mismatch (-want +got):\n%s", diff)
	}

	for _, label := range []string{"Stock", "Tax", "Product Description", "Sales & Purchase Information", "Print Options", "Save and next", "Product Information"} {
		if _, ok := p.Section(label); !ok {
			t.Errorf("section preset %q missing", label)
		}
	}
	if _, ok := p.Section("Colours"); ok {
		t.Fatalf("unexpected preset for unknown section")
	}
}

func TestOptionTables(t *testing.T) {
	p := palette.Default()

	brand := p.OptionsFor("Select Brand")
	var labels []string
	for _, o := range brand {
		labels = append(labels, o.Label)
	}
	if diff := cmp.Diff([]string{"Apple", "Samsung", "Sony"}, labels); diff != "" {
		t.Fatalf("brand options mismatch (-want +got):\n%s", diff)
	}

	category := p.OptionsFor(model.LabelSelectCategory)
	if category == nil || len(category) != 0 {
		t.Fatalf("Select Category should start empty, got %#v", category)
	}

	fallback := p.OptionsFor("Select Mood")
	if len(fallback) != 2 || fallback[0].Label != "Option 1" {
		t.Fatalf("unexpected fallback options %#v", fallback)
	}

	brand[0].Label = "Mutated"
	if p.OptionsFor("Select Brand")[0].Label != "Apple" {
		t.Fatalf("OptionsFor must return a copy")
	}
}

func TestBoundsAndButtons(t *testing.T) {
	p := palette.Default()

	if diff := cmp.Diff(&model.Validations{Min: model.Float(0), Max: model.Float(1000)}, p.NumberBoundsFor("Weight")); diff != "" {
		t.Fatalf("weight bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Validations{Min: model.Float(0)}, p.NumberBoundsFor("Shoe Size")); diff != "" {
		t.Fatalf("default number bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Validations{MinLength: model.Int(3), MaxLength: model.Int(100)}, p.TextBoundsFor("Product Name")); diff != "" {
		t.Fatalf("product name bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Validations{MinLength: model.Int(0), MaxLength: model.Int(100)}, p.TextBoundsFor("Nickname")); diff != "" {
		t.Fatalf("default text bounds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&model.Validations{MaxLength: model.Int(50)}, p.AlphanumericBoundsFor()); diff != "" {
		t.Fatalf("alphanumeric bounds mismatch (-want +got):\n%s", diff)
	}

	btn, ok := p.Button("QR Code")
	if !ok || btn.Icon != "QrCode" || btn.Variant != "dark" || btn.ButtonType != "qr-code" {
		t.Fatalf("unexpected QR Code preset %#v (found=%v)", btn, ok)
	}
	if _, ok := p.Lookup(model.TypeAlphanumericInput, "SKU"); !ok {
		t.Fatalf("SKU palette entry missing")
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown type": `
groups:
  - name: x
    title: X
    items:
      - { type: slider, label: Volume }
`,
		"nested section preset": `
sections:
  Outer:
    - { type: section, label: Inner }
`,
		"button without style": `
buttons:
  - { type: button, label: Bare }
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := palette.Parse([]byte(doc), name+".yaml"); err == nil {
				t.Fatalf("expected schema violation")
			}
		})
	}

	if _, err := palette.Parse([]byte("  \n"), "blank.yaml"); !errors.Is(err, palette.ErrEmptyPalette) {
		t.Fatalf("expected ErrEmptyPalette, got %v", err)
	}
}

func TestLoadFSCustomPalette(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.yaml": {Data: []byte(`
groups:
  - name: basics
    title: Basics
    items:
      - { type: text-input, label: Title }
options:
  Select Colour:
    - { label: Red, value: red }
fallbackOptions: []
numberBounds: {}
defaultNumberBounds: { min: 1 }
textBounds: {}
defaultTextBounds: { maxLength: 10 }
alphanumericBounds: { maxLength: 5 }
buttons: []
sections: {}
`)},
	}
	p, err := palette.LoadFS(fsys, "custom.yaml")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got := len(p.Items()); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}
	if got := p.OptionsFor("Unknown"); len(got) != 0 {
		t.Fatalf("empty fallback should yield no options, got %#v", got)
	}
	if diff := cmp.Diff(&model.Validations{Min: model.Float(1)}, p.NumberBoundsFor("Any")); diff != "" {
		t.Fatalf("custom bounds mismatch (-want +got):\n%s", diff)
	}
}
