package main

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func exportedDocument(t *testing.T) []byte {
	t.Helper()
	body, err := openapi.ExportJSON(context.Background(), testsupport.ProductTree(t), openapi.ExportOptions{Title: "Product"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return body
}

func TestLintDocumentAcceptsExport(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Load(ctx, exportedDocument(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := lintDocument("form.json", doc); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}

func TestLintDocumentFlagsUnknownExtensions(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Load(ctx, exportedDocument(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	body := doc.Components.Schemas["FormSubmission"].Value
	body.Properties["product_name"].Value.Extensions["x-formbuilder-widget"] = "slider"
	body.Properties["sku"].Value.Extensions[openapi.ExtComponent] = "slider"
	body.Properties["sku"].Value.Extensions[openapi.ExtGenerate] = "yes"

	got := lintDocument("form.json", doc)
	sortViolations(got)
	want := []violation{
		{file: "form.json", location: "components.schemas.FormSubmission.properties.product_name", message: `unsupported extension "x-formbuilder-widget"`},
		{file: "form.json", location: "components.schemas.FormSubmission.properties.sku", message: `x-formbuilder-component: unknown component type "slider"`},
		{file: "form.json", location: "components.schemas.FormSubmission.properties.sku", message: "x-formbuilder-generate must be a boolean, found string"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(violation{})); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateExtension(t *testing.T) {
	cases := map[string]struct {
		key   string
		value any
		ok    bool
	}{
		"component":     {key: openapi.ExtComponent, value: "dropdown", ok: true},
		"bad component": {key: openapi.ExtComponent, value: 3, ok: false},
		"description":   {key: openapi.ExtDescription, value: true, ok: true},
		"unknown":       {key: "x-formbuilder-theme", value: "dark", ok: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := validateExtension(tc.key, tc.value) == ""
			if got != tc.ok {
				t.Fatalf("validateExtension(%q, %v) ok=%v, want %v", tc.key, tc.value, got, tc.ok)
			}
		})
	}
}
