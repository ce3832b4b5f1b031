package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/submission"
)

// scriptedRenderer answers one fill per call and records the errors it was
// shown.
type scriptedRenderer struct {
	store   *formdata.Store
	answers []map[string]any
	seen    []map[string][]string
}

func (r *scriptedRenderer) Name() string        { return "scripted" }
func (r *scriptedRenderer) ContentType() string { return "application/json" }

func (r *scriptedRenderer) Render(_ context.Context, _ model.Tree, opts render.RenderOptions) ([]byte, error) {
	r.seen = append(r.seen, opts.Errors)
	call := len(r.seen) - 1
	if call < len(r.answers) {
		for name, value := range r.answers[call] {
			r.store.Set(name, value)
		}
	}
	return []byte(`{"ok":true}`), nil
}

func fillTree() model.Tree {
	return model.Tree{
		{ID: "n", Type: model.TypeTextInput, Label: "Name", Name: "name", Required: true},
	}
}

func TestFillLoopRetriesWithErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := formdata.NewStore()
	var delivered []submission.Payload
	sub := submission.NewSubmitter(
		submission.WithLogger(logger),
		submission.WithSink(submission.SinkFunc(func(_ context.Context, p submission.Payload) error {
			delivered = append(delivered, p)
			return nil
		})),
	)
	r := &scriptedRenderer{
		store:   store,
		answers: []map[string]any{{}, {"name": "Alice"}},
	}
	var out bytes.Buffer

	if err := fillLoop(context.Background(), r, sub, fillTree(), store, 3, &out); err != nil {
		t.Fatalf("fill loop: %v", err)
	}

	want := []map[string][]string{nil, {"name": {"Name is required"}}}
	if diff := cmp.Diff(want, r.seen); diff != "" {
		t.Fatalf("errors shown mismatch (-want +got):\n%s", diff)
	}
	if len(delivered) != 1 || delivered[0].Values["name"] != "Alice" {
		t.Fatalf("unexpected deliveries: %+v", delivered)
	}
	if out.String() != "{\"ok\":true}\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestFillLoopGivesUp(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := formdata.NewStore()
	sub := submission.NewSubmitter(submission.WithLogger(logger))
	r := &scriptedRenderer{store: store}

	err := fillLoop(context.Background(), r, sub, fillTree(), store, 2, &bytes.Buffer{})
	var validation *submission.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(r.seen) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(r.seen))
	}
}

func TestGeneratedLayout(t *testing.T) {
	a := testApp(t)
	path := t.TempDir() + "/layout.yaml"
	if err := os.WriteFile(path, []byte(stockLayout), 0o644); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	s, generated, err := a.generatedLayout(context.Background(), path)
	if err != nil {
		t.Fatalf("generated layout: %v", err)
	}
	if len(generated) != 3 {
		t.Fatalf("expected 3 generated roots, got %d", len(generated))
	}
	if got, ok := s.Generated(); !ok || len(got) != len(generated) {
		t.Fatalf("session not generated")
	}
}
