package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type stubRenderer struct {
	name string
	got  render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, tree model.Tree, opts render.RenderOptions) ([]byte, error) {
	s.got = opts
	return []byte(string(opts.ResolvedSurface()) + ":" + tree[0].Label), nil
}

func TestRegistry(t *testing.T) {
	html := &stubRenderer{name: "html"}
	registry, err := render.NewRegistry(html, &stubRenderer{name: "tui"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if err := registry.Register(&stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	out, contentType, err := registry.Render(context.Background(), "html", model.Tree{{Label: "Weight"}}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "preview:Weight" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}
