package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	infoMessages []string
	prompts      []string
	validateErrs []error
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	s.prompts = append(s.prompts, cfg.Message)
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			s.validateErrs = append(s.validateErrs, err)
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	s.prompts = append(s.prompts, cfg.Message)
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	s.prompts = append(s.prompts, cfg.Message)
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	s.prompts = append(s.prompts, cfg.Message)
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type fakeInfo struct {
	os.FileInfo
	size int64
}

func (f fakeInfo) Size() int64 { return f.size }

func fillTree() model.Tree {
	return model.Tree{
		{ID: "sec", Type: model.TypeSection, Label: "Category", Name: "category", Required: true, Children: []model.Component{
			{ID: "cat", Type: model.TypeDropdown, Label: "Select Category", Name: "category", Required: true, Options: []model.Option{
				{ID: "o1", Label: "Apparel", Value: "apparel"},
				{ID: "o2", Label: "Footwear", Value: "footwear"},
			}},
		}},
		{ID: "title", Type: model.TypeTextInput, Label: "Title", Name: "title"},
		{ID: "weight", Type: model.TypeNumberInput, Label: "Weight", Name: "weight"},
		{ID: "contents", Type: model.TypeNumberInput, Label: "Contents", Name: "contents"},
		{ID: "tags", Type: model.TypeCheckboxGroup, Label: "Tags", Name: "tags", Options: []model.Option{
			{ID: "t1", Label: "New", Value: "new"},
			{ID: "t2", Label: "Sale", Value: "sale"},
		}},
		{ID: "photo", Type: model.TypeImagePicker, Label: "Photo", Name: "photo"},
		{ID: "save", Type: model.TypeButton, Label: "Save Product", Name: "save_product"},
	}
}

func TestFillCollectsEveryKind(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Runner", "12", "2", "Box", "3", "Manual", "", "/tmp/shoe.png"},
		selectIdx: []int{1},
		multiIdx:  [][]int{{1}},
		confirm:   []bool{true},
	}
	r, err := New(
		WithPromptDriver(driver),
		WithStatFunc(func(string) (os.FileInfo, error) { return fakeInfo{size: 42}, nil }),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	store := formdata.NewStore()
	if err := r.Fill(context.Background(), fillTree(), store); err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"category":         "footwear",
		"title":            "Runner",
		"weight":           12,
		"contents":         []string{"Box", "Manual"},
		"contents_count":   2,
		"contents_numbers": []any{3, ""},
		"tags":             []string{"sale"},
		"photo":            formdata.FileRef{Name: "shoe.png", Size: 42, ContentType: "image/png"},
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{"== Category", "› File selected: shoe.png", "› Product saved successfully!"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFillRejectsInvalidKeystrokes(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Runner 2"}}
	r, _ := New(WithPromptDriver(driver))

	tree := model.Tree{{ID: "title", Type: model.TypeTextInput, Label: "Title", Name: "title"}}
	if err := r.Fill(context.Background(), tree, formdata.NewStore()); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(driver.validateErrs) != 1 {
		t.Fatalf("expected validator to reject digits in a text input, got %v", driver.validateErrs)
	}
}

func TestFillGeneratesCode(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	r, _ := New(WithPromptDriver(driver))

	tree := model.Tree{{ID: "sku", Type: model.TypeAlphanumericInput, Label: "SKU", Name: "sku", HasGenerateButton: true}}
	store := formdata.NewStore()
	if err := r.Fill(context.Background(), tree, store); err != nil {
		t.Fatalf("fill: %v", err)
	}

	value, _ := store.Get("sku")
	code, _ := value.(string)
	if !strings.HasPrefix(code, "SKU-") || len(code) != len("SKU-")+9 {
		t.Fatalf("unexpected generated code %q", code)
	}
}

func TestFillAborted(t *testing.T) {
	r, _ := New(WithPromptDriver(abortDriver{&stubDriver{}}))

	err := r.Fill(context.Background(), fillTree()[1:2], formdata.NewStore())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ *stubDriver }

func (abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }

func TestRenderFillReturnsJSON(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Runner"}}
	r, _ := New(WithPromptDriver(driver))

	tree := model.Tree{{ID: "title", Type: model.TypeTextInput, Label: "Title", Name: "title", Required: true}}
	out, err := r.Render(context.Background(), tree, render.RenderOptions{
		Surface: render.SurfaceFill,
		Errors:  map[string][]string{"title": {"Title is required"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"title": "Runner"}, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"✗ Title is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Title *"}, driver.prompts); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPreviewOutline(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))

	tree := fillTree()[:2]
	tree[0].IsLocked = true
	out, err := r.Render(context.Background(), tree, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "- Category [section] * (locked)\n  - Select Category [dropdown] *\n- Title [text-input]\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("outline mismatch (-want +got):\n%s", diff)
	}
}

func TestPromptImageUsesRealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "label.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	driver := &stubDriver{inputs: []string{path}}
	r, _ := New(WithPromptDriver(driver))
	store := formdata.NewStore()
	tree := model.Tree{{ID: "img", Type: model.TypeImagePicker, Label: "Image", Name: "image"}}
	if err := r.Fill(context.Background(), tree, store); err != nil {
		t.Fatalf("fill: %v", err)
	}

	value, _ := store.Get("image")
	want := formdata.FileRef{Name: "label.gif", Size: 6, ContentType: "image/gif"}
	if diff := cmp.Diff(want, value); diff != "" {
		t.Fatalf("file ref mismatch (-want +got):\n%s", diff)
	}
}
