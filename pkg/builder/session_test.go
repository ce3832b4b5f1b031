package builder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tree"
)

type eventLog struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (l *eventLog) Publish(_ context.Context, evt eventbus.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
}

func (l *eventLog) last() eventbus.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return eventbus.Event{}
	}
	return l.events[len(l.events)-1]
}

func newSession(t *testing.T, opts ...builder.Option) (*builder.Session, *eventLog) {
	t.Helper()
	log := &eventLog{}
	return builder.New(append([]builder.Option{builder.WithNotifier(log)}, opts...)...), log
}

func drop(t *testing.T, s *builder.Session, kind model.ComponentType, label, parent string) model.Component {
	t.Helper()
	c, err := s.Drop(context.Background(), builder.DropIntent{Type: kind, Label: label, ParentID: parent})
	if err != nil {
		t.Fatalf("drop %s %q: %v", kind, label, err)
	}
	return c
}

func TestDropCategorySection(t *testing.T) {
	s, log := newSession(t)
	category := drop(t, s, model.TypeSection, model.LabelCategorySection, "")

	if !category.IsLocked {
		t.Fatalf("Category section should be locked")
	}
	if got := len(category.Children); got != 5 {
		t.Fatalf("expected 5 children, got %d", got)
	}
	for _, child := range category.Children {
		if child.Type != model.TypeDropdown || !child.Required {
			t.Fatalf("child %q should be a required dropdown", child.Label)
		}
	}
	selected, ok := s.Selected()
	if !ok || selected.ID != category.ID {
		t.Fatalf("inserted component should be selected")
	}
	if evt := log.last(); evt.Kind != eventbus.KindComponentInserted || evt.Message != "Added Category" {
		t.Fatalf("unexpected event %#v", evt)
	}
}

func TestInsertIntoMissingParent(t *testing.T) {
	s, log := newSession(t)
	drop(t, s, model.TypeTextInput, "Product Name", "")
	if err := s.Select(context.Background(), ""); err != nil {
		t.Fatalf("clear selection: %v", err)
	}
	before := s.Tree()

	c := s.Factory().Create(model.TypeTextInput, "Collection")
	_, err := s.Insert(context.Background(), c, "nonexistent", tree.End)
	if !errors.Is(err, tree.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
	if diff := cmp.Diff(before, s.Tree()); diff != "" {
		t.Fatalf("tree changed (-want +got):\n%s", diff)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("failed insert must not select anything")
	}
	if evt := log.last(); evt.Level != eventbus.LevelError {
		t.Fatalf("expected an error event, got %#v", evt)
	}
}

func TestLockedSectionImmunity(t *testing.T) {
	s, _ := newSession(t)
	category := drop(t, s, model.TypeSection, model.LabelCategorySection, "")
	drop(t, s, model.TypeSection, "Stock", "")
	before := s.Tree()

	if _, err := s.Remove(context.Background(), category.ID); !errors.Is(err, builder.ErrLockedSection) {
		t.Fatalf("removing the Category section: expected ErrLockedSection, got %v", err)
	}
	if _, err := s.Remove(context.Background(), category.Children[2].ID); !errors.Is(err, builder.ErrLockedSection) {
		t.Fatalf("removing a Category child: expected ErrLockedSection, got %v", err)
	}
	if _, err := s.Drop(context.Background(), builder.DropIntent{Type: model.TypeTextInput, Label: "Notes", ParentID: category.ID}); !errors.Is(err, builder.ErrLockedSection) {
		t.Fatalf("dropping into Category: expected ErrLockedSection, got %v", err)
	}
	if _, err := s.Insert(context.Background(), s.Factory().Create(model.TypeTextInput, "Notes"), category.ID, tree.End); !errors.Is(err, builder.ErrLockedSection) {
		t.Fatalf("inserting into Category: expected ErrLockedSection, got %v", err)
	}
	if _, err := s.Move(context.Background(), 0, 0, category.ID, ""); !errors.Is(err, builder.ErrLockedSection) {
		t.Fatalf("moving out of Category: expected ErrLockedSection, got %v", err)
	}
	if s.CanDrop(model.TypeTextInput, category.ID) {
		t.Fatalf("CanDrop should refuse the locked section")
	}

	if diff := cmp.Diff(before, s.Tree()); diff != "" {
		t.Fatalf("tree changed (-want +got):\n%s", diff)
	}
}

func TestCanDrop(t *testing.T) {
	s, _ := newSession(t)
	stock := drop(t, s, model.TypeSection, "Stock", "")
	field := drop(t, s, model.TypeTextInput, "Product Name", "")

	cases := []struct {
		name   string
		kind   model.ComponentType
		target string
		want   bool
	}{
		{"field on root", model.TypeTextInput, "", true},
		{"section on root", model.TypeSection, "", true},
		{"field into section", model.TypeDropdown, stock.ID, true},
		{"section into section", model.TypeSection, stock.ID, false},
		{"onto a field", model.TypeTextInput, field.ID, false},
		{"unknown target", model.TypeTextInput, "ghost", false},
		{"unknown type", model.ComponentType("slider"), "", false},
	}
	for _, tc := range cases {
		if got := s.CanDrop(tc.kind, tc.target); got != tc.want {
			t.Errorf("%s: CanDrop = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := s.Drop(context.Background(), builder.DropIntent{Type: model.TypeSection, Label: "Tax", ParentID: stock.ID}); !errors.Is(err, builder.ErrDropRejected) {
		t.Fatalf("expected ErrDropRejected, got %v", err)
	}
}

func TestUpdateRefreshesSelection(t *testing.T) {
	s, _ := newSession(t)
	stock := drop(t, s, model.TypeSection, "Stock", "")
	child := stock.Children[0]
	if err := s.Select(context.Background(), child.ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	updated, ok := s.Update(context.Background(), child.ID, model.Patch{Label: model.String("Units In Stock")})
	if !ok || updated.Label != "Units In Stock" {
		t.Fatalf("update failed: %#v %v", updated, ok)
	}
	selected, ok := s.Selected()
	if !ok || selected.Label != "Units In Stock" {
		t.Fatalf("selection not refreshed: %#v", selected)
	}

	if _, ok := s.Update(context.Background(), "ghost", model.Patch{Label: model.String("x")}); ok {
		t.Fatalf("update of missing id should report false")
	}
}

func TestRemoveClearsSelection(t *testing.T) {
	s, _ := newSession(t)
	stock := drop(t, s, model.TypeSection, "Stock", "")
	if err := s.Select(context.Background(), stock.Children[1].ID); err != nil {
		t.Fatalf("select: %v", err)
	}

	removed, err := s.Remove(context.Background(), stock.ID)
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	if _, ok := s.Selected(); ok {
		t.Fatalf("removing the selected component's section should clear the selection")
	}

	removed, err = s.Remove(context.Background(), "ghost")
	if err != nil || removed {
		t.Fatalf("missing id should be a silent no-op, got %v %v", removed, err)
	}
}

func TestMoveThroughSession(t *testing.T) {
	s, _ := newSession(t)
	drop(t, s, model.TypeTextInput, "Product Name", "")
	stock := drop(t, s, model.TypeSection, "Stock", "")
	before := s.Tree().Count()

	moved, err := s.Move(context.Background(), 0, 2, "", stock.ID)
	if err != nil || !moved {
		t.Fatalf("move: %v %v", moved, err)
	}
	live := s.Tree()
	if len(live) != 1 || live.Count() != before {
		t.Fatalf("unexpected tree after move: %d roots, %d total", len(live), live.Count())
	}
	if got := live[0].Children[2].Label; got != "Product Name" {
		t.Fatalf("expected Product Name at children[2], got %q", got)
	}

	moved, err = s.Move(context.Background(), 7, 0, "", "")
	if err != nil || moved {
		t.Fatalf("stale index should be a no-op, got %v %v", moved, err)
	}
}

func TestGenerateAndEdit(t *testing.T) {
	s, log := newSession(t)

	if _, err := s.Generate(context.Background()); !errors.Is(err, builder.ErrEmptyForm) {
		t.Fatalf("expected ErrEmptyForm, got %v", err)
	}
	if s.State() != builder.StateEditing {
		t.Fatalf("failed generate must not change state")
	}

	field := drop(t, s, model.TypeTextInput, "Product Name", "")
	drop(t, s, model.TypeSection, "Tax", "")
	snapshot, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if s.State() != builder.StateGenerated || log.last().Kind != eventbus.KindFormGenerated {
		t.Fatalf("expected generated state and event")
	}
	if err := s.Select(context.Background(), field.ID); !errors.Is(err, builder.ErrNotEditing) {
		t.Fatalf("select outside editing: expected ErrNotEditing, got %v", err)
	}

	drop(t, s, model.TypeDropdown, "Select Brand", "")
	s.Update(context.Background(), field.ID, model.Patch{Label: model.String("Title")})
	if _, err := s.Remove(context.Background(), snapshot[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	generated, ok := s.Generated()
	if !ok {
		t.Fatalf("generated form missing")
	}
	if diff := cmp.Diff(snapshot, generated); diff != "" {
		t.Fatalf("snapshot changed by live edits (-want +got):\n%s", diff)
	}

	if err := s.Edit(context.Background()); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if diff := cmp.Diff(snapshot, s.Tree()); diff != "" {
		t.Fatalf("live tree should equal the snapshot after edit (-want +got):\n%s", diff)
	}
	if _, ok := s.Generated(); ok {
		t.Fatalf("snapshot should be discarded after edit")
	}
	if err := s.Edit(context.Background()); !errors.Is(err, builder.ErrNotGenerated) {
		t.Fatalf("expected ErrNotGenerated, got %v", err)
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	s, _ := newSession(t, builder.WithGenerateDelay(time.Hour))
	drop(t, s, model.TypeTextInput, "Product Name", "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(ctx)
		done <- err
	}()

	deadline := time.Now().Add(time.Second)
	for s.State() != builder.StateGenerating {
		if time.Now().After(deadline) {
			t.Fatalf("session never entered the generating state")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.State() != builder.StateEditing {
		t.Fatalf("cancelled generate should return to editing, got %s", s.State())
	}
}

func TestButtonLabelsAreNumbered(t *testing.T) {
	s, _ := newSession(t)
	first := drop(t, s, model.TypeButton, "", "")
	second := drop(t, s, model.TypeButton, "", "")
	if first.Label != "Button 1" || second.Label != "Button 2" {
		t.Fatalf("unexpected labels %q, %q", first.Label, second.Label)
	}
	if got := s.ComponentCount(model.TypeButton); got != 2 {
		t.Fatalf("ComponentCount = %d", got)
	}
}

func TestDrafts(t *testing.T) {
	s, _ := newSession(t)
	if _, ok := s.CategoryDraft(); ok {
		t.Fatalf("new session should have no draft")
	}
	s.SetCategoryDraft(builder.CategoryDraft{Name: "Electronics", Visible: true})
	s.SetEntityDraft(builder.EntityDraft{Level: "subcategory", Name: "Phones", ParentID: "1"})

	cat, ok := s.CategoryDraft()
	if !ok || cat.Name != "Electronics" {
		t.Fatalf("unexpected category draft %#v", cat)
	}
	ent, ok := s.EntityDraft()
	if !ok || ent.ParentID != "1" {
		t.Fatalf("unexpected entity draft %#v", ent)
	}
	s.ClearDrafts()
	if _, ok := s.EntityDraft(); ok {
		t.Fatalf("drafts should be cleared")
	}
}

func TestSessionContext(t *testing.T) {
	s, _ := newSession(t)
	ctx := builder.NewContext(context.Background(), s)
	if got := builder.MustFromContext(ctx); got != s {
		t.Fatalf("wrong session from context")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic outside of a session scope")
		}
	}()
	builder.MustFromContext(context.Background())
}

func TestConcurrentMutationsKeepInvariants(t *testing.T) {
	s, _ := newSession(t)
	section := drop(t, s, model.TypeSection, "Stock", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				parent := ""
				if (i+j)%2 == 0 {
					parent = section.ID
				}
				_, _ = s.Drop(context.Background(), builder.DropIntent{Type: model.TypeTextInput, Label: "Field", ParentID: parent})
				_, _ = s.Move(context.Background(), j%3, (j+1)%3, "", section.ID)
			}
		}(i)
	}
	wg.Wait()

	if err := model.Validate(s.Tree()); err != nil {
		t.Fatalf("invariants broken: %v", err)
	}
	if got := s.Tree().Count(); got != 1+5+8*20 {
		t.Fatalf("unexpected count %d", got)
	}
}
