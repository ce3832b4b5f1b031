package tree

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	ErrParentNotFound = errors.New("tree: parent section not found")
	ErrNestedSection  = errors.New("tree: sections cannot be nested")
)

// Position addresses a slot in a component list. The zero value is End.
type Position struct {
	index int
	set   bool
}

// End appends to the target list.
var End = Position{}

// At targets index i. Indexes outside [0, len] append.
func At(i int) Position {
	return Position{index: i, set: true}
}

// Index reports the requested index and whether one was set.
func (p Position) Index() (int, bool) {
	return p.index, p.set
}

func (p Position) resolve(length int) int {
	if !p.set || p.index < 0 || p.index > length {
		return length
	}
	return p.index
}

// Option configures an insert.
type Option func(*config)

type config struct {
	newID func() string
}

// WithIDGenerator overrides the id source used to re-key section children.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Insert places c at pos, under the root list when parentID is empty or under
// the top-level section parentID otherwise. Children of an inserted section
// get fresh ids. On error the returned tree is t itself.
func Insert(t model.Tree, c model.Component, parentID string, pos Position, opts ...Option) (model.Tree, error) {
	cfg := newConfig(opts)

	item := c.Clone()
	if item.IsSection() {
		for i := range item.Children {
			if item.Children[i].IsSection() {
				return t, fmt.Errorf("%w: %q inside %q", ErrNestedSection, item.Children[i].Label, item.Label)
			}
			item.Children[i].ID = cfg.newID()
		}
	}
	if err := checkUnique(t, item); err != nil {
		return t, err
	}

	if parentID == "" {
		return insertAt(t, item, pos.resolve(len(t))), nil
	}

	idx := sectionIndex(t, parentID)
	if idx < 0 {
		return t, fmt.Errorf("%w: %q", ErrParentNotFound, parentID)
	}
	if item.IsSection() {
		return t, fmt.Errorf("%w: %q into %q", ErrNestedSection, item.Label, t[idx].Label)
	}

	out := shallowCopy(t)
	parent := out[idx]
	parent.Children = insertAt(parent.Children, item, pos.resolve(len(parent.Children)))
	out[idx] = parent
	return out, nil
}

// Update merges patch into the first component matching id. The boolean is
// false, and t is returned unchanged, when id is absent.
func Update(t model.Tree, id string, patch model.Patch) (model.Tree, model.Component, bool) {
	for i, root := range t {
		if root.ID == id {
			out := shallowCopy(t)
			out[i] = patch.Apply(root)
			return out, out[i].Clone(), true
		}
		for j, child := range root.Children {
			if child.ID != id {
				continue
			}
			out := shallowCopy(t)
			parent := out[i]
			parent.Children = shallowCopy(parent.Children)
			parent.Children[j] = patch.Apply(child)
			out[i] = parent
			return out, parent.Children[j].Clone(), true
		}
	}
	return t, model.Component{}, false
}

// Remove deletes id wherever it sits. The boolean is false when id is absent.
func Remove(t model.Tree, id string) (model.Tree, bool) {
	for i, root := range t {
		if root.ID == id {
			return removeAt(t, i), true
		}
		for j, child := range root.Children {
			if child.ID != id {
				continue
			}
			out := shallowCopy(t)
			parent := out[i]
			parent.Children = removeAt(parent.Children, j)
			out[i] = parent
			return out, true
		}
	}
	return t, false
}

// Move takes the component at dragIndex of the source list and places it at
// hoverIndex of the target list. Empty parent ids address the root list.
// The move is a no-op (t returned, false) when the source index is stale,
// either parent is missing or a section would land inside a section. A hover
// index past the end appends.
func Move(t model.Tree, dragIndex, hoverIndex int, sourceParentID, targetParentID string) (model.Tree, bool) {
	source, ok := list(t, sourceParentID)
	if !ok || dragIndex < 0 || dragIndex >= len(source) {
		return t, false
	}
	dragged := source[dragIndex]

	if sourceParentID == targetParentID {
		reordered := removeAt(source, dragIndex)
		reordered = insertAt(reordered, dragged, clamp(hoverIndex, len(reordered)))
		return replaceList(t, sourceParentID, reordered), true
	}

	target, ok := list(t, targetParentID)
	if !ok {
		return t, false
	}
	if dragged.IsSection() && targetParentID != "" {
		return t, false
	}

	out := replaceList(t, sourceParentID, removeAt(source, dragIndex))
	if targetParentID == "" {
		return insertAt(out, dragged, clamp(hoverIndex, len(out))), true
	}
	target, _ = list(out, targetParentID)
	return replaceList(out, targetParentID, insertAt(target, dragged, clamp(hoverIndex, len(target)))), true
}

// List returns the component list addressed by parentID: the root list when
// parentID is empty, otherwise the children of that top-level section.
func List(t model.Tree, parentID string) ([]model.Component, bool) {
	return list(t, parentID)
}

func list(t model.Tree, parentID string) ([]model.Component, bool) {
	if parentID == "" {
		return t, true
	}
	idx := sectionIndex(t, parentID)
	if idx < 0 {
		return nil, false
	}
	return t[idx].Children, true
}

func replaceList(t model.Tree, parentID string, items []model.Component) model.Tree {
	if parentID == "" {
		return items
	}
	out := shallowCopy(t)
	idx := sectionIndex(out, parentID)
	parent := out[idx]
	parent.Children = items
	out[idx] = parent
	return out
}

func sectionIndex(t model.Tree, id string) int {
	for i, c := range t {
		if c.ID == id && c.IsSection() {
			return i
		}
	}
	return -1
}

func checkUnique(t model.Tree, c model.Component) error {
	existing := make(map[string]struct{}, t.Count())
	for _, id := range t.IDs() {
		existing[id] = struct{}{}
	}
	for _, id := range (model.Tree{c}).IDs() {
		if _, dup := existing[id]; dup {
			return fmt.Errorf("%w %q", model.ErrDuplicateID, id)
		}
		existing[id] = struct{}{}
	}
	return nil
}

func clamp(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func shallowCopy[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

func insertAt(items []model.Component, c model.Component, i int) []model.Component {
	out := make([]model.Component, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, c)
	return append(out, items[i:]...)
}

func removeAt(items []model.Component, i int) []model.Component {
	out := make([]model.Component, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
