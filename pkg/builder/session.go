package builder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/factory"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tree"
)

// State is the generation state of a session.
type State string

const (
	StateEditing    State = "editing"
	StateGenerating State = "generating"
	StateGenerated  State = "generated"
)

// Session owns one builder canvas: the live tree, the selection, the
// generated snapshot and the taxonomy drafts. Every mutation computes a new
// tree and swaps it in under the session mutex.
type Session struct {
	mu sync.Mutex

	id        string
	tree      model.Tree
	selected  string
	state     State
	generated model.Tree

	categoryDraft *CategoryDraft
	entityDraft   *EntityDraft

	factory       *factory.Factory
	notifier      Notifier
	logger        logrus.FieldLogger
	generateDelay time.Duration
	now           func() time.Time
	created       time.Time
}

// New creates an empty session in the editing state.
func New(opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		tree:     model.Tree{},
		state:    StateEditing,
		notifier: discardNotifier{},
		logger:   logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.factory == nil {
		s.factory = factory.New()
	}
	s.logger = s.logger.WithField("session", s.id)
	s.created = s.now()
	return s
}

// MustSession returns s, panicking when it is nil. Reaching for a session
// outside of the scope that owns one is a wiring bug.
func MustSession(s *Session) *Session {
	if s == nil {
		panic("builder: session used outside of its scope")
	}
	return s
}

func (s *Session) ID() string { return s.id }

// CreatedAt reports when the session was created.
func (s *Session) CreatedAt() time.Time { return s.created }

// Factory returns the factory backing Drop.
func (s *Session) Factory() *factory.Factory { return s.factory }

// State returns the current generation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tree returns a deep copy of the live tree.
func (s *Session) Tree() model.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Clone()
}

// Selected returns the selected component as it currently sits in the tree.
func (s *Session) Selected() (model.Component, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return model.Component{}, false
	}
	c, ok := s.tree.Find(s.selected)
	if !ok {
		return model.Component{}, false
	}
	return c.Clone(), true
}

// Generated returns a copy of the generated snapshot.
func (s *Session) Generated() (model.Tree, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateGenerated {
		return nil, false
	}
	return s.generated.Clone(), true
}

// ComponentCount counts root components of type t.
func (s *Session) ComponentCount(t model.ComponentType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.tree {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Insert places c under parentID (root when empty) at pos and selects it.
// Drops into the locked section are refused.
func (s *Session) Insert(ctx context.Context, c model.Component, parentID string, pos tree.Position) (model.Component, error) {
	s.mu.Lock()
	if parentID != "" {
		if parent, ok := s.rootSection(parentID); ok && model.IsLockedSection(parent) {
			s.mu.Unlock()
			return model.Component{}, s.fail(ctx, fmt.Errorf("%w: %s", ErrLockedSection, msgLockedDrop), parentID)
		}
	}

	if c.ID == "" {
		c.ID = s.factory.NewID()
	}
	next, err := tree.Insert(s.tree, c, parentID, pos, tree.WithIDGenerator(s.factory.NewID))
	if err != nil {
		s.mu.Unlock()
		return model.Component{}, s.fail(ctx, err, c.ID)
	}
	s.tree = next
	if s.state == StateEditing {
		s.selected = c.ID
	}
	inserted, _ := s.tree.Find(c.ID)
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"component": c.ID, "type": c.Type, "parent": parentID}).Debug("component inserted")
	s.notify(ctx, eventbus.KindComponentInserted, eventbus.LevelSuccess, "Added "+c.Label, c.ID)
	return inserted.Clone(), nil
}

// Update patches component id and refreshes the selection. Unknown ids are a
// silent no-op reported through the boolean.
func (s *Session) Update(ctx context.Context, id string, patch model.Patch) (model.Component, bool) {
	s.mu.Lock()
	next, updated, ok := tree.Update(s.tree, id, patch)
	if ok {
		s.tree = next
	}
	s.mu.Unlock()

	if !ok {
		s.logger.WithField("component", id).Debug("update ignored: component not found")
		return model.Component{}, false
	}
	s.notify(ctx, eventbus.KindComponentUpdated, eventbus.LevelInfo, "Updated "+updated.Label, id)
	return updated, true
}

// Remove deletes component id. The locked section and its children cannot be
// removed. Unknown ids return false without error.
func (s *Session) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	if c, ok := s.tree.Find(id); ok && model.IsLockedSection(c) {
		s.mu.Unlock()
		return false, s.fail(ctx, fmt.Errorf("%w: %s", ErrLockedSection, msgLockedSectionRemove), id)
	}
	if parent, ok := s.tree.ParentOf(id); ok && model.IsLockedSection(parent) {
		s.mu.Unlock()
		return false, s.fail(ctx, fmt.Errorf("%w: %s", ErrLockedSection, msgLockedChildRemove), id)
	}

	next, ok := tree.Remove(s.tree, id)
	if ok {
		s.tree = next
		s.refreshSelection()
	}
	s.mu.Unlock()

	if !ok {
		s.logger.WithField("component", id).Debug("remove ignored: component not found")
		return false, nil
	}
	s.notify(ctx, eventbus.KindComponentRemoved, eventbus.LevelInfo, "Component removed", id)
	return true, nil
}

// Move relocates the component at dragIndex of the source list to hoverIndex
// of the target list. Stale indexes and unknown parents are silent no-ops.
// Moves into, out of or within the locked section are refused.
func (s *Session) Move(ctx context.Context, dragIndex, hoverIndex int, sourceParentID, targetParentID string) (bool, error) {
	s.mu.Lock()
	for _, parentID := range []string{sourceParentID, targetParentID} {
		if parentID == "" {
			continue
		}
		if parent, ok := s.rootSection(parentID); ok && model.IsLockedSection(parent) {
			s.mu.Unlock()
			return false, s.fail(ctx, fmt.Errorf("%w: %s", ErrLockedSection, msgLockedMove), parentID)
		}
	}

	var movedID string
	if source, ok := tree.List(s.tree, sourceParentID); ok && dragIndex >= 0 && dragIndex < len(source) {
		movedID = source[dragIndex].ID
	}
	next, ok := tree.Move(s.tree, dragIndex, hoverIndex, sourceParentID, targetParentID)
	if ok {
		s.tree = next
	}
	s.mu.Unlock()

	if !ok {
		s.logger.WithFields(logrus.Fields{
			"drag":   dragIndex,
			"hover":  hoverIndex,
			"source": sourceParentID,
			"target": targetParentID,
		}).Debug("move ignored")
		return false, nil
	}
	s.notify(ctx, eventbus.KindComponentMoved, eventbus.LevelInfo, "Component moved", movedID)
	return true, nil
}

// Select marks component id as selected. An empty id clears the selection.
func (s *Session) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.state != StateEditing {
		s.mu.Unlock()
		return ErrNotEditing
	}
	if id != "" {
		if _, ok := s.tree.Find(id); !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrComponentNotFound, id)
		}
	}
	s.selected = id
	s.mu.Unlock()

	s.notify(ctx, eventbus.KindSelectionChanged, eventbus.LevelInfo, "Selection changed", id)
	return nil
}

// Generate snapshots the live tree into the generated form. The session sits
// in the generating state for the configured delay; cancelling ctx during the
// delay returns it to editing.
func (s *Session) Generate(ctx context.Context) (model.Tree, error) {
	s.mu.Lock()
	if s.state != StateEditing {
		s.mu.Unlock()
		return nil, ErrNotEditing
	}
	if len(s.tree) == 0 {
		s.mu.Unlock()
		return nil, s.fail(ctx, ErrEmptyForm, "")
	}
	snapshot := s.tree.Clone()
	s.state = StateGenerating
	s.mu.Unlock()

	s.notify(ctx, eventbus.KindFormGenerating, eventbus.LevelInfo, "Generating form", "")

	if s.generateDelay > 0 {
		timer := time.NewTimer(s.generateDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			s.mu.Lock()
			s.state = StateEditing
			s.mu.Unlock()
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	s.generated = snapshot
	s.state = StateGenerated
	s.mu.Unlock()

	s.logger.WithField("components", snapshot.Count()).Info("form generated")
	s.notify(ctx, eventbus.KindFormGenerated, eventbus.LevelSuccess, "Form generated successfully!", "")
	return snapshot.Clone(), nil
}

// Edit restores the generated snapshot as the live tree and discards it.
func (s *Session) Edit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateGenerated {
		s.mu.Unlock()
		return ErrNotGenerated
	}
	s.tree = s.generated
	s.generated = nil
	s.state = StateEditing
	s.refreshSelection()
	s.mu.Unlock()

	s.notify(ctx, eventbus.KindFormEditing, eventbus.LevelInfo, "Back to editing", "")
	return nil
}

// Notify publishes an event on behalf of a collaborator (taxonomy refresh,
// submission) so every session event flows through one notifier.
func (s *Session) Notify(ctx context.Context, kind eventbus.Kind, level eventbus.Level, message, componentID string) {
	s.notify(ctx, kind, level, message, componentID)
}

func (s *Session) rootSection(id string) (model.Component, bool) {
	for _, c := range s.tree {
		if c.ID == id && c.IsSection() {
			return c, true
		}
	}
	return model.Component{}, false
}

// refreshSelection must be called with s.mu held.
func (s *Session) refreshSelection() {
	if s.selected == "" {
		return
	}
	if _, ok := s.tree.Find(s.selected); !ok {
		s.selected = ""
	}
}

func (s *Session) fail(ctx context.Context, err error, componentID string) error {
	s.logger.WithField("component", componentID).WithError(err).Warn("operation rejected")
	s.notify(ctx, eventbus.KindOperationFailed, eventbus.LevelError, err.Error(), componentID)
	return err
}

func (s *Session) notify(ctx context.Context, kind eventbus.Kind, level eventbus.Level, message, componentID string) {
	s.notifier.Publish(ctx, eventbus.Event{
		Kind:        kind,
		Level:       level,
		Message:     message,
		SessionID:   s.id,
		ComponentID: componentID,
		Time:        s.now(),
	})
}
