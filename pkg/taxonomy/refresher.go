package taxonomy

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Source lists taxonomy entities. Client and LocalStore both satisfy it.
type Source interface {
	List(ctx context.Context, level Level, parentID string) ([]Entity, error)
}

// Creator creates taxonomy entities. Client satisfies it.
type Creator interface {
	Create(ctx context.Context, level Level, in EntityInput) (CreateResult, error)
}

var (
	_ Source  = (*Client)(nil)
	_ Source  = (*LocalStore)(nil)
	_ Creator = (*Client)(nil)
)

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithFallback sets the store used when the remote listing fails. Remote
// results are also written to it.
func WithFallback(store *LocalStore) RefresherOption {
	return func(r *Refresher) {
		if store != nil {
			r.fallback = store
		}
	}
}

// WithCreator sets who handles Create. It defaults to the remote source when
// that is a Client.
func WithCreator(c Creator) RefresherOption {
	return func(r *Refresher) {
		if c != nil {
			r.creator = c
		}
	}
}

// WithRefresherLogger sets the refresher logger.
func WithRefresherLogger(logger logrus.FieldLogger) RefresherOption {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Refresher loads taxonomy entries and writes them into the dropdowns of a
// builder session.
type Refresher struct {
	remote   Source
	creator  Creator
	fallback *LocalStore
	logger   logrus.FieldLogger
}

// NewRefresher wires a refresher around remote.
func NewRefresher(remote Source, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		remote: remote,
		logger: logrus.StandardLogger(),
	}
	if c, ok := remote.(Creator); ok {
		r.creator = c
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Load returns the entries of level under parentID, from the remote source
// or, when that fails, from the fallback store.
func (r *Refresher) Load(ctx context.Context, level Level, parentID string) ([]Entity, error) {
	if r.remote == nil && r.fallback == nil {
		return nil, fmt.Errorf("taxonomy: refresher has no source")
	}

	var remoteErr error
	if r.remote != nil {
		entities, err := r.remote.List(ctx, level, parentID)
		if err == nil {
			r.remember(ctx, entities)
			return entities, nil
		}
		remoteErr = err
		r.logger.WithError(err).WithField("level", level).Warn("taxonomy listing failed")
	}

	if r.fallback == nil {
		return nil, remoteErr
	}
	entities, err := r.fallback.List(ctx, level, parentID)
	if err != nil {
		if remoteErr != nil {
			return nil, fmt.Errorf("%w (local fallback: %v)", remoteErr, err)
		}
		return nil, err
	}
	r.logger.WithFields(logrus.Fields{"level": level, "count": len(entities)}).Info("taxonomy served from local store")
	return entities, nil
}

// Refresh loads level and replaces the options of every dropdown in s
// labelled with the level's dropdown label. An empty listing leaves the
// dropdowns untouched. It returns the number of dropdowns updated.
func (r *Refresher) Refresh(ctx context.Context, s *builder.Session, level Level, parentID string) (int, error) {
	s = builder.MustSession(s)
	if _, err := level.info(); err != nil {
		return 0, err
	}

	entities, err := r.Load(ctx, level, parentID)
	if err != nil {
		s.Notify(ctx, eventbus.KindOperationFailed, eventbus.LevelError, "Failed to load "+level.DropdownLabel(), "")
		return 0, err
	}
	options := OptionsFrom(entities)
	if len(options) == 0 {
		return 0, nil
	}

	updated := 0
	for _, id := range dropdownIDs(s.Tree(), level.DropdownLabel()) {
		if _, ok := s.Update(ctx, id, model.Patch{Options: model.OptionList(options)}); ok {
			updated++
		}
	}
	if updated > 0 {
		s.Notify(ctx, eventbus.KindTaxonomyRefreshed, eventbus.LevelInfo,
			fmt.Sprintf("Loaded %d options into %s", len(options), level.DropdownLabel()), "")
	}
	return updated, nil
}

// Create sends in to the creator, records the result locally and refreshes
// the level's dropdowns in s. A failed create leaves s untouched.
func (r *Refresher) Create(ctx context.Context, s *builder.Session, level Level, in EntityInput) (CreateResult, error) {
	s = builder.MustSession(s)
	if r.creator == nil {
		return CreateResult{}, fmt.Errorf("taxonomy: refresher has no creator")
	}

	result, err := r.creator.Create(ctx, level, in)
	if err != nil {
		s.Notify(ctx, eventbus.KindOperationFailed, eventbus.LevelError, err.Error(), "")
		return CreateResult{}, err
	}

	if result.ID != "" {
		r.remember(ctx, []Entity{{
			Level:       level,
			ID:          result.ID,
			Name:        in.Name,
			Code:        result.Code,
			ParentID:    parentOrRoot(level, in.ParentID),
			ImageURL:    result.ImageURL,
			Description: in.Description,
			Depth:       in.Depth,
		}})
	}

	msg := result.Message
	if msg == "" {
		msg = "Created " + in.Name
	}
	s.Notify(ctx, eventbus.KindTaxonomyCreated, eventbus.LevelSuccess, msg, "")

	parent := in.ParentID
	if level == LevelCategory {
		parent = ""
	}
	if _, err := r.Refresh(ctx, s, level, parent); err != nil {
		r.logger.WithError(err).WithField("level", level).Warn("refresh after create failed")
	}
	s.ClearDrafts()
	return result, nil
}

func (r *Refresher) remember(ctx context.Context, entities []Entity) {
	if r.fallback == nil || len(entities) == 0 {
		return
	}
	if err := r.fallback.SaveAll(ctx, entities); err != nil {
		r.logger.WithError(err).Warn("taxonomy local store update failed")
	}
}

func dropdownIDs(tree model.Tree, label string) []string {
	var ids []string
	tree.Walk(func(c model.Component, _ *model.Component) bool {
		if c.Type == model.TypeDropdown && c.Label == label {
			ids = append(ids, c.ID)
		}
		return true
	})
	return ids
}

func parentOrRoot(level Level, parentID string) string {
	if level == LevelCategory && parentID == "" {
		return RootParentID
	}
	return parentID
}
