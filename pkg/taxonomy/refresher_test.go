package taxonomy_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/eventbus"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/taxonomy"
)

type recorder struct {
	mu    sync.Mutex
	kinds []eventbus.Kind
}

func (r *recorder) Publish(_ context.Context, evt eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, evt.Kind)
}

func (r *recorder) has(kind eventbus.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type failingSource struct{}

func (failingSource) List(context.Context, taxonomy.Level, string) ([]taxonomy.Entity, error) {
	return nil, errors.New("connection refused")
}

type staticSource []taxonomy.Entity

func (s staticSource) List(_ context.Context, level taxonomy.Level, _ string) ([]taxonomy.Entity, error) {
	var out []taxonomy.Entity
	for _, e := range s {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out, nil
}

func sessionWithCategory(t *testing.T) (*builder.Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := builder.New(builder.WithNotifier(rec))
	_, err := s.Drop(context.Background(), builder.DropIntent{Type: model.TypeSection, Label: model.LabelCategorySection})
	require.NoError(t, err)
	return s, rec
}

func dropdownOptions(s *builder.Session, label string) []model.Option {
	var options []model.Option
	s.Tree().Walk(func(c model.Component, _ *model.Component) bool {
		if c.Type == model.TypeDropdown && c.Label == label {
			options = c.Options
			return false
		}
		return true
	})
	return options
}

func openStore(t *testing.T) *taxonomy.LocalStore {
	t.Helper()
	store, err := taxonomy.OpenLocalStore(context.Background(), filepath.Join(t.TempDir(), "taxonomy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRefreshUpdatesMatchingDropdowns(t *testing.T) {
	s, rec := sessionWithCategory(t)
	source := staticSource{
		{Level: taxonomy.LevelCategory, ID: "c1", Name: "Electronics", ImageURL: "e.png"},
		{Level: taxonomy.LevelCategory, ID: "c2", Name: "Fashion"},
	}

	n, err := taxonomy.NewRefresher(source).Refresh(context.Background(), s, taxonomy.LevelCategory, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []model.Option{
		{ID: "c1", Label: "Electronics", Value: "c1", ImageURL: "e.png"},
		{ID: "c2", Label: "Fashion", Value: "c2"},
	}, dropdownOptions(s, "Select Category"))
	assert.True(t, rec.has(eventbus.KindTaxonomyRefreshed))
}

func TestRefreshKeepsOptionsOnEmptyListing(t *testing.T) {
	s, _ := sessionWithCategory(t)
	before := dropdownOptions(s, "Select Subcategory")

	n, err := taxonomy.NewRefresher(staticSource{}).Refresh(context.Background(), s, taxonomy.LevelSubcategory, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, before, dropdownOptions(s, "Select Subcategory"))
}

func TestRefreshFallsBackToLocalStore(t *testing.T) {
	ctx := context.Background()
	s, _ := sessionWithCategory(t)
	store := openStore(t)
	_, err := store.SaveCategory(ctx, taxonomy.Entity{ID: "c9", Name: "Cached"})
	require.NoError(t, err)

	n, err := taxonomy.NewRefresher(failingSource{}, taxonomy.WithFallback(store)).
		Refresh(ctx, s, taxonomy.LevelCategory, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []model.Option{{ID: "c9", Label: "Cached", Value: "c9"}}, dropdownOptions(s, "Select Category"))
}

func TestRefreshReportsFailureWithoutFallback(t *testing.T) {
	s, rec := sessionWithCategory(t)

	_, err := taxonomy.NewRefresher(failingSource{}).Refresh(context.Background(), s, taxonomy.LevelCategory, "")
	require.Error(t, err)
	assert.True(t, rec.has(eventbus.KindOperationFailed))
}

func TestCreateRefreshesAndCachesLocally(t *testing.T) {
	ctx := context.Background()
	s, rec := sessionWithCategory(t)
	store := openStore(t)
	s.SetCategoryDraft(builder.CategoryDraft{Name: "Toys", Visible: true, ShowInMenu: true})

	created := false
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			created = true
			_, _ = io.WriteString(w, `{"message": "ok", "data": {"message": "Category created", "category_id": "c3"}}`)
		default:
			if !created {
				_, _ = io.WriteString(w, `[]`)
				return
			}
			_, _ = io.WriteString(w, `[{"category_id": "c3", "category_name": "Toys"}]`)
		}
	})

	draft, ok := s.CategoryDraft()
	require.True(t, ok)

	refresher := taxonomy.NewRefresher(client, taxonomy.WithFallback(store))
	got, err := refresher.Create(ctx, s, taxonomy.LevelCategory, taxonomy.InputFromCategoryDraft(draft))
	require.NoError(t, err)
	assert.Equal(t, "Category created", got.Message)
	assert.True(t, rec.has(eventbus.KindTaxonomyCreated))
	assert.Equal(t, []model.Option{{ID: "c3", Label: "Toys", Value: "c3"}}, dropdownOptions(s, "Select Category"))

	_, ok = s.CategoryDraft()
	assert.False(t, ok, "drafts are cleared after a successful create")

	cached, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Toys", cached[0].Name)
}

func TestCreateFailureLeavesSessionUntouched(t *testing.T) {
	s, rec := sessionWithCategory(t)
	before := s.Tree()
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message": "name taken"}`)
	})

	_, err := taxonomy.NewRefresher(client).Create(context.Background(), s, taxonomy.LevelCategory, taxonomy.EntityInput{Name: "Toys"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name taken")
	assert.Equal(t, before, s.Tree())
	assert.True(t, rec.has(eventbus.KindOperationFailed))
}

func TestInputFromEntityDraft(t *testing.T) {
	level, in, err := taxonomy.InputFromEntityDraft(builder.EntityDraft{
		Level:    "product-type",
		Name:     "New",
		ParentID: "st1",
		Visible:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, taxonomy.LevelProductType, level)
	assert.Equal(t, taxonomy.EntityInput{Name: "New", ParentID: "st1", Visible: true, Depth: 4}, in)

	_, _, err = taxonomy.InputFromEntityDraft(builder.EntityDraft{Level: "brand"})
	assert.ErrorIs(t, err, taxonomy.ErrUnknownLevel)
}
