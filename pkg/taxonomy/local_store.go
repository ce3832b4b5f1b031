package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS taxonomy_entities (
	level       TEXT NOT NULL,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL,
	code        TEXT NOT NULL DEFAULT '',
	parent_id   TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	depth       INTEGER NOT NULL DEFAULT 0,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (level, id)
);
CREATE INDEX IF NOT EXISTS taxonomy_entities_parent ON taxonomy_entities (level, parent_id);
`

// LocalStore keeps a copy of taxonomy entities in SQLite so dropdowns can
// still be filled when the service is down.
type LocalStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenLocalStore opens (and migrates) the SQLite database at dsn. Use
// ":memory:" for a throwaway store.
func OpenLocalStore(ctx context.Context, dsn string) (*LocalStore, error) {
	if dsn == "" {
		return nil, errors.New("taxonomy: local store path is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: open local store: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("taxonomy: migrate local store: %w", err)
	}
	return &LocalStore{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *LocalStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const upsert = `
INSERT INTO taxonomy_entities (level, id, name, code, parent_id, image_url, description, depth, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (level, id) DO UPDATE SET
	name = excluded.name,
	code = excluded.code,
	parent_id = excluded.parent_id,
	image_url = excluded.image_url,
	description = excluded.description,
	depth = excluded.depth,
	updated_at = excluded.updated_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Save upserts e. Entities without an id get a generated one, which is
// returned.
func (s *LocalStore) Save(ctx context.Context, e Entity) (Entity, error) {
	return s.save(ctx, s.db, e)
}

// SaveAll upserts every entity in one transaction.
func (s *LocalStore) SaveAll(ctx context.Context, entities []Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("taxonomy: begin: %w", err)
	}
	for _, e := range entities {
		if _, err := s.save(ctx, tx, e); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("taxonomy: commit: %w", err)
	}
	return nil
}

func (s *LocalStore) save(ctx context.Context, db execer, e Entity) (Entity, error) {
	if _, err := e.Level.info(); err != nil {
		return Entity{}, err
	}
	if e.Name == "" {
		return Entity{}, ErrMissingName
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Depth == 0 {
		e.Depth = e.Level.Depth()
	}

	_, err := db.ExecContext(ctx, upsert,
		string(e.Level), e.ID, e.Name, e.Code, e.ParentID, e.ImageURL, e.Description, e.Depth,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entity{}, fmt.Errorf("taxonomy: save %s %q: %w", e.Level, e.Name, err)
	}
	return e, nil
}

// SaveCategory stores a top-level category.
func (s *LocalStore) SaveCategory(ctx context.Context, e Entity) (Entity, error) {
	e.Level = LevelCategory
	if e.ParentID == "" {
		e.ParentID = RootParentID
	}
	return s.Save(ctx, e)
}

// ListCategories returns the stored categories.
func (s *LocalStore) ListCategories(ctx context.Context) ([]Entity, error) {
	return s.List(ctx, LevelCategory, "")
}

// List returns the stored entities of level, ordered by name. A non-empty
// parentID filters the lower levels.
func (s *LocalStore) List(ctx context.Context, level Level, parentID string) ([]Entity, error) {
	if _, err := level.info(); err != nil {
		return nil, err
	}

	query := `SELECT id, name, code, parent_id, image_url, description, depth
FROM taxonomy_entities WHERE level = ?`
	args := []any{string(level)}
	if level != LevelCategory && parentID != "" {
		query += ` AND parent_id = ?`
		args = append(args, parentID)
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: list local %s: %w", level, err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		e := Entity{Level: level}
		if err := rows.Scan(&e.ID, &e.Name, &e.Code, &e.ParentID, &e.ImageURL, &e.Description, &e.Depth); err != nil {
			return nil, fmt.Errorf("taxonomy: scan local %s: %w", level, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taxonomy: list local %s: %w", level, err)
	}
	return out, nil
}
