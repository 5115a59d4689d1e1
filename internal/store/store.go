// Package store provides the SQLite-backed note store. Every mutating call
// persists durably before returning; there is no write-behind caching.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/noteshot/internal/apperr"
	"github.com/starford/noteshot/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL DEFAULT '',
	content          TEXT NOT NULL DEFAULT '',
	tags             TEXT NOT NULL DEFAULT '[]',
	created_at       INTEGER NOT NULL DEFAULT 0,
	updated_at       INTEGER NOT NULL DEFAULT 0,
	embedding        TEXT,
	auto_title       INTEGER NOT NULL DEFAULT 0,
	auto_tags        INTEGER NOT NULL DEFAULT 0,
	cover_image_path TEXT NOT NULL DEFAULT '',
	icon             TEXT NOT NULL DEFAULT '',
	favorite         INTEGER NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT '',
	priority         TEXT NOT NULL DEFAULT '',
	parent_id        TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with note store operations.
type DB struct {
	conn    *sql.DB
	corrupt atomic.Int64
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CorruptRecords returns how many stored tags/embedding fields failed to
// deserialize since the store was opened. Corrupt fields are coerced to
// empty/absent rather than surfaced as errors; this counter is the diagnostic.
func (db *DB) CorruptRecords() int64 {
	return db.corrupt.Load()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Create assigns an id and timestamps, fills defaults, and persists the note.
func (db *DB) Create(ctx context.Context, n models.Note) (models.Note, error) {
	n.ID = uuid.NewString()
	now := nowMillis()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.Title == "" {
		n.Title = models.DefaultTitle
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (
			id, title, content, tags, created_at, updated_at, embedding,
			auto_title, auto_tags, cover_image_path, icon, favorite,
			status, priority, parent_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Content, encodeTags(n.Tags), n.CreatedAt, n.UpdatedAt,
		encodeEmbedding(n.Embedding), n.AutoTitle, n.AutoTags,
		n.CoverImagePath, n.Icon, n.Favorite, n.Status, n.Priority, n.ParentID)
	if err != nil {
		return models.Note{}, fmt.Errorf("store: create note: %w", err)
	}
	return n, nil
}

// Get returns the note with the given id, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (models.Note, error) {
	row := db.conn.QueryRowContext(ctx, selectCols+` FROM notes WHERE id = ?`, id)
	n, err := db.scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// List returns every note. No order is guaranteed; callers sort.
func (db *DB) List(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, selectCols+` FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()
	return db.collectNotes(rows)
}

// Update merges the patch onto the existing note, bumps updated_at, and
// persists. Returns apperr.ErrNotFound for an unknown id.
func (db *DB) Update(ctx context.Context, id string, p Patch) (models.Note, error) {
	n, err := db.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	p.apply(&n)
	n.UpdatedAt = nowMillis()

	_, err = db.conn.ExecContext(ctx, `
		UPDATE notes SET
			title = ?, content = ?, tags = ?, updated_at = ?, embedding = ?,
			auto_title = ?, auto_tags = ?, cover_image_path = ?, icon = ?,
			favorite = ?, status = ?, priority = ?, parent_id = ?
		WHERE id = ?
	`, n.Title, n.Content, encodeTags(n.Tags), n.UpdatedAt,
		encodeEmbedding(n.Embedding), n.AutoTitle, n.AutoTags,
		n.CoverImagePath, n.Icon, n.Favorite, n.Status, n.Priority, n.ParentID,
		n.ID)
	if err != nil {
		return models.Note{}, fmt.Errorf("store: update note: %w", err)
	}
	return n, nil
}

// Delete removes a note. Deleting a non-existent id is not an error.
func (db *DB) Delete(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return nil
}

// ListByTag returns every note whose tag set contains tag.
func (db *DB) ListByTag(ctx context.Context, tag string) ([]models.Note, error) {
	notes, err := db.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Note
	for _, n := range notes {
		for _, t := range n.Tags {
			if t == tag {
				out = append(out, n)
				break
			}
		}
	}
	return out, nil
}

// AllTags returns the deduplicated, sorted union of every note's tags.
func (db *DB) AllTags(ctx context.Context) ([]string, error) {
	notes, err := db.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, n := range notes {
		for _, t := range n.Tags {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

const selectCols = `
	SELECT id, title, content, tags, created_at, updated_at, embedding,
	       auto_title, auto_tags, cover_image_path, icon, favorite,
	       status, priority, parent_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanNote(row rowScanner) (models.Note, error) {
	var n models.Note
	var tagsJSON string
	var embJSON sql.NullString
	err := row.Scan(&n.ID, &n.Title, &n.Content, &tagsJSON, &n.CreatedAt,
		&n.UpdatedAt, &embJSON, &n.AutoTitle, &n.AutoTags,
		&n.CoverImagePath, &n.Icon, &n.Favorite, &n.Status, &n.Priority,
		&n.ParentID)
	if err != nil {
		return models.Note{}, err
	}
	n.Tags = db.decodeTags(n.ID, tagsJSON)
	if embJSON.Valid {
		n.Embedding = db.decodeEmbedding(n.ID, embJSON.String)
	}
	return n, nil
}

func (db *DB) collectNotes(rows *sql.Rows) ([]models.Note, error) {
	var out []models.Note
	for rows.Next() {
		n, err := db.scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func encodeEmbedding(vec []float64) any {
	if vec == nil {
		return nil
	}
	b, _ := json.Marshal(vec)
	return string(b)
}

// decodeTags parses the stored JSON tag array. Malformed data from older
// records is coerced to an empty set and logged, never propagated.
func (db *DB) decodeTags(id, raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		db.corrupt.Add(1)
		slog.Warn("store: malformed tags, using empty set",
			slog.String("id", id), slog.String("error", err.Error()))
		return []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

// decodeEmbedding parses the stored JSON vector. Malformed data is treated as
// absent and logged.
func (db *DB) decodeEmbedding(id, raw string) []float64 {
	if raw == "" {
		return nil
	}
	var vec []float64
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		db.corrupt.Add(1)
		slog.Warn("store: malformed embedding, treating as absent",
			slog.String("id", id), slog.String("error", err.Error()))
		return nil
	}
	return vec
}
