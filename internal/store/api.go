package store

import (
	"context"

	"github.com/starford/noteshot/internal/models"
)

// NoteStore defines the interface for note persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteStore interface {
	Create(ctx context.Context, n models.Note) (models.Note, error)
	Get(ctx context.Context, id string) (models.Note, error)
	List(ctx context.Context) ([]models.Note, error)
	Update(ctx context.Context, id string, p Patch) (models.Note, error)
	Delete(ctx context.Context, id string) error
	ListByTag(ctx context.Context, tag string) ([]models.Note, error)
	AllTags(ctx context.Context) ([]string, error)
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
