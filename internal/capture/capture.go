// Package capture implements the quick-capture flow: an empty note is created
// the moment capture begins, filled in on commit, and enriched afterwards in
// the background. At most one pending capture exists process-wide; the pending
// state is owned by the Coordinator, not a package-level variable, so the
// invariant is explicit and testable.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/noteshot/internal/apperr"
	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/store"
)

// Launcher starts background enrichment for a note.
type Launcher interface {
	EnrichAsync(id string)
}

// Coordinator manages the single in-flight pending capture note.
type Coordinator struct {
	store    store.NoteStore
	enricher Launcher
	logger   *slog.Logger

	mu        sync.Mutex
	pendingID string
}

// New creates a Coordinator. enricher may be nil, in which case committed
// notes are persisted without background enrichment.
func New(st store.NoteStore, enricher Launcher, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: st, enricher: enricher, logger: logger}
}

// Begin creates an empty untitled note and marks it pending. If a capture is
// already pending the existing note is returned instead of creating a second
// one, so rapid repeated triggers cannot accumulate orphaned empty notes.
func (c *Coordinator) Begin(ctx context.Context) (models.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingID != "" {
		n, err := c.store.Get(ctx, c.pendingID)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return models.Note{}, err
		}
		// The pending note was deleted out from under us; start fresh.
		c.pendingID = ""
	}

	n, err := c.store.Create(ctx, models.Note{Title: models.DefaultTitle})
	if err != nil {
		return models.Note{}, err
	}
	c.pendingID = n.ID
	c.logger.Debug("capture: pending note created", slog.String("id", n.ID))
	return n, nil
}

// Commit finalizes the pending note with the given content and launches
// enrichment in the background. Empty or whitespace-only content is rejected
// with apperr.ErrValidation and the capture stays pending. Commit returns
// before enrichment issues any provider call.
func (c *Coordinator) Commit(ctx context.Context, content string) (models.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingID == "" {
		return models.Note{}, apperr.ErrNotFound
	}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.Note{}, apperr.ErrValidation
	}

	n, err := c.store.Update(ctx, c.pendingID, store.Patch{Content: store.Ptr(trimmed)})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.pendingID = ""
		}
		return models.Note{}, err
	}

	id := c.pendingID
	c.pendingID = ""
	c.logger.Info("capture: note committed", slog.String("id", id))
	if c.enricher != nil {
		c.enricher.EnrichAsync(id)
	}
	return n, nil
}

// Discard deletes the pending note if one exists. It always succeeds,
// including when nothing is pending.
func (c *Coordinator) Discard(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingID == "" {
		return nil
	}
	if err := c.store.Delete(ctx, c.pendingID); err != nil {
		return err
	}
	c.logger.Debug("capture: pending note discarded", slog.String("id", c.pendingID))
	c.pendingID = ""
	return nil
}

// Pending returns the currently pending note, or nil when no capture is in
// flight.
func (c *Coordinator) Pending(ctx context.Context) (*models.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingID == "" {
		return nil, nil
	}
	n, err := c.store.Get(ctx, c.pendingID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			c.pendingID = ""
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
