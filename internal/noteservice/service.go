// Package noteservice is the facade exposed to presentation layers. It is the
// only contract the UI may rely on; all methods are safe to call concurrently.
package noteservice

import (
	"context"
	"log/slog"
	"strings"

	"github.com/starford/noteshot/internal/graph"
	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/search"
	"github.com/starford/noteshot/internal/store"
	"github.com/starford/noteshot/internal/tagext"
)

// DefaultRelatedLimit bounds GetRelatedNotes when the caller passes no limit.
const DefaultRelatedLimit = 3

// Embedder produces an embedding for a query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Launcher starts background enrichment for a note.
type Launcher interface {
	EnrichAsync(id string)
}

// Publisher broadcasts note lifecycle events. *sse.Broker implements it.
type Publisher interface {
	PublishNoteEvent(kind, id string)
}

// Service coordinates the store, search, graph, and enrichment components.
type Service struct {
	store    store.NoteStore
	embedder Embedder
	enricher Launcher
	events   Publisher
	logger   *slog.Logger
}

// NewService creates a note service. enricher and events may be nil.
func NewService(st store.NoteStore, embedder Embedder, enricher Launcher, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, embedder: embedder, enricher: enricher, events: events, logger: logger}
}

// CreateNote persists a new note. Heuristic tags extracted from the content
// are merged with the caller's tags at save time; AI tags arrive later via
// enrichment and are merged additively on top.
func (s *Service) CreateNote(ctx context.Context, fields models.Note) (models.Note, error) {
	fields.Tags = tagext.Merge(fields.Tags, tagext.Extract(fields.Content))
	n, err := s.store.Create(ctx, fields)
	if err != nil {
		return models.Note{}, err
	}
	s.publish("created", n.ID)
	if s.enricher != nil && strings.TrimSpace(n.Content) != "" {
		s.enricher.EnrichAsync(n.ID)
	}
	return n, nil
}

// GetNote returns a single note by id.
func (s *Service) GetNote(ctx context.Context, id string) (models.Note, error) {
	return s.store.Get(ctx, id)
}

// ListNotes returns every note. It is cheap and side-effect-free, so
// presentation layers may poll it to observe enrichment completion.
func (s *Service) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.store.List(ctx)
}

// ListNotesByTag returns every note carrying the given tag.
func (s *Service) ListNotesByTag(ctx context.Context, tag string) ([]models.Note, error) {
	return s.store.ListByTag(ctx, tag)
}

// UpdateNote merges the patch onto the note. When the content changes,
// heuristic tags for the new content are merged in and enrichment re-derives
// title/tags/embedding from the updated text.
func (s *Service) UpdateNote(ctx context.Context, id string, p store.Patch) (models.Note, error) {
	contentChanged := p.Content != nil
	if contentChanged {
		base := p.Tags
		if base == nil {
			current, err := s.store.Get(ctx, id)
			if err != nil {
				return models.Note{}, err
			}
			base = &current.Tags
		}
		p.Tags = store.Ptr(tagext.Merge(*base, tagext.Extract(*p.Content)))
	}

	n, err := s.store.Update(ctx, id, p)
	if err != nil {
		return models.Note{}, err
	}
	s.publish("updated", n.ID)
	if contentChanged && s.enricher != nil && strings.TrimSpace(n.Content) != "" {
		s.enricher.EnrichAsync(n.ID)
	}
	return n, nil
}

// DeleteNote removes a note. Deleting a non-existent id is not an error, and
// any in-flight enrichment for it becomes a no-op.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// ListTags returns the sorted union of all tags.
func (s *Service) ListTags(ctx context.Context) ([]string, error) {
	return s.store.AllTags(ctx)
}

// SearchByKeyword returns notes whose title, content, or tags contain the
// query, case-insensitively.
func (s *Service) SearchByKeyword(ctx context.Context, query string) ([]models.Note, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.ByText(query, notes), nil
}

// SearchBySimilarity embeds the query text and ranks all notes against it.
// When no provider is configured, or the embedding call fails, the result is
// an empty list: semantic search degrades, it never breaks the caller.
func (s *Service) SearchBySimilarity(ctx context.Context, query string) ([]models.SearchResult, error) {
	if s.embedder == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Debug("semantic search degraded", slog.String("error", err.Error()))
		return nil, nil
	}
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.BySimilarity(vec, notes), nil
}

// GetRelatedNotes ranks all other notes against this note's own embedding and
// returns the top limit results. A note without an embedding has no related
// notes yet.
func (s *Service) GetRelatedNotes(ctx context.Context, id string, limit int) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(n.Embedding) == 0 {
		return nil, nil
	}
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	others := notes[:0:0]
	for _, other := range notes {
		if other.ID != id {
			others = append(others, other)
		}
	}
	results := search.BySimilarity(n.Embedding, others)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Graph rebuilds the tag-relationship graph from the current note collection.
func (s *Service) Graph(ctx context.Context) ([]models.GraphNode, []models.GraphEdge, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	nodes, edges := graph.Build(notes)
	return nodes, edges, nil
}

func (s *Service) publish(kind, id string) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, id)
	}
}
