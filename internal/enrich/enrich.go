// Package enrich orchestrates the background derivation of a note's title,
// tags, and embedding. Every provider failure is swallowed here and reflected
// only as "field not populated"; enrichment can never fail a save.
package enrich

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/noteshot/internal/ai"
	"github.com/starford/noteshot/internal/apperr"
	"github.com/starford/noteshot/internal/store"
	"github.com/starford/noteshot/internal/tagext"
)

// Provider supplies the three remote derivations. *ai.Client implements it.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	GenerateTitle(ctx context.Context, content string) (string, error)
	GenerateTags(ctx context.Context, content string) ([]string, error)
}

var _ Provider = (*ai.Client)(nil)

// Enricher runs the enrichment pipeline for one note at a time per id.
// Concurrent runs for the same id are resolved last-write-back-wins: launching
// a new run invalidates the write-back of any older in-flight run, so stale
// title/tags can never land over newer user edits.
type Enricher struct {
	store    store.NoteStore
	provider Provider
	logger   *slog.Logger
	notify   func(id string)

	mu  sync.Mutex
	gen map[string]uint64
	wg  sync.WaitGroup
}

// New creates an Enricher. notify, if non-nil, is called after a successful
// write-back (used to broadcast refresh events); it must not block.
func New(st store.NoteStore, provider Provider, logger *slog.Logger, notify func(id string)) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		store:    st,
		provider: provider,
		logger:   logger,
		notify:   notify,
		gen:      make(map[string]uint64),
	}
}

// EnrichAsync launches enrichment for the note in the background and returns
// immediately, before any provider call has been issued.
func (e *Enricher) EnrichAsync(id string) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.Enrich(context.Background(), id)
	}()
}

// Wait blocks until all in-flight background enrichments have finished.
func (e *Enricher) Wait() {
	e.wg.Wait()
}

// Enrich derives title, tags, and embedding for the note's current content and
// applies whatever succeeded in a single follow-up update. It never returns an
// error to the caller; degradation is logged.
func (e *Enricher) Enrich(ctx context.Context, id string) {
	token := e.nextGen(id)

	// Always derive from the content as it is now, not as it was when the
	// caller decided to enrich.
	n, err := e.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			e.logger.Warn("enrich: read note failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return
	}
	content := n.Content
	if strings.TrimSpace(content) == "" {
		return
	}

	var (
		title   string
		titleOK bool
		tags    []string
		tagsOK  bool
		vec     []float64
		vecOK   bool
	)

	// The three derivations are independent; total latency is bounded by the
	// slowest, not the sum.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		t, err := e.provider.GenerateTitle(ctx, content)
		if err != nil {
			e.logDerivation("title", id, err)
			return
		}
		title, titleOK = t, true
	}()
	go func() {
		defer wg.Done()
		ts, err := e.provider.GenerateTags(ctx, content)
		if err != nil {
			e.logDerivation("tags", id, err)
			return
		}
		tags, tagsOK = ts, true
	}()
	go func() {
		defer wg.Done()
		v, err := e.provider.Embed(ctx, content)
		if err != nil {
			e.logDerivation("embedding", id, err)
			return
		}
		vec, vecOK = v, true
	}()
	wg.Wait()

	if !titleOK && !tagsOK && !vecOK {
		return
	}
	if !e.isCurrent(id, token) {
		// A newer run for this id was launched while we were in flight;
		// its write-back supersedes ours.
		e.logger.Debug("enrich: superseded, dropping results", slog.String("id", id))
		return
	}

	e.writeBack(ctx, id, title, titleOK, tags, tagsOK, vec, vecOK)
}

// writeBack re-fetches the record and applies the succeeded derivations in one
// update. A note deleted mid-enrichment is a no-op, never re-created.
func (e *Enricher) writeBack(ctx context.Context, id, title string, titleOK bool, tags []string, tagsOK bool, vec []float64, vecOK bool) {
	current, err := e.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			e.logger.Debug("enrich: note deleted mid-flight, dropping results", slog.String("id", id))
		} else {
			e.logger.Warn("enrich: re-read failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return
	}

	var p store.Patch
	if titleOK && title != "" {
		p.Title = store.Ptr(title)
		p.AutoTitle = store.Ptr(true)
	}
	if tagsOK && len(tags) > 0 {
		// AI tags merge additively; user tags are never replaced.
		merged := tagext.Merge(current.Tags, tags)
		p.Tags = store.Ptr(merged)
		p.AutoTags = store.Ptr(true)
	}
	if vecOK && len(vec) > 0 {
		p.Embedding = store.Ptr(vec)
	}

	if _, err := e.store.Update(ctx, id, p); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			e.logger.Warn("enrich: write-back failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return
	}
	e.logger.Info("enrich: note enriched",
		slog.String("id", id),
		slog.Bool("title", titleOK), slog.Bool("tags", tagsOK), slog.Bool("embedding", vecOK))
	if e.notify != nil {
		e.notify(id)
	}
}

func (e *Enricher) logDerivation(kind, id string, err error) {
	// NotConfigured is a normal operating mode; keep it quiet.
	level := slog.LevelWarn
	if errors.Is(err, ai.ErrNotConfigured) || errors.Is(err, ai.ErrEmptyInput) {
		level = slog.LevelDebug
	}
	e.logger.Log(context.Background(), level, "enrich: derivation failed",
		slog.String("kind", kind), slog.String("id", id), slog.String("error", err.Error()))
}

func (e *Enricher) nextGen(id string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen[id]++
	return e.gen[id]
}

func (e *Enricher) isCurrent(id string, token uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen[id] == token
}
