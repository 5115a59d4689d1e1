// Package testutil provides shared test helpers: temporary stores and a fake
// enrichment provider that records call ordering.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/starford/noteshot/internal/store"
)

// TestStore creates a temporary SQLite note store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	f, err := os.CreateTemp("", "noteshot-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := store.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// FakeProvider is a test double for the enrichment provider. It records every
// call in order and can be gated so that tests can observe what happens before
// any provider call is issued.
type FakeProvider struct {
	Title     string
	TitleErr  error
	Tags      []string
	TagsErr   error
	Embedding []float64
	EmbedErr  error

	// Gate, if non-nil, blocks every call until the channel is closed.
	Gate chan struct{}

	mu    sync.Mutex
	calls []string
}

func (p *FakeProvider) record(name string) {
	if p.Gate != nil {
		<-p.Gate
	}
	p.mu.Lock()
	p.calls = append(p.calls, name)
	p.mu.Unlock()
}

// Calls returns the names of provider calls issued so far, in order.
func (p *FakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *FakeProvider) GenerateTitle(_ context.Context, _ string) (string, error) {
	p.record("title")
	return p.Title, p.TitleErr
}

func (p *FakeProvider) GenerateTags(_ context.Context, _ string) ([]string, error) {
	p.record("tags")
	return p.Tags, p.TagsErr
}

func (p *FakeProvider) Embed(_ context.Context, _ string) ([]float64, error) {
	p.record("embed")
	return p.Embedding, p.EmbedErr
}
