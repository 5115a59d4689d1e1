package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/testutil"
)

func TestEnrich_AppliesAllDerivations(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "remember to water the plants"})

	p := &testutil.FakeProvider{
		Title:     "plant watering",
		Tags:      []string{"plants", "chores"},
		Embedding: []float64{0.1, 0.2},
	}
	e := New(db, p, nil, nil)
	e.Enrich(ctx, n.ID)

	got, _ := db.Get(ctx, n.ID)
	if got.Title != "plant watering" {
		t.Errorf("title = %q", got.Title)
	}
	if !got.AutoTitle || !got.AutoTags {
		t.Error("auto flags not set")
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.Embedding) != 2 {
		t.Errorf("embedding = %v", got.Embedding)
	}
}

func TestEnrich_PartialFailure(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "some content"})

	p := &testutil.FakeProvider{
		Title:     "generated title",
		TagsErr:   errors.New("boom"),
		Embedding: []float64{1, 2, 3},
	}
	e := New(db, p, nil, nil)
	e.Enrich(ctx, n.ID)

	got, _ := db.Get(ctx, n.ID)
	if got.Title != "generated title" {
		t.Errorf("title = %q, want generated title despite tag failure", got.Title)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want prior (empty) tags", got.Tags)
	}
	if len(got.Embedding) != 3 {
		t.Errorf("embedding = %v, want applied", got.Embedding)
	}
	if got.AutoTags {
		t.Error("AutoTags set even though tag generation failed")
	}
}

func TestEnrich_TitleFailureKeepsDefault(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "body"})

	p := &testutil.FakeProvider{
		TitleErr:  errors.New("provider down"),
		Tags:      []string{"a"},
		Embedding: []float64{1},
	}
	e := New(db, p, nil, nil)
	e.Enrich(ctx, n.ID)

	got, _ := db.Get(ctx, n.ID)
	if got.Title != models.DefaultTitle {
		t.Errorf("title = %q, want default retained", got.Title)
	}
	if got.AutoTitle {
		t.Error("AutoTitle set despite failure")
	}
}

func TestEnrich_MergesAITagsAdditively(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "body", Tags: []string{"user-tag"}})

	p := &testutil.FakeProvider{Tags: []string{"ai-tag", "user-tag"}, TitleErr: errors.New("x"), EmbedErr: errors.New("x")}
	e := New(db, p, nil, nil)
	e.Enrich(ctx, n.ID)

	got, _ := db.Get(ctx, n.ID)
	want := []string{"user-tag", "ai-tag"}
	if len(got.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", got.Tags, want)
	}
	for i := range want {
		if got.Tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, got.Tags[i], want[i])
		}
	}
}

func TestEnrich_DeletedNoteNotResurrected(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "to be deleted"})
	_ = db.Delete(ctx, n.ID)

	p := &testutil.FakeProvider{Title: "ghost", Embedding: []float64{1}}
	e := New(db, p, nil, nil)
	// The note vanished before the run even started.
	e.Enrich(ctx, n.ID)
	// And the harder case: results arrive after the delete.
	e.writeBack(ctx, n.ID, "ghost", true, []string{"x"}, true, []float64{1}, true)

	if _, err := db.Get(ctx, n.ID); err == nil {
		t.Error("write-back re-created a deleted note")
	}
}

func TestEnrich_EmptyContentSkipped(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "   "})

	p := &testutil.FakeProvider{Title: "nope"}
	e := New(db, p, nil, nil)
	e.Enrich(ctx, n.ID)

	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider calls = %v, want none for empty content", calls)
	}
	got, _ := db.Get(ctx, n.ID)
	if got.Title != models.DefaultTitle {
		t.Errorf("title = %q", got.Title)
	}
}

func TestEnrich_SupersededRunDropsResults(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "first draft"})

	p := &testutil.FakeProvider{Title: "stale title", TagsErr: errors.New("x"), EmbedErr: errors.New("x")}
	e := New(db, p, nil, nil)

	old := e.nextGen(n.ID)
	// A second run launched afterwards invalidates the first one's token.
	_ = e.nextGen(n.ID)
	if e.isCurrent(n.ID, old) {
		t.Fatal("stale token still current")
	}

	// Simulate the stale run finishing last: its write-back must be skipped.
	if e.isCurrent(n.ID, old) {
		e.writeBack(ctx, n.ID, "stale title", true, nil, false, nil, false)
	}
	got, _ := db.Get(ctx, n.ID)
	if got.Title == "stale title" {
		t.Error("stale write-back landed")
	}
}

func TestEnrichAsync_ReturnsBeforeProviderCalls(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "async body"})

	p := &testutil.FakeProvider{
		Title:     "t",
		Tags:      []string{"a"},
		Embedding: []float64{1},
		Gate:      make(chan struct{}),
	}
	e := New(db, p, nil, nil)

	e.EnrichAsync(n.ID)
	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider calls issued before launch returned: %v", calls)
	}

	close(p.Gate)
	e.Wait()
	if calls := p.Calls(); len(calls) != 3 {
		t.Errorf("calls = %v, want all three derivations", calls)
	}
	got, _ := db.Get(ctx, n.ID)
	if got.Title != "t" {
		t.Errorf("title = %q after async enrichment", got.Title)
	}
}

func TestEnrich_NotifyCalledOnWriteBack(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Content: "notify me"})

	var notified string
	p := &testutil.FakeProvider{Title: "t", Tags: []string{"x"}, Embedding: []float64{1}}
	e := New(db, p, nil, func(id string) { notified = id })
	e.Enrich(ctx, n.ID)

	if notified != n.ID {
		t.Errorf("notified = %q, want %q", notified, n.ID)
	}
}
