package noteservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/starford/noteshot/internal/ai"
	"github.com/starford/noteshot/internal/apperr"
	"github.com/starford/noteshot/internal/enrich"
	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/store"
	"github.com/starford/noteshot/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingPublisher) PublishNoteEvent(kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, kind)
}

func (r *recordingPublisher) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestCreateNote_MergesHeuristicTags(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)

	n, err := svc.CreateNote(context.Background(), models.Note{
		Content: "planning the #roadmap for next quarter",
		Tags:    []string{"manual"},
	})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	want := []string{"manual", "roadmap"}
	if len(n.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", n.Tags, want)
	}
	for i := range want {
		if n.Tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, n.Tags[i], want[i])
		}
	}
}

func TestCreateNote_TriggersEnrichment(t *testing.T) {
	db := testutil.TestStore(t)
	p := &testutil.FakeProvider{Title: "roadmap planning", Tags: []string{"planning"}, Embedding: []float64{1, 0}}
	e := enrich.New(db, p, nil, nil)
	svc := NewService(db, nil, e, nil, nil)

	n, err := svc.CreateNote(context.Background(), models.Note{Content: "some plan"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	e.Wait()

	got, _ := db.Get(context.Background(), n.ID)
	if got.Title != "roadmap planning" {
		t.Errorf("title = %q after enrichment", got.Title)
	}
	if !got.HasEmbedding() {
		t.Error("embedding not applied")
	}
}

func TestCreateNote_EmptyContentSkipsEnrichment(t *testing.T) {
	db := testutil.TestStore(t)
	p := &testutil.FakeProvider{Title: "x"}
	e := enrich.New(db, p, nil, nil)
	svc := NewService(db, nil, e, nil, nil)

	if _, err := svc.CreateNote(context.Background(), models.Note{Title: "placeholder"}); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	e.Wait()
	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider calls for empty note: %v", calls)
	}
}

func TestUpdateNote_ContentChangeMergesNewHeuristicTags(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)
	ctx := context.Background()

	n, _ := svc.CreateNote(ctx, models.Note{Content: "first #alpha", Tags: nil})
	updated, err := svc.UpdateNote(ctx, n.ID, store.Patch{Content: store.Ptr("now about #beta")})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	has := func(tag string) bool {
		for _, tg := range updated.Tags {
			if tg == tag {
				return true
			}
		}
		return false
	}
	if !has("alpha") || !has("beta") {
		t.Errorf("tags = %v, want both alpha and beta", updated.Tags)
	}
}

func TestUpdateNote_TitleOnlyDoesNotReEnrich(t *testing.T) {
	db := testutil.TestStore(t)
	p := &testutil.FakeProvider{Title: "x"}
	e := enrich.New(db, p, nil, nil)
	svc := NewService(db, nil, e, nil, nil)
	ctx := context.Background()

	n, _ := db.Create(ctx, models.Note{Content: "stable content"})
	if _, err := svc.UpdateNote(ctx, n.ID, store.Patch{Title: store.Ptr("renamed")}); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	e.Wait()
	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("title-only update triggered enrichment: %v", calls)
	}
}

func TestDeleteNote_PublishesEvent(t *testing.T) {
	db := testutil.TestStore(t)
	pub := &recordingPublisher{}
	svc := NewService(db, nil, nil, pub, nil)
	ctx := context.Background()

	n, _ := svc.CreateNote(ctx, models.Note{Content: "bye"})
	if err := svc.DeleteNote(ctx, n.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	kinds := pub.kinds()
	if len(kinds) != 2 || kinds[0] != "created" || kinds[1] != "deleted" {
		t.Errorf("events = %v, want [created deleted]", kinds)
	}
	if _, err := db.Get(ctx, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("note still present after delete")
	}
}

func TestSearchByKeyword(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)
	ctx := context.Background()

	_, _ = db.Create(ctx, models.Note{Title: "groceries", Content: "milk and eggs"})
	_, _ = db.Create(ctx, models.Note{Title: "workout", Content: "leg day"})

	got, err := svc.SearchByKeyword(ctx, "MILK")
	if err != nil {
		t.Fatalf("SearchByKeyword: %v", err)
	}
	if len(got) != 1 || got[0].Title != "groceries" {
		t.Errorf("results = %+v, want the groceries note", got)
	}
}

func TestSearchBySimilarity_RanksByScore(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()

	near, _ := db.Create(ctx, models.Note{Title: "near"})
	_, _ = db.Update(ctx, near.ID, store.Patch{Embedding: store.Ptr([]float64{1, 0})})
	far, _ := db.Create(ctx, models.Note{Title: "far"})
	_, _ = db.Update(ctx, far.ID, store.Patch{Embedding: store.Ptr([]float64{0, 1})})

	p := &testutil.FakeProvider{Embedding: []float64{1, 0.1}}
	svc := NewService(db, p, nil, nil, nil)

	got, err := svc.SearchBySimilarity(ctx, "query")
	if err != nil {
		t.Fatalf("SearchBySimilarity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Note.Title != "near" {
		t.Errorf("top result = %q, want near", got[0].Note.Title)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}
}

func TestSearchBySimilarity_DegradesWithoutProvider(t *testing.T) {
	db := testutil.TestStore(t)
	ctx := context.Background()
	n, _ := db.Create(ctx, models.Note{Title: "a"})
	_, _ = db.Update(ctx, n.ID, store.Patch{Embedding: store.Ptr([]float64{1})})

	p := &testutil.FakeProvider{EmbedErr: ai.ErrNotConfigured}
	svc := NewService(db, p, nil, nil, nil)

	got, err := svc.SearchBySimilarity(ctx, "query")
	if err != nil {
		t.Fatalf("SearchBySimilarity: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %d, want 0 when provider unavailable", len(got))
	}
}

func TestGetRelatedNotes_ExcludesSelfAndHonorsLimit(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)
	ctx := context.Background()

	embed := func(title string, vec []float64) models.Note {
		n, _ := db.Create(ctx, models.Note{Title: title})
		out, _ := db.Update(ctx, n.ID, store.Patch{Embedding: store.Ptr(vec)})
		return out
	}
	anchor := embed("anchor", []float64{1, 0})
	embed("close", []float64{1, 0.05})
	embed("medium", []float64{1, 1})
	embed("far", []float64{0, 1})

	got, err := svc.GetRelatedNotes(ctx, anchor.ID, 2)
	if err != nil {
		t.Fatalf("GetRelatedNotes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	for _, r := range got {
		if r.Note.ID == anchor.ID {
			t.Error("related results include the note itself")
		}
	}
	if got[0].Note.Title != "close" {
		t.Errorf("top related = %q, want close", got[0].Note.Title)
	}
}

func TestGetRelatedNotes_NoEmbeddingMeansNoResults(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)
	ctx := context.Background()

	n, _ := db.Create(ctx, models.Note{Title: "plain"})
	got, err := svc.GetRelatedNotes(ctx, n.ID, 0)
	if err != nil {
		t.Fatalf("GetRelatedNotes: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("results = %d, want 0 for unembedded note", len(got))
	}
}

func TestGraph_SharedTagProducesEdge(t *testing.T) {
	db := testutil.TestStore(t)
	svc := NewService(db, nil, nil, nil, nil)
	ctx := context.Background()

	a, _ := db.Create(ctx, models.Note{Title: "a"})
	_, _ = db.Update(ctx, a.ID, store.Patch{Tags: store.Ptr([]string{"go"})})
	b, _ := db.Create(ctx, models.Note{Title: "b"})
	_, _ = db.Update(ctx, b.ID, store.Patch{Tags: store.Ptr([]string{"go"})})

	nodes, edges, err := svc.Graph(ctx)
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(nodes))
	}
	if len(edges) != 1 || edges[0].Tag != "go" {
		t.Errorf("edges = %+v, want one go edge", edges)
	}
}
