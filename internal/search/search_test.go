package search

import (
	"testing"

	"github.com/starford/noteshot/internal/models"
)

func TestByText_MatchesTitleContentTags(t *testing.T) {
	notes := []models.Note{
		{ID: "1", Title: "Grocery list"},
		{ID: "2", Content: "buy groceries tomorrow"},
		{ID: "3", Tags: []string{"grocery-run"}},
		{ID: "4", Title: "unrelated", Content: "nothing here"},
	}
	got := ByText("GROCER", notes)
	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	for _, n := range got {
		if n.ID == "4" {
			t.Error("matched unrelated note")
		}
	}
}

func TestByText_NoMatches(t *testing.T) {
	notes := []models.Note{{ID: "1", Title: "a"}}
	if got := ByText("zzz", notes); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}

func TestBySimilarity_ExcludesMalformedEmbeddings(t *testing.T) {
	query := []float64{1, 0, 0}
	notes := []models.Note{
		{ID: "valid", Embedding: []float64{0.5, 0.5, 0}},
		{ID: "absent"},
		{ID: "wrong-length", Embedding: []float64{1, 2}},
	}
	got := BySimilarity(query, notes)
	if len(got) != 1 {
		t.Fatalf("got %d results, want exactly 1", len(got))
	}
	if got[0].Note.ID != "valid" {
		t.Errorf("result = %s, want valid", got[0].Note.ID)
	}
}

func TestBySimilarity_SortsDescending(t *testing.T) {
	query := []float64{1, 0}
	notes := []models.Note{
		{ID: "far", Embedding: []float64{0, 1}},
		{ID: "near", Embedding: []float64{1, 0.1}},
		{ID: "mid", Embedding: []float64{1, 1}},
	}
	got := BySimilarity(query, notes)
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	order := []string{"near", "mid", "far"}
	for i, want := range order {
		if got[i].Note.ID != want {
			t.Errorf("rank %d = %s, want %s", i, got[i].Note.ID, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Error("scores not descending")
		}
	}
}

func TestBySimilarity_ZeroMagnitudeScoresZero(t *testing.T) {
	query := []float64{1, 0}
	notes := []models.Note{{ID: "zero", Embedding: []float64{0, 0}}}
	got := BySimilarity(query, notes)
	if len(got) != 1 || got[0].Score != 0 {
		t.Errorf("got %+v, want one result with score 0", got)
	}
}

func TestBySimilarity_EmptyQuery(t *testing.T) {
	notes := []models.Note{{ID: "a", Embedding: []float64{1}}}
	if got := BySimilarity(nil, notes); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
