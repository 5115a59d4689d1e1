// Package search ranks notes by keyword match or embedding similarity.
package search

import (
	"sort"
	"strings"

	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/vector"
)

// ByText returns every note whose title, content, or any tag contains the
// query, case-insensitively. Matches are unscored and keep input order.
func ByText(query string, notes []models.Note) []models.Note {
	q := strings.ToLower(query)
	var out []models.Note
	for _, n := range notes {
		if matches(q, n) {
			out = append(out, n)
		}
	}
	return out
}

func matches(q string, n models.Note) bool {
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// BySimilarity ranks notes against a query embedding, descending by cosine
// score. Notes with no embedding or one whose length differs from the query
// vector are silently excluded; embeddings may legitimately vary in length
// across provider-model upgrades over the store's lifetime. The sort is stable
// with respect to input order.
func BySimilarity(queryVec []float64, notes []models.Note) []models.SearchResult {
	if len(queryVec) == 0 {
		return nil
	}
	var out []models.SearchResult
	for _, n := range notes {
		if len(n.Embedding) != len(queryVec) {
			continue
		}
		out = append(out, models.SearchResult{
			Note:  n,
			Score: vector.Cosine(queryVec, n.Embedding),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
