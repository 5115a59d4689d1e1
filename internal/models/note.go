// Package models defines the domain types for Noteshot.
package models

// EmbeddingDimensions is the dimensionality of the default embedding model
// (text-embedding-3-small). Stored vectors are not forced to this length;
// similarity ranking compares lengths per query instead, so a provider-model
// change degrades old notes rather than breaking them.
const EmbeddingDimensions = 1536

// DefaultTitle is the placeholder used until enrichment or a user edit
// supplies a real title.
const DefaultTitle = "untitled"

// Note is the sole persisted entity.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt int64     `json:"created_at"` // epoch ms
	UpdatedAt int64     `json:"updated_at"` // epoch ms
	Embedding []float64 `json:"embedding,omitempty"`

	// AutoTitle and AutoTags mark fields written by the enrichment pipeline
	// rather than by the user.
	AutoTitle bool `json:"auto_title"`
	AutoTags  bool `json:"auto_tags"`

	// Presentation/organization metadata. No invariants beyond "valid or
	// absent"; the core algorithms never read these.
	CoverImagePath string `json:"cover_image_path,omitempty"`
	Icon           string `json:"icon,omitempty"`
	Favorite       bool   `json:"favorite"`
	Status         string `json:"status,omitempty"`
	Priority       string `json:"priority,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
}

// HasEmbedding reports whether the note carries a stored embedding vector.
func (n *Note) HasEmbedding() bool {
	return len(n.Embedding) > 0
}

// SearchResult pairs a note with a similarity score in [0, 1].
type SearchResult struct {
	Note  Note    `json:"note"`
	Score float64 `json:"score"`
}

// GraphNode is one note in the implicit relationship graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// GraphEdge connects two notes that share a tag. A pair sharing several tags
// yields one edge per shared tag.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Tag    string `json:"tag"`
}
