package api

import "github.com/starford/noteshot/internal/models"

// NoteResponse is the wire form of a note. Embeddings are internal and never
// leave the server; clients get a hasEmbedding flag instead.
type NoteResponse struct {
	ID             string   `json:"id" example:"7d4f2c1a-..." validate:"required"`
	Title          string   `json:"title" example:"grocery run ideas" validate:"required"`
	Content        string   `json:"content" example:"milk, eggs, coffee"`
	Tags           []string `json:"tags" validate:"required"`
	CreatedAt      int64    `json:"createdAt" example:"1735689600000" validate:"required"`
	UpdatedAt      int64    `json:"updatedAt" example:"1735689600000" validate:"required"`
	HasEmbedding   bool     `json:"hasEmbedding"`
	AutoTitle      bool     `json:"autoTitle"`
	AutoTags       bool     `json:"autoTags"`
	CoverImagePath string   `json:"coverImagePath,omitempty"`
	Icon           string   `json:"icon,omitempty"`
	Favorite       bool     `json:"favorite"`
	Status         string   `json:"status,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	ParentID       string   `json:"parentId,omitempty"`
}

func toNoteResponse(n models.Note) NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:             n.ID,
		Title:          n.Title,
		Content:        n.Content,
		Tags:           tags,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
		HasEmbedding:   n.HasEmbedding(),
		AutoTitle:      n.AutoTitle,
		AutoTags:       n.AutoTags,
		CoverImagePath: n.CoverImagePath,
		Icon:           n.Icon,
		Favorite:       n.Favorite,
		Status:         n.Status,
		Priority:       n.Priority,
		ParentID:       n.ParentID,
	}
}

func toNoteResponses(notes []models.Note) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = toNoteResponse(n)
	}
	return out
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title   string   `json:"title" example:"grocery run ideas"`
	Content string   `json:"content" example:"milk, eggs, coffee"`
	Tags    []string `json:"tags"`
}

// UpdateNoteRequest is the request body for updating a note. Absent fields
// are left untouched.
type UpdateNoteRequest struct {
	Title          *string   `json:"title"`
	Content        *string   `json:"content"`
	Tags           *[]string `json:"tags"`
	CoverImagePath *string   `json:"coverImagePath"`
	Icon           *string   `json:"icon"`
	Favorite       *bool     `json:"favorite"`
	Status         *string   `json:"status"`
	Priority       *string   `json:"priority"`
	ParentID       *string   `json:"parentId"`
}

// CommitCaptureRequest is the request body for committing a quick capture.
type CommitCaptureRequest struct {
	Content string `json:"content" example:"call the dentist tomorrow" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// ScoredNote is a similarity search hit.
type ScoredNote struct {
	NoteResponse
	Score float64 `json:"score" example:"0.87" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []NoteResponse `json:"results" validate:"required"`
}

// SemanticSearchResponse wraps similarity-ranked results.
type SemanticSearchResponse struct {
	Results []ScoredNote `json:"results" validate:"required"`
}

// TagListResponse wraps the tag union.
type TagListResponse struct {
	Tags []string `json:"tags" validate:"required"`
}

// GraphResponse wraps the tag-relationship graph.
type GraphResponse struct {
	Nodes []models.GraphNode `json:"nodes" validate:"required"`
	Links []models.GraphEdge `json:"links" validate:"required"`
}
