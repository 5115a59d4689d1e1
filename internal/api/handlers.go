package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starford/noteshot/internal/apperr"
	"github.com/starford/noteshot/internal/capture"
	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/noteservice"
	"github.com/starford/noteshot/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc     *noteservice.Service
	capture *capture.Coordinator
}

// NewHandler creates a new Handler. capture may be nil, in which case the
// quick-capture endpoints respond 404.
func NewHandler(svc *noteservice.Service, cap *capture.Coordinator) *Handler {
	return &Handler{svc: svc, capture: cap}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional tag filtering
//	@Tags			notes
//	@Produce		json
//	@Param			tag	query		string	false	"Filter by tag"
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	var (
		notes []models.Note
		err   error
	)
	if tag := r.URL.Query().Get("tag"); tag != "" {
		notes, err = h.svc.ListNotesByTag(r.Context(), tag)
	} else {
		notes, err = h.svc.ListNotes(r.Context())
	}
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: toNoteResponses(notes), Total: len(notes)})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note by id
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a new note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), models.Note{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		slog.Error("create note failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// UpdateNote handles PATCH /api/notes/{id}.
//
//	@Summary		Partially update a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Note id"
//	@Param			body	body		UpdateNoteRequest	true	"Fields to change"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [patch]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	id := chi.URLParam(r, "id")
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p := store.Patch{
		Title:          req.Title,
		Content:        req.Content,
		Tags:           req.Tags,
		CoverImagePath: req.CoverImagePath,
		Icon:           req.Icon,
		Favorite:       req.Favorite,
		Status:         req.Status,
		Priority:       req.Priority,
		ParentID:       req.ParentID,
	}
	note, err := h.svc.UpdateNote(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("update note failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteNote(r.Context(), id); err != nil {
		slog.Error("delete note failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RelatedNotes handles GET /api/notes/{id}/related.
//
//	@Summary		Notes most similar to the given note
//	@Tags			search
//	@Produce		json
//	@Param			id		path		string	true	"Note id"
//	@Param			limit	query		int		false	"Max results (default 3)"
//	@Success		200		{object}	SemanticSearchResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/related [get]
func (h *Handler) RelatedNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.GetRelatedNotes(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("related notes failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SemanticSearchResponse{Results: toScoredNotes(results)})
}

// ListTags handles GET /api/tags.
//
//	@Summary		Sorted union of all tags
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		slog.Error("list tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

// Search handles GET /api/search.
//
//	@Summary		Keyword search across title, content, and tags
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	SearchResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.svc.SearchByKeyword(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: toNoteResponses(results)})
}

// SemanticSearch handles GET /api/search/semantic.
//
//	@Summary		Similarity search over note embeddings
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	SemanticSearchResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search/semantic [get]
func (h *Handler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.svc.SearchBySimilarity(r.Context(), q)
	if err != nil {
		slog.Error("semantic search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SemanticSearchResponse{Results: toScoredNotes(results)})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the tag-relationship graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, links, err := h.svc.Graph(r.Context())
	if err != nil {
		slog.Error("graph failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if nodes == nil {
		nodes = []models.GraphNode{}
	}
	if links == nil {
		links = []models.GraphEdge{}
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: nodes, Links: links})
}

// BeginCapture handles POST /api/capture.
//
//	@Summary		Start (or resume) a quick capture
//	@Tags			capture
//	@Produce		json
//	@Success		201	{object}	NoteResponse
//	@Security		BearerAuth
//	@Router			/capture [post]
func (h *Handler) BeginCapture(w http.ResponseWriter, r *http.Request) {
	n, err := h.capture.Begin(r.Context())
	if err != nil {
		slog.Error("begin capture failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(n))
}

// CommitCapture handles POST /api/capture/commit.
//
//	@Summary		Finalize the pending capture with content
//	@Tags			capture
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CommitCaptureRequest	true	"Captured content"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/capture/commit [post]
func (h *Handler) CommitCapture(w http.ResponseWriter, r *http.Request) {
	var req CommitCaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	n, err := h.capture.Commit(r.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("no pending capture"))
		default:
			slog.Error("commit capture failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(n))
}

// DiscardCapture handles POST /api/capture/discard.
//
//	@Summary		Discard the pending capture, if any
//	@Tags			capture
//	@Success		204	"Capture discarded"
//	@Security		BearerAuth
//	@Router			/capture/discard [post]
func (h *Handler) DiscardCapture(w http.ResponseWriter, r *http.Request) {
	if err := h.capture.Discard(r.Context()); err != nil {
		slog.Error("discard capture failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PendingCapture handles GET /api/capture.
//
//	@Summary		Inspect the pending capture
//	@Tags			capture
//	@Produce		json
//	@Success		200	{object}	NoteResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/capture [get]
func (h *Handler) PendingCapture(w http.ResponseWriter, r *http.Request) {
	n, err := h.capture.Pending(r.Context())
	if err != nil {
		slog.Error("pending capture failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if n == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no pending capture"))
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(*n))
}

func toScoredNotes(results []models.SearchResult) []ScoredNote {
	out := make([]ScoredNote, len(results))
	for i, r := range results {
		out[i] = ScoredNote{NoteResponse: toNoteResponse(r.Note), Score: r.Score}
	}
	return out
}
