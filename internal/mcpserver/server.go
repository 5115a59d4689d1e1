// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Noteshot tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/noteshot/internal/models"
	"github.com/starford/noteshot/internal/noteservice"
)

// Server wraps the MCP server with Noteshot tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all Noteshot tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Noteshot",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Keyword search through note titles, content, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("semantic_search",
		mcp.WithDescription("Similarity search over note embeddings. Returns notes "+
			"ranked by how close their meaning is to the query, with scores."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language query")),
	), s.semanticSearch)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id, including its tags."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Title and tags may be omitted; the "+
			"enrichment pipeline derives them from the content in the background. "+
			"Tags follow the conventions in the get_tag_conventions tool."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
		mcp.WithString("title", mcp.Description("Optional title (derived from content when omitted)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes, or only notes carrying a specific tag."),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("related_notes",
		mcp.WithDescription("Find the notes most semantically similar to the given note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the note to find neighbors for")),
	), s.relatedNotes)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List the sorted union of all tags across notes."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("get_tag_conventions",
		mcp.WithDescription("Returns the tag format conventions. Call this before "+
			"supplying tags on create to keep the tag namespace consistent."),
	), s.getTagConventions)

	// Resource: tag conventions.
	s.mcp.AddResource(
		mcp.NewResource("noteshot://tag-format", "Tag Format Conventions",
			mcp.WithResourceDescription("Conventions all note tags follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTagFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.SearchByKeyword(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(notesJSON(notes)), nil
}

func (s *Server) semanticSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchBySimilarity(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results (semantic search needs a configured embedding provider and embedded notes)"), nil
	}
	return mcp.NewToolResultText(resultsJSON(results)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.GetNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(noteView(n), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, err := req.RequireString("title"); err == nil {
		title = v
	}
	n, err := s.svc.CreateNote(ctx, models.Note{Title: title, Content: content})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", n.ID)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		notes []models.Note
		err   error
	)
	if tag, tagErr := req.RequireString("tag"); tagErr == nil && tag != "" {
		notes, err = s.svc.ListNotesByTag(ctx, tag)
	} else {
		notes, err = s.svc.ListNotes(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("no notes"), nil
	}
	var lines []string
	for _, n := range notes {
		lines = append(lines, fmt.Sprintf("%s\t%s", n.ID, n.Title))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) relatedNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.GetRelatedNotes(ctx, id, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no related notes found"), nil
	}
	return mcp.NewToolResultText(resultsJSON(results)), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.svc.ListTags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) getTagConventions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TagConventions), nil
}

func (s *Server) readTagFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "noteshot://tag-format",
			MIMEType: "text/markdown",
			Text:     TagConventions,
		},
	}, nil
}

// noteSummary is the tool-facing note shape. Embeddings stay server-side.
type noteSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	UpdatedAt int64    `json:"updatedAt"`
}

type scoredSummary struct {
	noteSummary
	Score float64 `json:"score"`
}

func noteView(n models.Note) noteSummary {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteSummary{ID: n.ID, Title: n.Title, Content: n.Content, Tags: tags, UpdatedAt: n.UpdatedAt}
}

func notesJSON(notes []models.Note) string {
	views := make([]noteSummary, len(notes))
	for i, n := range notes {
		views[i] = noteView(n)
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return string(out)
}

func resultsJSON(results []models.SearchResult) string {
	views := make([]scoredSummary, len(results))
	for i, r := range results {
		views[i] = scoredSummary{noteSummary: noteView(r.Note), Score: r.Score}
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return string(out)
}
