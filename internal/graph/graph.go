// Package graph derives the implicit relationship graph from shared tags.
// It is a pure function of the note collection; nothing is persisted.
package graph

import "github.com/starford/noteshot/internal/models"

// Build returns one node per note and, for every tag shared by two or more
// notes, one edge per unordered pair of notes sharing it. A pair sharing
// several tags yields one edge per shared tag; the label records why the edge
// exists, so parallel edges are intentional and never deduplicated.
func Build(notes []models.Note) ([]models.GraphNode, []models.GraphEdge) {
	nodes := make([]models.GraphNode, len(notes))
	byTag := make(map[string][]string)
	var tagOrder []string

	for i, n := range notes {
		nodes[i] = models.GraphNode{ID: n.ID, Title: n.Title}
		for _, tag := range n.Tags {
			if _, ok := byTag[tag]; !ok {
				tagOrder = append(tagOrder, tag)
			}
			byTag[tag] = append(byTag[tag], n.ID)
		}
	}

	var edges []models.GraphEdge
	for _, tag := range tagOrder {
		ids := byTag[tag]
		if len(ids) < 2 {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				edges = append(edges, models.GraphEdge{
					Source: ids[i],
					Target: ids[j],
					Tag:    tag,
				})
			}
		}
	}
	return nodes, edges
}
