package store

import "github.com/starford/noteshot/internal/models"

// Patch describes a partial note update. Nil fields are left untouched, so
// callers can distinguish "not set" from "set to the zero value".
type Patch struct {
	Title     *string
	Content   *string
	Tags      *[]string
	Embedding *[]float64
	AutoTitle *bool
	AutoTags  *bool

	CoverImagePath *string
	Icon           *string
	Favorite       *bool
	Status         *string
	Priority       *string
	ParentID       *string
}

func (p Patch) apply(n *models.Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		n.Tags = tags
	}
	if p.Embedding != nil {
		n.Embedding = *p.Embedding
	}
	if p.AutoTitle != nil {
		n.AutoTitle = *p.AutoTitle
	}
	if p.AutoTags != nil {
		n.AutoTags = *p.AutoTags
	}
	if p.CoverImagePath != nil {
		n.CoverImagePath = *p.CoverImagePath
	}
	if p.Icon != nil {
		n.Icon = *p.Icon
	}
	if p.Favorite != nil {
		n.Favorite = *p.Favorite
	}
	if p.Status != nil {
		n.Status = *p.Status
	}
	if p.Priority != nil {
		n.Priority = *p.Priority
	}
	if p.ParentID != nil {
		n.ParentID = *p.ParentID
	}
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }
