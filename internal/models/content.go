package models

import (
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// Content is one schedulable piece of editorial output.
//
// Medium must be zero or of the kind matching Type; ListID is only allowed for
// types that own a list.
type Content struct {
	ID              string      `json:"id"`
	Sequence        int         `json:"-"`
	Type            ContentType `json:"type"`
	Name            string      `json:"name"`
	Notes           string      `json:"notes"`
	PublicationDate *time.Time  `json:"publicationDate"`
	CloseDate       *time.Time  `json:"closeDate"`
	ListDate        *time.Time  `json:"listDate"`
	AuthorID        string      `json:"authorId"`
	Ready           bool        `json:"ready"`
	ReunionID       string      `json:"reunionId,omitempty"`
	Medium          MediumRef   `json:"medium"`
	ListID          string      `json:"listId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func NewContent(typ ContentType, name, authorID string) *Content {
	now := time.Now()
	return &Content{
		Type:      typ,
		Name:      name,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Content) Key() string { return c.ID }

// SetPublicationDate sets the publication date. A concrete date always clears Ready.
func (c *Content) SetPublicationDate(t *time.Time) {
	c.PublicationDate = t
	if t != nil {
		c.Ready = false
	}
}

func (c *Content) Validate() error {
	if !c.Type.Valid() {
		return shared.Invalid("unknown content type %q", c.Type)
	}
	if c.Name == "" || len(c.Name) > maxNameLength {
		return shared.Invalid("name must be between 1 and %d characters", maxNameLength)
	}
	if c.AuthorID == "" {
		return shared.Invalid("authorId is required")
	}
	if c.Type.RequiresPublicationDate() && c.PublicationDate == nil {
		return shared.Invalid("El tipo %s requiere una fecha de publicación.", c.Type)
	}
	if !c.Medium.IsZero() {
		kind, ok := c.Type.MediumKind()
		if !ok || kind != c.Medium.Kind {
			return shared.Invalid("content of type %s cannot link a %s", c.Type, c.Medium.Kind)
		}
	}
	if c.ListID != "" && !c.Type.HasList() {
		return shared.Invalid("content of type %s cannot link a list", c.Type)
	}
	return nil
}
