package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

const maxNameLength = 200

// Medium is an Article, Spotify segment or Video, distinguished by Kind.
//
// UserID is the assigned user. EditorID only applies to articles and videos,
// Link to articles and spotify segments, ListID to videos.
type Medium struct {
	ID         string     `json:"id"`
	Sequence   int        `json:"-"`
	Kind       MediumKind `json:"kind"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	Type       string     `json:"type"`
	Link       string     `json:"link,omitempty"`
	UpdateDate *time.Time `json:"updateDate"`
	UserID     string     `json:"userId,omitempty"`
	EditorID   string     `json:"editorId,omitempty"`
	ListID     string     `json:"listId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewMedium builds a medium of the given kind, falling back to the kind's default type.
func NewMedium(kind MediumKind, name string, status Status, typ string) *Medium {
	if typ == "" {
		typ = kind.DefaultType()
	}
	now := time.Now()
	return &Medium{
		Kind:      kind,
		Name:      name,
		Status:    status,
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Medium) Key() string { return m.ID }

// Ref returns the tagged reference to this medium.
func (m *Medium) Ref() MediumRef { return MediumRef{Kind: m.Kind, ID: m.ID} }

// Validate checks field shape and the lifecycle rules.
func (m *Medium) Validate() error {
	if !m.Kind.Valid() {
		return shared.Invalid("unknown medium kind %q", m.Kind)
	}
	if m.Name == "" || len(m.Name) > maxNameLength {
		return shared.Invalid("name must be between 1 and %d characters", maxNameLength)
	}
	if !m.Status.Valid() {
		return shared.Invalid("unknown status %q", m.Status)
	}
	if !slices.Contains(m.Kind.Types(), m.Type) {
		return shared.Invalid("unknown %s type %q", m.Kind, m.Type)
	}
	if m.Link != "" && !m.Kind.HasLink() {
		return shared.Invalid("%s does not accept a link", m.Kind.Label())
	}
	if m.EditorID != "" && !m.Kind.HasEditor() {
		return shared.Invalid("%s does not accept an editor", m.Kind.Label())
	}
	if m.ListID != "" && m.Kind != KindVideo {
		return shared.Invalid("%s does not accept a list", m.Kind.Label())
	}
	if m.Status.NeedsAssignee() && m.UserID == "" {
		return shared.Invalid("Para cambiar el estado a %q, debe haber un usuario asignado.", m.Status)
	}
	if m.Status == StatusPublished && m.UpdateDate == nil {
		return shared.Invalid("Para cambiar el estado a %q, debe proporcionar una fecha (updateDate).", m.Status)
	}
	return nil
}

// MediumRef is a tagged reference to one medium. The zero value means none.
type MediumRef struct {
	Kind MediumKind `json:"kind,omitempty"`
	ID   string     `json:"id,omitempty"`
}

// IsZero reports whether the reference points at no medium.
func (r MediumRef) IsZero() bool { return r.ID == "" }

func (r MediumRef) String() string {
	if r.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}
