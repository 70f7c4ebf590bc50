package models

import (
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// List is a scheduling bucket: the weekly radar, the monthly best-of, a video batch or a special.
type List struct {
	ID          string       `json:"id"`
	Sequence    int          `json:"-"`
	Name        string       `json:"name"`
	Type        ListType     `json:"type"`
	Status      ListStatus   `json:"status"`
	SpecialType string       `json:"specialType,omitempty"`
	Free        bool         `json:"free"`
	ListDate    *time.Time   `json:"listDate"`
	ReleaseDate *time.Time   `json:"releaseDate"`
	CloseDate   *time.Time   `json:"closeDate"`
	Assignments []Assignment `json:"assignments"`
	Links       []Link       `json:"links"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Assignment gives a user a slot in a list.
type Assignment struct {
	ID       string `json:"id"`
	ListID   string `json:"listId"`
	UserID   string `json:"userId"`
	Position int    `json:"position"`
	Done     bool   `json:"done"`
}

// Link is an external URL attached to a list.
type Link struct {
	ID     string `json:"id"`
	ListID string `json:"listId"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

func NewList(name string, typ ListType) *List {
	now := time.Now()
	return &List{
		Name:      name,
		Type:      typ,
		Status:    ListStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *List) Key() string { return l.ID }

func (l *List) Validate() error {
	if l.Name == "" || len(l.Name) > maxNameLength {
		return shared.Invalid("name must be between 1 and %d characters", maxNameLength)
	}
	if !l.Type.Valid() {
		return shared.Invalid("unknown list type %q", l.Type)
	}
	if !l.Status.Valid() {
		return shared.Invalid("unknown list status %q", l.Status)
	}
	if l.SpecialType != "" {
		if l.Type != ListSpecial {
			return shared.Invalid("specialType only applies to special lists")
		}
		if !validSpecialType(l.SpecialType) {
			return shared.Invalid("unknown special type %q", l.SpecialType)
		}
	}
	return nil
}
