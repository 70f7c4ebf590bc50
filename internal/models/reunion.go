package models

import (
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// Boilerplate checklist attached to every reunion created for a content.
var DefaultPoints = []string{"Asignar Radar semanal", "Crónicas y artículos pendientes"}

type Reunion struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Points    []Point   `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Point is one checklist item of a reunion.
type Point struct {
	ID        string `json:"id"`
	ReunionID string `json:"reunionId"`
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Done      bool   `json:"done"`
}

// NewReunion builds a reunion with the default checklist.
func NewReunion(title string, date time.Time) *Reunion {
	now := time.Now()
	r := &Reunion{Title: title, Date: date, CreatedAt: now, UpdatedAt: now}
	for i, p := range DefaultPoints {
		r.Points = append(r.Points, Point{Title: p, Position: i})
	}
	return r
}

func (r *Reunion) Key() string { return r.ID }

func (r *Reunion) Validate() error {
	if r.Title == "" {
		return shared.Invalid("reunion title is required")
	}
	if r.Date.IsZero() {
		return shared.Invalid("reunion date is required")
	}
	return nil
}
