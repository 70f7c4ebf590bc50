package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/repositories"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// CreateContentInput is the payload for [ContentsService.Create].
//
// MediumID links an existing medium of the kind implied by Type; when empty, article,
// spotify and video contents get a fresh medium in editing.
type CreateContentInput struct {
	Type            models.ContentType `json:"type"`
	Name            string             `json:"name"`
	Notes           string             `json:"notes"`
	AuthorID        string             `json:"authorId"`
	PublicationDate *time.Time         `json:"publicationDate"`
	CloseDate       *time.Time         `json:"closeDate"`
	ListDate        *time.Time         `json:"listDate"`
	Ready           bool               `json:"ready"`
	ReunionID       string             `json:"reunionId"`
	MediumID        string             `json:"mediumId"`
	ListID          string             `json:"listId"`
}

// UnmarshalJSON reads the dates with [models.ParseDate], so date-only values decode like
// they do in [ContentPatch].
func (in *CreateContentInput) UnmarshalJSON(data []byte) error {
	type plain CreateContentInput
	aux := struct {
		*plain
		PublicationDate models.DatePatch `json:"publicationDate"`
		CloseDate       models.DatePatch `json:"closeDate"`
		ListDate        models.DatePatch `json:"listDate"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.PublicationDate = aux.PublicationDate.Value
	in.CloseDate = aux.CloseDate.Value
	in.ListDate = aux.ListDate.Value
	return nil
}

// ContentPatch is a partial update for [ContentsService.Update]. Nil pointers and unset
// date patches leave fields untouched; an empty ReunionID unlinks the reunion.
type ContentPatch struct {
	Name            *string          `json:"name"`
	Notes           *string          `json:"notes"`
	Ready           *bool            `json:"ready"`
	AuthorID        *string          `json:"authorId"`
	ReunionID       *string          `json:"reunionId"`
	PublicationDate models.DatePatch `json:"publicationDate"`
	CloseDate       models.DatePatch `json:"closeDate"`
	ListDate        models.DatePatch `json:"listDate"`
}

// ContentsService creates, updates and removes contents and keeps their linked entities in sync.
type ContentsService struct {
	core   *core
	lists  *ListsService
	logger *log.Logger
}

func (s *ContentsService) Create(ctx context.Context, in CreateContentInput) (*models.Content, error) {
	var content *models.Content
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		var err error
		content, err = s.create(r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("content created", "id", content.ID, "type", content.Type, "medium", content.Medium)
	return content, nil
}

func (s *ContentsService) Update(ctx context.Context, id string, patch ContentPatch) (*models.Content, error) {
	var content *models.Content
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		var err error
		content, err = s.update(r, id, patch, origin{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentsService) Remove(ctx context.Context, id string) error {
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		c, err := r.Contents.Get(id)
		if err != nil {
			return err
		}
		return s.remove(r, c)
	})
	if err != nil {
		return err
	}
	s.logger.Info("content removed", "id", id)
	return nil
}

func (s *ContentsService) Get(ctx context.Context, id string) (*models.Content, error) {
	return s.core.store.Repos().Contents.Get(id)
}

// ContentFilter narrows [ContentsService.List]. A nil Ready returns every content.
type ContentFilter struct {
	Ready    *bool
	Type     models.ContentType
	AuthorID string
}

func (s *ContentsService) List(ctx context.Context, f ContentFilter) ([]*models.Content, error) {
	criteria := map[string]any{"type": f.Type, "author_id": f.AuthorID}
	if f.Ready != nil {
		criteria["ready"] = *f.Ready
	}
	return s.core.store.Repos().Contents.List(criteria)
}

// ListByMonth returns contents published in the given month, widened by a week on each side
// so calendar views can show the overlapping weeks.
func (s *ContentsService) ListByMonth(ctx context.Context, year int, month time.Month) ([]*models.Content, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, s.core.loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return s.core.store.Repos().Contents.List(map[string]any{
		"from": start.AddDate(0, 0, -7),
		"to":   end.AddDate(0, 0, 7),
	})
}

// FindByMedium returns the content wrapping the medium, or nil.
func (s *ContentsService) FindByMedium(ctx context.Context, mediumID string) (*models.Content, error) {
	return s.core.store.Repos().Contents.FindByMedium(mediumID)
}

func (s *ContentsService) create(r *repositories.Repos, in CreateContentInput) (*models.Content, error) {
	if !in.Type.Valid() {
		return nil, shared.Invalid("unknown content type %q", in.Type)
	}
	if in.Type.RequiresPublicationDate() && in.PublicationDate == nil {
		return nil, shared.Invalid("El tipo %s requiere una fecha de publicación.", in.Type)
	}
	if in.AuthorID == "" {
		return nil, shared.Invalid("authorId is required")
	}
	if err := requireUser(r, in.AuthorID); err != nil {
		return nil, err
	}

	c := models.NewContent(in.Type, in.Name, in.AuthorID)
	c.Notes = in.Notes
	c.CloseDate = in.CloseDate
	c.ListDate = in.ListDate
	c.Ready = in.Ready
	c.SetPublicationDate(in.PublicationDate)

	if in.ReunionID != "" {
		if _, err := r.Reunions.Get(in.ReunionID); err != nil {
			return nil, err
		}
		c.ReunionID = in.ReunionID
	}

	if err := s.attachMedium(r, c, in.MediumID); err != nil {
		return nil, err
	}

	if in.ListID != "" {
		if err := s.attachList(r, c, in.ListID); err != nil {
			return nil, err
		}
	}

	if c.Type == models.ContentReunion && c.ReunionID == "" {
		date := s.core.now()
		if c.PublicationDate != nil {
			date = *c.PublicationDate
		}
		reunion := models.NewReunion(c.Name, date)
		if err := r.Reunions.Create(reunion); err != nil {
			return nil, err
		}
		c.ReunionID = reunion.ID
	}

	if err := r.Contents.Create(c); err != nil {
		return nil, err
	}

	if c.ListID == "" && (c.Type == models.ContentRadar || c.Type == models.ContentBest) {
		var (
			l   *models.List
			err error
		)
		if c.Type == models.ContentRadar {
			l, err = s.lists.createWeekly(r, c.PublicationDate, c.ListDate, c.CloseDate)
		} else {
			l, err = s.lists.createMonthly(r, c.PublicationDate, c.ListDate, c.CloseDate)
		}
		if err != nil {
			return nil, err
		}
		c.ListID = l.ID
		if err := r.Contents.Update(c); err != nil {
			return nil, err
		}
	}

	return r.Contents.Get(c.ID)
}

// attachMedium links an existing medium or creates one for medium content types.
func (s *ContentsService) attachMedium(r *repositories.Repos, c *models.Content, mediumID string) error {
	kind, ok := c.Type.MediumKind()
	if !ok {
		if mediumID != "" {
			return shared.Invalid("content of type %s cannot link a medium", c.Type)
		}
		return nil
	}

	if mediumID == "" {
		m := models.NewMedium(kind, c.Name, models.StatusEditing, "")
		m.UserID = c.AuthorID
		now := s.core.now()
		m.UpdateDate = &now
		if err := r.Media.Create(m); err != nil {
			return err
		}
		c.Medium = m.Ref()
		return nil
	}

	m, err := r.Media.GetKind(kind, mediumID)
	if err != nil {
		return err
	}
	existing, err := r.Contents.FindByMedium(m.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return shared.Conflict("El %s ya tiene un Content asociado.", kind.Label())
	}

	c.Medium = m.Ref()
	if c.PublicationDate == nil && m.Status == models.StatusPublished && m.UpdateDate != nil {
		c.SetPublicationDate(m.UpdateDate)
	}
	return nil
}

func (s *ContentsService) attachList(r *repositories.Repos, c *models.Content, listID string) error {
	if !c.Type.HasList() {
		return shared.Invalid("content of type %s cannot link a list", c.Type)
	}
	if _, err := r.Lists.Get(listID); err != nil {
		return err
	}
	existing, err := r.Contents.FindByList(listID)
	if err != nil {
		return err
	}
	if existing != nil {
		return shared.Conflict("La lista ya tiene un Content asociado.")
	}
	c.ListID = listID
	return nil
}

func (s *ContentsService) update(r *repositories.Repos, id string, patch ContentPatch, from origin) (*models.Content, error) {
	c, err := r.Contents.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.AuthorID != nil {
		if err := requireUser(r, *patch.AuthorID); err != nil {
			return nil, err
		}
		c.AuthorID = *patch.AuthorID
	}

	if patch.ReunionID != nil {
		if *patch.ReunionID != "" {
			if _, err := r.Reunions.Get(*patch.ReunionID); err != nil {
				return nil, err
			}
		}
		c.ReunionID = *patch.ReunionID
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	if patch.Ready != nil {
		c.Ready = *patch.Ready
	}

	if patch.PublicationDate.Set {
		if patch.PublicationDate.Clears() {
			if c.Type.RequiresPublicationDate() {
				return nil, shared.Invalid("El tipo %s requiere una fecha de publicación.", c.Type)
			}
			c.PublicationDate = nil
		} else {
			c.SetPublicationDate(patch.PublicationDate.Value)
		}
	}
	if patch.CloseDate.Set {
		c.CloseDate = patch.CloseDate.Value
	}
	if patch.ListDate.Set {
		c.ListDate = patch.ListDate.Value
	}

	if err := r.Contents.Update(c); err != nil {
		return nil, err
	}

	d := dispatcher{repos: r, logger: s.logger}
	if err := d.ApplyAll(planContentSync(c, from)); err != nil {
		return nil, err
	}

	return r.Contents.Get(c.ID)
}

// remove deletes c, its reunion and its list, and reverts its medium to in_progress.
func (s *ContentsService) remove(r *repositories.Repos, c *models.Content) error {
	if err := r.Contents.Delete(c.ID); err != nil {
		return err
	}

	if c.ReunionID != "" {
		if err := r.Reunions.Delete(c.ReunionID); err != nil {
			return err
		}
	}

	if c.ListID != "" {
		if err := s.lists.remove(r, c.ListID); err != nil {
			return err
		}
	}

	if !c.Medium.IsZero() {
		if err := r.Media.UpdateStatus(c.Medium.ID, models.StatusInProgress); err != nil {
			return err
		}
	}

	s.logger.Debug("content unlinked", "id", c.ID, "medium", c.Medium, "list", c.ListID, "reunion", c.ReunionID)
	return nil
}
