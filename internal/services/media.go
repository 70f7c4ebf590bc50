package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/repositories"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

const (
	defaultMediaLimit = 50
	maxMediaLimit     = 200
)

// MediumInput is the payload for [MediumService.Create]. Status defaults to not_started.
type MediumInput struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Status     models.Status `json:"status"`
	Link       string        `json:"link"`
	UpdateDate *time.Time    `json:"updateDate"`
	UserID     string        `json:"userId"`
	EditorID   string        `json:"editorId"`
	ListID     string        `json:"listId"`
}

// UnmarshalJSON reads UpdateDate with [models.ParseDate].
func (in *MediumInput) UnmarshalJSON(data []byte) error {
	type plain MediumInput
	aux := struct {
		*plain
		UpdateDate models.DatePatch `json:"updateDate"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.UpdateDate = aux.UpdateDate.Value
	return nil
}

// MediumPatch is a partial update for [MediumService.Update]. An empty UserID, EditorID or
// ListID unassigns; only videos take a ListID.
type MediumPatch struct {
	Name       *string          `json:"name"`
	Type       *string          `json:"type"`
	Link       *string          `json:"link"`
	UpdateDate models.DatePatch `json:"updateDate"`
	UserID     *string          `json:"userId"`
	EditorID   *string          `json:"editorId"`
	Status     *models.Status   `json:"status"`
	ListID     *string          `json:"listId"`
}

// MediumFilter narrows [MediumService.List]. From and To bound the update date.
type MediumFilter struct {
	Query  string
	Status models.Status
	Type   string
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// MediumService runs the editorial lifecycle of one medium kind.
type MediumService struct {
	core     *core
	contents *ContentsService
	lists    *ListsService
	kind     models.MediumKind
	logger   *log.Logger
}

func newMediumService(c *core, contents *ContentsService, lists *ListsService, kind models.MediumKind) *MediumService {
	return &MediumService{
		core:     c,
		contents: contents,
		lists:    lists,
		kind:     kind,
		logger:   shared.WithLogger(c.logger, "service", kind),
	}
}

// Kind returns the medium kind this service manages.
func (s *MediumService) Kind() models.MediumKind { return s.kind }

// Create persists a medium. Starting in editing or ready requires an assigned user and
// creates the wrapping content right away.
func (s *MediumService) Create(ctx context.Context, in MediumInput) (*models.Medium, error) {
	if in.Status == "" {
		in.Status = models.StatusNotStarted
	}

	var medium *models.Medium
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		m := models.NewMedium(s.kind, in.Name, in.Status, in.Type)
		m.Link = in.Link
		m.UpdateDate = in.UpdateDate
		m.UserID = in.UserID
		m.EditorID = in.EditorID
		m.ListID = in.ListID

		if err := s.checkAssignees(r, m, in.Status); err != nil {
			return err
		}
		if m.ListID != "" {
			if _, err := r.Lists.Get(m.ListID); err != nil {
				return err
			}
		}

		if err := r.Media.Create(m); err != nil {
			return err
		}

		if m.Status == models.StatusEditing || m.Status == models.StatusReady {
			if _, err := s.contents.create(r, s.contentFor(m)); err != nil {
				return err
			}
		}

		var err error
		medium, err = r.Media.Get(m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("medium created", "id", medium.ID, "status", medium.Status)
	return medium, nil
}

// Update applies field edits, validates a status change and keeps the wrapping content in step.
func (s *MediumService) Update(ctx context.Context, id string, patch MediumPatch) (*models.Medium, error) {
	var medium *models.Medium
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		var err error
		medium, err = s.update(r, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return medium, nil
}

func (s *MediumService) update(r *repositories.Repos, id string, patch MediumPatch) (*models.Medium, error) {
	m, err := r.Media.GetKind(s.kind, id)
	if err != nil {
		return nil, err
	}
	previous := m.Status

	// staged publication date for the wrapping content
	var staged *models.DatePatch

	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Link != nil {
		m.Link = *patch.Link
	}
	if patch.UpdateDate.Set && !models.SameTime(m.UpdateDate, patch.UpdateDate.Value) {
		m.UpdateDate = patch.UpdateDate.Value
		if m.UpdateDate != nil {
			staged = &models.DatePatch{Set: true, Value: m.UpdateDate}
		}
	}
	if patch.UserID != nil {
		m.UserID = *patch.UserID
	}
	if patch.EditorID != nil {
		m.EditorID = *patch.EditorID
	}
	if patch.ListID != nil {
		if s.kind != models.KindVideo {
			return nil, shared.Invalid("%s does not accept a list", s.kind.Label())
		}
		if *patch.ListID != "" {
			if _, err := r.Lists.Get(*patch.ListID); err != nil {
				return nil, err
			}
		}
		m.ListID = *patch.ListID
	}

	content, err := r.Contents.FindByMedium(m.ID)
	if err != nil {
		return nil, err
	}

	createContent, removeContent := false, false
	if patch.Status != nil && *patch.Status != m.Status {
		next := *patch.Status
		if !next.Valid() {
			return nil, shared.Invalid("unknown status %q", next)
		}

		switch next {
		case models.StatusInProgress:
			removeContent = content != nil
		case models.StatusEditing, models.StatusReady:
			if m.UserID == "" {
				return nil, shared.Invalid("Para cambiar el estado a %q, debe haber un usuario asignado.", next)
			}
			if content == nil {
				createContent = true
			} else {
				cleared := models.ClearDate()
				staged = &cleared
			}
		case models.StatusPublished:
			if !patch.UpdateDate.Set || patch.UpdateDate.Value == nil {
				return nil, shared.Invalid("Para cambiar el estado a %q, debe proporcionar una fecha (updateDate).", next)
			}
			published := models.SetDate(*patch.UpdateDate.Value)
			staged = &published
		}
		m.Status = next
	}

	if err := s.checkAssignees(r, m, m.Status); err != nil {
		return nil, err
	}

	if removeContent {
		if err := s.contents.remove(r, content); err != nil {
			return nil, err
		}
		content = nil
	}

	if err := r.Media.Update(m); err != nil {
		return nil, err
	}

	switch {
	case createContent:
		if _, err := s.contents.create(r, s.contentFor(m)); err != nil {
			return nil, err
		}
	case staged != nil && content != nil:
		if _, err := s.contents.update(r, content.ID, ContentPatch{PublicationDate: *staged}, origin{}); err != nil {
			return nil, err
		}
	}

	if previous != m.Status {
		s.logger.Info("status changed", "id", m.ID, "from", previous, "to", m.Status)
	}
	return r.Media.Get(m.ID)
}

// Remove deletes the medium unless a content still wraps it.
func (s *MediumService) Remove(ctx context.Context, id string) error {
	return s.core.tx(ctx, func(r *repositories.Repos) error {
		m, err := r.Media.GetKind(s.kind, id)
		if err != nil {
			return err
		}
		content, err := r.Contents.FindByMedium(m.ID)
		if err != nil {
			return err
		}
		if content != nil {
			return shared.Conflict("No se puede eliminar un %s que tiene un Content asociado. Primero pásalo a IN_PROGRESS.", s.kind.Label())
		}
		return r.Media.Delete(m.ID)
	})
}

func (s *MediumService) Get(ctx context.Context, id string) (*models.Medium, error) {
	return s.core.store.Repos().Media.GetKind(s.kind, id)
}

// List returns media of this kind, newest update first. Limit defaults to 50 and is capped at 200.
func (s *MediumService) List(ctx context.Context, f MediumFilter) ([]*models.Medium, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = defaultMediaLimit
	case f.Limit > maxMediaLimit:
		f.Limit = maxMediaLimit
	}

	return s.core.store.Repos().Media.List(map[string]any{
		"kind":    s.kind,
		"status":  f.Status,
		"type":    f.Type,
		"user_id": f.UserID,
		"q":       f.Query,
		"from":    f.From,
		"to":      f.To,
		"limit":   f.Limit,
		"offset":  max(f.Offset, 0),
	})
}

// CreateListForVideo creates a video list and links it to the video.
func (s *MediumService) CreateListForVideo(ctx context.Context, id, name string) (*models.List, error) {
	if s.kind != models.KindVideo {
		return nil, shared.Invalid("%s does not accept a list", s.kind.Label())
	}

	var list *models.List
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		m, err := r.Media.GetKind(models.KindVideo, id)
		if err != nil {
			return err
		}
		if m.ListID != "" {
			return shared.Conflict("El Video ya tiene una lista asociada.")
		}

		list, err = s.lists.createVideo(r, m.UpdateDate, nil, name, nil)
		if err != nil {
			return err
		}

		m.ListID = list.ID
		return r.Media.Update(m)
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *MediumService) contentFor(m *models.Medium) CreateContentInput {
	return CreateContentInput{
		Type:     m.Kind.ContentType(),
		Name:     m.Name,
		AuthorID: m.UserID,
		MediumID: m.ID,
	}
}

// checkAssignees enforces the assigned-user rule for status and that referenced users exist.
func (s *MediumService) checkAssignees(r *repositories.Repos, m *models.Medium, status models.Status) error {
	if (status == models.StatusEditing || status == models.StatusReady) && m.UserID == "" {
		return shared.Invalid("Para cambiar el estado a %q, debe haber un usuario asignado.", status)
	}
	for _, id := range []string{m.UserID, m.EditorID} {
		if id == "" {
			continue
		}
		if err := requireUser(r, id); err != nil {
			return err
		}
	}
	return nil
}
