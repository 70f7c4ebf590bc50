package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/repositories"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

const upcomingWindow = 14 * 24 * time.Hour

// ListInput is the payload for [ListsService.Create]. Week, month and video lists get a
// generated name when Name is empty.
type ListInput struct {
	Name        string              `json:"name"`
	Type        models.ListType     `json:"type"`
	Status      models.ListStatus   `json:"status"`
	SpecialType string              `json:"specialType"`
	Free        bool                `json:"free"`
	ListDate    *time.Time          `json:"listDate"`
	ReleaseDate *time.Time          `json:"releaseDate"`
	CloseDate   *time.Time          `json:"closeDate"`
	Assignments []models.Assignment `json:"assignments"`
	Links       []models.Link       `json:"links"`
}

// UnmarshalJSON reads the dates with [models.ParseDate].
func (in *ListInput) UnmarshalJSON(data []byte) error {
	type plain ListInput
	aux := struct {
		*plain
		ListDate    models.DatePatch `json:"listDate"`
		ReleaseDate models.DatePatch `json:"releaseDate"`
		CloseDate   models.DatePatch `json:"closeDate"`
	}{plain: (*plain)(in)}
	if err := decodeStrict(data, &aux); err != nil {
		return err
	}
	in.ListDate = aux.ListDate.Value
	in.ReleaseDate = aux.ReleaseDate.Value
	in.CloseDate = aux.CloseDate.Value
	return nil
}

// ListPatch is a partial update for [ListsService.Update].
type ListPatch struct {
	Name        *string            `json:"name"`
	Status      *models.ListStatus `json:"status"`
	SpecialType *string            `json:"specialType"`
	Free        *bool              `json:"free"`
	ListDate    models.DatePatch   `json:"listDate"`
	ReleaseDate models.DatePatch   `json:"releaseDate"`
	CloseDate   models.DatePatch   `json:"closeDate"`
}

func (p ListPatch) touchesDates() bool {
	return p.ListDate.Set || p.ReleaseDate.Set || p.CloseDate.Set
}

// ListFilter narrows [ListsService.List]. Limit defaults to 10.
type ListFilter struct {
	Type          models.ListType
	ExcludeStatus []models.ListStatus
	Limit         int
	Offset        int
}

// Page is one page of results with the total match count.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"totalItems"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListsService manages scheduling lists and mirrors their dates onto the owning content.
type ListsService struct {
	core   *core
	logger *log.Logger
}

func (s *ListsService) Create(ctx context.Context, in ListInput) (*models.List, error) {
	var list *models.List
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		var err error
		switch {
		case in.Name != "" || in.Type == models.ListSpecial:
			list, err = s.create(r, in)
		case in.Type == models.ListWeek:
			list, err = s.createWeekly(r, in.ReleaseDate, in.ListDate, in.CloseDate)
		case in.Type == models.ListMonth:
			list, err = s.createMonthly(r, in.ReleaseDate, in.ListDate, in.CloseDate)
		case in.Type == models.ListVideo:
			list, err = s.createVideo(r, in.ReleaseDate, in.ListDate, "", in.CloseDate)
		default:
			list, err = s.create(r, in)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListsService) create(r *repositories.Repos, in ListInput) (*models.List, error) {
	l := models.NewList(in.Name, in.Type)
	if in.Status != "" {
		l.Status = in.Status
	}
	l.SpecialType = in.SpecialType
	l.Free = in.Free
	l.ListDate = in.ListDate
	l.ReleaseDate = in.ReleaseDate
	l.CloseDate = in.CloseDate
	l.Assignments = in.Assignments
	l.Links = in.Links

	for _, a := range l.Assignments {
		if err := requireUser(r, a.UserID); err != nil {
			return nil, err
		}
	}

	if err := r.Lists.Create(l); err != nil {
		return nil, err
	}
	return r.Lists.Get(l.ID)
}

func (s *ListsService) Get(ctx context.Context, id string) (*models.List, error) {
	return s.core.store.Repos().Lists.Get(id)
}

func (s *ListsService) List(ctx context.Context, f ListFilter) (*Page[*models.List], error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	criteria := map[string]any{
		"type":           f.Type,
		"exclude_status": f.ExcludeStatus,
		"limit":          f.Limit,
		"offset":         f.Offset,
	}

	repos := s.core.store.Repos()
	items, err := repos.Lists.List(criteria)
	if err != nil {
		return nil, err
	}
	total, err := repos.Lists.Count(criteria)
	if err != nil {
		return nil, err
	}
	return &Page[*models.List]{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Upcoming returns lists releasing within the next two weeks.
func (s *ListsService) Upcoming(ctx context.Context) ([]*models.List, error) {
	now := s.core.now()
	return s.core.store.Repos().Lists.List(map[string]any{
		"release_from": now,
		"release_to":   now.Add(upcomingWindow),
	})
}

// Next returns lists releasing after the upcoming window.
func (s *ListsService) Next(ctx context.Context) ([]*models.List, error) {
	return s.core.store.Repos().Lists.List(map[string]any{
		"release_from": s.core.now().Add(upcomingWindow).Add(time.Nanosecond),
	})
}

// Update applies patch and, when a date changed, mirrors the list dates onto the owning
// content and from there to the content's medium and reunion.
func (s *ListsService) Update(ctx context.Context, id string, patch ListPatch) (*models.List, error) {
	var list *models.List
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		l, err := r.Lists.Get(id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			l.Name = *patch.Name
		}
		if patch.Status != nil {
			l.Status = *patch.Status
		}
		if patch.SpecialType != nil {
			l.SpecialType = *patch.SpecialType
		}
		if patch.Free != nil {
			l.Free = *patch.Free
		}
		if patch.ListDate.Set {
			l.ListDate = patch.ListDate.Value
		}
		if patch.ReleaseDate.Set {
			l.ReleaseDate = patch.ReleaseDate.Value
		}
		if patch.CloseDate.Set {
			l.CloseDate = patch.CloseDate.Value
		}

		if err := r.Lists.Update(l); err != nil {
			return err
		}

		if patch.touchesDates() {
			if err := s.syncContent(r, l); err != nil {
				return err
			}
		}

		list, err = r.Lists.Get(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// syncContent pushes l's dates to its content, then the content's changes onward, never back to l.
func (s *ListsService) syncContent(r *repositories.Repos, l *models.List) error {
	c, err := r.Contents.FindByList(l.ID)
	if err != nil || c == nil {
		return err
	}

	d := dispatcher{repos: r, logger: s.logger}
	written, err := d.Apply(planListSync(l, c.ID))
	if err != nil || !written {
		return err
	}

	c, err = r.Contents.Get(c.ID)
	if err != nil {
		return err
	}
	return d.ApplyAll(planContentSync(c, origin{target: TargetList, id: l.ID}))
}

func (s *ListsService) Remove(ctx context.Context, id string) error {
	return s.core.tx(ctx, func(r *repositories.Repos) error {
		return s.remove(r, id)
	})
}

// remove unlinks the owning content, if any, then deletes the list.
func (s *ListsService) remove(r *repositories.Repos, id string) error {
	if err := r.Contents.UnlinkList(id); err != nil {
		return err
	}
	return r.Lists.Delete(id)
}

// AddAssignment gives userID a slot in the list.
func (s *ListsService) AddAssignment(ctx context.Context, listID, userID string, position int) (*models.List, error) {
	var list *models.List
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		if _, err := r.Lists.Get(listID); err != nil {
			return err
		}
		if err := requireUser(r, userID); err != nil {
			return err
		}
		if err := r.Lists.AddAssignment(listID, &models.Assignment{UserID: userID, Position: position}); err != nil {
			return err
		}
		var err error
		list, err = r.Lists.Get(listID)
		return err
	})
	return list, err
}

// AddLink attaches an external link to the list.
func (s *ListsService) AddLink(ctx context.Context, listID, name, url string) (*models.List, error) {
	if name == "" || url == "" {
		return nil, shared.Invalid("link name and url are required")
	}
	var list *models.List
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		if _, err := r.Lists.Get(listID); err != nil {
			return err
		}
		if err := r.Lists.AddLink(listID, &models.Link{Name: name, URL: url}); err != nil {
			return err
		}
		var err error
		list, err = r.Lists.Get(listID)
		return err
	})
	return list, err
}

// createWeekly creates the radar list. Without a release date it defaults to next Monday at
// midnight; the list date defaults to the release day's midnight and names the list.
func (s *ListsService) createWeekly(r *repositories.Repos, releaseDate, listDate, closeDate *time.Time) (*models.List, error) {
	release := s.nextMonday()
	if releaseDate != nil {
		release = *releaseDate
	}
	listed := midnight(release.In(s.core.loc))
	if listDate != nil {
		listed = *listDate
	}

	return s.generate(r, models.ListWeek, weeklyListName(listed.In(s.core.loc)), release, listed, closeDate)
}

// createMonthly creates the best-of list, defaulting to the first day of next month.
func (s *ListsService) createMonthly(r *repositories.Repos, releaseDate, listDate, closeDate *time.Time) (*models.List, error) {
	now := s.core.now().In(s.core.loc)
	release := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, s.core.loc)
	if releaseDate != nil {
		release = *releaseDate
	}
	listed := midnight(release.In(s.core.loc))
	if listDate != nil {
		listed = *listDate
	}

	return s.generate(r, models.ListMonth, monthlyListName(listed.In(s.core.loc)), release, listed, closeDate)
}

// createVideo creates a video list, defaulting to the first day of the current month.
func (s *ListsService) createVideo(r *repositories.Repos, releaseDate, listDate *time.Time, name string, closeDate *time.Time) (*models.List, error) {
	now := s.core.now().In(s.core.loc)
	release := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.core.loc)
	if releaseDate != nil {
		release = *releaseDate
	}
	listed := release
	if listDate != nil {
		listed = *listDate
	}
	if name == "" {
		name = videoListName(listed.In(s.core.loc))
	}

	return s.generate(r, models.ListVideo, name, release, listed, closeDate)
}

func (s *ListsService) generate(r *repositories.Repos, typ models.ListType, name string, release, listed time.Time, closeDate *time.Time) (*models.List, error) {
	l := models.NewList(name, typ)
	l.ReleaseDate = &release
	l.ListDate = &listed
	l.CloseDate = closeDate

	if err := r.Lists.Create(l); err != nil {
		return nil, err
	}
	s.logger.Info("list created", "type", typ, "name", name)
	return l, nil
}

func (s *ListsService) nextMonday() time.Time {
	now := s.core.now().In(s.core.loc)
	days := (8 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return midnight(now).AddDate(0, 0, days)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthName(t time.Time) string {
	return models.MonthName(t.Month())
}

func weeklyListName(t time.Time) string {
	return fmt.Sprintf("Discos %s Semana %d", monthName(t), (t.Day()+6)/7)
}

func monthlyListName(t time.Time) string {
	return fmt.Sprintf("Discos %s %d", monthName(t), t.Year())
}

func videoListName(t time.Time) string {
	return fmt.Sprintf("Videos %s", monthName(t))
}
