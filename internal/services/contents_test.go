package services

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riffvalley/riffvalley-app-back/internal/metrics"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

func TestContentsServiceCreate(t *testing.T) {
	t.Run("Article creates medium in editing", func(t *testing.T) {
		f := setupServices(t)

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type:     models.ContentArticle,
			Name:     "Entrevista",
			AuthorID: f.user.ID,
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		if c.Medium.Kind != models.KindArticle {
			t.Fatalf("expected article medium, got %v", c.Medium)
		}

		m, err := f.svc.Articles.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if m.Status != models.StatusEditing {
			t.Errorf("expected status editing, got %s", m.Status)
		}
		if m.UserID != f.user.ID {
			t.Errorf("expected medium assigned to author, got %q", m.UserID)
		}
		if m.UpdateDate == nil || !m.UpdateDate.Equal(fixedNow) {
			t.Errorf("expected update date %v, got %v", fixedNow, m.UpdateDate)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		tc := []struct {
			name string
			in   CreateContentInput
			want error
		}{
			{name: "unknown type", in: CreateContentInput{Type: "podcast", Name: "x"}, want: shared.ErrValidation},
			{name: "radar without date", in: CreateContentInput{Type: models.ContentRadar, Name: "x"}, want: shared.ErrValidation},
			{name: "reunion without date", in: CreateContentInput{Type: models.ContentReunion, Name: "x"}, want: shared.ErrValidation},
			{name: "photos with medium", in: CreateContentInput{Type: models.ContentPhotos, Name: "x", MediumID: "m"}, want: shared.ErrValidation},
			{name: "article with list", in: CreateContentInput{Type: models.ContentArticle, Name: "x", ListID: "l"}, want: shared.ErrValidation},
			{name: "missing medium", in: CreateContentInput{Type: models.ContentSpotify, Name: "x", MediumID: "missing"}, want: shared.ErrNotFound},
			{name: "missing reunion", in: CreateContentInput{Type: models.ContentPhotos, Name: "x", ReunionID: "missing"}, want: shared.ErrNotFound},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				f := setupServices(t)
				in := tt.in
				in.AuthorID = f.user.ID

				if _, err := f.svc.Contents.Create(f.ctx, in); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Unknown author", func(t *testing.T) {
		f := setupServices(t)

		_, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentPhotos, Name: "x", AuthorID: "ghost"})
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Radar creates weekly list", func(t *testing.T) {
		f := setupServices(t)
		release := day(2025, time.March, 17)

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type:            models.ContentRadar,
			Name:            "Radar",
			AuthorID:        f.user.ID,
			PublicationDate: release,
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		if c.ListID == "" {
			t.Fatal("expected a list to be linked")
		}

		l, err := f.svc.Lists.Get(f.ctx, c.ListID)
		if err != nil {
			t.Fatalf("failed to get list: %v", err)
		}
		if l.Type != models.ListWeek {
			t.Errorf("expected week list, got %s", l.Type)
		}
		if l.Name != "Discos Marzo Semana 3" {
			t.Errorf("expected generated name, got %q", l.Name)
		}
		if !models.SameTime(l.ReleaseDate, release) {
			t.Errorf("expected release %v, got %v", release, l.ReleaseDate)
		}
	})

	t.Run("Best creates monthly list for next month", func(t *testing.T) {
		f := setupServices(t)

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentBest, Name: "Lo mejor", AuthorID: f.user.ID})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		l, err := f.svc.Lists.Get(f.ctx, c.ListID)
		if err != nil {
			t.Fatalf("failed to get list: %v", err)
		}
		if l.Type != models.ListMonth || l.Name != "Discos Abril 2025" {
			t.Errorf("expected month list Discos Abril 2025, got %s %q", l.Type, l.Name)
		}
	})

	t.Run("Explicit list skips generation", func(t *testing.T) {
		f := setupServices(t)
		l, err := f.svc.Lists.Create(f.ctx, ListInput{Name: "Especial", Type: models.ListWeek})
		if err != nil {
			t.Fatalf("failed to create list: %v", err)
		}

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentRadar, Name: "Radar", AuthorID: f.user.ID,
			PublicationDate: day(2025, time.March, 17), ListID: l.ID,
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		if c.ListID != l.ID {
			t.Errorf("expected list %s, got %s", l.ID, c.ListID)
		}

		page, err := f.svc.Lists.List(f.ctx, ListFilter{})
		if err != nil {
			t.Fatalf("failed to list lists: %v", err)
		}
		if page.Total != 1 {
			t.Errorf("expected 1 list, got %d", page.Total)
		}
	})

	t.Run("Reunion creates meeting with default points", func(t *testing.T) {
		f := setupServices(t)
		date := day(2025, time.March, 14)

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentReunion, Name: "Reunión semanal", AuthorID: f.user.ID, PublicationDate: date,
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		reunion, err := f.store.Repos().Reunions.Get(c.ReunionID)
		if err != nil {
			t.Fatalf("failed to get reunion: %v", err)
		}
		if reunion.Title != "Reunión semanal" || !reunion.Date.Equal(*date) {
			t.Errorf("unexpected reunion %q %v", reunion.Title, reunion.Date)
		}
		if len(reunion.Points) != len(models.DefaultPoints) {
			t.Errorf("expected %d points, got %d", len(models.DefaultPoints), len(reunion.Points))
		}
	})

	t.Run("Linking a published medium imports its date", func(t *testing.T) {
		f := setupServices(t)
		date := day(2025, time.March, 1)
		m, err := f.svc.Spotify.Create(f.ctx, MediumInput{Name: "Playlist", Status: models.StatusPublished, UpdateDate: date, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentSpotify, Name: "Playlist", AuthorID: f.user.ID, MediumID: m.ID})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		if !models.SameTime(c.PublicationDate, date) {
			t.Errorf("expected publication date %v, got %v", date, c.PublicationDate)
		}

		_, err = f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentSpotify, Name: "Again", AuthorID: f.user.ID, MediumID: m.ID})
		if !errors.Is(err, shared.ErrConflict) {
			t.Errorf("expected ErrConflict for second content, got %v", err)
		}
	})
}

func TestContentsServiceUpdate(t *testing.T) {
	t.Run("Publication date publishes medium", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentArticle, Name: "Crónica", AuthorID: f.user.ID, Ready: true})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		date := day(2025, time.March, 20)
		updated, err := f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{PublicationDate: models.SetDate(*date)})
		if err != nil {
			t.Fatalf("failed to update content: %v", err)
		}
		if updated.Ready {
			t.Error("expected ready to reset when a publication date is set")
		}

		m, err := f.svc.Articles.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if m.Status != models.StatusPublished {
			t.Errorf("expected published, got %s", m.Status)
		}
		if !models.SameTime(m.UpdateDate, date) {
			t.Errorf("expected update date %v, got %v", date, m.UpdateDate)
		}
	})

	t.Run("Clearing spotify date marks medium ready", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentSpotify, Name: "Playlist", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 20),
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		updated, err := f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{PublicationDate: models.ClearDate()})
		if err != nil {
			t.Fatalf("failed to update content: %v", err)
		}
		if updated.PublicationDate != nil {
			t.Errorf("expected cleared publication date, got %v", updated.PublicationDate)
		}

		m, err := f.svc.Spotify.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if m.Status != models.StatusReady {
			t.Errorf("expected ready, got %s", m.Status)
		}
	})

	t.Run("Undated spotify update marks medium ready", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentSpotify, Name: "Playlist", AuthorID: f.user.ID})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		m, err := f.svc.Spotify.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if m.Status != models.StatusEditing {
			t.Fatalf("expected fresh medium in editing, got %s", m.Status)
		}

		notes := "orden por género"
		if _, err := f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{Notes: &notes}); err != nil {
			t.Fatalf("failed to update content: %v", err)
		}

		m, err = f.svc.Spotify.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if m.Status != models.StatusReady {
			t.Errorf("expected ready, got %s", m.Status)
		}
	})

	t.Run("Clearing required date fails", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentRadar, Name: "Radar", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 17),
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		_, err = f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{PublicationDate: models.ClearDate()})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("Dates propagate to list and reunion", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentRadar, Name: "Radar", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 17),
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		reunion, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentReunion, Name: "Reunión", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 14),
		})
		if err != nil {
			t.Fatalf("failed to create reunion content: %v", err)
		}

		release, closing := day(2025, time.March, 24), day(2025, time.March, 21)
		_, err = f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{
			PublicationDate: models.SetDate(*release),
			CloseDate:       models.SetDate(*closing),
			ReunionID:       &reunion.ReunionID,
		})
		if err != nil {
			t.Fatalf("failed to update content: %v", err)
		}

		l, err := f.svc.Lists.Get(f.ctx, c.ListID)
		if err != nil {
			t.Fatalf("failed to get list: %v", err)
		}
		if !models.SameTime(l.ReleaseDate, release) || !models.SameTime(l.CloseDate, closing) {
			t.Errorf("expected list dates %v/%v, got %v/%v", release, closing, l.ReleaseDate, l.CloseDate)
		}

		r, err := f.store.Repos().Reunions.Get(reunion.ReunionID)
		if err != nil {
			t.Fatalf("failed to get reunion: %v", err)
		}
		if !r.Date.Equal(*release) || r.Title != "Radar" {
			t.Errorf("expected reunion synced to %v Radar, got %v %q", release, r.Date, r.Title)
		}
	})

	t.Run("Repeated update skips unchanged targets", func(t *testing.T) {
		f := setupServices(t)
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentArticle, Name: "Crónica", AuthorID: f.user.ID})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		patch := ContentPatch{PublicationDate: models.SetDate(*day(2025, time.March, 20))}
		if _, err := f.svc.Contents.Update(f.ctx, c.ID, patch); err != nil {
			t.Fatalf("failed first update: %v", err)
		}
		before, err := f.svc.Articles.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}

		skips := testutil.ToFloat64(metrics.SyncSkips.WithLabelValues(string(TargetMedium)))
		if _, err := f.svc.Contents.Update(f.ctx, c.ID, patch); err != nil {
			t.Fatalf("failed second update: %v", err)
		}

		if got := testutil.ToFloat64(metrics.SyncSkips.WithLabelValues(string(TargetMedium))); got != skips+1 {
			t.Errorf("expected one medium skip, got %v", got-skips)
		}
		after, err := f.svc.Articles.Get(f.ctx, c.Medium.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if !after.UpdatedAt.Equal(before.UpdatedAt) {
			t.Errorf("expected medium untouched, updated_at moved from %v to %v", before.UpdatedAt, after.UpdatedAt)
		}
	})

	t.Run("Published medium without assignee gets the author", func(t *testing.T) {
		f := setupServices(t)
		m, err := f.svc.Videos.Create(f.ctx, MediumInput{Name: "Directo"})
		if err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}
		c, err := f.svc.Contents.Create(f.ctx, CreateContentInput{Type: models.ContentVideo, Name: "Directo", AuthorID: f.user.ID, MediumID: m.ID})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		if _, err := f.svc.Contents.Update(f.ctx, c.ID, ContentPatch{PublicationDate: models.SetDate(*day(2025, time.March, 20))}); err != nil {
			t.Fatalf("failed to update content: %v", err)
		}

		got, err := f.svc.Videos.Get(f.ctx, m.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if got.Status != models.StatusPublished || got.UserID != f.user.ID {
			t.Errorf("expected published and assigned, got %s %q", got.Status, got.UserID)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		f := setupServices(t)
		name := "x"

		if _, err := f.svc.Contents.Update(f.ctx, "missing", ContentPatch{Name: &name}); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestContentsServiceRemove(t *testing.T) {
	t.Run("Reverts medium", func(t *testing.T) {
		f := setupServices(t)
		m, err := f.svc.Videos.Create(f.ctx, MediumInput{Name: "Directo", Status: models.StatusEditing, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}
		c, err := f.svc.Contents.FindByMedium(f.ctx, m.ID)
		if err != nil || c == nil {
			t.Fatalf("expected content for medium, got %v %v", c, err)
		}
		list, err := f.svc.Videos.CreateListForVideo(f.ctx, m.ID, "")
		if err != nil {
			t.Fatalf("failed to create list: %v", err)
		}
		if err := f.svc.Contents.Remove(f.ctx, c.ID); err != nil {
			t.Fatalf("failed to remove content: %v", err)
		}

		if _, err := f.svc.Contents.Get(f.ctx, c.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected content gone, got %v", err)
		}
		got, err := f.svc.Videos.Get(f.ctx, m.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if got.Status != models.StatusInProgress {
			t.Errorf("expected in_progress, got %s", got.Status)
		}
		// the video list belongs to the medium, not the content
		if _, err := f.svc.Lists.Get(f.ctx, list.ID); err != nil {
			t.Errorf("expected medium list kept, got %v", err)
		}
	})

	t.Run("Deletes owned list and reunion", func(t *testing.T) {
		f := setupServices(t)
		radar, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentRadar, Name: "Radar", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 17),
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}
		reunion, err := f.svc.Contents.Create(f.ctx, CreateContentInput{
			Type: models.ContentReunion, Name: "Reunión", AuthorID: f.user.ID, PublicationDate: day(2025, time.March, 14),
		})
		if err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		if err := f.svc.Contents.Remove(f.ctx, radar.ID); err != nil {
			t.Fatalf("failed to remove radar: %v", err)
		}
		if _, err := f.svc.Lists.Get(f.ctx, radar.ListID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected list deleted, got %v", err)
		}

		if err := f.svc.Contents.Remove(f.ctx, reunion.ID); err != nil {
			t.Fatalf("failed to remove reunion: %v", err)
		}
		if _, err := f.store.Repos().Reunions.Get(reunion.ReunionID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected reunion deleted, got %v", err)
		}
	})
}

func TestContentsServiceQueries(t *testing.T) {
	f := setupServices(t)
	for _, in := range []CreateContentInput{
		{Type: models.ContentPhotos, Name: "Fotos", PublicationDate: day(2025, time.February, 25)},
		{Type: models.ContentPhotos, Name: "Marzo", PublicationDate: day(2025, time.March, 15)},
		{Type: models.ContentPhotos, Name: "Lejos", PublicationDate: day(2025, time.May, 1)},
		{Type: models.ContentPhotos, Name: "Pendiente", Ready: true},
	} {
		in.AuthorID = f.user.ID
		if _, err := f.svc.Contents.Create(f.ctx, in); err != nil {
			t.Fatalf("failed to create %s: %v", in.Name, err)
		}
	}

	t.Run("ListByMonth widens by a week", func(t *testing.T) {
		got, err := f.svc.Contents.ListByMonth(f.ctx, 2025, time.March)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 contents, got %d", len(got))
		}
	})

	t.Run("List by ready", func(t *testing.T) {
		ready := true
		got, err := f.svc.Contents.List(f.ctx, ContentFilter{Ready: &ready})
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Pendiente" {
			t.Errorf("expected only Pendiente, got %d contents", len(got))
		}
	})
}
