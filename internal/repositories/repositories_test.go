package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, repos *Repos, email string) *models.User {
	t.Helper()
	user := models.NewUser("Test User", email)
	if err := repos.Users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "contents")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "test@example.com")

		if user.ID == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "test@example.com")

		got, err := repos.Users.Get(user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Email != "test@example.com" {
			t.Errorf("expected email test@example.com, got %s", got.Email)
		}
	})

	t.Run("Exists", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "test@example.com")

		if ok, err := repos.Users.Exists(user.ID); err != nil || !ok {
			t.Errorf("expected user to exist, got %v, %v", ok, err)
		}
		if ok, err := repos.Users.Exists("missing"); err != nil || ok {
			t.Errorf("expected missing user not to exist, got %v, %v", ok, err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "test@example.com")

		user.Name = "Renamed"
		if err := repos.Users.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, _ := repos.Users.Get(user.ID)
		if got.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", got.Name)
		}
	})

	t.Run("List", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		mustUser(t, repos, "a@example.com")
		mustUser(t, repos, "b@example.com")

		all, err := repos.Users.List(nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 users, got %d", len(all))
		}

		filtered, _ := repos.Users.List(map[string]any{"email": "b@example.com"})
		if len(filtered) != 1 || filtered[0].Email != "b@example.com" {
			t.Errorf("expected only b@example.com, got %+v", filtered)
		}
	})
}

func TestMediumRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")

		m := models.NewMedium(models.KindArticle, "Crónica Resurrection Fest", models.StatusEditing, models.ArticleTypeCronica)
		m.UserID = user.ID
		m.Link = "https://example.com/doc"
		if err := repos.Media.Create(m); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		got, err := repos.Media.Get(m.ID)
		if err != nil {
			t.Fatalf("failed to get medium: %v", err)
		}
		if got.Kind != models.KindArticle || got.Status != models.StatusEditing || got.UserID != user.ID {
			t.Errorf("unexpected medium: %+v", got)
		}
		if got.UpdateDate != nil {
			t.Errorf("expected nil update date, got %v", got.UpdateDate)
		}
	})

	t.Run("GetKind", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		m := models.NewMedium(models.KindVideo, "Video", models.StatusNotStarted, "")
		if err := repos.Media.Create(m); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		if _, err := repos.Media.GetKind(models.KindVideo, m.ID); err != nil {
			t.Errorf("expected video to be found: %v", err)
		}
		if _, err := repos.Media.GetKind(models.KindArticle, m.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for wrong kind, got %v", err)
		}
	})

	t.Run("UpdateStatus keeps update date", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

		m := models.NewMedium(models.KindSpotify, "Lista", models.StatusPublished, "")
		m.UserID = user.ID
		m.UpdateDate = &date
		if err := repos.Media.Create(m); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		if err := repos.Media.UpdateStatus(m.ID, models.StatusInProgress); err != nil {
			t.Fatalf("failed to update status: %v", err)
		}

		got, _ := repos.Media.Get(m.ID)
		if got.Status != models.StatusInProgress {
			t.Errorf("expected in_progress, got %s", got.Status)
		}
		if got.UpdateDate == nil || !got.UpdateDate.Equal(date) {
			t.Errorf("expected update date %v to be kept, got %v", date, got.UpdateDate)
		}
	})

	t.Run("List", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		for _, name := range []string{"Festival de verano", "Especial Navidad", "Festival de invierno"} {
			m := models.NewMedium(models.KindSpotify, name, models.StatusNotStarted, "")
			if err := repos.Media.Create(m); err != nil {
				t.Fatalf("failed to create medium: %v", err)
			}
		}
		video := models.NewMedium(models.KindVideo, "Festival en vídeo", models.StatusNotStarted, "")
		if err := repos.Media.Create(video); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		got, err := repos.Media.List(map[string]any{"kind": models.KindSpotify, "q": "festival"})
		if err != nil {
			t.Fatalf("failed to list media: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 spotify festivals, got %d", len(got))
		}

		page, _ := repos.Media.List(map[string]any{"limit": 1, "offset": 1})
		if len(page) != 1 {
			t.Errorf("expected a page of 1, got %d", len(page))
		}
	})
}

func TestContentRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")
		date := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

		m := models.NewMedium(models.KindArticle, "Review", models.StatusNotStarted, "")
		if err := repos.Media.Create(m); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		c := models.NewContent(models.ContentArticle, "Review", user.ID)
		c.Medium = m.Ref()
		c.PublicationDate = &date
		if err := repos.Contents.Create(c); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		got, err := repos.Contents.Get(c.ID)
		if err != nil {
			t.Fatalf("failed to get content: %v", err)
		}
		if got.Medium != m.Ref() {
			t.Errorf("expected medium %v, got %v", m.Ref(), got.Medium)
		}
		if got.PublicationDate == nil || !got.PublicationDate.Equal(date) {
			t.Errorf("expected publication date %v, got %v", date, got.PublicationDate)
		}
	})

	t.Run("FindByMedium", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")

		m := models.NewMedium(models.KindVideo, "Video", models.StatusNotStarted, "")
		if err := repos.Media.Create(m); err != nil {
			t.Fatalf("failed to create medium: %v", err)
		}

		none, err := repos.Contents.FindByMedium(m.ID)
		if err != nil || none != nil {
			t.Fatalf("expected no content yet, got %v, %v", none, err)
		}

		c := models.NewContent(models.ContentVideo, "Video", user.ID)
		c.Medium = m.Ref()
		if err := repos.Contents.Create(c); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		found, err := repos.Contents.FindByMedium(m.ID)
		if err != nil || found == nil || found.ID != c.ID {
			t.Errorf("expected content %s, got %v, %v", c.ID, found, err)
		}
	})

	t.Run("List by ready and dates", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")

		jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		for i, d := range []*time.Time{&jan, &mar, nil} {
			c := models.NewContent(models.ContentPhotos, "Fotos", user.ID)
			c.PublicationDate = d
			c.Ready = i == 2
			if err := repos.Contents.Create(c); err != nil {
				t.Fatalf("failed to create content: %v", err)
			}
		}

		ready, _ := repos.Contents.List(map[string]any{"ready": true})
		if len(ready) != 1 {
			t.Errorf("expected 1 ready content, got %d", len(ready))
		}

		inJan, _ := repos.Contents.List(map[string]any{
			"from": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			"to":   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		})
		if len(inJan) != 1 || !inJan[0].PublicationDate.Equal(jan) {
			t.Errorf("expected only the january content, got %+v", inJan)
		}

		all, err := repos.Contents.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list contents: %v", err)
		}
		if len(all) != 3 || !all[0].PublicationDate.Equal(mar) || !all[1].PublicationDate.Equal(jan) || all[2].PublicationDate != nil {
			t.Errorf("expected march, january, then undated; got %+v", all)
		}
	})

	t.Run("UnlinkList", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")

		l := models.NewList("Discos Enero 2024", models.ListMonth)
		if err := repos.Lists.Create(l); err != nil {
			t.Fatalf("failed to create list: %v", err)
		}

		c := models.NewContent(models.ContentBest, "Lo mejor", user.ID)
		c.ListID = l.ID
		if err := repos.Contents.Create(c); err != nil {
			t.Fatalf("failed to create content: %v", err)
		}

		if err := repos.Contents.UnlinkList(l.ID); err != nil {
			t.Fatalf("failed to unlink list: %v", err)
		}

		got, _ := repos.Contents.Get(c.ID)
		if got.ListID != "" {
			t.Errorf("expected list to be unlinked, got %s", got.ListID)
		}
	})
}

func TestListRepository(t *testing.T) {
	t.Run("Create with relations", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		user := mustUser(t, repos, "writer@example.com")

		l := models.NewList("Especial verano", models.ListSpecial)
		l.SpecialType = models.SpecialWeb
		l.Free = true
		l.Assignments = []models.Assignment{{UserID: user.ID, Position: 1}}
		l.Links = []models.Link{{Name: "Playlist", URL: "https://open.spotify.com/playlist/x"}}
		if err := repos.Lists.Create(l); err != nil {
			t.Fatalf("failed to create list: %v", err)
		}

		got, err := repos.Lists.Get(l.ID)
		if err != nil {
			t.Fatalf("failed to get list: %v", err)
		}
		if !got.Free || got.SpecialType != models.SpecialWeb {
			t.Errorf("unexpected list: %+v", got)
		}
		if len(got.Assignments) != 1 || got.Assignments[0].UserID != user.ID {
			t.Errorf("expected one assignment for %s, got %+v", user.ID, got.Assignments)
		}
		if len(got.Links) != 1 || got.Links[0].Name != "Playlist" {
			t.Errorf("expected one link, got %+v", got.Links)
		}
	})

	t.Run("List and Count", func(t *testing.T) {
		repos := NewRepos(setupTestDB(t))
		week := models.NewList("Discos Enero Semana 1", models.ListWeek)
		month := models.NewList("Discos Enero 2024", models.ListMonth)
		published := models.NewList("Discos Febrero 2024", models.ListMonth)
		published.Status = models.ListStatusPublished
		for _, l := range []*models.List{week, month, published} {
			if err := repos.Lists.Create(l); err != nil {
				t.Fatalf("failed to create list: %v", err)
			}
		}

		criteria := map[string]any{
			"type":           models.ListMonth,
			"exclude_status": []models.ListStatus{models.ListStatusPublished},
		}
		got, err := repos.Lists.List(criteria)
		if err != nil {
			t.Fatalf("failed to list lists: %v", err)
		}
		if len(got) != 1 || got[0].ID != month.ID {
			t.Errorf("expected only the unpublished monthly list, got %+v", got)
		}

		n, err := repos.Lists.Count(map[string]any{})
		if err != nil || n != 3 {
			t.Errorf("expected 3 lists, got %d, %v", n, err)
		}
	})

	t.Run("Delete cascades", func(t *testing.T) {
		db := setupTestDB(t)
		repos := NewRepos(db)
		user := mustUser(t, repos, "writer@example.com")

		l := models.NewList("Lista", models.ListSpecial)
		l.Assignments = []models.Assignment{{UserID: user.ID}}
		if err := repos.Lists.Create(l); err != nil {
			t.Fatalf("failed to create list: %v", err)
		}

		if err := repos.Lists.Delete(l.ID); err != nil {
			t.Fatalf("failed to delete list: %v", err)
		}

		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM list_assignments").Scan(&n); err != nil {
			t.Fatalf("failed to count assignments: %v", err)
		}
		if n != 0 {
			t.Errorf("expected assignments to cascade, %d left", n)
		}
	})
}

func TestReunionRepository(t *testing.T) {
	repos := NewRepos(setupTestDB(t))
	date := time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)

	reunion := models.NewReunion("Reunión junio", date)
	if err := repos.Reunions.Create(reunion); err != nil {
		t.Fatalf("failed to create reunion: %v", err)
	}

	got, err := repos.Reunions.Get(reunion.ID)
	if err != nil {
		t.Fatalf("failed to get reunion: %v", err)
	}
	if !got.Date.Equal(date) || got.Title != "Reunión junio" {
		t.Errorf("unexpected reunion: %+v", got)
	}
	if len(got.Points) != 2 || got.Points[0].Title != models.DefaultPoints[0] {
		t.Errorf("expected default points in order, got %+v", got.Points)
	}

	if err := repos.Reunions.Delete(reunion.ID); err != nil {
		t.Fatalf("failed to delete reunion: %v", err)
	}
	if _, err := repos.Reunions.Get(reunion.ID); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreWithTx(t *testing.T) {
	t.Run("Commit", func(t *testing.T) {
		store := NewStore(setupTestDB(t))

		var id string
		err := store.WithTx(context.Background(), func(r *Repos) error {
			user := models.NewUser("Tx", "tx@example.com")
			if err := r.Users.Create(user); err != nil {
				return err
			}
			id = user.ID
			return nil
		})
		if err != nil {
			t.Fatalf("transaction failed: %v", err)
		}

		if _, err := store.Repos().Users.Get(id); err != nil {
			t.Errorf("expected committed user, got %v", err)
		}
	})

	t.Run("Rollback", func(t *testing.T) {
		store := NewStore(setupTestDB(t))
		boom := errors.New("boom")

		err := store.WithTx(context.Background(), func(r *Repos) error {
			if err := r.Users.Create(models.NewUser("Tx", "tx@example.com")); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		users, err := store.Repos().Users.List(nil)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("expected rollback to discard the user, found %d", len(users))
		}
	})
}
