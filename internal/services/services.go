package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/repositories"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// Options configures [New]. Zero values fall back to defaults.
type Options struct {
	Logger   *log.Logger
	Location *time.Location   // zone used for list names and default dates
	Now      func() time.Time // clock, for tests
}

// Services wires every service over one [repositories.Store].
type Services struct {
	Contents *ContentsService
	Lists    *ListsService
	Users    *UsersService
	Articles *MediumService
	Spotify  *MediumService
	Videos   *MediumService
}

// core is the state shared by every service.
type core struct {
	store  *repositories.Store
	logger *log.Logger
	loc    *time.Location
	now    func() time.Time
}

func (c *core) tx(ctx context.Context, fn func(*repositories.Repos) error) error {
	return c.store.WithTx(ctx, fn)
}

// New builds the services sharing store.
func New(store *repositories.Store, opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &core{store: store, logger: opts.Logger, loc: opts.Location, now: opts.Now}
	lists := &ListsService{core: c, logger: shared.WithLogger(c.logger, "service", "lists")}
	contents := &ContentsService{core: c, lists: lists, logger: shared.WithLogger(c.logger, "service", "contents")}

	return &Services{
		Contents: contents,
		Lists:    lists,
		Users:    &UsersService{core: c},
		Articles: newMediumService(c, contents, lists, models.KindArticle),
		Spotify:  newMediumService(c, contents, lists, models.KindSpotify),
		Videos:   newMediumService(c, contents, lists, models.KindVideo),
	}
}

// Medium returns the lifecycle service for kind.
func (s *Services) Medium(kind models.MediumKind) *MediumService {
	switch kind {
	case models.KindArticle:
		return s.Articles
	case models.KindSpotify:
		return s.Spotify
	case models.KindVideo:
		return s.Videos
	}
	return nil
}

// UsersService is the user lookup collaborator.
type UsersService struct {
	core *core
}

func (s *UsersService) Create(ctx context.Context, name, email string) (*models.User, error) {
	user := models.NewUser(name, email)
	err := s.core.tx(ctx, func(r *repositories.Repos) error {
		return r.Users.Create(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UsersService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.core.store.Repos().Users.Get(id)
}

func (s *UsersService) List(ctx context.Context) ([]*models.User, error) {
	return s.core.store.Repos().Users.List(nil)
}

// requireUser fails with [shared.ErrNotFound] when id does not name a user.
func requireUser(r *repositories.Repos, id string) error {
	ok, err := r.Users.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound("user", id)
	}
	return nil
}

// decodeStrict decodes a JSON payload into v, rejecting keys v does not declare.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
