package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/formatter"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/services"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
	"github.com/riffvalley/riffvalley-app-back/internal/ui"
	"github.com/urfave/cli/v3"
)

func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		user, err := svc.Users.Create(ctx, cmd.String("name"), cmd.String("email"))
		if err != nil {
			return err
		}
		return r.writePlain("%s user %s (%s)\n", ui.Styles.OK("created"), user.Email, user.ID)
	})
}

func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		users, err := svc.Users.List(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(users, false)
		}

		r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
		for _, u := range users {
			r.writePlain("%-36s  %-24s  %s\n", u.ID, u.Name, u.Email)
		}
		return nil
	})
}

// parseMonth reads YYYY-MM.
func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be YYYY-MM, got %q", shared.ErrInvalidArgument, s)
	}
	return t.Year(), t.Month(), nil
}

func (r *Runner) ContentsList(ctx context.Context, cmd *cli.Command) error {
	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		var (
			contents []*models.Content
			err      error
		)
		if month := cmd.String("month"); month != "" {
			year, m, perr := parseMonth(month)
			if perr != nil {
				return perr
			}
			contents, err = svc.Contents.ListByMonth(ctx, year, m)
		} else {
			filter := services.ContentFilter{Type: models.ContentType(cmd.String("type"))}
			if cmd.IsSet("ready") {
				ready := cmd.Bool("ready")
				filter.Ready = &ready
			}
			contents, err = svc.Contents.List(ctx, filter)
		}
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(contents, false)
		}

		r.writePlainHeader(fmt.Sprintf("Contents (%d)", len(contents)))
		for _, c := range contents {
			date := "----------"
			if c.PublicationDate != nil {
				date = c.PublicationDate.Format(time.DateOnly)
			}
			ready := ""
			if c.Ready {
				ready = ui.Styles.OK("ready")
			}
			r.writePlain("%s  %-8s %s %s\n", date, c.Type, c.Name, ready)
		}
		return nil
	})
}

func (r *Runner) ContentsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: content id", shared.ErrMissingArgument)
	}

	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		c, err := svc.Contents.Get(ctx, id)
		if err != nil {
			return err
		}
		return r.writeJSON(c, true)
	})
}

func (r *Runner) ContentsRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: content id", shared.ErrMissingArgument)
	}

	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		if err := svc.Contents.Remove(ctx, id); err != nil {
			return err
		}
		return r.writePlain("%s content %s\n", ui.Styles.OK("removed"), id)
	})
}

// ContentsExport writes one calendar month, with author names resolved, to a file.
func (r *Runner) ContentsExport(ctx context.Context, cmd *cli.Command) error {
	year, month, err := parseMonth(cmd.String("month"))
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	loc, err := r.config.Editorial.Location()
	if err != nil {
		return err
	}

	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		contents, err := svc.Contents.ListByMonth(ctx, year, month)
		if err != nil {
			return err
		}
		users, err := svc.Users.List(ctx)
		if err != nil {
			return err
		}

		authors := make(map[string]string, len(users))
		for _, u := range users {
			authors[u.ID] = u.Name
		}

		path, err := formatter.WriteExport(&formatter.Calendar{
			Title:    fmt.Sprintf("%s %d", models.MonthName(month), year),
			Contents: contents,
			Authors:  authors,
			Location: loc,
		}, format, cmd.String("output"))
		if err != nil {
			return err
		}
		return r.writePlain("%s %d contents to %s\n", ui.Styles.OK("exported"), len(contents), path)
	})
}

func mediumService(svc *services.Services, kind string) (*services.MediumService, error) {
	m := svc.Medium(models.MediumKind(strings.ToLower(kind)))
	if m == nil {
		return nil, fmt.Errorf("%w: kind must be article, spotify or video, got %q", shared.ErrInvalidArgument, kind)
	}
	return m, nil
}

func (r *Runner) MediaList(ctx context.Context, cmd *cli.Command) error {
	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		media, err := mediumService(svc, cmd.StringArg("kind"))
		if err != nil {
			return err
		}

		items, err := media.List(ctx, services.MediumFilter{
			Status: models.Status(cmd.String("status")),
			Query:  cmd.String("q"),
		})
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(items, false)
		}

		r.writePlainHeader(fmt.Sprintf("%s (%d)", media.Kind().Label(), len(items)))
		for _, m := range items {
			r.writePlain("%s  %s  %s\n", m.ID, ui.Badge(string(m.Status)), m.Name)
		}
		return nil
	})
}

// MediaStatus moves a medium through its lifecycle.
func (r *Runner) MediaStatus(ctx context.Context, cmd *cli.Command) error {
	id, status := cmd.StringArg("id"), models.Status(cmd.StringArg("status"))
	if id == "" || status == "" {
		return fmt.Errorf("%w: usage: media status <kind> <id> <status>", shared.ErrMissingArgument)
	}

	patch := services.MediumPatch{Status: &status}
	if d := cmd.String("date"); d != "" {
		t, err := models.ParseDate(d)
		if err != nil {
			return fmt.Errorf("%w: date %q", shared.ErrInvalidArgument, d)
		}
		patch.UpdateDate = models.SetDate(t)
	}
	if u := cmd.String("user"); u != "" {
		patch.UserID = &u
	}

	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		media, err := mediumService(svc, cmd.StringArg("kind"))
		if err != nil {
			return err
		}
		m, err := media.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		return r.writePlain("%s %s\n", m.Name, ui.Badge(string(m.Status)))
	})
}

func (r *Runner) ListsUpcoming(ctx context.Context, cmd *cli.Command) error {
	return r.withServices(ctx, func(ctx context.Context, svc *services.Services) error {
		lists, err := svc.Lists.Upcoming(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(lists, false)
		}

		r.writePlainHeader(fmt.Sprintf("Upcoming lists (%d)", len(lists)))
		for _, l := range lists {
			release := ""
			if l.ReleaseDate != nil {
				release = l.ReleaseDate.Format(time.DateOnly)
			}
			r.writePlain("%s  %-7s %s %s\n", release, l.Type, l.Name, ui.Badge(string(l.Status)))
		}
		return nil
	})
}
