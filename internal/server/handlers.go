package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/services"
)

// ContentsHandler serves /contents.
type ContentsHandler struct {
	svc    *services.ContentsService
	logger *log.Logger
}

func (h *ContentsHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/contents", h.list},
		{http.MethodPost, "/contents", h.create},
		{http.MethodGet, "/contents/{id}", h.get},
		{http.MethodPatch, "/contents/{id}", h.update},
		{http.MethodDelete, "/contents/{id}", h.remove},
	}
}

// list filters by ready, type and authorId, or returns a calendar month when year and month are given.
func (h *ContentsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	year, month := q.int("year"), q.int("month")
	filter := services.ContentFilter{
		Ready:    q.boolPtr("ready"),
		Type:     models.ContentType(q.str("type")),
		AuthorID: q.str("authorId"),
	}
	if q.err != nil {
		writeError(w, h.logger, q.err)
		return
	}

	var (
		contents []*models.Content
		err      error
	)
	if year > 0 && month >= 1 && month <= 12 {
		contents, err = h.svc.ListByMonth(r.Context(), year, time.Month(month))
	} else {
		contents, err = h.svc.List(r.Context(), filter)
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(contents))
}

func (h *ContentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateContentInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ContentsHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContentsHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch services.ContentPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	c, err := h.svc.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ContentsHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MediaHandler serves one medium kind under its own prefix.
type MediaHandler struct {
	prefix string
	svc    *services.MediumService
	logger *log.Logger
}

func (h *MediaHandler) Routes() []Route {
	routes := []Route{
		{http.MethodGet, h.prefix, h.list},
		{http.MethodPost, h.prefix, h.create},
		{http.MethodGet, h.prefix + "/{id}", h.get},
		{http.MethodPatch, h.prefix + "/{id}", h.update},
		{http.MethodDelete, h.prefix + "/{id}", h.remove},
	}
	if h.svc.Kind() == models.KindVideo {
		routes = append(routes, Route{http.MethodPost, h.prefix + "/{id}/list", h.createList})
	}
	return routes
}

func (h *MediaHandler) list(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := services.MediumFilter{
		Query:  q.str("q"),
		Status: models.Status(q.str("status")),
		Type:   q.str("type"),
		UserID: q.str("userId"),
		From:   q.date("from"),
		To:     q.date("to"),
		Limit:  q.int("limit"),
		Offset: q.int("offset"),
	}
	if q.err != nil {
		writeError(w, h.logger, q.err)
		return
	}

	media, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(media))
}

func (h *MediaHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.MediumInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	m, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MediaHandler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MediaHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch services.MediumPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	m, err := h.svc.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MediaHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MediaHandler) createList(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	l, err := h.svc.CreateListForVideo(r.Context(), r.PathValue("id"), body.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// ListsHandler serves /lists.
type ListsHandler struct {
	svc    *services.ListsService
	logger *log.Logger
}

func (h *ListsHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/lists", h.list},
		{http.MethodPost, "/lists", h.create},
		{http.MethodGet, "/lists/upcoming", h.upcoming},
		{http.MethodGet, "/lists/next", h.next},
		{http.MethodGet, "/lists/{id}", h.get},
		{http.MethodPatch, "/lists/{id}", h.update},
		{http.MethodDelete, "/lists/{id}", h.remove},
		{http.MethodPost, "/lists/{id}/assignments", h.addAssignment},
		{http.MethodPost, "/lists/{id}/links", h.addLink},
	}
}

func (h *ListsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := services.ListFilter{
		Type:   models.ListType(q.str("type")),
		Limit:  q.int("limit"),
		Offset: q.int("offset"),
	}
	for _, s := range q.list("excludeStatus") {
		filter.ExcludeStatus = append(filter.ExcludeStatus, models.ListStatus(s))
	}
	if q.err != nil {
		writeError(w, h.logger, q.err)
		return
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	page.Items = orEmpty(page.Items)
	writeJSON(w, http.StatusOK, page)
}

func (h *ListsHandler) upcoming(w http.ResponseWriter, r *http.Request) {
	h.window(w, r, h.svc.Upcoming)
}

func (h *ListsHandler) next(w http.ResponseWriter, r *http.Request) {
	h.window(w, r, h.svc.Next)
}

func (h *ListsHandler) window(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]*models.List, error)) {
	lists, err := fetch(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(lists))
}

func (h *ListsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in services.ListInput
	if err := decode(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	l, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListsHandler) get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListsHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch services.ListPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}
	l, err := h.svc.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListsHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListsHandler) addAssignment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   string `json:"userId"`
		Position int    `json:"position"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	l, err := h.svc.AddAssignment(r.Context(), r.PathValue("id"), body.UserID, body.Position)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListsHandler) addLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	l, err := h.svc.AddLink(r.Context(), r.PathValue("id"), body.Name, body.URL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// UsersHandler serves /users.
type UsersHandler struct {
	svc    *services.UsersService
	logger *log.Logger
}

func (h *UsersHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/users", h.list},
		{http.MethodPost, "/users", h.create},
	}
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.svc.Create(r.Context(), body.Name, body.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// orEmpty keeps empty collections encoding as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
