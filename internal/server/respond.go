package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", shared.ErrInvalidArgument, err)
	}
	return nil
}

// query reads typed values from the URL query string, keeping the first parse error.
type query struct {
	values map[string][]string
	err    error
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) str(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (q *query) int(key string) int {
	s := q.str(key)
	if s == "" || q.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.err = fmt.Errorf("%w: %s must be a number", shared.ErrInvalidArgument, key)
	}
	return n
}

func (q *query) boolPtr(key string) *bool {
	s := q.str(key)
	if s == "" || q.err != nil {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.err = fmt.Errorf("%w: %s must be true or false", shared.ErrInvalidArgument, key)
		return nil
	}
	return &b
}

func (q *query) date(key string) time.Time {
	s := q.str(key)
	if s == "" || q.err != nil {
		return time.Time{}
	}
	t, err := models.ParseDate(s)
	if err != nil {
		q.err = fmt.Errorf("%w: %s must be a date", shared.ErrInvalidArgument, key)
	}
	return t
}

func (q *query) list(key string) []string {
	s := q.str(key)
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
