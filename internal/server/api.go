package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/riffvalley/riffvalley-app-back/internal/metrics"
	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/services"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

const shutdownTimeout = 10 * time.Second

var mediaPrefixes = map[models.MediumKind]string{
	models.KindArticle: "/articles",
	models.KindSpotify: "/spotify",
	models.KindVideo:   "/videos",
}

// Options configures [NewAPI].
type Options struct {
	Logger    *log.Logger
	RateLimit float64 // requests per second per client; zero disables limiting
	Burst     int
	Ping      func(context.Context) error // health probe, usually the database
}

// NewAPI builds the JSON API router over svc.
func NewAPI(svc *services.Services, opts Options) *BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "component", "http")

	r := NewBasicRouter()
	r.Use(Logging(logger), Instrument())
	if opts.RateLimit > 0 {
		r.Use(NewRateLimiter(opts.RateLimit, opts.Burst, logger).Middleware())
	}

	r.Handle(http.MethodGet, "/healthz", healthz(opts.Ping, logger))
	r.Handler(&ContentsHandler{svc: svc.Contents, logger: logger})
	for _, kind := range models.MediumKinds {
		r.Handler(&MediaHandler{prefix: mediaPrefixes[kind], svc: svc.Medium(kind), logger: logger})
	}
	r.Handler(&ListsHandler{svc: svc.Lists, logger: logger})
	r.Handler(&UsersHandler{svc: svc.Users, logger: logger})

	// scrapes bypass the middleware stack
	r.mux.Handle("GET /metrics", metrics.Handler())
	return r
}

func healthz(ping func(context.Context) error, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.Error("health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
