// Package server exposes builder sessions over HTTP: component editing,
// form generation, form-data entry, submission, rendering, OpenAPI export
// and a websocket stream of session events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/factory"
	"github.com/goliatone/go-formbuilder/pkg/render"
	htmlrenderer "github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/taxonomy"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger, shared with sessions and buses.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFactory sets the component factory handed to every session.
func WithFactory(f *factory.Factory) Option {
	return func(s *Server) {
		if f != nil {
			s.factory = f
		}
	}
}

// WithRenderers replaces the renderer registry. It must hold an "html"
// renderer.
func WithRenderers(r *render.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.renderers = r
		}
	}
}

// WithSubmitter sets who receives submitted forms.
func WithSubmitter(sub *submission.Submitter) Option {
	return func(s *Server) {
		if sub != nil {
			s.submitter = sub
		}
	}
}

// WithTaxonomy enables the taxonomy refresh and create routes.
func WithTaxonomy(r *taxonomy.Refresher) Option {
	return func(s *Server) {
		s.taxonomy = r
	}
}

// WithIdleTimeout drops sessions unused for d. Zero keeps them forever.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithSessionOptions adds options applied to every new session.
func WithSessionOptions(opts ...builder.Option) Option {
	return func(s *Server) {
		s.sessionOptions = append(s.sessionOptions, opts...)
	}
}

// Server wires the HTTP API around a set of builder sessions.
type Server struct {
	logger         logrus.FieldLogger
	factory        *factory.Factory
	renderers      *render.Registry
	submitter      *submission.Submitter
	taxonomy       *taxonomy.Refresher
	idleTimeout    time.Duration
	sessionOptions []builder.Option

	sessions *sessionManager
	router   chi.Router
}

// New builds a server. Without WithRenderers it renders with the default
// HTML theme.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:      logrus.StandardLogger(),
		idleTimeout: 30 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.factory == nil {
		s.factory = factory.New()
	}
	if s.renderers == nil {
		html, err := htmlrenderer.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		registry, err := render.NewRegistry(html)
		if err != nil {
			return nil, err
		}
		s.renderers = registry
	}
	if s.submitter == nil {
		s.submitter = submission.NewSubmitter(submission.WithLogger(s.logger))
	}

	sessionOpts := append([]builder.Option{builder.WithFactory(s.factory)}, s.sessionOptions...)
	s.sessions = newSessionManager(s.idleTimeout, s.logger, sessionOpts...)
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(htmlrenderer.AssetsFS()))))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/palette", s.getPalette)
		r.Post("/sessions", s.createSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/events", s.streamEvents)

			r.Post("/components", s.insertComponent)
			r.Patch("/components/{componentID}", s.updateComponent)
			r.Delete("/components/{componentID}", s.removeComponent)
			r.Post("/move", s.moveComponent)
			r.Post("/select", s.selectComponent)
			r.Post("/generate", s.generate)
			r.Post("/edit", s.edit)

			r.Get("/data", s.getData)
			r.Put("/data/{name}", s.setData)
			r.Post("/data/{name}/rows", s.resizeRows)
			r.Put("/data/{name}/rows/{index}", s.setRow)
			r.Delete("/data/{name}/rows/{index}", s.deleteRow)
			r.Post("/submit", s.submit)

			r.Get("/render", s.renderForm)
			r.Get("/openapi", s.exportOpenAPI)

			r.Put("/drafts/category", s.putCategoryDraft)
			r.Put("/drafts/entity", s.putEntityDraft)
			r.Post("/taxonomy/{level}/refresh", s.refreshTaxonomy)
			r.Post("/taxonomy/{level}", s.createTaxonomy)
		})
	})
	return r
}

// Run serves on addr until ctx is done, sweeping idle sessions meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.run(sweepCtx, time.Minute)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("addr", addr).Info("formbuilder server listening")
	err := srv.ListenAndServe()
	s.sessions.closeAll()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close drops every live session.
func (s *Server) Close() {
	s.sessions.closeAll()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
