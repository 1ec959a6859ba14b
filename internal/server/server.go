/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/storyhub/internal/activity"
	"github.com/friendsincode/storyhub/internal/analytics"
	"github.com/friendsincode/storyhub/internal/config"
	"github.com/friendsincode/storyhub/internal/content"
	"github.com/friendsincode/storyhub/internal/db"
	"github.com/friendsincode/storyhub/internal/migrate"
	"github.com/friendsincode/storyhub/internal/notifier"
	"github.com/friendsincode/storyhub/internal/seed"
	"github.com/friendsincode/storyhub/internal/site"
	"github.com/friendsincode/storyhub/internal/telemetry"
	"github.com/friendsincode/storyhub/internal/web"
)

// pageViewRetention is how long raw page_views rows are kept before
// the nightly prune. Rollups survive pruning.
const pageViewRetention = 365 * 24 * time.Hour

// Server bundles the HTTP server and supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	db         *gorm.DB
	content    *content.Service
	analytics  *analytics.Service
	site       *site.Service
	gallery    *site.Gallery
	activity   *activity.Recorder
	notifier   *notifier.Notifier
	webHandler *web.Handler

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// New constructs the server and wires dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	for _, warn := range cfg.LegacyEnvWarnings {
		logger.Warn().Msg(warn)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.MetricsMiddleware)
	// Skip the timeout for gallery uploads; everything else is quick.
	router.Use(func(next http.Handler) http.Handler {
		timeout := middleware.Timeout(60 * time.Second)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/admin/gallery/upload" {
				next.ServeHTTP(w, r)
				return
			}
			timeout(next).ServeHTTP(w, r)
		})
	})

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()
	srv.startBackgroundWorkers()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self' 'unsafe-inline' data: https:; frame-ancestors 'none'; base-uri 'self'")

		// Only advertise HSTS for requests served over HTTPS.
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) initDependencies() error {
	database, err := db.Connect(s.cfg)
	if err != nil {
		return err
	}
	s.db = database
	s.DeferClose(func() error { return db.Close(database) })

	if err := db.RegisterCallbacks(database); err != nil {
		return err
	}

	if s.cfg.AutoMigrate {
		applied, err := migrate.NewRunner(database, s.logger).Up("")
		for _, line := range applied {
			s.logger.Info().Msg(line)
		}
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	if err := seed.Run(context.Background(), database, s.logger); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return fmt.Errorf("create upload directory %s: %w", s.cfg.UploadDir, err)
	}
	s.logger.Info().Str("path", s.cfg.UploadDir).Msg("upload directory ready")

	s.content = content.NewService(database, s.logger)
	s.analytics = analytics.NewService(database, s.logger)
	s.site = site.NewService(database, s.logger)
	s.gallery = site.NewGallery(database, s.cfg.UploadDir, s.logger)
	s.activity = activity.NewRecorder(database, s.logger)
	s.notifier = notifier.New(s.site, s.cfg, s.logger)

	webHandler, err := web.NewHandler(
		database,
		[]byte(s.cfg.JWTSigningKey),
		s.cfg.BaseURL,
		s.cfg.SiteName,
		s.cfg.UploadDir,
		web.Services{
			Content:   s.content,
			Analytics: s.analytics,
			Site:      s.site,
			Gallery:   s.gallery,
			Activity:  s.activity,
			Notifier:  s.notifier,
		},
		s.logger,
	)
	if err != nil {
		return fmt.Errorf("initialize web handler: %w", err)
	}
	s.webHandler = webHandler

	return nil
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	s.stopBackgroundWorkers()
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Server) startBackgroundWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.bgCancel = cancel

	s.webHandler.StartUpdateChecker(ctx)

	// Nightly maintenance: trim the activity log and old raw page
	// views. Rollups are rebuilt by PruneViews when rows go away.
	s.bgWG.Add(1)
	go func() {
		defer s.bgWG.Done()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.activity.Prune(ctx, activity.DefaultRetention); err != nil {
					s.logger.Error().Err(err).Msg("activity prune failed")
				} else if n > 0 {
					s.logger.Info().Int64("removed", n).Msg("pruned activity log")
				}

				cutoff := time.Now().Add(-pageViewRetention)
				if n, err := s.analytics.PruneViews(ctx, cutoff); err != nil {
					s.logger.Error().Err(err).Msg("page view prune failed")
				} else if n > 0 {
					s.logger.Info().Int64("removed", n).Msg("pruned page views")
				}
			}
		}
	}()
}

func (s *Server) stopBackgroundWorkers() {
	if s.bgCancel == nil {
		return
	}
	s.bgCancel()
	s.webHandler.StopUpdateChecker()
	s.bgWG.Wait()
	s.bgCancel = nil
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Handle("/metrics", telemetry.Handler())

	s.webHandler.Routes(s.router)
}
