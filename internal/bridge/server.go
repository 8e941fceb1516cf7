package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/suture-cli/internal/config"
	"github.com/xkilldash9x/suture-cli/internal/report"
	"github.com/xkilldash9x/suture-cli/internal/store"
)

// Server hosts the HTTP command bridge and its backing services.
type Server struct {
	cfg        *config.Config
	log        *zap.Logger
	dbPool     *pgxpool.Pool
	httpServer *http.Server
	handlers   *Handlers
}

// NewServer initializes the bridge server and its dependencies. A missing
// database URL is not an error; persistence-backed commands report 503.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	log := logger.Named("bridge")

	var pool *pgxpool.Pool
	var findingsStore *store.Store
	if cfg.Database.URL == "" {
		log.Warn("Database URL is not set. Proceeding without findings persistence.")
	} else {
		initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		var err error
		pool, err = pgxpool.New(initCtx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		if err := pool.Ping(initCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		findingsStore = store.New(pool, logger)
		log.Info("Database connection established.")
	}

	reports := report.NewService(cfg.Report.ProjectRoot, cfg.Report.IssuesFile, logger)
	handlers := NewHandlers(logger, reports, findingsStore)

	return &Server{
		cfg:      cfg,
		log:      log,
		dbPool:   pool,
		handlers: handlers,
	}, nil
}

// Router assembles the chi router with the standard middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(s.cfg.Bridge.RequestTimeout) * time.Second))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		s.handlers.RegisterRoutes(r)
	})
	return r
}

// Start runs the HTTP listener until ctx is cancelled, then shuts down
// gracefully and closes the database pool.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Bridge.ListenAddr,
		Handler: s.Router(),
	}

	s.log.Info("Bridge server starting", zap.String("address", s.cfg.Bridge.ListenAddr))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("bridge server listen error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("Shutting down bridge server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("bridge server shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if s.dbPool != nil {
		s.log.Info("Closing database connections...")
		s.dbPool.Close()
	}

	s.log.Info("Bridge server stopped.")
	return err
}
