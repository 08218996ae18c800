package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"user-registry/confs"
	"user-registry/db"
	"user-registry/handlers"
	httpHandler "user-registry/handlers/http"
	"user-registry/repositories"
	"user-registry/services"
	"user-registry/usecases"
	"user-registry/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	cfg *confs.Config
	log *logrus.Logger
}

func NewServer(cfg *confs.Config, database db.Database, log *logrus.Logger) (*Server, error) {
	userRepo := repositories.NewUserPgRepository(database)
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	userUseCase := usecases.NewUserUseCase(userRepo, hasher)

	app, err := NewRouter(userUseCase, database, log)
	if err != nil {
		return nil, err
	}

	return &Server{
		app: app,
		db:  database,
		cfg: cfg,
		log: log,
	}, nil
}

// NewRouter wires middleware, views and routes onto a fresh gin engine.
func NewRouter(userUseCase *usecases.UserUseCase, pinger handlers.Pinger, log *logrus.Logger) (*gin.Engine, error) {
	tmpl, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	app := gin.New()
	app.Use(gin.Recovery(), handlers.RequestLogger(log))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.ExposeHeaders = []string{handlers.RequestIDHeader}
	app.Use(cors.New(config))

	app.SetHTMLTemplate(tmpl)

	healthHandler := handlers.NewHealthHandler(pinger)
	userHandler := httpHandler.NewUserHandler(userUseCase)

	app.GET("/health", healthHandler.Health)

	app.GET("/", userHandler.Index)
	app.POST("/submit", userHandler.Submit)

	app.GET("/get-data", userHandler.LookupForm)
	app.POST("/get-data", userHandler.Lookup)

	app.GET("/delete/:id", userHandler.ConfirmDelete)
	app.POST("/delete/:id", userHandler.Delete)

	return app, nil
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	defer func() {
		if err := s.db.Close(); err != nil {
			s.log.WithError(err).Warn("failed to close database")
		}
	}()

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.HTTPAddr).Info("http server listening")
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

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
