// Package server assembles the HTTP API: it wires the stores into the auth
// and profile services and exposes them through a gin engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"profilehub/internal/auth"
	"profilehub/internal/config"
	"profilehub/internal/profile"
	"profilehub/internal/session"
)

// HealthReporter is implemented by database.Service.
type HealthReporter interface {
	Health(ctx context.Context) map[string]string
}

// Deps are the long-lived clients the server is built from. They are created
// once by the caller, shared by all requests and closed by the caller.
type Deps struct {
	DB           HealthReporter
	Users        auth.UserRepository
	SessionStore session.Store
	ProfileStore profile.Store
	Hasher       *auth.Hasher

	SessionTTL         time.Duration
	CORSAllowedOrigins []string
}

// Server holds the dependencies for the HTTP server
type Server struct {
	db           HealthReporter
	sessionStore session.Store
	profileStore profile.Store

	sessions session.Manager
	auth     *auth.Handler
	profile  *profile.Handler

	corsOrigins []string
}

// New builds the services and handlers from deps.
func New(deps Deps) (*Server, error) {
	if deps.DB == nil || deps.Users == nil || deps.SessionStore == nil || deps.ProfileStore == nil || deps.Hasher == nil {
		return nil, errors.New("server: missing store dependency")
	}

	sessions := session.NewManager(deps.SessionStore, deps.SessionTTL)

	authService, err := auth.NewService(deps.Users, sessions, deps.Hasher)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	return &Server{
		db:           deps.DB,
		sessionStore: deps.SessionStore,
		profileStore: deps.ProfileStore,
		sessions:     sessions,
		auth:         auth.NewHandler(authService),
		profile:      profile.NewHandler(profile.NewService(deps.ProfileStore)),
		corsOrigins:  deps.CORSAllowedOrigins,
	}, nil
}

// NewHTTPServer configures the listener around handler.
func NewHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
