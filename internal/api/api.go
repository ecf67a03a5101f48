// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/pkg/auth"
	"github.com/JaimeStill/docket/pkg/middleware"
	"github.com/JaimeStill/docket/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API request must resolve an actor; mutating numbering routes further
// require one of the configured numbering roles.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	return newModule(cfg, infra, auth.New(&cfg.Auth))
}

func newModule(
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
	authenticator auth.Authenticator,
) (*module.Module, error) {
	logger := infra.Logger.With("module", "api")
	domain := NewDomain(cfg, infra, logger)

	mux := http.NewServeMux()
	patterns := registerRoutes(mux, domain)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.Recover(logger))
	m.Use(middleware.Logger(logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(authenticator, logger))

	logger.Info("api routes registered",
		"base_path", cfg.API.BasePath,
		"routes", len(patterns),
		"auth", cfg.Auth.Enabled,
	)
	return m, nil
}
