// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, LLM provider) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/generation"
	"github.com/JaimeStill/quill/pkg/database"
	"github.com/JaimeStill/quill/pkg/lifecycle"
	"github.com/JaimeStill/quill/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Provider is nil when no provider token is configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Provider  generation.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}

	if cfg.Provider.Enabled() {
		provider, err := generation.NewOpenAI(&cfg.Provider, logger)
		if err != nil {
			return nil, fmt.Errorf("provider init failed: %w", err)
		}
		infra.Provider = provider
	} else {
		logger.Warn("no provider token configured, generation disabled")
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
