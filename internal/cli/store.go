package cli

import (
	"context"
	"fmt"

	"careerdash/internal/backend/googletasks"
	"careerdash/internal/backend/jsonplaceholder"
	"careerdash/internal/config"
	"careerdash/internal/service"
)

// NewStore creates the remote store selected by cfg.Settings.Backend.
func NewStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	switch cfg.Settings.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%s not found in %s: %w", config.OAuthClientFile, cfg.Dir, service.ErrUnauthorized)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("not logged in (run: careerdash login): %w", service.ErrUnauthorized)
		}
		return googletasks.New(ctx, cfg)
	default:
		return jsonplaceholder.New(cfg.Settings.BaseURL,
			jsonplaceholder.WithTimeout(cfg.Settings.Timeout)), nil
	}
}
