package api

import (
	"net/http"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) []string {
	maxBodySize := cfg.API.MaxBodySizeBytes()

	return routes.Register(
		mux,
		domain.Prompts.Handler(maxBodySize).Routes(),
		domain.Exports.Handler(maxBodySize).Routes(),
		domain.Generation.Handler(maxBodySize).Routes(),
	)
}
