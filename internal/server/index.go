package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/marek/biopsy-classifier/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Index serves the diagnostic form with the ordered feature names
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]any{
		"FeatureNames": core.FeatureNames(),
	}); err != nil {
		h.logger.Error("Failed to render index page", zap.Error(err))
	}
}
