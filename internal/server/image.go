package server

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/decades-app/decades/internal/ogimage"
	"github.com/decades-app/decades/internal/services"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
)

const (
	// Successful cards are immutable enough to cache aggressively at the edge.
	imageCacheControl = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=86400"

	// Failures are cached briefly so a transient upstream error does not
	// pin the fallback card for an hour.
	imageFallbackCacheControl = "public, max-age=60, s-maxage=60"
)

// ImageHandler serves playlist share cards for link previews.
//
// The endpoint never errors toward the crawler: when analysis fails for any
// reason it serves the generic fallback card with a short cache lifetime.
type ImageHandler struct {
	catalog   services.Catalog
	appTokens services.TokenProvider
	logger    *log.Logger
}

// NewImageHandler creates the share card handler.
func NewImageHandler(catalog services.Catalog, appTokens services.TokenProvider, logger *log.Logger) *ImageHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ImageHandler{
		catalog:   catalog,
		appTokens: appTokens,
		logger:    logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ImageHandler) Routes() []string {
	return []string{"GET /api/playlist/{id}/image.png"}
}

func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	engine := tasks.NewPlaylistEngine(h.catalog, h.appTokens)

	data, err := engine.Analyze(r.Context(), nil, r.PathValue("id"))
	if err != nil {
		h.logger.Debug("serving fallback card", "id", r.PathValue("id"), "error", err)
		h.serveFallback(w)
		return
	}

	card, err := ogimage.Render(data)
	if err != nil {
		h.logger.Error("card render failed", "id", data.Meta.ID, "error", err)
		h.serveFallback(w)
		return
	}

	h.writeImage(w, card, imageCacheControl)
}

func (h *ImageHandler) serveFallback(w http.ResponseWriter) {
	card, err := ogimage.Fallback()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeImage(w, card, imageFallbackCacheControl)
}

func (h *ImageHandler) writeImage(w http.ResponseWriter, card []byte, cacheControl string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(card)))
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(card)
}
