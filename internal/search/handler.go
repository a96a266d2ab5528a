package search

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Handler serves the search box suggestions.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a search handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers search routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/suggestions", h.suggestions)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.service.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("search suggestion failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, suggestion)
}
