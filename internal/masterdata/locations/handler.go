package locations

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Handler wires location HTTP endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  *auth.Middleware
}

// NewHandler constructs a location handler.
func NewHandler(logger *slog.Logger, service *Service, authmw *auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers location routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireAdmin)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
}

type locationRequest struct {
	WarehouseID string  `json:"warehouse_id"`
	Name        string  `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

func (req locationRequest) toModel() Location {
	return Location{
		WarehouseID: req.WarehouseID,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.List(r.Context(), r.URL.Query().Get("warehouse_id"))
	if err != nil {
		h.logger.Error("list locations failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if locations == nil {
		locations = []Location{}
	}
	httpx.JSON(w, http.StatusOK, locations)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "invalid request body"))
		return
	}
	created, err := h.service.Create(r.Context(), req.toModel())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "invalid request body"))
		return
	}
	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
