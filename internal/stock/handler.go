package stock

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Handler serves the read-only stock views.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a stock handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers /stock and /movements.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/stock", h.balances)
	r.Get("/movements", h.movements)
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	balances, err := h.repo.Balances(r.Context(), BalanceFilter{
		ProductID:   q.Get("product_id"),
		WarehouseID: q.Get("warehouse_id"),
		LocationID:  q.Get("location_id"),
		Category:    q.Get("category"),
	})
	if err != nil {
		h.logger.Error("list stock failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if balances == nil {
		balances = []Balance{}
	}
	httpx.JSON(w, http.StatusOK, balances)
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := MovementFilter{
		ProductID:   q.Get("product_id"),
		WarehouseID: q.Get("warehouse_id"),
		DocType:     q.Get("doc_type"),
	}
	var err error
	if filter.DateFrom, err = parseDate(q.Get("date_from")); err != nil {
		httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "date_from is invalid"))
		return
	}
	if filter.DateTo, err = parseDate(q.Get("date_to")); err != nil {
		httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "date_to is invalid"))
		return
	}

	movements, err := h.repo.Movements(r.Context(), filter)
	if err != nil {
		h.logger.Error("list movements failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if movements == nil {
		movements = []Movement{}
	}
	httpx.JSON(w, http.StatusOK, movements)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
