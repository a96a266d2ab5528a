package documents

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/platform/httpx"
)

// Handler wires the four document type route groups. All four share
// the same shape; only the type and the counterparty fields differ.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authmw  *auth.Middleware
}

// NewHandler constructs a document handler.
func NewHandler(logger *slog.Logger, service *Service, authmw *auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw}
}

// MountRoutes registers /receipts, /deliveries, /transfers and
// /adjustments. Confirmation is admin-only; drafting is open to any
// authenticated user.
func (h *Handler) MountRoutes(r chi.Router) {
	mount := func(pattern string, docType Type) {
		r.Route(pattern, func(r chi.Router) {
			r.Get("/", h.list(docType))
			r.Get("/{id}", h.get(docType))
			r.Post("/", h.create(docType))
			r.Put("/{id}", h.update(docType))
			r.Group(func(r chi.Router) {
				r.Use(h.authmw.RequireAdmin)
				r.Post("/{id}/confirm", h.confirm(docType))
			})
		})
	}
	mount("/receipts", TypeReceipt)
	mount("/deliveries", TypeDelivery)
	mount("/transfers", TypeTransfer)
	mount("/adjustments", TypeAdjustment)
}

type lineRequest struct {
	ProductID      string  `json:"product_id"`
	FromLocationID *string `json:"from_location_id"`
	ToLocationID   *string `json:"to_location_id"`
	Quantity       float64 `json:"quantity"`
}

type documentRequest struct {
	Date            time.Time     `json:"date"`
	WarehouseID     *string       `json:"warehouse_id"`
	FromWarehouseID *string       `json:"from_warehouse_id"`
	ToWarehouseID   *string       `json:"to_warehouse_id"`
	SupplierName    *string       `json:"supplier_name"`
	CustomerName    *string       `json:"customer_name"`
	Reason          *string       `json:"reason"`
	Lines           []lineRequest `json:"lines"`
}

func (req documentRequest) toModel(docType Type) (Document, []Line) {
	doc := Document{
		DocType: docType,
		Date:    req.Date,
	}
	switch docType {
	case TypeReceipt:
		doc.WarehouseID = req.WarehouseID
		doc.SupplierName = req.SupplierName
	case TypeDelivery:
		doc.WarehouseID = req.WarehouseID
		doc.CustomerName = req.CustomerName
	case TypeTransfer:
		doc.FromWarehouseID = req.FromWarehouseID
		doc.ToWarehouseID = req.ToWarehouseID
	case TypeAdjustment:
		doc.WarehouseID = req.WarehouseID
		doc.Reason = req.Reason
	}
	lines := make([]Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		line := Line{ProductID: l.ProductID, Quantity: l.Quantity}
		switch docType {
		case TypeReceipt, TypeAdjustment:
			line.ToLocationID = l.ToLocationID
		case TypeDelivery:
			line.FromLocationID = l.FromLocationID
		case TypeTransfer:
			line.FromLocationID = l.FromLocationID
			line.ToLocationID = l.ToLocationID
		}
		lines = append(lines, line)
	}
	return doc, lines
}

func (h *Handler) list(docType Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Status:      r.URL.Query().Get("status"),
			WarehouseID: r.URL.Query().Get("warehouse_id"),
		}
		docs, err := h.service.List(r.Context(), docType, filter)
		if err != nil {
			h.logger.Error("list documents failed",
				slog.String("doc_type", string(docType)), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		if docs == nil {
			docs = []Document{}
		}
		httpx.JSON(w, http.StatusOK, docs)
	}
}

func (h *Handler) get(docType Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.Get(r.Context(), docType, chi.URLParam(r, "id"))
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, doc)
	}
}

func (h *Handler) create(docType Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req documentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "invalid request body"))
			return
		}
		doc, lines := req.toModel(docType)
		doc.CreatedByUserID = auth.UserFromContext(r.Context()).ID
		created, err := h.service.Create(r.Context(), doc, lines)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, created)
	}
}

func (h *Handler) update(docType Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req documentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.RespondError(w, httpx.Errorf(httpx.ErrValidation, "invalid request body"))
			return
		}
		doc, lines := req.toModel(docType)
		updated, err := h.service.Update(r.Context(), docType, chi.URLParam(r, "id"), doc, lines)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, updated)
	}
}

func (h *Handler) confirm(docType Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := auth.UserFromContext(r.Context())
		confirmed, err := h.service.Confirm(r.Context(), docType, chi.URLParam(r, "id"), actor.ID)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, confirmed)
	}
}
