package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/dashboard"
	"github.com/stocktrace/stocktrace/internal/documents"
	"github.com/stocktrace/stocktrace/internal/masterdata/locations"
	"github.com/stocktrace/stocktrace/internal/masterdata/products"
	"github.com/stocktrace/stocktrace/internal/masterdata/warehouses"
	"github.com/stocktrace/stocktrace/internal/reports"
	"github.com/stocktrace/stocktrace/internal/search"
	"github.com/stocktrace/stocktrace/internal/stock"
	"github.com/stocktrace/stocktrace/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	AuthMiddleware   *auth.Middleware
	WarehouseHandler *warehouses.Handler
	LocationHandler  *locations.Handler
	ProductHandler   *products.Handler
	UsersHandler     *users.Handler
	DocumentHandler  *documents.Handler
	StockHandler     *stock.Handler
	ReportsHandler   *reports.Handler
	DashboardHandler *dashboard.Handler
	SearchHandler    *search.Handler
}

// NewRouter constructs the chi.Router with StockTrace defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.Authenticator)

		r.Route("/warehouses", params.WarehouseHandler.MountRoutes)
		r.Route("/locations", params.LocationHandler.MountRoutes)
		r.Route("/products", params.ProductHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)

		params.DocumentHandler.MountRoutes(r)

		params.StockHandler.MountRoutes(r)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/search", params.SearchHandler.MountRoutes)
	})

	return r
}
