package router

import (
	"log"
	"net/http"

	"github.com/dineflow/api/internal/config"
	"github.com/dineflow/api/internal/database"
	"github.com/dineflow/api/internal/handler"
	"github.com/dineflow/api/internal/mailer"
	mw "github.com/dineflow/api/internal/middleware"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
// The storefront surface (menu, zone check, slots, order creation) is public;
// everything else sits behind authentication and tenant scoping.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "https://*.dineflow.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/tenants/{tid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Checkout pipeline
	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, newOrderStore)
	greetingService := service.NewGreetingService(queries)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)

	menuHandler := handler.NewMenuHandler(queries)
	zoneHandler := handler.NewZoneHandler(queries)
	slotHandler := handler.NewSlotHandler(queries)
	orderHandler := handler.NewOrderHandler(orderService, queries, hub, mail, greetingService)

	// Public storefront routes (no auth, customers hit these directly).
	// Registered as flat paths so the superadmin /tenants subrouter below can
	// still claim /tenants/{id}.
	r.Get("/tenants/{tid}/menu", menuHandler.PublicMenu)
	r.Get("/tenants/{tid}/delivery-zones/check", zoneHandler.CheckPostcode)
	r.Get("/tenants/{tid}/slots", slotHandler.List)
	r.Post("/tenants/{tid}/orders", orderHandler.Create)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Platform administration (superadmin only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole("SUPERADMIN"))
			tenantHandler := handler.NewTenantHandler(queries)
			r.Route("/tenants", tenantHandler.RegisterRoutes)
		})

		// Tenant dashboard routes
		r.Route("/tenants/{tid}/admin", func(r chi.Router) {
			r.Use(mw.RequireTenant)

			categoryHandler := handler.NewCategoryHandler(queries)
			r.Route("/categories", categoryHandler.RegisterRoutes)

			r.Route("/menu-items", menuHandler.RegisterRoutes)
			r.Route("/delivery-zones", zoneHandler.RegisterRoutes)

			voucherHandler := handler.NewVoucherHandler(queries)
			r.Route("/vouchers", voucherHandler.RegisterRoutes)

			settingsHandler := handler.NewSettingsHandler(queries)
			r.Route("/settings", settingsHandler.RegisterRoutes)

			r.Route("/orders", orderHandler.RegisterRoutes)

			reportHandler := handler.NewReportHandler(queries)
			r.Route("/reports", func(r chi.Router) {
				r.Use(mw.RequireRole("SUPERADMIN", "ADMIN"))
				r.Get("/daily", reportHandler.DailySummary)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
