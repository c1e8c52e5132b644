package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/setoran-harian/api/internal/config"
	"github.com/setoran-harian/api/internal/database"
	"github.com/setoran-harian/api/internal/enum"
	"github.com/setoran-harian/api/internal/handler"
	mw "github.com/setoran-harian/api/internal/middleware"
	"github.com/setoran-harian/api/internal/setoran"
	"github.com/setoran-harian/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication, store scoping, and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/stores/{sid}/events", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	setoranService := setoran.NewService(queries, cfg.PricePerLiter, cfg.PostingTimeout, cfg.StrictPosting)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Store management; creation is administrasi-only.
		storeHandler := handler.NewStoreHandler(queries)
		r.Route("/stores", func(r chi.Router) {
			r.With(mw.RequireRole(enum.RoleAdministrasi)).Post("/", storeHandler.Create)
			r.Get("/", storeHandler.List)

			// Store-scoped routes
			r.Route("/{sid}", func(r chi.Router) {
				r.Use(mw.RequireStore)

				r.Get("/", storeHandler.Get)

				setoranHandler := handler.NewSetoranHandler(setoranService, queries, hub)
				r.Route("/setoran", setoranHandler.RegisterRoutes)

				attendanceHandler := handler.NewAttendanceHandler(queries)
				r.Route("/attendance", attendanceHandler.RegisterRoutes)

				salesHandler := handler.NewSalesHandler(queries)
				r.Route("/sales", salesHandler.RegisterRoutes)

				cashflowHandler := handler.NewCashflowHandler(queries)
				r.Route("/cashflow", cashflowHandler.RegisterRoutes)

				customerHandler := handler.NewCustomerHandler(queries)
				r.Route("/customers", customerHandler.RegisterRoutes)

				receivableHandler := handler.NewReceivableHandler(queries)
				r.Route("/receivables", receivableHandler.RegisterRoutes)

				overtimeHandler := handler.NewOvertimeHandler(queries)
				r.Route("/overtime", overtimeHandler.RegisterRoutes)

				proposalHandler := handler.NewProposalHandler(queries)
				r.Route("/proposals", proposalHandler.RegisterRoutes)

				// Management-only routes
				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(enum.RoleManager, enum.RoleAdministrasi))

					userHandler := handler.NewUserHandler(queries)
					r.Route("/users", userHandler.RegisterRoutes)

					payrollHandler := handler.NewPayrollHandler(queries)
					r.Route("/payroll", payrollHandler.RegisterRoutes)
				})
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
