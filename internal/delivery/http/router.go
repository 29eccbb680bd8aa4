package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting wrappers the router
// composes into the final mux.
type RouterConfig struct {
	Tickets *controllers.TicketController
	Admin   *controllers.AdminController
	Auth    *controllers.AuthController
	Health  *controllers.HealthController

	Verifier  domain.TokenVerifier
	IssueKey  string
	RateLimit func(http.HandlerFunc) http.HandlerFunc
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	requireAdmin := middleware.RequireAdmin(cfg.Verifier)
	requireAPIKey := middleware.RequireAPIKey(cfg.IssueKey)
	rateLimit := cfg.RateLimit
	if rateLimit == nil {
		rateLimit = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	// Scanner-facing
	mux.HandleFunc("POST /tickets/validate", rateLimit(cfg.Tickets.ValidateTicket))

	// Issuance
	mux.HandleFunc("POST /tickets/issue", requireAPIKey(cfg.Tickets.IssueTicket))

	// Admin
	mux.HandleFunc("POST /admin/tickets/burn", requireAdmin(cfg.Admin.BurnTickets))
	mux.HandleFunc("POST /admin/tickets/by-email", requireAdmin(cfg.Admin.ListTicketsByEmail))

	// Auth
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Operational
	mux.HandleFunc("GET /healthz", cfg.Health.Healthz)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
