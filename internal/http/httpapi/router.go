// Package httpapi assembles the chi router: middleware chain, public auth
// routes, and the JWT-guarded biller and dashboard routes.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"billtrack/internal/http/handlers"
	"billtrack/internal/middleware"
)

// Options carries the router's cross-cutting configuration.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	Logger          zerolog.Logger
	Country         middleware.CountryLookup
}

// NewRouter wires the full API surface.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Geo(opts.Country),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/healthz", app.Health)
	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.Register)
			r.Post("/login", app.Login)
			r.Post("/google", app.GoogleLogin)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthJWT(opts.JWTSecret))
				r.Get("/me", app.Me)
				r.Put("/me", app.UpdateMe)
				r.Put("/password", app.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret))

			r.Route("/billers", func(r chi.Router) {
				r.Get("/", app.BillersList)
				r.Post("/", app.BillersCreate)
				r.Get("/{id}", app.BillersGet)
				r.Put("/{id}", app.BillersUpdate)
				r.Patch("/{id}", app.BillersUpdate)
				r.Delete("/{id}", app.BillersDelete)
				r.Patch("/{id}/pay", app.BillersPay)
				r.Patch("/{id}/unpay", app.BillersUnpay)
				r.Post("/{id}/pay", app.BillersPay)
				r.Post("/{id}/unpay", app.BillersUnpay)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/summary", app.DashboardSummary)
				r.Get("/upcoming", app.DashboardUpcoming)
				r.Get("/monthly-overview", app.DashboardMonthlyOverview)
				r.Get("/status", app.DashboardStatus)
				r.Get("/credit-cycle", app.DashboardCreditCycle)
				r.Get("/payment-history", app.DashboardPaymentHistory)
				r.Get("/overview", app.DashboardOverview)
			})
		})
	})

	return r
}
