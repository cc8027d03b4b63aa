package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peggytheclaw/tripledger/internal/auth"
	"github.com/peggytheclaw/tripledger/internal/middleware"
)

// chiRoutePattern returns the matched route template for metric
// labels, falling back to the raw path for unmatched requests.
func chiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// NewRouter builds the full HTTP routing tree.
func NewRouter(h *Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Metrics(chiRoutePattern))
	r.Use(middleware.RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/share/{token}", h.SharedLedger)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))

			r.Get("/auth/me", h.CurrentUser)

			r.Route("/trips", func(r chi.Router) {
				r.Post("/", h.CreateTrip)
				r.Get("/", h.ListTrips)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", h.GetTrip)
					r.Put("/", h.RenameTrip)
					r.Delete("/", h.DeleteTrip)

					r.Post("/participants", h.AddParticipant)
					r.Delete("/participants/{participantID}", h.RemoveParticipant)

					r.Post("/expenses", h.CreateExpense)
					r.Get("/expenses", h.ListExpenses)
					r.Put("/expenses/{expenseID}", h.UpdateExpense)
					r.Delete("/expenses/{expenseID}", h.DeleteExpense)

					r.Get("/balances", h.GetBalances)
					r.Get("/transfers", h.GetTransfers)
					r.Post("/transfers/settle", h.MarkSettled)
					r.Delete("/transfers/settle", h.UnmarkSettled)

					r.Get("/totals/participants/{participantID}", h.GetParticipantTotals)
					r.Get("/totals/categories", h.GetCategoryTotals)
				})
			})
		})
	})

	return r
}
