package httpserver

import (
	"net/http"

	"investory/internal/auth"
	"investory/internal/health"
	"investory/internal/httputil"
	"investory/internal/orders"
	"investory/internal/portfolio"
	"investory/internal/rewards"
	"investory/internal/stocks"
	"investory/internal/wmti"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	AuthHandler      *auth.Handler
	StockHandler     *stocks.Handler
	WatchlistHandler *stocks.WatchlistHandler
	WmtiHandler      *wmti.Handler
	OrderHandler     *orders.Handler
	PortfolioHandler *portfolio.Handler
	RewardHandler    *rewards.Handler
	HealthHandler    *health.Handler
	AuthService      *auth.Service
	InternalToken    string
	QuoteWS          http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS middleware for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Security Middleware
	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", d.HealthHandler.Get)
	r.Get("/health/live", d.HealthHandler.Live)
	r.Get("/health/full", d.HealthHandler.Full)
	r.Get("/metrics", d.HealthHandler.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(WithAuth(d.AuthService))
				r.Get("/me", requireUser(d.AuthHandler.Me))
			})
		})

		r.Get("/stocks", d.StockHandler.List)
		r.Get("/stocks/ws", d.QuoteWS.ServeHTTP)
		r.Get("/stocks/search", d.StockHandler.Search)
		r.Get("/stocks/top", d.StockHandler.Top)
		r.Get("/stocks/sectors", d.StockHandler.Sectors)
		r.Get("/stocks/sectors/{sector}", d.StockHandler.BySector)
		r.Get("/stocks/{code}", d.StockHandler.Get)

		r.Get("/wmti/questions", d.WmtiHandler.Questions)

		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Post("/orders", requireUser(d.OrderHandler.Create))
			r.Get("/orders", requireUser(d.OrderHandler.List))
			r.Get("/orders/{id}", requireUser(d.OrderHandler.Get))
			r.Post("/orders/{id}/cancel", requireUser(d.OrderHandler.Cancel))
			r.Get("/portfolio", requireUser(d.PortfolioHandler.Get))
			r.Get("/rewards/level", requireUser(d.RewardHandler.Level))
			r.Get("/rewards/achievements", requireUser(d.RewardHandler.Achievements))

			r.Get("/watchlist", requireUser(d.WatchlistHandler.List))
			r.Post("/watchlist", requireUser(d.WatchlistHandler.Add))
			r.Get("/watchlist/groups", requireUser(d.WatchlistHandler.Groups))
			r.Delete("/watchlist/{code}", requireUser(d.WatchlistHandler.Remove))
			r.Get("/watchlist/check/{code}", requireUser(d.WatchlistHandler.Check))

			r.Post("/wmti/submit", requireUser(d.WmtiHandler.Submit))
			r.Get("/wmti/result", requireUser(d.WmtiHandler.Result))
			r.Get("/wmti/results", requireUser(d.WmtiHandler.Results))
		})

		r.Group(func(r chi.Router) {
			r.Use(InternalAuth(d.InternalToken))
			r.Post("/internal/orders/{id}/execute", d.OrderHandler.ExecuteInternal)
			r.Post("/internal/rewards/{userID}/experience", func(w http.ResponseWriter, r *http.Request) {
				d.RewardHandler.AddExperience(w, r, chi.URLParam(r, "userID"))
			})
			r.Get("/internal/users/{loginID}", func(w http.ResponseWriter, r *http.Request) {
				d.AuthHandler.LookupByLoginID(w, r, chi.URLParam(r, "loginID"))
			})
		})
	})
	return r
}

func requireUser(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		h(w, r, userID)
	}
}
