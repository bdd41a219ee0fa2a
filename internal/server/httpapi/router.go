package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okulov/chatter/internal/logging"
)

// NewRouter wires all routes and middleware. Cookies require
// AllowCredentials, so allowed origins must be explicit, never "*".
func NewRouter(h *Handlers, logger logging.Logger, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.HandleHealth())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister())
		r.Post("/login", h.HandleLogin())
		r.Post("/logout", h.HandleLogout())
		r.Get("/profile", h.HandleProfile())
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", h.HandleListUsers())
	})

	return r
}

// requestLogger logs one line per request through the shared Logger.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	log := logger.With("module", "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
