package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rfcarvalho/go-blog-backend/internal/api/auth"
	"github.com/rfcarvalho/go-blog-backend/internal/api/post"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.AuthHandler
	PostHandler            *post.PostHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, no token required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		// Protected routes. Account deletion sits behind the same gate as
		// the post resources; the handler additionally requires the token
		// subject to match the account being deleted.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Delete("/auth/{id}", cfg.AuthHandler.DeleteAccount)

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", cfg.PostHandler.CreatePost)
				r.Get("/", cfg.PostHandler.GetPosts)
				r.Get("/{id}", cfg.PostHandler.GetPost)
				r.Put("/{id}", cfg.PostHandler.UpdatePost)
				r.Delete("/{id}", cfg.PostHandler.DeletePost)
			})
		})
	})

	return r
}
