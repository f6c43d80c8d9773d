package handlers

import (
	"net/http"

	"happy-thoughts-backend/internal/middleware"
	"happy-thoughts-backend/internal/services"
	"happy-thoughts-backend/internal/static"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router backed by a persistent store
func NewRouter(userService *services.UserService, thoughtService *services.ThoughtService, hub *services.FeedHub) http.Handler {
	userHandler := NewUserHandler(userService)
	thoughtHandler := NewThoughtHandler(thoughtService)
	feedHandler := NewFeedHandler(hub)

	r := newBaseRouter()

	r.Get("/", RootHandler(r))
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)

	r.Get("/thoughts", thoughtHandler.List)
	r.Get("/thoughts/{id}", thoughtHandler.Get)
	r.Patch("/thoughts/{id}/like", thoughtHandler.Like)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(userService))
		r.Post("/thoughts", thoughtHandler.Create)
		r.Put("/thoughts/{id}", thoughtHandler.Update)
		r.Delete("/thoughts/{id}", thoughtHandler.Delete)
	})

	r.Get("/ws", feedHandler.HandleWebSocket)

	return r
}

// NewStaticRouter builds the read-only router for the static dataset
func NewStaticRouter(catalog *static.Catalog) http.Handler {
	staticHandler := NewStaticHandler(catalog)

	r := newBaseRouter()
	r.Get("/", RootHandler(r))
	r.Get("/thoughts", staticHandler.List)
	r.Get("/thoughts/{id}", staticHandler.Get)
	return r
}

func newBaseRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
