package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vaashuyko/wishlist-api/internal/api/handlers"
	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	wishService services.WishServiceProvider,
	itemService services.ItemServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unmatched routes still answer with the JSON error envelope.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteHTTP(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteHTTP(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	wishHandler := handlers.NewWishHandler(wishService)
	itemHandler := handlers.NewItemHandler(itemService)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/wishes", func(r chi.Router) {
		r.Use(auth.Middleware(tokens, userService))
		r.Post("/", wishHandler.Create)
		r.Get("/", wishHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", wishHandler.Get)
			r.Put("/", wishHandler.Update)
			r.Delete("/", wishHandler.Delete)
		})
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", itemHandler.Create)
		r.Get("/{id}", itemHandler.Get)
	})

	return r
}
