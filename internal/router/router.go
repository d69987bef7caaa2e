package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"linknote/internal/config"
	"linknote/internal/handler"
	"linknote/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Bookmark *handler.BookmarkHandler
	User     *handler.UserHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("LinkNote API Server is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Get("/google", handlers.Auth.GoogleLogin)
		auth.Get("/google/callback", handlers.Auth.GoogleCallback)
		auth.Post("/logout", handlers.Auth.Logout)
		auth.With(authMiddleware.Require).Get("/me", handlers.Auth.Me)
	})

	r.Route("/bookmarks", func(bookmarks chi.Router) {
		bookmarks.Use(authMiddleware.Require)
		bookmarks.Get("/search", handlers.Bookmark.Search)
		bookmarks.Get("/", handlers.Bookmark.List)
		bookmarks.Get("/{id}", handlers.Bookmark.Get)
		bookmarks.Post("/", handlers.Bookmark.Create)
		bookmarks.Put("/{id}", handlers.Bookmark.Update)
		bookmarks.Delete("/{id}", handlers.Bookmark.Delete)
	})

	r.Route("/users", func(users chi.Router) {
		users.Use(authMiddleware.Require)
		users.Put("/me", handlers.User.UpdateMe)
		users.Delete("/me", handlers.User.DeleteMe)
	})

	return r
}
