// Package router sets up all HTTP routes and middleware chains for the
// Inkwell content API. It organizes routes into cached public reads and
// role-gated mutations.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// Cached public routes. The blog detail page is deliberately absent: it
// records a view per hit and must not be served stale.
const (
	routeBlogs      = "/api/blogs"
	routePopular    = "/api/blogs/popular"
	routeRelated    = "/api/blogs/{id}/related"
	routeCategories = "/api/categories"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. rc may be nil, which disables response
// caching entirely.
func New(rc *cache.ResponseCache, public *handlers.Public, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadActor)

	// Health check — no auth, no caching.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/blogs", func(r chi.Router) {
			// Cached public reads.
			r.With(middleware.CacheResponse(rc, routeBlogs)).Get("/", public.ListBlogs)
			r.With(middleware.CacheResponse(rc, routePopular)).Get("/popular", public.Popular)
			r.With(middleware.CacheResponse(rc, routeRelated)).Get("/{id}/related", public.Related)

			// Blog detail records a view, so it bypasses the cache.
			r.Get("/{slug}", public.GetBlog)

			// Explicit view recording for clients that cached the
			// detail page themselves. Open to anonymous readers.
			r.Post("/{id}/view", admin.RecordView)

			// Mutations — authors and editors; ownership is checked
			// per resource inside the handlers.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAuthor, models.RoleEditor))
				r.Post("/", admin.CreateBlog)
				r.Put("/{id}", admin.UpdateBlog)
				r.Delete("/{id}", admin.DeleteBlog)
			})

			// Likes — any authenticated actor.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuthenticated)
				r.Post("/{id}/like", admin.LikeBlog)
				r.Delete("/{id}/like", admin.UnlikeBlog)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(middleware.CacheResponse(rc, routeCategories)).Get("/", public.ListCategories)

			// Category management — admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/", admin.CreateCategory)
				r.Put("/{id}", admin.RenameCategory)
				r.Delete("/{id}", admin.DeleteCategory)
				r.Post("/{name}/reconcile", admin.ReconcileCategory)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
