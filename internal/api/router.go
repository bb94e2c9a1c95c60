package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/editform"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/metrics"
	"github.com/starford/figcaption/internal/theme"
)

// Deps are the collaborators the API routes need.
type Deps struct {
	Captions *caption.Repository
	Accessor *caption.Accessor
	Forms    *editform.Service
	Page     *theme.Page
	Posts    metastore.PostStore
	Users    metastore.UserStore
	Metrics  *metrics.Registry

	// AuthEnabled controls whether Bearer user tokens are resolved.
	AuthEnabled bool
	// SavesPerMinute throttles caption saves per user; 0 disables it.
	SavesPerMinute int
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(d Deps) chi.Router {
	h := &Handler{
		captions: d.Captions,
		accessor: d.Accessor,
		forms:    d.Forms,
		page:     d.Page,
		posts:    d.Posts,
		metrics:  d.Metrics,
	}
	throttle := NewSaveThrottle(d.SavesPerMinute, d.Metrics)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(d.AuthEnabled, d.Users))

	// Read side, open to templates and anonymous readers.
	r.Get("/posts/{id}/caption", h.GetCaption)
	r.Get("/posts/{id}/caption/render", h.RenderCaption)
	r.Get("/posts/{id}/preview", h.Preview)

	// Edit screen.
	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/posts/{id}/caption/field", h.Field)
		r.Get("/posts/{id}/caption/metabox", h.Metabox)
	})

	// Save handler. Anonymous submissions reach the gate and are dropped there.
	r.With(throttle.Middleware).Post("/posts/{id}/caption", h.SaveCaption)

	return r
}
