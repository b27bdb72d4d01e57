// Package httpapi exposes the desktop engine over a small JSON API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/metrics"
)

// Deps collects what the router needs.
type Deps struct {
	Desktop *desktop.Desktop

	// Gatherer backs GET /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer

	// PointerRate and PointerBurst bound POST /v1/pointer. A zero rate
	// disables the limit.
	PointerRate  rate.Limit
	PointerBurst int
}

// NewRouter wires every route onto a chi router.
//
// Middleware order: RequestID -> Logger -> Recoverer. Pointer moves are
// throttled inside the /v1/pointer handler, where the event kind is known.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logger())
	r.Use(middleware.Recoverer)

	h := &handler{desk: deps.Desktop}
	if deps.PointerRate > 0 {
		h.moves = NewPointerLimiter(deps.PointerRate, deps.PointerBurst)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", h.getState)
		r.Get("/catalog", h.getCatalog)

		r.Post("/pointer", h.postPointer)

		r.Post("/drop", h.postDrop)
		r.Post("/resize", h.postResize)

		r.Route("/windows/{id}", func(r chi.Router) {
			r.Post("/open", h.openWindow)
			r.Post("/close", h.closeWindow)
			r.Post("/center", h.centerWindow)
			r.Post("/lights/{light}", h.trafficLight)
		})

		r.Post("/apps/{id}/open", h.openApp)
		r.Post("/icons/{id}/open", h.openIcon)
		r.Post("/sidebar/{item}", h.selectSidebar)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Put("/form", h.putForm)
			r.Post("/submit", h.submit)
			r.Post("/generate", h.generate)
			r.Post("/switch", h.switchProfile)
		})
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	return r
}
