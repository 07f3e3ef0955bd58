package dataset

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers run routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", h.CreateRun)
		r.Get("/", h.ListRuns)

		r.Route("/{run_id}", func(r chi.Router) {
			r.Get("/", h.GetRun)
			r.Get("/artifacts/{format}", h.DownloadArtifact)
		})
	})
}
