package webhook

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the webhook and health endpoints. The gateway may
// post to either the bare path or the client-scoped one; the process
// serves a single tenant so the path parameter is advisory.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/webhook", h.HandleEvent)
	r.Post("/client/{clientID}/webhook", h.HandleEvent)
	r.Get("/health", h.HandleHealth)
}
