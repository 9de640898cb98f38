package knowledge

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts knowledge endpoints under /api/knowledge on the
// given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/knowledge", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/search", handleSearch(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs := store.Documents()
		if docs == nil {
			docs = []Document{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":     len(docs),
			"strategy":  store.Strategy(),
			"documents": docs,
		})
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func handleSearch(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		matches, err := store.Search(r.Context(), req.Query, req.TopK)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if matches == nil {
			matches = []Match{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"query":   req.Query,
			"matches": matches,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
