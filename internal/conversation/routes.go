package conversation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts conversation endpoints under /api/conversations on
// the given router. clientID scopes every query to the tenant this process
// serves.
func RegisterRoutes(r chi.Router, store *Store, clientID string) {
	r.Route("/api/conversations", func(r chi.Router) {
		r.Get("/{phone}", handleRecent(store, clientID))
		r.Get("/{phone}/stats", handleStats(store, clientID))
	})
}

func handleRecent(store *Store, clientID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := chi.URLParam(r, "phone")

		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		turns, err := store.Recent(r.Context(), clientID, phone, limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if turns == nil {
			turns = []Turn{}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"phone_number":  phone,
			"conversations": turns,
		})
	}
}

func handleStats(store *Store, clientID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := chi.URLParam(r, "phone")

		stats, err := store.Stats(r.Context(), clientID, phone)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
