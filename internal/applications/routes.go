package applications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the loan application API routes. clientID scopes
// list and create operations to the tenant this process serves.
func RegisterRoutes(r chi.Router, store *Store, clientID string) {
	r.Route("/api/applications", func(r chi.Router) {
		r.Get("/", handleList(store, clientID))
		r.Post("/", handleCreate(store, clientID))
		r.Get("/{id}", handleGetByID(store))
		r.Patch("/{id}/status", handleUpdateStatus(store))
	})
}

func handleList(store *Store, clientID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{}
		if v := r.URL.Query().Get("phone"); v != "" {
			filter.PhoneNumber = v
		}
		if v := r.URL.Query().Get("status"); v != "" {
			status := Status(v)
			if !status.Valid() {
				http.Error(w, `{"error":"unknown status"}`, http.StatusBadRequest)
				return
			}
			filter.Status = status
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		apps, err := store.List(r.Context(), clientID, filter)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if apps == nil {
			apps = []Application{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(apps)
	}
}

func handleCreate(store *Store, clientID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var app Application
		if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if app.PhoneNumber == "" {
			http.Error(w, `{"error":"phone_number is required"}`, http.StatusBadRequest)
			return
		}
		app.ClientID = clientID

		created, err := store.Create(r.Context(), app)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		app, err := store.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if app == nil {
			http.Error(w, `{"error":"application not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(app)
	}
}

type statusRequest struct {
	Status Status `json:"status"`
}

func handleUpdateStatus(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if !req.Status.Valid() {
			http.Error(w, `{"error":"unknown status"}`, http.StatusBadRequest)
			return
		}

		if err := store.UpdateStatus(r.Context(), id, req.Status); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, `{"error":"application not found"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": id, "status": string(req.Status)})
	}
}
