package dashboard

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/applications"
)

//go:embed index.html
var indexHTML []byte

// handleIndex serves the embedded status page.
func (d *Dashboard) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	ClientID            string `json:"client_id"`
	KnowledgeDocs       int    `json:"knowledge_docs"`
	KnowledgeStrategy   string `json:"knowledge_strategy"`
	TotalConversations  int    `json:"total_conversations"`
	TotalApplications   int    `json:"total_applications"`
	PendingApplications int    `json:"pending_applications"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalConversations, err := d.conversations.Count(ctx, d.clientID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	totalApplications, err := d.applications.Count(ctx, d.clientID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	pending, err := d.applications.CountByStatus(ctx, d.clientID, applications.StatusPending)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resp := statsResponse{
		ClientID:            d.clientID,
		TotalConversations:  totalConversations,
		TotalApplications:   totalApplications,
		PendingApplications: pending,
	}
	if d.knowledge != nil {
		resp.KnowledgeDocs = d.knowledge.Count()
		resp.KnowledgeStrategy = d.knowledge.Strategy()
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
