package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/cache"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
)

const serviceName = "Malaysian Loan Bot"

// Health carries the handles the health endpoint reports on.
type Health struct {
	DB        *db.DB
	Cache     *cache.Cache
	Knowledge *knowledge.Store

	LLMConfigured      bool
	WhatsAppConfigured bool
}

// Handler exposes the webhook and health endpoints over HTTP.
type Handler struct {
	processor *Processor
	health    Health
	clientID  string
	log       *zap.Logger
}

// NewHandler wraps a processor for HTTP serving.
func NewHandler(processor *Processor, health Health, clientID string, log *zap.Logger) *Handler {
	return &Handler{
		processor: processor,
		health:    health,
		clientID:  clientID,
		log:       log,
	}
}

// HandleEvent handles an inbound webhook delivery (HTTP POST). Graceful
// outcomes answer 200 with a status tag; only the error tag answers 500.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Warn("reading webhook body", zap.Error(err))
		writeResult(w, Result{Status: StatusError, Error: "reading request body"})
		return
	}

	writeResult(w, h.processor.Handle(r.Context(), body))
}

// healthStatus is the /health response body.
type healthStatus struct {
	Status             string    `json:"status"`
	Service            string    `json:"service"`
	Timestamp          time.Time `json:"timestamp"`
	ClientID           string    `json:"client_id"`
	Database           string    `json:"database"`
	Redis              string    `json:"redis"`
	RAGEnabled         bool      `json:"rag_enabled"`
	KnowledgeDocs      int       `json:"knowledge_docs"`
	OpenAIConfigured   bool      `json:"openai_configured"`
	WhatsAppConfigured bool      `json:"whatsapp_configured"`
}

// HandleHealth reports process status, downstream connectivity and
// credential presence (HTTP GET).
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status:             "healthy",
		Service:            serviceName,
		Timestamp:          time.Now().UTC(),
		ClientID:           h.clientID,
		Database:           "disconnected",
		Redis:              "disconnected",
		OpenAIConfigured:   h.health.LLMConfigured,
		WhatsAppConfigured: h.health.WhatsAppConfigured,
	}

	if h.health.DB != nil && h.health.DB.PingContext(r.Context()) == nil {
		status.Database = "connected"
	}
	if h.health.Cache != nil && h.health.Cache.Ping(r.Context()) {
		status.Redis = "connected"
	}
	if h.health.Knowledge != nil {
		status.RAGEnabled = h.health.Knowledge.Enabled()
		status.KnowledgeDocs = h.health.Knowledge.Count()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func writeResult(w http.ResponseWriter, res Result) {
	code := http.StatusOK
	if res.Status == StatusError {
		code = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(res)
}
