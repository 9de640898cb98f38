package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/applications"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/webhook"
)

const testClient = "client_001"

func setupTest(t *testing.T) (*Dashboard, *conversation.Store, *applications.Store, *Hub) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	convStore := conversation.NewStore(database)
	appStore := applications.NewStore(database)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ks := knowledge.New(ctx, config.KnowledgeConfig{
		Enabled:  true,
		Strategy: config.StrategyKeyword,
	}, nil, zap.NewNop())

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	d := New(convStore, appStore, ks, hub, testClient)
	return d, convStore, appStore, hub
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func TestStatsEndpoint(t *testing.T) {
	d, convStore, appStore, _ := setupTest(t)
	r := setupRouter(d)
	ctx := context.Background()

	for _, text := range []string{"hello", "i need a loan"} {
		err := convStore.Append(ctx, conversation.Turn{
			ClientID: testClient, PhoneNumber: "60123456789", MessageText: text,
		})
		if err != nil {
			t.Fatalf("seeding turn: %v", err)
		}
	}

	first, err := appStore.Create(ctx, applications.Application{
		ClientID: testClient, PhoneNumber: "60123456789", LoanAmount: 50000,
	})
	if err != nil {
		t.Fatalf("seeding application: %v", err)
	}
	if _, err := appStore.Create(ctx, applications.Application{
		ClientID: testClient, PhoneNumber: "60198765432", LoanAmount: 120000,
	}); err != nil {
		t.Fatalf("seeding application: %v", err)
	}
	if err := appStore.UpdateStatus(ctx, first.ID, applications.StatusReviewing); err != nil {
		t.Fatalf("moving application: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats statsResponse
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}

	if stats.ClientID != testClient {
		t.Errorf("client_id = %q, want %q", stats.ClientID, testClient)
	}
	if stats.TotalConversations != 2 {
		t.Errorf("expected 2 conversations, got %d", stats.TotalConversations)
	}
	if stats.TotalApplications != 2 {
		t.Errorf("expected 2 applications, got %d", stats.TotalApplications)
	}
	if stats.PendingApplications != 1 {
		t.Errorf("expected 1 pending application, got %d", stats.PendingApplications)
	}
	if stats.KnowledgeDocs != 5 {
		t.Errorf("expected the 5 default documents, got %d", stats.KnowledgeDocs)
	}
}

func TestIndexPage(t *testing.T) {
	d, _, _, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Malaysian Loan Bot") {
		t.Error("expected HTML to contain the service name")
	}
}

func TestKBIndexListsDocuments(t *testing.T) {
	d, _, _, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/kb", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Personal Loan Eligibility") {
		t.Error("expected index to list the first default document")
	}
	if !strings.Contains(body, `href="/kb/0"`) {
		t.Error("expected index to link documents by position")
	}
}

func TestKBDocumentRendersMarkdown(t *testing.T) {
	d, _, _, _ := setupTest(t)
	r := setupRouter(d)

	req := httptest.NewRequest(http.MethodGet, "/kb/0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Personal Loan Eligibility") {
		t.Error("expected the document title")
	}
	if !strings.Contains(body, "RM3,000") {
		t.Error("expected the rendered document body")
	}
}

func TestKBDocumentOutOfRange(t *testing.T) {
	d, _, _, _ := setupTest(t)
	r := setupRouter(d)

	for _, path := range []string{"/kb/99", "/kb/-1", "/kb/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	d, _, _, _ := setupTest(t)
	r := setupRouter(d)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
}

func TestHubBroadcastsEvents(t *testing.T) {
	d, _, _, hub := setupTest(t)
	r := setupRouter(d)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	// Registration races the first publish, so keep publishing until the
	// feed delivers.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				hub.Publish(webhook.Event{Status: webhook.StatusProcessed, Phone: "60123456789"})
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var evt webhook.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if evt.Status != webhook.StatusProcessed || evt.Phone != "60123456789" {
		t.Errorf("event = %+v, want the published event", evt)
	}
}
