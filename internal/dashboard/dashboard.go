package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/applications"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
)

// Dashboard provides the operator status page, the knowledge-base browser
// and the live event feed.
type Dashboard struct {
	conversations *conversation.Store
	applications  *applications.Store
	knowledge     *knowledge.Store
	hub           *Hub
	markdown      goldmark.Markdown
	clientID      string
}

// New creates a new Dashboard.
func New(conversations *conversation.Store, apps *applications.Store, ks *knowledge.Store, hub *Hub, clientID string) *Dashboard {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Dashboard{
		conversations: conversations,
		applications:  apps,
		knowledge:     ks,
		hub:           hub,
		markdown:      md,
		clientID:      clientID,
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.handleIndex)
	r.Get("/api/dashboard/stats", d.handleStats)
	r.Get("/kb", d.handleKBIndex)
	r.Get("/kb/{idx}", d.handleKBDocument)
	r.Get("/ws", d.hub.HandleWS)
}
