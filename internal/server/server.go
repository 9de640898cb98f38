package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/applications"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/dashboard"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/webhook"
)

// Deps carries the feature handlers and stores the router assembles.
type Deps struct {
	Webhook       *webhook.Handler
	Dashboard     *dashboard.Dashboard
	Knowledge     *knowledge.Store
	Conversations *conversation.Store
	Applications  *applications.Store
	ClientID      string
}

// Server is the bot's HTTP front. The messaging gateway posts webhooks to
// it; operators use the dashboard and query APIs.
type Server struct {
	cfg        config.ServerConfig
	router     chi.Router
	httpServer *http.Server
	log        *zap.Logger
}

// New assembles the router with all feature routes mounted.
func New(cfg config.ServerConfig, deps Deps, log *zap.Logger) *Server {
	s := &Server{
		cfg: cfg,
		log: log,
	}
	s.router = s.buildRouter(deps)
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// The webhook is called by the messaging gateway and the dashboard may
	// be served behind any proxy host, so CORS stays permissive.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	webhook.RegisterRoutes(r, deps.Webhook)
	knowledge.RegisterRoutes(r, deps.Knowledge)
	conversation.RegisterRoutes(r, deps.Conversations, deps.ClientID)
	applications.RegisterRoutes(r, deps.Applications, deps.ClientID)
	deps.Dashboard.RegisterRoutes(r)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port. Blocks until the
// listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
