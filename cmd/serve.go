package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/applications"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/cache"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/dashboard"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/llm"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/responder"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/server"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/webhook"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/whatsapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long:  `Starts the bot: listens for WhatsApp webhook deliveries, generates consultation replies, and serves the operator dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		redis := cache.New(cfg.Redis, log)
		defer redis.Close()

		ks := knowledge.New(ctx, cfg.Knowledge, newEmbedder(cfg, log), log)

		provider, err := llm.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating completion provider: %w", err)
		}

		convStore := conversation.NewStore(database)
		appStore := applications.NewStore(database)
		window := conversation.NewWindow(convStore, redis, log)

		gen := responder.New(window, ks, provider, cfg.LLM, log)
		gateway := whatsapp.New(cfg.WhatsApp, cfg.WhatsAppToken(), log)

		hub := dashboard.NewHub(log)
		go hub.Run(ctx)

		processor := webhook.NewProcessor(cfg.Client.ID, gen, window, gateway, hub, log)
		handler := webhook.NewHandler(processor, webhook.Health{
			DB:                 database,
			Cache:              redis,
			Knowledge:          ks,
			LLMConfigured:      llmConfigured(cfg),
			WhatsAppConfigured: gateway.Configured(),
		}, cfg.Client.ID, log)

		dash := dashboard.New(convStore, appStore, ks, hub, cfg.Client.ID)

		srv := server.New(cfg.Server, server.Deps{
			Webhook:       handler,
			Dashboard:     dash,
			Knowledge:     ks,
			Conversations: convStore,
			Applications:  appStore,
			ClientID:      cfg.Client.ID,
		}, log)

		go func() {
			<-ctx.Done()
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown", zap.Error(err))
			}
		}()

		log.Info("bot starting",
			zap.String("client_id", cfg.Client.ID),
			zap.Int("port", cfg.Server.Port),
			zap.String("database", string(cfg.Database.Driver)),
			zap.Bool("redis", redis.Enabled()),
			zap.String("knowledge_strategy", ks.Strategy()),
			zap.Int("knowledge_docs", ks.Count()),
			zap.Bool("llm_configured", llmConfigured(cfg)),
			zap.Bool("whatsapp_configured", gateway.Configured()),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
