package responder

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/llm"
)

// Fixed replies for the two failure classes. The customer always gets one
// of these rather than an error.
const (
	FallbackNotConfigured = "Thank you for your message! Our loan consultation service is still being configured. A consultant will get back to you shortly."
	FallbackUnavailable   = "Sorry, our consultation assistant is temporarily unavailable. Please try again in a few minutes."
)

// historyLimit is how many stored turns feed one completion.
const historyLimit = 5

// History supplies the recent conversation window for prompt assembly.
type History interface {
	Recent(ctx context.Context, clientID, phoneNumber string, limit int) []conversation.Turn
}

// Responder turns an inbound customer message into a reply via the
// completion provider, grounded in conversation history and the knowledge
// base.
type Responder struct {
	history     History
	knowledge   *knowledge.Store
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
	log         *zap.Logger
}

func New(history History, ks *knowledge.Store, provider llm.Provider, cfg config.LLMConfig, log *zap.Logger) *Responder {
	return &Responder{
		history:     history,
		knowledge:   ks,
		provider:    provider,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float64(cfg.Temperature),
		log:         log,
	}
}

// Respond generates the reply for one inbound message. It never returns an
// error: completion failures map to a fixed fallback so the webhook always
// has something to send.
func (r *Responder) Respond(ctx context.Context, clientID, phoneNumber, message string) string {
	history := r.history.Recent(ctx, clientID, phoneNumber, historyLimit)
	kctx := r.knowledge.Context(ctx, message)

	resp, err := r.provider.Complete(ctx, llm.CompletionRequest{
		Model: r.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPersona},
			{Role: llm.RoleUser, Content: buildPrompt(message, history, kctx)},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			r.log.Warn("completion provider not configured",
				zap.String("phone", phoneNumber))
			return FallbackNotConfigured
		}
		r.log.Error("completion failed",
			zap.String("phone", phoneNumber), zap.Error(err))
		return FallbackUnavailable
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		r.log.Warn("empty completion", zap.String("phone", phoneNumber))
		return FallbackUnavailable
	}

	r.log.Info("reply generated",
		zap.String("phone", phoneNumber),
		zap.Int("history_turns", len(history)),
		zap.Bool("knowledge_used", kctx.Found),
		zap.Int("output_tokens", resp.OutputTokens))

	return knowledge.Enhance(reply, kctx)
}
