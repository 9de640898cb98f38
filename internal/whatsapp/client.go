package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

const (
	defaultAPIURL = "https://gate.whapi.cloud"

	// recipientSuffix is the JID domain for individual WhatsApp chats.
	recipientSuffix = "@s.whatsapp.net"
)

// Client sends text messages through the WhatsApp gateway. A Client without
// a token is unconfigured: sends are skipped and reported as failed so the
// caller still records the turn.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// New builds a gateway client. token is the resolved credential from
// config.WhatsAppToken.
func New(cfg config.WhatsAppConfig, token string, log *zap.Logger) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Configured reports whether a gateway credential is present.
func (c *Client) Configured() bool { return c.token != "" }

// NormalizeRecipient appends the WhatsApp JID domain to bare phone numbers.
// Already-qualified recipients pass through unchanged.
func NormalizeRecipient(phoneNumber string) string {
	if strings.HasSuffix(phoneNumber, recipientSuffix) {
		return phoneNumber
	}
	return phoneNumber + recipientSuffix
}

type textMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Send delivers body to phoneNumber and reports whether the gateway
// accepted it. Delivery problems are logged, never returned: a failed send
// must not fail the webhook.
func (c *Client) Send(ctx context.Context, phoneNumber, body string) bool {
	if c.token == "" {
		c.log.Warn("whatsapp token not configured, skipping send",
			zap.String("to", phoneNumber))
		return false
	}

	to := NormalizeRecipient(phoneNumber)

	payload, err := json.Marshal(textMessage{To: to, Body: body})
	if err != nil {
		c.log.Error("marshal message", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/messages/text", bytes.NewReader(payload))
	if err != nil {
		c.log.Error("build gateway request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("whatsapp send failed", zap.String("to", to), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("whatsapp gateway rejected message",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		return false
	}

	c.log.Info("whatsapp message sent",
		zap.String("to", to),
		zap.Int("length", len(body)))
	return true
}

// String hides the credential when the client is logged.
func (c *Client) String() string {
	return fmt.Sprintf("whatsapp.Client(%s, configured=%t)", c.apiURL, c.Configured())
}
