package webhook

import (
	"context"
	"time"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
)

// Status tags returned by the orchestrator. Every inbound event maps to
// exactly one of these.
const (
	StatusNoMessage      = "no_message"
	StatusIgnored        = "ignored"
	StatusNoValidMessage = "no_valid_message"
	StatusProcessed      = "processed"
	StatusError          = "error"
)

// Result is the JSON body returned to the messaging gateway for every
// webhook delivery.
type Result struct {
	Status   string `json:"status"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// IncomingMessage is the canonical form of an inbound chat message after
// both tolerated payload shapes have been normalized.
type IncomingMessage struct {
	From     string
	FromName string
	Text     string
	FromMe   bool
}

// Generator produces the assistant reply for an inbound message.
type Generator interface {
	Respond(ctx context.Context, clientID, phoneNumber, message string) string
}

// Sender delivers a reply through the messaging gateway.
type Sender interface {
	Send(ctx context.Context, phoneNumber, body string) bool
}

// Recorder persists a handled conversation turn.
type Recorder interface {
	Append(ctx context.Context, turn conversation.Turn)
}

// Event describes a handled webhook delivery for live observers.
type Event struct {
	Status    string    `json:"status"`
	Phone     string    `json:"phone_number,omitempty"`
	Message   string    `json:"message,omitempty"`
	Response  string    `json:"response,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSink receives a copy of every handled delivery. Implementations
// must not block; the orchestrator publishes on the request path.
type EventSink interface {
	Publish(Event)
}
