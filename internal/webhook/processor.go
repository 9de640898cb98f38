package webhook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
)

// Processor turns inbound webhook payloads into replies. Each delivery is
// parsed, answered, persisted and dispatched; failures in any one
// downstream never stop the others from being attempted.
type Processor struct {
	clientID  string
	generator Generator
	recorder  Recorder
	sender    Sender
	sink      EventSink
	log       *zap.Logger
}

// NewProcessor creates a processor for the given tenant. sink may be nil.
func NewProcessor(clientID string, generator Generator, recorder Recorder, sender Sender, sink EventSink, log *zap.Logger) *Processor {
	return &Processor{
		clientID:  clientID,
		generator: generator,
		recorder:  recorder,
		sender:    sender,
		sink:      sink,
		log:       log,
	}
}

// Handle processes one webhook delivery and reports the outcome. Exactly
// one message per delivery is handled (the first). Panics are recovered
// here so a bad payload can never take the process down.
func (p *Processor) Handle(ctx context.Context, payload []byte) (res Result) {
	var msg IncomingMessage

	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("webhook handler panicked", zap.Any("panic", rec))
			res = Result{Status: StatusError, Error: fmt.Sprintf("%v", rec)}
		}
		p.publish(msg, res)
	}()

	msg, ok, err := parse(payload)
	if err != nil {
		p.log.Warn("rejecting webhook payload", zap.Error(err))
		return Result{Status: StatusError, Error: err.Error()}
	}
	if !ok {
		p.log.Debug("webhook delivery carried no messages")
		return Result{Status: StatusNoMessage}
	}
	if msg.FromMe {
		// Skip our own outbound messages to avoid reply loops.
		return Result{Status: StatusIgnored}
	}
	if msg.From == "" || msg.Text == "" {
		p.log.Warn("webhook message missing sender or text")
		return Result{Status: StatusNoValidMessage}
	}

	p.log.Info("processing message",
		zap.String("phone", msg.From),
		zap.Int("length", len(msg.Text)))

	reply := p.generator.Respond(ctx, p.clientID, msg.From, msg.Text)

	// One write per turn, after generation, so the stored row carries both
	// sides. The generator reads history before this append, so the current
	// message never shows up in its own context.
	p.recorder.Append(ctx, conversation.Turn{
		ClientID:     p.clientID,
		PhoneNumber:  msg.From,
		CustomerName: msg.FromName,
		MessageText:  msg.Text,
		ResponseText: reply,
	})

	if !p.sender.Send(ctx, msg.From, reply) {
		p.log.Warn("reply was not delivered", zap.String("phone", msg.From))
	}

	return Result{Status: StatusProcessed, Response: reply}
}

func (p *Processor) publish(msg IncomingMessage, res Result) {
	if p.sink == nil {
		return
	}
	p.sink.Publish(Event{
		Status:    res.Status,
		Phone:     msg.From,
		Message:   msg.Text,
		Response:  res.Response,
		Timestamp: time.Now().UTC(),
	})
}
