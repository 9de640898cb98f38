package webhook

import (
	"encoding/json"
	"fmt"
)

// gatewayEvent is the top-level payload the messaging gateway posts to the
// webhook.
type gatewayEvent struct {
	Messages []gatewayMessage `json:"messages"`
}

// gatewayMessage is one message entry. The gateway delivers two shapes:
// text nested under text.body, or a top-level body field.
type gatewayMessage struct {
	From     string      `json:"from"`
	FromName string      `json:"from_name"`
	FromMe   bool        `json:"from_me"`
	Body     string      `json:"body"`
	Text     gatewayText `json:"text"`
}

type gatewayText struct {
	Body string `json:"body"`
}

// parse normalizes a raw payload into the first message it carries, so
// format variance never reaches the orchestrator. Batched payloads are not
// iterated; only the first entry is handled. ok is false when the payload
// carries no messages at all.
func parse(payload []byte) (msg IncomingMessage, ok bool, err error) {
	var event gatewayEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return IncomingMessage{}, false, fmt.Errorf("decoding webhook payload: %w", err)
	}

	if len(event.Messages) == 0 {
		return IncomingMessage{}, false, nil
	}

	raw := event.Messages[0]
	text := raw.Text.Body
	if text == "" {
		text = raw.Body
	}

	return IncomingMessage{
		From:     raw.From,
		FromName: raw.FromName,
		Text:     text,
		FromMe:   raw.FromMe,
	}, true, nil
}
