package conversation

import "time"

// Turn is one inbound message and the reply sent for it. ResponseText is
// empty when generation failed before a reply was produced.
type Turn struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	PhoneNumber  string    `json:"phone_number"`
	CustomerName string    `json:"customer_name,omitempty"`
	MessageText  string    `json:"message_text"`
	ResponseText string    `json:"response_text,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Stats summarizes one customer's history with a client.
type Stats struct {
	TotalMessages    int        `json:"total_messages"`
	FirstInteraction *time.Time `json:"first_interaction,omitempty"`
	LastInteraction  *time.Time `json:"last_interaction,omitempty"`
}
