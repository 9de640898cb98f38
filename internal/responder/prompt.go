package responder

import (
	"fmt"
	"strings"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/conversation"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/knowledge"
)

const systemPersona = `You are a professional loan consultant for a licensed Malaysian lending advisory, chatting with customers over WhatsApp.

You help customers understand personal, housing, and car loan options in Malaysia.

Rules:
- Never promise or guarantee loan approval. Eligibility is always subject to the lender's assessment.
- Always remind customers that their documents must be verified before any figure is final.
- Escalate complex cases (bankruptcy history, ongoing legal disputes, CTOS score below 600, joint applications) to a human consultant.
- Use Malaysian terms: amounts in RM, DSR limits, CTOS scores, BNM guidelines where relevant.
- Keep replies short and WhatsApp-friendly. Answer in the language the customer writes in (English, Malay, or Chinese).`

// buildPrompt assembles the user message for one completion: knowledge
// context, the recent window as Customer/Assistant lines, the current
// message, and a closing instruction. Turns without a stored reply
// contribute only their Customer line.
func buildPrompt(message string, history []conversation.Turn, kctx knowledge.Context) string {
	var b strings.Builder

	b.WriteString("Knowledge base context:\n")
	b.WriteString(kctx.Text)
	b.WriteString("\n")

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "Customer: %s\n", t.MessageText)
			if t.ResponseText != "" {
				fmt.Fprintf(&b, "Assistant: %s\n", t.ResponseText)
			}
		}
	}

	fmt.Fprintf(&b, "\nCurrent message: %s\n", message)
	b.WriteString("\nReply as the loan consultant. Be concise and specific to Malaysia, and ask for any details you still need.")

	return b.String()
}
