package knowledge

import "strings"

// Sentinel is the context text when no document clears the relevance
// threshold.
const Sentinel = "No specific information found in knowledge base."

// contextTopK bounds how many documents feed one generated reply.
const contextTopK = 2

// shortReplyWords is the enhancement cutoff: replies at or above this word
// count are considered complete as-is.
const shortReplyWords = 50

// Context is the knowledge block handed to the response generator.
type Context struct {
	Found bool
	Text  string
}

// Enhance appends the knowledge block to replies that look too short to be
// complete. Detailed replies and replies with no found context pass through
// untouched.
func Enhance(reply string, c Context) string {
	if !c.Found {
		return reply
	}
	if len(strings.Fields(reply)) >= shortReplyWords {
		return reply
	}
	return reply + "\n\nAdditional information:\n" + c.Text
}
