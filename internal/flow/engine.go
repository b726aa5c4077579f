package flow

import (
	"strings"

	"therapist-discovery-backend/internal/database"
)

const (
	fallbackMessage = "I'm not sure how to respond to that."

	therapistSearchMessage = "I can help you find therapists! Please use the Directory tab to search for therapists by city, pincode, or disorder type."

	communityConnectMessage = "You can connect with other parents in the Community tab. There are separate sections for parents currently dealing with issues and those who have found solutions."
)

// Reply is one chatbot turn as the frontend sees it.
type Reply struct {
	Message string   `json:"message"`
	Options []Option `json:"options"`
	State   string   `json:"state"`
}

// Respond renders the node the session points at, after an optional
// unconditional state override. An unknown state is a dead end, not a
// reset: the session keeps its state and the caller gets the fallback
// line.
func (g *Graph) Respond(sess *database.Session, state string) Reply {
	if state != "" {
		sess.CurrentState = state
	}

	lock.RLock()
	node, ok := g.Nodes[sess.CurrentState]
	lock.RUnlock()

	if !ok {
		return Reply{
			Message: fallbackMessage,
			Options: []Option{},
			State:   sess.CurrentState,
		}
	}
	return Reply{
		Message: node.Message,
		Options: append([]Option{}, node.Options...),
		State:   sess.CurrentState,
	}
}

// ProcessInput applies the keyword override before consulting the
// graph: therapist/find jump straight to the directory pointer,
// community/support to the community pointer. First match wins, empty
// input never matches.
func (g *Graph) ProcessInput(sess *database.Session, input, currentState string) Reply {
	if currentState == "" {
		currentState = database.START
	}
	sess.CurrentState = currentState

	in := strings.ToLower(input)
	switch {
	case strings.Contains(in, "therapist") || strings.Contains(in, "find"):
		sess.CurrentState = database.THERAPIST_SEARCH
		return Reply{
			Message: therapistSearchMessage,
			Options: []Option{},
			State:   sess.CurrentState,
		}
	case strings.Contains(in, "community") || strings.Contains(in, "support"):
		sess.CurrentState = database.COMMUNITY_CONNECT
		return Reply{
			Message: communityConnectMessage,
			Options: []Option{},
			State:   sess.CurrentState,
		}
	}

	return g.Respond(sess, "")
}
