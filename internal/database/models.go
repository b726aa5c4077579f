package database

// well-known chatbot states
const (
	START             = "start"
	THERAPIST_SEARCH  = "therapist_search"
	COMMUNITY_CONNECT = "community_connect"
)

// Session is one conversation's state cell. Every conversation owns
// its own cell; nothing is shared between concurrent users.
type Session struct {
	CurrentState  string `json:"current_state"`
	PreviousState string `json:"previous_state"`
}
