package types

// ChatRole identifies the author of one transcript entry.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a thought's chat transcript. Transcripts are
// append-only: each accepted turn adds a user entry followed by an assistant
// entry.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
