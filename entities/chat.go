package entities

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	Role    Role
	Content string
}

// CompletionRequest is one streaming call to the language model.
// A nil Temperature selects the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature *float64
}

// Message is a complete message shown to the user, such as the welcome text.
type Message struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}
