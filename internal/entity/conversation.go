package entity

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Conversation is a backend-owned conversation summary.
type Conversation struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	MessageCount int    `json:"message_count,omitempty"`
}

// Message is a single conversation turn reduced to what the UI renders.
type Message struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// QueryResult is the agent answer for a query.
type QueryResult struct {
	Response       string
	ConversationID string
}

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)
