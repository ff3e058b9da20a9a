package r2r

import "github.com/futig/rag-relay/internal/entity"

// envelope is the wrapper R2R puts around every v3 response.
type envelope[T any] struct {
	Results      T   `json:"results"`
	TotalEntries int `json:"total_entries,omitempty"`
}

type ingestionResult struct {
	Message    string `json:"message"`
	TaskID     string `json:"task_id"`
	DocumentID string `json:"document_id"`
}

type booleanResult struct {
	Success bool `json:"success"`
}

type agentMessage struct {
	Role    entity.Role `json:"role"`
	Content string      `json:"content"`
}

type agentRequest struct {
	Message        agentMessage `json:"message"`
	ConversationID string       `json:"conversation_id,omitempty"`
	RagTools       []string     `json:"rag_tools"`
	Mode           string       `json:"mode"`
}

type agentResult struct {
	Messages       []agentMessage `json:"messages"`
	ConversationID string         `json:"conversation_id"`
}

type conversationResult struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	UserID       string `json:"user_id"`
	CreatedAt    string `json:"created_at"`
	MessageCount int    `json:"message_count"`
}

func (c conversationResult) toEntity() entity.Conversation {
	return entity.Conversation{
		ID:           c.ID,
		Name:         c.Name,
		UserID:       c.UserID,
		CreatedAt:    c.CreatedAt,
		MessageCount: c.MessageCount,
	}
}

type addMessageRequest struct {
	Content string      `json:"content"`
	Role    entity.Role `json:"role"`
}

type messageResult struct {
	ID      string       `json:"id"`
	Message agentMessage `json:"message"`
}

// Tools the agent may call while answering a query.
var ragTools = []string{
	"search_file_descriptions",
	"search_file_knowledge",
	"get_file_content",
}
