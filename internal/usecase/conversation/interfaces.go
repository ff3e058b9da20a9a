package conversation

import (
	"context"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/formatter"
)

type RagConnector interface {
	Query(ctx context.Context, query, conversationID string) (*entity.QueryResult, error)
	CreateConversation(ctx context.Context) (*entity.Conversation, error)
	ListConversations(ctx context.Context, limit, offset int) ([]entity.Conversation, error)
	AddMessage(ctx context.Context, conversationID, content string, role entity.Role) error
	GetConversation(ctx context.Context, conversationID string) ([]entity.Message, error)
	DeleteConversation(ctx context.Context, conversationID string) (bool, error)
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
