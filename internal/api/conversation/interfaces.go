package conversation

import (
	"context"

	"github.com/futig/rag-relay/internal/entity"
	convUsecase "github.com/futig/rag-relay/internal/usecase/conversation"
)

type ConversationUsecase interface {
	Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error)
	Create(ctx context.Context) (*entity.Conversation, error)
	List(ctx context.Context, req *entity.PageRequest) ([]entity.Conversation, error)
	AddMessage(ctx context.Context, req *entity.AddMessageRequest) error
	Details(ctx context.Context, conversationID string) ([]entity.Message, error)
	Delete(ctx context.Context, conversationID string) (bool, error)
	Export(ctx context.Context, req *entity.ExportConversationRequest) (*convUsecase.Export, error)
}
