package conversation

import (
	"context"
	"fmt"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/formatter"
	"github.com/futig/rag-relay/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ConversationUsecase relays retrieval and conversation calls to the RAG backend
type ConversationUsecase struct {
	ragConnector RagConnector
	formatters   FormatterFactory
	pageSize     int
	logger       *zap.Logger
}

func NewUsecase(
	ragConnector RagConnector,
	formatters FormatterFactory,
	pageSize int,
	logger *zap.Logger,
) *ConversationUsecase {
	return &ConversationUsecase{
		ragConnector: ragConnector,
		formatters:   formatters,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// Export is a rendered conversation transcript.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (uc *ConversationUsecase) Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	if req.ConversationID != "" {
		ctx = logger.WithConversation(ctx, req.ConversationID)
	}

	res, err := uc.ragConnector.Query(ctx, req.Query, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("query agent: %w", err)
	}
	return res, nil
}

func (uc *ConversationUsecase) Create(ctx context.Context) (*entity.Conversation, error) {
	conv, err := uc.ragConnector.CreateConversation(ctx)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

func (uc *ConversationUsecase) List(ctx context.Context, req *entity.PageRequest) ([]entity.Conversation, error) {
	limit, offset := uc.pageSize, 0
	if req != nil {
		if req.Limit != nil {
			limit = *req.Limit
		}
		if req.Offset != nil {
			offset = *req.Offset
		}
	}

	convs, err := uc.ragConnector.ListConversations(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

func (uc *ConversationUsecase) AddMessage(ctx context.Context, req *entity.AddMessageRequest) error {
	ctx = logger.WithConversation(ctx, req.ConversationID)

	if err := uc.ragConnector.AddMessage(ctx, req.ConversationID, req.Message, req.Role); err != nil {
		return fmt.Errorf("add message: %w", err)
	}

	ctxzap.Debug(ctx, "message added", zap.String("role", string(req.Role)))
	return nil
}

func (uc *ConversationUsecase) Details(ctx context.Context, conversationID string) ([]entity.Message, error) {
	msgs, err := uc.ragConnector.GetConversation(logger.WithConversation(ctx, conversationID), conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return msgs, nil
}

func (uc *ConversationUsecase) Delete(ctx context.Context, conversationID string) (bool, error) {
	ctx = logger.WithConversation(ctx, conversationID)

	ok, err := uc.ragConnector.DeleteConversation(ctx, conversationID)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}

	ctxzap.Info(ctx, "conversation deleted", zap.Bool("deleted", ok))
	return ok, nil
}

// Export renders the conversation history in the requested format.
func (uc *ConversationUsecase) Export(ctx context.Context, req *entity.ExportConversationRequest) (*Export, error) {
	f, err := uc.formatters.Create(req.Format)
	if err != nil {
		return nil, err
	}

	msgs, err := uc.Details(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(formatter.Transcript{ConversationID: req.ConversationID, Messages: msgs})
	if err != nil {
		return nil, fmt.Errorf("render conversation: %w", err)
	}

	return &Export{
		Filename:    "conversation-" + req.ConversationID + f.FileExtension(),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}
