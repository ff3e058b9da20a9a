package r2r

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/rag-relay/internal/entity"
	pkghttp "github.com/futig/rag-relay/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func (c *Connector) CreateConversation(ctx context.Context) (*entity.Conversation, error) {
	var resp envelope[conversationResult]
	if err := c.doJSON(ctx, http.MethodPost, conversationsEndpoint, struct{}{}, &resp); err != nil {
		return nil, classify(entity.ErrBackend, fmt.Errorf("create conversation: %w", err))
	}

	conv := resp.Results.toEntity()
	ctxzap.Info(ctx, "conversation created", zap.String("conversation_id", conv.ID))
	return &conv, nil
}

func (c *Connector) ListConversations(ctx context.Context, limit, offset int) ([]entity.Conversation, error) {
	var resp envelope[[]conversationResult]
	err := c.doJSON(ctx, http.MethodGet, conversationsEndpoint, nil, &resp,
		pkghttp.WithQuery("limit", strconv.Itoa(limit)),
		pkghttp.WithQuery("offset", strconv.Itoa(offset)),
	)
	if err != nil {
		return nil, classify(entity.ErrBackend, fmt.Errorf("list conversations: %w", err))
	}

	convs := make([]entity.Conversation, 0, len(resp.Results))
	for _, r := range resp.Results {
		convs = append(convs, r.toEntity())
	}
	return convs, nil
}

func (c *Connector) AddMessage(ctx context.Context, conversationID, content string, role entity.Role) error {
	req := addMessageRequest{Content: content, Role: role}

	var resp envelope[messageResult]
	if err := c.doJSON(ctx, http.MethodPost, conversationPath(conversationID, "messages"), req, &resp); err != nil {
		return classify(entity.ErrBackend, fmt.Errorf("add message: %w", err))
	}
	return nil
}

// GetConversation returns the messages in the order the backend delivered them.
func (c *Connector) GetConversation(ctx context.Context, conversationID string) ([]entity.Message, error) {
	var resp envelope[[]messageResult]
	if err := c.doJSON(ctx, http.MethodGet, conversationPath(conversationID), nil, &resp); err != nil {
		if pkghttp.IsNotFound(err) {
			return nil, fmt.Errorf("%w: conversation %s", entity.ErrNotFound, conversationID)
		}
		return nil, classify(entity.ErrBackend, fmt.Errorf("get conversation: %w", err))
	}

	msgs := make([]entity.Message, 0, len(resp.Results))
	for _, r := range resp.Results {
		msgs = append(msgs, entity.Message{Content: r.Message.Content, Role: r.Message.Role})
	}
	return msgs, nil
}

func (c *Connector) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	var resp envelope[booleanResult]
	if err := c.doJSON(ctx, http.MethodDelete, conversationPath(conversationID), nil, &resp); err != nil {
		if pkghttp.IsNotFound(err) {
			return false, fmt.Errorf("%w: conversation %s", entity.ErrNotFound, conversationID)
		}
		return false, classify(entity.ErrBackend, fmt.Errorf("delete conversation: %w", err))
	}
	return resp.Results.Success, nil
}
