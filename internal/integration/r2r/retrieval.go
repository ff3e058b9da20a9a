package r2r

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Query asks the RAG agent and returns the first message of its reply.
func (c *Connector) Query(ctx context.Context, query, conversationID string) (*entity.QueryResult, error) {
	req := agentRequest{
		Message:        agentMessage{Role: entity.RoleUser, Content: query},
		ConversationID: conversationID,
		RagTools:       ragTools,
		Mode:           "rag",
	}

	ctxzap.Debug(ctx, "querying R2R agent", zap.Int("query_length", len(query)))

	var resp envelope[agentResult]
	if err := c.doJSON(ctx, http.MethodPost, agentEndpoint, req, &resp); err != nil {
		ctxzap.Error(ctx, "agent query failed", zap.Error(err))
		return nil, classify(entity.ErrQuery, err)
	}

	if len(resp.Results.Messages) == 0 {
		return nil, classify(entity.ErrQuery, errors.New("agent returned no messages"))
	}

	result := &entity.QueryResult{
		Response:       resp.Results.Messages[0].Content,
		ConversationID: resp.Results.ConversationID,
	}
	if result.ConversationID == "" {
		result.ConversationID = conversationID
	}

	ctxzap.Debug(ctx, "agent answered", zap.Int("response_length", len(result.Response)))
	return result, nil
}

