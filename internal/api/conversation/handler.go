package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/logger"
	"github.com/futig/rag-relay/internal/pkg/response"
	"github.com/futig/rag-relay/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const messageAdded = "Message added to conversation"

type Handler struct {
	usecase   ConversationUsecase
	validator *validator.Validator
}

func NewHandler(usecase ConversationUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// Query handles POST /query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Query")

	var req entity.QueryRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	res, err := h.usecase.Query(ctx, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, &entity.QueryResponse{
		Success:        true,
		Response:       res.Response,
		ConversationID: res.ConversationID,
	})
}

// Create handles POST /conversation/create
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateConversation")

	conv, err := h.usecase.Create(ctx)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, &entity.CreateConversationResponse{Success: true, Data: conv})
}

// List handles POST /conversation/list
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListConversations")

	var req entity.PageRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	convs, err := h.usecase.List(ctx, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	if convs == nil {
		convs = []entity.Conversation{}
	}

	response.Success(w, &entity.ListConversationsResponse{Success: true, Conversations: convs})
}

// AddMessage handles POST /conversation/message
func (h *Handler) AddMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AddMessage")

	var req entity.AddMessageRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	if err := h.usecase.AddMessage(ctx, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, &entity.AddMessageResponse{Success: true, Message: messageAdded})
}

// Details handles POST /conversation/details
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ConversationDetails")

	var req entity.ConversationRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	msgs, err := h.usecase.Details(ctx, req.ConversationID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	if msgs == nil {
		msgs = []entity.Message{}
	}

	response.Success(w, &entity.ConversationDetailsResponse{Success: true, Messages: msgs})
}

// Delete handles POST /conversation/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteConversation")

	var req entity.ConversationRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	ok, err := h.usecase.Delete(ctx, req.ConversationID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, &entity.DeleteConversationResponse{Success: true, Data: ok})
}

// Export handles POST /conversation/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportConversation")

	var req entity.ExportConversationRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	exp, err := h.usecase.Export(ctx, &req)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "conversation exported", zap.String("filename", exp.Filename), zap.Int("bytes", len(exp.Data)))
	response.Attachment(w, exp.Filename, exp.ContentType, exp.Data)
}

// decode reads an optional JSON body into dst and validates it. An empty body decodes as {}.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body: %v", entity.ErrInvalidFormat, err)
	}
	return h.validator.ValidateRequest(dst)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, "request failed", zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}
	response.FromError(w, err)
}
