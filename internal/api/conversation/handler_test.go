package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/futig/rag-relay/internal/pkg/validator"
	convUsecase "github.com/futig/rag-relay/internal/usecase/conversation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) Query(ctx context.Context, req *entity.QueryRequest) (*entity.QueryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QueryResult), args.Error(1)
}

func (m *mockUsecase) Create(ctx context.Context) (*entity.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Conversation), args.Error(1)
}

func (m *mockUsecase) List(ctx context.Context, req *entity.PageRequest) ([]entity.Conversation, error) {
	args := m.Called(ctx, req)
	convs, _ := args.Get(0).([]entity.Conversation)
	return convs, args.Error(1)
}

func (m *mockUsecase) AddMessage(ctx context.Context, req *entity.AddMessageRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockUsecase) Details(ctx context.Context, conversationID string) ([]entity.Message, error) {
	args := m.Called(ctx, conversationID)
	msgs, _ := args.Get(0).([]entity.Message)
	return msgs, args.Error(1)
}

func (m *mockUsecase) Delete(ctx context.Context, conversationID string) (bool, error) {
	args := m.Called(ctx, conversationID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUsecase) Export(ctx context.Context, req *entity.ExportConversationRequest) (*convUsecase.Export, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*convUsecase.Export), args.Error(1)
}

func setupHandler(uc *mockUsecase) *Handler {
	return NewHandler(uc, validator.NewValidator(config.FileUploadConfig{}))
}

func serve(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHandler_Query(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Query", mock.Anything, &entity.QueryRequest{Query: "How to use X?", ConversationID: "c1"}).
			Return(&entity.QueryResult{Response: "Like this.", ConversationID: "c1"}, nil)

		rec := serve(setupHandler(uc).Query, `{"query":"How to use X?","conversation_id":"c1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Like this.", body["response"])
		assert.Equal(t, "c1", body["conversation_id"])
	})

	t.Run("Missing query", func(t *testing.T) {
		uc := &mockUsecase{}
		rec := serve(setupHandler(uc).Query, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "query")
		uc.AssertNotCalled(t, "Query")
	})

	t.Run("Backend unavailable", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Query", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: %w", entity.ErrQuery, entity.ErrBackendUnavailable))

		rec := serve(setupHandler(uc).Query, `{"query":"hi"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["error"])
		assert.NotContains(t, body, "success")
	})
}

func TestHandler_Conversations(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Create", mock.Anything).Return(&entity.Conversation{ID: "c1"}, nil)

		rec := serve(setupHandler(uc).Create, ``)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "c1", decodeBody(t, rec)["data"].(map[string]any)["id"])
	})

	t.Run("List empty", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("List", mock.Anything, mock.Anything).Return(nil, nil)

		rec := serve(setupHandler(uc).List, ``)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decodeBody(t, rec)["conversations"])
	})

	t.Run("Add message", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("AddMessage", mock.Anything, &entity.AddMessageRequest{ConversationID: "c1", Message: "hi", Role: entity.RoleUser}).
			Return(nil)

		rec := serve(setupHandler(uc).AddMessage, `{"conversation_id":"c1","message":"hi","role":"user"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, messageAdded, decodeBody(t, rec)["message"])
	})

	t.Run("Add message with unknown role", func(t *testing.T) {
		uc := &mockUsecase{}

		rec := serve(setupHandler(uc).AddMessage, `{"conversation_id":"c1","message":"hi","role":"robot"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "role")
		uc.AssertNotCalled(t, "AddMessage", mock.Anything, mock.Anything)
	})

	t.Run("Details", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Details", mock.Anything, "c1").
			Return([]entity.Message{{Content: "hi", Role: entity.RoleUser}}, nil)

		rec := serve(setupHandler(uc).Details, `{"conversation_id":"c1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{map[string]any{"content": "hi", "role": "user"}}, decodeBody(t, rec)["messages"])
	})

	t.Run("Details of unknown conversation", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Details", mock.Anything, "nope").Return(nil, fmt.Errorf("conversation nope: %w", entity.ErrNotFound))

		rec := serve(setupHandler(uc).Details, `{"conversation_id":"nope"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Delete", mock.Anything, "c1").Return(true, nil)

		rec := serve(setupHandler(uc).Delete, `{"conversation_id":"c1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["data"])
	})
}

func TestHandler_Export(t *testing.T) {
	t.Run("Attachment", func(t *testing.T) {
		uc := &mockUsecase{}
		uc.On("Export", mock.Anything, &entity.ExportConversationRequest{ConversationID: "c1", Format: entity.FormatPDF}).
			Return(&convUsecase.Export{Filename: "conversation-c1.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil)

		rec := serve(setupHandler(uc).Export, `{"conversation_id":"c1","format":"pdf"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "conversation-c1.pdf")
		assert.Equal(t, "%PDF", rec.Body.String())
	})

	t.Run("Unknown format", func(t *testing.T) {
		uc := &mockUsecase{}
		rec := serve(setupHandler(uc).Export, `{"conversation_id":"c1","format":"odt"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "Export")
	})
}
