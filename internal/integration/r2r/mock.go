package r2r

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type mockConversation struct {
	info     entity.Conversation
	messages []entity.Message
}

// MockConnector is an in-memory stand-in for the R2R backend, used for local UI work and tests.
type MockConnector struct {
	logger *zap.Logger

	mu            sync.RWMutex
	documents     []entity.Document
	conversations []*mockConversation
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Health(ctx context.Context) error {
	return nil
}

func (m *MockConnector) Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error) {
	info, err := os.Stat(req.FilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", entity.ErrFileSystem, req.FilePath, err)
	}

	title := req.Filename
	if title == "" {
		title = filepath.Base(req.FilePath)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	doc := entity.Document{
		ID:               uuid.NewString(),
		Title:            title,
		DocumentType:     filepath.Ext(title),
		Metadata:         req.Metadata,
		SizeInBytes:      info.Size(),
		IngestionStatus:  "success",
		ExtractionStatus: "success",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	m.mu.Lock()
	m.documents = append(m.documents, doc)
	m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] document ingested", zap.String("document_id", doc.ID), zap.String("title", title))

	return &entity.IngestResult{
		DocumentID: doc.ID,
		Message:    "Document created and extracted successfully.",
		TaskID:     uuid.NewString(),
	}, nil
}

func (m *MockConnector) DeleteDocument(ctx context.Context, documentID string) entity.DeleteResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, doc := range m.documents {
		if doc.ID == documentID {
			m.documents = append(m.documents[:i], m.documents[i+1:]...)
			ctxzap.Info(ctx, "[MOCK] document deleted", zap.String("document_id", documentID))
			return entity.DeleteResult{DocumentID: documentID, Status: entity.DeleteStatusDeleted}
		}
	}

	return entity.DeleteResult{
		DocumentID: documentID,
		Status:     entity.DeleteStatusNotFound,
		Cause:      fmt.Errorf("%w: document %s", entity.ErrNotFound, documentID),
	}
}

func (m *MockConnector) ListDocuments(ctx context.Context, limit, offset int) (*entity.DocumentPage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return &entity.DocumentPage{
		Documents:    window(m.documents, limit, offset),
		TotalEntries: len(m.documents),
	}, nil
}

func (m *MockConnector) Query(ctx context.Context, query, conversationID string) (*entity.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var conv *mockConversation
	if conversationID == "" {
		conv = m.newConversationLocked()
	} else if conv = m.findLocked(conversationID); conv == nil {
		return nil, fmt.Errorf("%w: %w: conversation %s", entity.ErrQuery, entity.ErrNotFound, conversationID)
	}

	answer := fmt.Sprintf("[mock] %d document(s) indexed. You asked: %s", len(m.documents), query)
	conv.messages = append(conv.messages,
		entity.Message{Content: query, Role: entity.RoleUser},
		entity.Message{Content: answer, Role: entity.RoleAssistant},
	)
	conv.info.MessageCount = len(conv.messages)

	ctxzap.Info(ctx, "[MOCK] query answered", zap.String("conversation_id", conv.info.ID))

	return &entity.QueryResult{Response: answer, ConversationID: conv.info.ID}, nil
}

func (m *MockConnector) CreateConversation(ctx context.Context) (*entity.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := m.newConversationLocked().info
	return &info, nil
}

func (m *MockConnector) ListConversations(ctx context.Context, limit, offset int) ([]entity.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]entity.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		all = append(all, c.info)
	}
	return window(all, limit, offset), nil
}

func (m *MockConnector) AddMessage(ctx context.Context, conversationID, content string, role entity.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.findLocked(conversationID)
	if conv == nil {
		return fmt.Errorf("%w: conversation %s", entity.ErrNotFound, conversationID)
	}
	conv.messages = append(conv.messages, entity.Message{Content: content, Role: role})
	conv.info.MessageCount = len(conv.messages)
	return nil
}

func (m *MockConnector) GetConversation(ctx context.Context, conversationID string) ([]entity.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conv := m.findLocked(conversationID)
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", entity.ErrNotFound, conversationID)
	}
	return append([]entity.Message(nil), conv.messages...), nil
}

func (m *MockConnector) DeleteConversation(ctx context.Context, conversationID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.conversations {
		if c.info.ID == conversationID {
			m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: conversation %s", entity.ErrNotFound, conversationID)
}

func (m *MockConnector) newConversationLocked() *mockConversation {
	conv := &mockConversation{
		info: entity.Conversation{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
	m.conversations = append(m.conversations, conv)
	return conv
}

func (m *MockConnector) findLocked(id string) *mockConversation {
	for _, c := range m.conversations {
		if c.info.ID == id {
			return c
		}
	}
	return nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T(nil), items[offset:end]...)
}
