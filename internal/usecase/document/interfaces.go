package document

import (
	"context"

	"github.com/futig/rag-relay/internal/entity"
)

type RagConnector interface {
	Ingest(ctx context.Context, req *entity.IngestRequest) (*entity.IngestResult, error)
	DeleteDocument(ctx context.Context, documentID string) entity.DeleteResult
	ListDocuments(ctx context.Context, limit, offset int) (*entity.DocumentPage, error)
}
