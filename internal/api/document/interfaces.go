package document

import (
	"context"
	"mime/multipart"

	"github.com/futig/rag-relay/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, fh *multipart.FileHeader, mimeType string, metadata map[string]any) (*entity.UploadedFile, error)
	Ingest(ctx context.Context, req *entity.IngestDocumentRequest) (*entity.IngestResult, error)
	Delete(ctx context.Context, documentID string) entity.DeleteResult
	List(ctx context.Context, req *entity.PageRequest) (*entity.DocumentPage, error)
}
