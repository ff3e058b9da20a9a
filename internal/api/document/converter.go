package document

import "github.com/futig/rag-relay/internal/entity"

func toUploadResponse(f *entity.UploadedFile) *entity.UploadResponse {
	msg := f.Message
	if msg == "" {
		msg = "Document uploaded and ingested"
	}
	return &entity.UploadResponse{
		Success:    true,
		DocumentID: f.DocumentID,
		Message:    msg,
		Filename:   f.Filename,
	}
}

func toIngestResponse(res *entity.IngestResult) *entity.IngestResponse {
	return &entity.IngestResponse{
		Success:    true,
		DocumentID: res.DocumentID,
		Message:    res.Message,
	}
}

func toDeleteResponse(res entity.DeleteResult) *entity.DeleteDocumentResponse {
	return &entity.DeleteDocumentResponse{
		Success: res.Status.DocumentGone(),
		Status:  res.Status,
	}
}

func toListResponse(page *entity.DocumentPage) *entity.ListDocumentsResponse {
	docs := page.Documents
	if docs == nil {
		docs = []entity.Document{}
	}
	return &entity.ListDocumentsResponse{
		Documents:    docs,
		TotalEntries: page.TotalEntries,
	}
}
