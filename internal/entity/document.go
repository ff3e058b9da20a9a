package entity

// Document is a backend-owned document as returned by the RAG service.
type Document struct {
	ID               string         `json:"id"`
	Title            string         `json:"title,omitempty"`
	DocumentType     string         `json:"document_type,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	SizeInBytes      int64          `json:"size_in_bytes,omitempty"`
	IngestionStatus  string         `json:"ingestion_status,omitempty"`
	ExtractionStatus string         `json:"extraction_status,omitempty"`
	CreatedAt        string         `json:"created_at,omitempty"`
	UpdatedAt        string         `json:"updated_at,omitempty"`
}

// DocumentPage is one page of the backend document listing.
type DocumentPage struct {
	Documents    []Document
	TotalEntries int
}

// IngestRequest describes a local file to register and extract in the backend.
type IngestRequest struct {
	FilePath string
	// Filename overrides the name sent to the backend; defaults to the base of FilePath.
	Filename string
	Metadata map[string]any
}

// IngestResult is returned once both ingestion steps succeeded.
type IngestResult struct {
	DocumentID string `json:"documentId"`
	Message    string `json:"message,omitempty"`
	TaskID     string `json:"task_id,omitempty"`
}

// UploadedFile is the local record of an uploaded document.
type UploadedFile struct {
	DocumentID string
	LocalPath  string
	Filename   string
	Size       int64
	MimeType   string
	Message    string
}

// DeleteStatus distinguishes the outcomes of a backend document deletion.
type DeleteStatus int

const (
	DeleteStatusDeleted DeleteStatus = iota
	DeleteStatusNotFound
	DeleteStatusBackendUnavailable
	DeleteStatusFailed
)

func (s DeleteStatus) String() string {
	switch s {
	case DeleteStatusDeleted:
		return "deleted"
	case DeleteStatusNotFound:
		return "not_found"
	case DeleteStatusBackendUnavailable:
		return "backend_unavailable"
	default:
		return "failed"
	}
}

// MarshalText renders the status as its string form in JSON payloads.
func (s DeleteStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DocumentGone reports whether the backend no longer holds the document,
// meaning local artifacts for it can be released.
func (s DeleteStatus) DocumentGone() bool {
	return s == DeleteStatusDeleted || s == DeleteStatusNotFound
}

// DeleteResult carries the outcome of a deletion. Cause is kept for logging only.
type DeleteResult struct {
	DocumentID string
	Status     DeleteStatus
	Cause      error
}
