package entity

// Requests

type IngestDocumentRequest struct {
	FilePath string         `json:"file_path" validate:"required"`
	Metadata map[string]any `json:"metadata"`
}

type DeleteDocumentRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}

// PageRequest is shared by the list routes. Nil fields mean "not set by the caller".
type PageRequest struct {
	Limit  *int `json:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `json:"offset" validate:"omitempty,min=0"`
}

type QueryRequest struct {
	Query          string `json:"query" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

type ConversationRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
}

type AddMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Message        string `json:"message" validate:"required"`
	Role           Role   `json:"role" validate:"required,oneof=user assistant system"`
}

type ExportConversationRequest struct {
	ConversationID string       `json:"conversation_id" validate:"required"`
	Format         ResultFormat `json:"format" validate:"omitempty,oneof=markdown docx pdf"`
}

// Responses

type UploadResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId"`
	Message    string `json:"message,omitempty"`
	Filename   string `json:"filename,omitempty"`
}

type IngestResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId"`
	Message    string `json:"message,omitempty"`
}

type DeleteDocumentResponse struct {
	Success bool         `json:"success"`
	Status  DeleteStatus `json:"status"`
}

type ListDocumentsResponse struct {
	Documents    []Document `json:"documents"`
	TotalEntries int        `json:"total_entries"`
}

type QueryResponse struct {
	Success        bool   `json:"success"`
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type CreateConversationResponse struct {
	Success bool          `json:"success"`
	Data    *Conversation `json:"data"`
}

type ListConversationsResponse struct {
	Success       bool           `json:"success"`
	Conversations []Conversation `json:"conversations"`
}

type AddMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ConversationDetailsResponse struct {
	Success  bool      `json:"success"`
	Messages []Message `json:"messages"`
}

type DeleteConversationResponse struct {
	Success bool `json:"success"`
	Data    bool `json:"data"`
}
