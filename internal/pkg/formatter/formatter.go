package formatter

import (
	"fmt"

	"github.com/futig/rag-relay/internal/entity"
)

const defaultTitle = "Conversation"

// Transcript is an ordered conversation ready for export.
type Transcript struct {
	ConversationID string
	Title          string
	Messages       []entity.Message
}

func (t Transcript) title() string {
	if t.Title != "" {
		return t.Title
	}
	if t.ConversationID != "" {
		return fmt.Sprintf("%s %s", defaultTitle, t.ConversationID)
	}
	return defaultTitle
}

type Formatter interface {
	Format(t Transcript) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown, "":
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

func speaker(role entity.Role) string {
	switch role {
	case entity.RoleUser:
		return "User"
	case entity.RoleAssistant:
		return "Assistant"
	case entity.RoleSystem:
		return "System"
	default:
		return string(role)
	}
}
