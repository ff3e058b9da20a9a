package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/futig/rag-relay/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transcript = Transcript{
	ConversationID: "c-1",
	Messages: []entity.Message{
		{Content: "hi", Role: entity.RoleUser},
		{Content: "Hello! How can I help?", Role: entity.RoleAssistant},
	},
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		format entity.ResultFormat
		ext    string
	}{
		{entity.FormatMarkdown, ".md"},
		{"", ".md"},
		{entity.FormatDOCX, ".docx"},
		{entity.FormatPDF, ".pdf"},
	}
	for _, tt := range tests {
		fm, err := f.Create(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.ext, fm.FileExtension())
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(transcript)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# Conversation c-1")
	assert.Contains(t, text, "**User:**\n\nhi")
	assert.Less(t, bytes.Index(out, []byte("User")), bytes.Index(out, []byte("Assistant")))
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(transcript)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestDOCXFormatter(t *testing.T) {
	out, err := NewDOCXFormatter().Format(transcript)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "license") {
		t.Skip("unioffice license key not configured")
	}
	require.NoError(t, err)
	// docx is a zip container
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}
