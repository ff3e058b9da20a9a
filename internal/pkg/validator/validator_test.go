package validator

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewValidator(config.FileUploadConfig{
		MaxFileSize:       1024,
		AllowedExtensions: []string{".txt", ".md", ".pdf", ".docx"},
	})
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestValidateRequest(t *testing.T) {
	v := newTestValidator()

	t.Run("Success", func(t *testing.T) {
		err := v.ValidateRequest(&entity.QueryRequest{Query: "How to use X?"})
		assert.NoError(t, err)
	})

	t.Run("Missing field uses json name", func(t *testing.T) {
		err := v.ValidateRequest(&entity.AddMessageRequest{Message: "hi", Role: entity.RoleUser})
		require.ErrorIs(t, err, entity.ErrMissingField)
		assert.Contains(t, err.Error(), "conversation_id")
	})

	t.Run("Invalid role", func(t *testing.T) {
		err := v.ValidateRequest(&entity.AddMessageRequest{ConversationID: "c1", Message: "hi", Role: "robot"})
		require.ErrorIs(t, err, entity.ErrInvalidParameter)
		assert.Contains(t, err.Error(), "role")
	})

	t.Run("Invalid page", func(t *testing.T) {
		limit := 0
		err := v.ValidateRequest(&entity.PageRequest{Limit: &limit})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("Empty page is allowed", func(t *testing.T) {
		assert.NoError(t, v.ValidateRequest(&entity.PageRequest{}))
	})
}

func TestValidateUpload(t *testing.T) {
	v := newTestValidator()

	t.Run("Success", func(t *testing.T) {
		mime, err := v.ValidateUpload(fileHeader(t, "notes.txt", []byte("hello world")))
		require.NoError(t, err)
		assert.Contains(t, mime, "text/plain")
	})

	t.Run("Disallowed extension", func(t *testing.T) {
		_, err := v.ValidateUpload(fileHeader(t, "run.sh", []byte("echo hi")))
		assert.ErrorIs(t, err, entity.ErrInvalidExtension)
	})

	t.Run("Too large", func(t *testing.T) {
		_, err := v.ValidateUpload(fileHeader(t, "big.txt", bytes.Repeat([]byte("a"), 2048)))
		assert.ErrorIs(t, err, entity.ErrFileTooLarge)
	})

	t.Run("Empty file", func(t *testing.T) {
		_, err := v.ValidateUpload(fileHeader(t, "empty.txt", nil))
		assert.ErrorIs(t, err, entity.ErrInvalidFile)
	})

	t.Run("Content does not match extension", func(t *testing.T) {
		_, err := v.ValidateUpload(fileHeader(t, "fake.pdf", []byte("just some text")))
		assert.ErrorIs(t, err, entity.ErrInvalidFile)
	})

	t.Run("Pdf header accepted", func(t *testing.T) {
		mime, err := v.ValidateUpload(fileHeader(t, "doc.pdf", []byte("%PDF-1.4\n%âãÏÓ\n")))
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", mime)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := v.ValidateUpload(nil)
		assert.ErrorIs(t, err, entity.ErrMissingField)
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my report (final).pdf", "my_report_final.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\doc.txt`, "doc.txt"},
		{".hidden", "hidden"},
		{"", "upload"},
		{"отчёт.docx", "отчёт.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
