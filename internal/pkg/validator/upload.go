package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/futig/rag-relay/internal/config"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/gabriel-vasile/mimetype"
)

// containerTypes lists extensions whose content must sniff as the given MIME type or one of its children.
var containerTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/zip",
	".xlsx": "application/zip",
	".pptx": "application/zip",
	".odt":  "application/zip",
	".epub": "application/zip",
}

var executableTypes = []string{
	"application/x-executable",
	"application/x-elf",
	"application/x-sharedlib",
	"application/x-mach-binary",
	"application/vnd.microsoft.portable-executable",
	"application/x-msdownload",
}

// Validator validates requests and file uploads
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload checks extension and size, then sniffs the content.
// It returns the detected MIME type.
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if len(v.cfg.AllowedExtensions) > 0 && !slices.Contains(v.cfg.AllowedExtensions, ext) {
		return "", fmt.Errorf("%w: %q (allowed: %s)", entity.ErrInvalidExtension, ext, strings.Join(v.cfg.AllowedExtensions, ", "))
	}

	if fh.Size == 0 {
		return "", fmt.Errorf("%w: file '%s' is empty", entity.ErrInvalidFile, fh.Filename)
	}
	if fh.Size > v.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, fh.Filename, fh.Size, v.cfg.MaxFileSize)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open upload: %v", entity.ErrInvalidFile, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: detect content type: %v", entity.ErrInvalidFile, err)
	}

	if err := checkContent(ext, mtype); err != nil {
		return "", fmt.Errorf("%w: '%s' %v", entity.ErrInvalidFile, fh.Filename, err)
	}

	return mtype.String(), nil
}

func checkContent(ext string, mtype *mimetype.MIME) error {
	for m := mtype; m != nil; m = m.Parent() {
		if slices.Contains(executableTypes, m.String()) {
			return fmt.Errorf("looks like an executable (%s)", mtype.String())
		}
	}

	expected, ok := containerTypes[ext]
	if !ok {
		return nil
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(expected) {
			return nil
		}
	}
	return fmt.Errorf("content is %s, expected %s for %s", mtype.String(), expected, ext)
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = strings.ReplaceAll(filename, " ", "_")
	filename = unsafeChars.ReplaceAllString(filename, "")
	filename = strings.TrimLeft(filename, ".")
	if filename == "" {
		return "upload"
	}
	return filename
}
