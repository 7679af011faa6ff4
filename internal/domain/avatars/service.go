package avatars

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	storage Storage
	newName func() string
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage, newName: uuid.NewString}
}

// Upload validates file, stores it under a fresh random name and returns
// its public URL. Existing objects are never overwritten.
func (s *Service) Upload(ctx context.Context, file *File) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrNoFile
	}
	if len(file.Data) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	contentType := ContentType(file)
	if _, ok := allowedTypes[contentType]; !ok {
		return "", ErrUnsupportedFormat
	}

	name := s.newName() + "." + extension(file.Name, contentType)
	if err := s.storage.Upload(ctx, name, contentType, file.Data); err != nil {
		return "", fmt.Errorf("avatars: upload %s: %w", name, err)
	}
	return s.storage.PublicURL(name), nil
}

// ContentType is the declared media type of file, sniffed from its bytes
// when none was declared.
func ContentType(file *File) string {
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(file.Data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

func extension(name, contentType string) string {
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		return strings.ToLower(ext)
	}
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
