package avatars

import "context"

const (
	// MaxFileSize is the largest accepted image, in bytes.
	MaxFileSize = 1000000
	Field       = "avatar"
)

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// File is an image picked by the operator.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Storage is the object store holding uploaded avatars.
type Storage interface {
	Upload(ctx context.Context, name, contentType string, data []byte) error
	PublicURL(name string) string
}
