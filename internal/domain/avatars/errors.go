package avatars

import "errors"

// Upload rejections carry the message shown next to the avatar field.
var (
	ErrNoFile            = errors.New("You must select an image to upload.")
	ErrFileTooLarge      = errors.New("Max file size is 1MB.")
	ErrUnsupportedFormat = errors.New("Unsupported file format")
)

// IsFieldError reports whether err is a rejection that belongs on the
// avatar field rather than a storage failure.
func IsFieldError(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrFileTooLarge) || errors.Is(err, ErrUnsupportedFormat)
}
