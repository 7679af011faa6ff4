package console

import (
	"context"
	"sync"

	"staff-console-go/internal/domain/avatars"
	"staff-console-go/internal/notify"
)

const (
	msgAvatarUploaded = "Profile image successfully uploaded."
	msgAvatarFailed   = "Oops! Something went wrong."
)

type Uploader interface {
	Upload(ctx context.Context, file *avatars.File) (string, error)
}

// AvatarSlot uploads a picked image as soon as it is attached, independently
// of form submission, and holds the resulting public URL until submit.
type AvatarSlot struct {
	uploader Uploader
	notify   notify.Sink

	mu        sync.Mutex
	url       string
	uploading bool
	fieldErr  string
}

func NewAvatarSlot(uploader Uploader, sink notify.Sink) *AvatarSlot {
	if sink == nil {
		sink = notify.Nop()
	}
	return &AvatarSlot{uploader: uploader, notify: sink}
}

// Attach uploads file. On failure the slot is emptied and the reason is kept
// as the avatar field error.
func (s *AvatarSlot) Attach(ctx context.Context, file *avatars.File) error {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.uploading = true
	s.fieldErr = ""
	s.mu.Unlock()

	url, err := s.uploader.Upload(ctx, file)

	s.mu.Lock()
	s.uploading = false
	if err != nil {
		s.url = ""
		if avatars.IsFieldError(err) {
			s.fieldErr = err.Error()
		} else {
			s.fieldErr = msgAvatarFailed
		}
		s.mu.Unlock()
		if !avatars.IsFieldError(err) {
			s.notify.Notify(ctx, notify.Event{Kind: notify.KindError, Entity: "avatars", Action: notify.ActionUploaded, Message: msgAvatarFailed})
		}
		return err
	}
	s.url = url
	s.mu.Unlock()

	s.notify.Notify(ctx, notify.Event{Kind: notify.KindSuccess, Entity: "avatars", Action: notify.ActionUploaded, Message: msgAvatarUploaded})
	return nil
}

func (s *AvatarSlot) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

func (s *AvatarSlot) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// FieldError is the message to show on the avatar field, if any.
func (s *AvatarSlot) FieldError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErr
}

func (s *AvatarSlot) seed(url string) {
	s.mu.Lock()
	s.url = url
	s.fieldErr = ""
	s.mu.Unlock()
}

func (s *AvatarSlot) reset() {
	s.seed("")
}
