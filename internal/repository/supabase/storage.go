package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	storage "github.com/supabase-community/storage-go"
	"staff-console-go/internal/config"
)

const avatarCacheControl = "3600"

var ErrStorageNotConfigured = errors.New("supabase storage not configured")

// StorageBucket uploads objects into one Supabase storage bucket.
type StorageBucket struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration

	// storage.Client keeps per-upload options in shared headers.
	mu sync.Mutex
}

func NewStorageBucket(cfg config.SupabaseConfig, bucket string) *StorageBucket {
	timeout := cfg.StorageTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	apiKey := cfg.ServiceKey
	if apiKey == "" {
		apiKey = cfg.PublishableKey
	}

	s := &StorageBucket{bucket: bucket, timeout: timeout}
	if endpoint := cfg.StorageURL(); endpoint != "" && apiKey != "" {
		s.client = storage.NewClient(endpoint, apiKey, map[string]string{"apikey": apiKey})
	}
	return s
}

// Upload stores data under name. An existing object with the same name is
// an error; objects are never overwritten.
func (s *StorageBucket) Upload(ctx context.Context, name, contentType string, data []byte) error {
	if s.client == nil {
		return ErrStorageNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		upsert := false
		cacheControl := avatarCacheControl
		_, err := s.client.UploadFile(s.bucket, name, bytes.NewReader(data), storage.FileOptions{
			ContentType:  &contentType,
			CacheControl: &cacheControl,
			Upsert:       &upsert,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("supabase: upload %s/%s: %w", s.bucket, name, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("supabase: upload %s/%s: %w", s.bucket, name, ctx.Err())
	}
}

func (s *StorageBucket) PublicURL(name string) string {
	if s.client == nil {
		return ""
	}
	return s.client.GetPublicUrl(s.bucket, name).SignedURL
}
