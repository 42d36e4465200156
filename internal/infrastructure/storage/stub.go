package storage

import (
	"context"
	"strings"
	"time"

	catalogapp "github.com/dripnest/storefront/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*StubImageStorage)(nil)

// StubImageStorage hands out placeholder URLs when object storage is disabled.
// Nothing is uploaded; it keeps the admin image flow usable in development.
type StubImageStorage struct {
	BaseURL string
}

// NewStubImageStorage creates a stub rooted at https://storage.example.com
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{BaseURL: "https://storage.example.com"}
}

// GenerateUploadURL returns a fake upload URL
func (s *StubImageStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339), expiresAt, nil
}

// PublicURL returns the fake public URL of key
func (s *StubImageStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

// DeleteObject is a no-op
func (s *StubImageStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	return nil
}

// KeyFromURL returns the key of a URL issued by PublicURL
func (s *StubImageStorage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.BaseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	return key, key != ""
}
