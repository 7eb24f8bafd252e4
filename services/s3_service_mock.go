package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockArchive is an in-memory ReportArchive for tests and local runs
type MockArchive struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockArchive creates an empty mock archive
func NewMockArchive() *MockArchive {
	return &MockArchive{
		files: make(map[string][]byte),
	}
}

// Upload stores a copy of body under key
func (m *MockArchive) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	content := make([]byte, len(body))
	copy(content, body)

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
	return nil
}

// PresignedURL returns a fake link for an uploaded key
func (m *MockArchive) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, exists := m.files[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock archive: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true&expires=%d", key, int(ttl.Seconds())), nil
}

// File returns the stored content for key (for testing assertions)
func (m *MockArchive) File(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[key]
	return content, ok
}

// Keys lists every stored key
func (m *MockArchive) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.files))
	for k := range m.files {
		keys = append(keys, k)
	}
	return keys
}
