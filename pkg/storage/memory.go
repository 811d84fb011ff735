package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/JaimeStill/verum/pkg/lifecycle"
)

type object struct {
	data        []byte
	contentType string
}

// Memory is a process-local System used for local runs and tests.
// Stored bytes are copied on upload and on download.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
	logger  *slog.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory(logger *slog.Logger) *Memory {
	return &Memory{
		objects: make(map[string]object),
		logger:  logger,
	}
}

func (m *Memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("in-memory storage ready")
	return nil
}

func (m *Memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return ErrExists
	}
	m.objects[key] = object{data: data, contentType: contentType}
	return nil
}

func (m *Memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	return io.NopCloser(bytes.NewReader(slices.Clone(obj.data))), nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// ContentType returns the content type recorded for key.
func (m *Memory) ContentType(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.contentType, ok
}
