package letter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps requests in memory (test/dev only). Records are replaced
// whole under the lock, never mutated in place.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Request
}

// NewMemoryStore creates an in-memory request store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Request)}
}

// Create stores a new record. IDs are never reused.
func (s *MemoryStore) Create(ctx context.Context, record Request) error {
	_ = ctx
	if record.ID == "" {
		return NewError(KindValidation, "request id is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok {
		return NewError(KindValidation, fmt.Sprintf("request %q already exists", record.ID), nil)
	}
	s.records[record.ID] = record
	return nil
}

// Get returns a record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Request, error) {
	_ = ctx
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return Request{}, NewError(KindNotFound, fmt.Sprintf("request %q not found", id), nil)
	}
	return record, nil
}

// List returns records matching a filter, newest first.
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]Request, error) {
	_ = ctx
	result := []Request{}

	s.mu.RLock()
	for _, record := range s.records {
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if !filter.Since.IsZero() && record.CreatedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && record.CreatedAt.After(filter.Until) {
			continue
		}
		result = append(result, record)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update replaces an existing record. Last writer wins.
func (s *MemoryStore) Update(ctx context.Context, record Request) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return NewError(KindNotFound, fmt.Sprintf("request %q not found", record.ID), nil)
	}
	s.records[record.ID] = record
	return nil
}

// MemoryArtifactStore stores artifacts in memory (test/dev only).
type MemoryArtifactStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	meta ArtifactMeta
}

// NewMemoryArtifactStore creates an in-memory artifact store.
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{objects: make(map[string]memoryObject)}
}

// Put stores an artifact.
func (s *MemoryArtifactStore) Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if key == "" {
		return ArtifactRef{}, NewError(KindValidation, "artifact key is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, meta: meta}
	s.mu.Unlock()

	return ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact.
func (s *MemoryArtifactStore) Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error) {
	_ = ctx
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ArtifactMeta{}, NewError(KindNotFound, fmt.Sprintf("artifact %q not found", key), nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

// Delete removes an artifact.
func (s *MemoryArtifactStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// SignedURL returns a static error for the memory store.
func (s *MemoryArtifactStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	_ = ctx
	_ = key
	_ = ttl
	return "", NewError(KindNotImpl, "signed URLs not supported by memory store", nil)
}
