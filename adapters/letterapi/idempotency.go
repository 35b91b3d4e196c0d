package letterapi

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-letters/letter"
)

// IdempotencyStore maps idempotency signatures to request IDs.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, requestID string, ttl time.Duration) error
}

// MemoryIdempotencyStore stores idempotency keys in memory.
type MemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]idempotencyEntry
	clock   func() time.Time
}

type idempotencyEntry struct {
	requestID string
	expiresAt time.Time
}

// NewMemoryIdempotencyStore creates an in-memory store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		clock:   time.Now,
	}
}

// Get returns the request ID for an idempotency signature.
func (s *MemoryIdempotencyStore) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	if s == nil {
		return "", false, letter.NewError(letter.KindInternal, "idempotency store is nil", nil)
	}
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.requestID, true, nil
}

// Set stores the request ID for an idempotency signature.
func (s *MemoryIdempotencyStore) Set(ctx context.Context, key, requestID string, ttl time.Duration) error {
	_ = ctx
	if s == nil {
		return letter.NewError(letter.KindInternal, "idempotency store is nil", nil)
	}
	if key == "" {
		return letter.NewError(letter.KindValidation, "idempotency key is required", nil)
	}
	if requestID == "" {
		return letter.NewError(letter.KindValidation, "request ID is required", nil)
	}
	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = idempotencyEntry{requestID: requestID, expiresAt: expires}
	s.mu.Unlock()
	return nil
}

func (s *MemoryIdempotencyStore) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// buildIdempotencyKey hashes the client key together with the submission
// fields so a reused key with a different payload maps to a new request.
func buildIdempotencyKey(key string, sub letter.Submission) string {
	payload := idempotencyPayload{
		Key:             key,
		StudentName:     sub.StudentName,
		CollegeName:     sub.CollegeName,
		Course:          sub.Course,
		DurationStart:   sub.DurationStart,
		DurationEnd:     sub.DurationEnd,
		ReferenceNumber: sub.ReferenceNumber,
		Email:           sub.Email,
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("letter:%x", sum[:])
}

type idempotencyPayload struct {
	Key             string `json:"key"`
	StudentName     string `json:"student_name"`
	CollegeName     string `json:"college_name"`
	Course          string `json:"course"`
	DurationStart   string `json:"duration_start"`
	DurationEnd     string `json:"duration_end"`
	ReferenceNumber string `json:"reference_number"`
	Email           string `json:"email,omitempty"`
}
