package letterhttp

import "github.com/goliatone/go-letters/adapters/letterapi"

// IdempotencyStore stores idempotency keys.
type IdempotencyStore = letterapi.IdempotencyStore

// MemoryIdempotencyStore stores idempotency keys in memory.
type MemoryIdempotencyStore = letterapi.MemoryIdempotencyStore

// NewMemoryIdempotencyStore creates an in-memory store.
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return letterapi.NewMemoryIdempotencyStore()
}
