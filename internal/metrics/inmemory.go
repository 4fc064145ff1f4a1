package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	TokensIssued uint64
	AuthSuccess  uint64
	AuthFailure  uint64
	ItemsCreated uint64
	ItemsUpdated uint64
	ItemsDeleted uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	tokensIssued uint64
	authSuccess  uint64
	authFailure  uint64
	itemsCreated uint64
	itemsUpdated uint64
	itemsDeleted uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		TokensIssued: atomic.LoadUint64(&m.tokensIssued),
		AuthSuccess:  atomic.LoadUint64(&m.authSuccess),
		AuthFailure:  atomic.LoadUint64(&m.authFailure),
		ItemsCreated: atomic.LoadUint64(&m.itemsCreated),
		ItemsUpdated: atomic.LoadUint64(&m.itemsUpdated),
		ItemsDeleted: atomic.LoadUint64(&m.itemsDeleted),
	}
}

// IncTokenIssued increments the issued token counter.
func (m *InMemoryRecorder) IncTokenIssued() {
	atomic.AddUint64(&m.tokensIssued, 1)
}

// IncAuthSuccess increments the successful authentication counter.
func (m *InMemoryRecorder) IncAuthSuccess() {
	atomic.AddUint64(&m.authSuccess, 1)
}

// IncAuthFailure increments the failed authentication counter.
func (m *InMemoryRecorder) IncAuthFailure() {
	atomic.AddUint64(&m.authFailure, 1)
}

// IncItemCreated increments the item created counter.
func (m *InMemoryRecorder) IncItemCreated() {
	atomic.AddUint64(&m.itemsCreated, 1)
}

// IncItemUpdated increments the item updated counter.
func (m *InMemoryRecorder) IncItemUpdated() {
	atomic.AddUint64(&m.itemsUpdated, 1)
}

// IncItemDeleted increments the item deleted counter.
func (m *InMemoryRecorder) IncItemDeleted() {
	atomic.AddUint64(&m.itemsDeleted, 1)
}
