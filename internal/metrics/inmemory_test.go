package metrics

import (
	"sync"
	"testing"
)

func TestInMemoryRecorder_Counts(t *testing.T) {
	rec := NewInMemory()

	rec.IncTokenIssued()
	rec.IncAuthSuccess()
	rec.IncAuthSuccess()
	rec.IncAuthFailure()
	rec.IncItemCreated()
	rec.IncItemUpdated()
	rec.IncItemDeleted()

	snap := rec.Snapshot()
	if snap.TokensIssued != 1 {
		t.Errorf("TokensIssued = %d, want 1", snap.TokensIssued)
	}
	if snap.AuthSuccess != 2 {
		t.Errorf("AuthSuccess = %d, want 2", snap.AuthSuccess)
	}
	if snap.AuthFailure != 1 {
		t.Errorf("AuthFailure = %d, want 1", snap.AuthFailure)
	}
	if snap.ItemsCreated != 1 || snap.ItemsUpdated != 1 || snap.ItemsDeleted != 1 {
		t.Errorf("unexpected item counters: %+v", snap)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	rec := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.IncItemCreated()
		}()
	}
	wg.Wait()

	if got := rec.Snapshot().ItemsCreated; got != 50 {
		t.Errorf("ItemsCreated = %d, want 50", got)
	}
}
