package workflow

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LockTable serializes resource-keyed critical sections inside one process.
// Keys are acquired in ascending order so two approvals touching overlapping
// resource sets can never deadlock. Entries are reference counted and removed
// once no holder or waiter remains, so the table never accumulates keys for
// resources long out of review.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	sem *semaphore.Weighted
	// refs counts holders plus waiters. The entry is evicted at zero.
	refs int
}

// NewLockTable builds an empty lock table.
func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]*lockEntry)}
}

func (t *LockTable) ref(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.locks[key]
	if !ok {
		entry = &lockEntry{sem: semaphore.NewWeighted(1)}
		t.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (t *LockTable) unref(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(t.locks, key)
	}
}

// AcquireAll takes every key's lock in ascending order, waiting up to the
// context deadline. On success it returns a release function that frees the
// locks in reverse order. On failure every lock taken so far is released.
func (t *LockTable) AcquireAll(ctx context.Context, keys []string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)
	deduped := sorted[:0]
	for i, key := range sorted {
		if i > 0 && key == sorted[i-1] {
			continue
		}
		deduped = append(deduped, key)
	}

	// Hold a reference on every key before blocking so no entry is evicted
	// out from under a waiter.
	entries := make([]*lockEntry, len(deduped))
	for i, key := range deduped {
		entries[i] = t.ref(key)
	}
	unrefAll := func() {
		for _, key := range deduped {
			t.unref(key)
		}
	}

	for i, entry := range entries {
		if err := entry.sem.Acquire(ctx, 1); err != nil {
			for j := i - 1; j >= 0; j-- {
				entries[j].sem.Release(1)
			}
			unrefAll()
			return nil, err
		}
	}
	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].sem.Release(1)
		}
		unrefAll()
	}, nil
}
