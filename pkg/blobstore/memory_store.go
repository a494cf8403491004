package blobstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a minimal in-memory Store implementation intended for
// tests and examples. It uses Ref.Identifier() as its deterministic key
// and makes no persistence assumptions beyond that.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	entries map[string]any
	meta    Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (map[string]any, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return cloneEntries(record.entries), record.meta, true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, entries map[string]any, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.records[key]; ok {
		if err := checkETag(meta.ETag, record.meta.ETag); err != nil {
			return record.meta, err
		}
	}
	saved := stampMeta(meta)
	s.records[key] = memoryRecord{entries: cloneEntries(entries), meta: saved}
	return saved, nil
}

func stampMeta(meta Meta) Meta {
	out := meta
	out.SnapshotID = uuid.NewString()
	out.ETag = out.SnapshotID
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now().UTC()
	}
	return out
}

func cloneEntries(entries map[string]any) map[string]any {
	if entries == nil {
		return nil
	}
	out := make(map[string]any, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out
}
