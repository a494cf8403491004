package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// metaTable is the reserved top-level table carrying storage metadata.
// Settings paths never start with an underscore, so it cannot collide
// with real entries.
const metaTable = "_meta"

// FileStore persists one TOML document per profile under a directory.
// Dotted settings paths map onto nested TOML tables; writes go through a
// temp file plus rename so a crash never leaves a half-written blob.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("blobstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing ref's blob.
func (s *FileStore) Path(ref Ref) (string, error) {
	key, err := ref.Identifier()
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+".toml"), nil
}

func (s *FileStore) Load(ctx context.Context, ref Ref) (map[string]any, Meta, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, Meta{}, false, err
	}
	path, err := s.Path(ref)
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return loadFile(path)
}

func loadFile(path string) (map[string]any, Meta, bool, error) {
	var doc map[string]any
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Meta{}, false, nil
		}
		return nil, Meta{}, false, fmt.Errorf("blobstore: decode %q: %w", path, err)
	}
	meta := decodeMeta(doc[metaTable])
	delete(doc, metaTable)
	return Flatten(doc), meta, true, nil
}

func (s *FileStore) Save(ctx context.Context, ref Ref, entries map[string]any, meta Meta) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	path, err := s.Path(ref)
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, stored, ok, err := loadFile(path); err != nil {
		return Meta{}, err
	} else if ok {
		if err := checkETag(meta.ETag, stored.ETag); err != nil {
			return stored, err
		}
	}

	saved := stampMeta(meta)
	doc := Expand(entries)
	doc[metaTable] = encodeMeta(saved)

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return Meta{}, fmt.Errorf("blobstore: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return Meta{}, fmt.Errorf("blobstore: encode %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return Meta{}, fmt.Errorf("blobstore: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Meta{}, fmt.Errorf("blobstore: rename %q: %w", path, err)
	}
	return saved, nil
}

func encodeMeta(meta Meta) map[string]any {
	out := map[string]any{}
	if meta.SnapshotID != "" {
		out["snapshot_id"] = meta.SnapshotID
	}
	if meta.ETag != "" {
		out["etag"] = meta.ETag
	}
	if !meta.UpdatedAt.IsZero() {
		out["updated_at"] = meta.UpdatedAt
	}
	return out
}

func decodeMeta(raw any) Meta {
	table, ok := raw.(map[string]any)
	if !ok {
		return Meta{}
	}
	meta := Meta{}
	if v, ok := table["snapshot_id"].(string); ok {
		meta.SnapshotID = v
	}
	if v, ok := table["etag"].(string); ok {
		meta.ETag = v
	}
	if v, ok := table["updated_at"].(time.Time); ok {
		meta.UpdatedAt = v
	}
	return meta
}
