package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrETagMismatch = errors.New("blobstore: etag mismatch")

// Ref identifies one persisted override blob. Profiles let a player keep
// independent layouts (per character, per activity) side by side.
type Ref struct {
	Profile string
}

// Identifier returns the canonical storage key for the ref.
func (r Ref) Identifier() (string, error) {
	profile := strings.TrimSpace(r.Profile)
	if profile == "" {
		return "", fmt.Errorf("blobstore: profile is required")
	}
	if strings.ContainsAny(profile, `/\`) {
		return "", fmt.Errorf("blobstore: invalid profile %q", r.Profile)
	}
	return profile, nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string    `toml:"snapshot_id,omitempty"`
	ETag       string    `toml:"etag,omitempty"`
	UpdatedAt  time.Time `toml:"updated_at,omitempty"`
}

// Store loads/saves one flat override blob for a single profile reference.
// Entries are keyed by dotted settings path. Save performs an optimistic
// concurrency check when both the supplied and stored ETag are non-empty.
type Store interface {
	Load(ctx context.Context, ref Ref) (entries map[string]any, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, entries map[string]any, meta Meta) (Meta, error)
}

func checkETag(supplied, stored string) error {
	if supplied == "" || stored == "" {
		return nil
	}
	if supplied != stored {
		return fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, supplied, stored)
	}
	return nil
}
