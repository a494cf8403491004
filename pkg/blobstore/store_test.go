package blobstore_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-hudcfg/pkg/blobstore"
)

func storeFactories(t *testing.T) map[string]func() blobstore.Store {
	t.Helper()
	return map[string]func() blobstore.Store{
		"memory": func() blobstore.Store {
			return blobstore.NewMemoryStore()
		},
		"file": func() blobstore.Store {
			store, err := blobstore.NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("file store: %v", err)
			}
			return store
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	entries := map[string]any{
		"items.12345.enabled": true,
		"items.12345.bucket":  int64(2),
		"items.12345.order":   1.5,
		"display.theme":       "compact",
	}

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			ref := blobstore.Ref{Profile: "default"}

			if _, _, ok, err := store.Load(context.Background(), ref); err != nil || ok {
				t.Fatalf("load before save: ok=%t err=%v", ok, err)
			}

			meta, err := store.Save(context.Background(), ref, entries, blobstore.Meta{})
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if meta.SnapshotID == "" || meta.ETag == "" || meta.UpdatedAt.IsZero() {
				t.Fatalf("save did not stamp metadata: %+v", meta)
			}

			loaded, loadedMeta, ok, err := store.Load(context.Background(), ref)
			if err != nil || !ok {
				t.Fatalf("load: ok=%t err=%v", ok, err)
			}
			if loadedMeta.SnapshotID != meta.SnapshotID {
				t.Fatalf("snapshot id = %q, want %q", loadedMeta.SnapshotID, meta.SnapshotID)
			}
			if !reflect.DeepEqual(loaded, entries) {
				t.Fatalf("loaded = %#v, want %#v", loaded, entries)
			}
		})
	}
}

func TestStoreETagMismatch(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			ref := blobstore.Ref{Profile: "default"}

			first, err := store.Save(context.Background(), ref, map[string]any{"a.b": true}, blobstore.Meta{})
			if err != nil {
				t.Fatalf("save: %v", err)
			}

			_, err = store.Save(context.Background(), ref, map[string]any{"a.b": false}, blobstore.Meta{ETag: "stale"})
			if !errors.Is(err, blobstore.ErrETagMismatch) {
				t.Fatalf("expected etag mismatch, got %v", err)
			}

			if _, err := store.Save(context.Background(), ref, map[string]any{"a.b": false}, blobstore.Meta{ETag: first.ETag}); err != nil {
				t.Fatalf("save with matching etag: %v", err)
			}
		})
	}
}

func TestStoreProfilesAreIndependent(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			ctx := context.Background()

			if _, err := store.Save(ctx, blobstore.Ref{Profile: "raid"}, map[string]any{"a.b": int64(1)}, blobstore.Meta{}); err != nil {
				t.Fatalf("save raid: %v", err)
			}
			if _, err := store.Save(ctx, blobstore.Ref{Profile: "pvp"}, map[string]any{"a.b": int64(2)}, blobstore.Meta{}); err != nil {
				t.Fatalf("save pvp: %v", err)
			}

			raid, _, _, err := store.Load(ctx, blobstore.Ref{Profile: "raid"})
			if err != nil {
				t.Fatalf("load raid: %v", err)
			}
			if raid["a.b"] != int64(1) {
				t.Fatalf("raid a.b = %v, want 1", raid["a.b"])
			}
		})
	}
}

func TestRefIdentifierRejectsBadProfiles(t *testing.T) {
	for _, profile := range []string{"", "  ", "a/b", `a\b`} {
		if _, err := (blobstore.Ref{Profile: profile}).Identifier(); err == nil {
			t.Fatalf("profile %q: expected error", profile)
		}
	}
	if key, err := (blobstore.Ref{Profile: "default"}).Identifier(); err != nil || key != "default" {
		t.Fatalf("identifier = %q, %v", key, err)
	}
}

func TestSinkPersistsThroughStore(t *testing.T) {
	store := blobstore.NewMemoryStore()
	sink := blobstore.NewSink(store, blobstore.Ref{Profile: "default"})

	if err := sink.Persist(map[string]any{"items.1.enabled": false}); err != nil {
		t.Fatalf("persist: %v", err)
	}

	loaded, _, ok, err := store.Load(context.Background(), blobstore.Ref{Profile: "default"})
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if loaded["items.1.enabled"] != false {
		t.Fatalf("loaded = %#v", loaded)
	}
}
