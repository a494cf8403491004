package blobstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-hudcfg/pkg/blobstore"
)

func TestWatcherReportsExternalSave(t *testing.T) {
	dir := t.TempDir()
	store, err := blobstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	ref := blobstore.Ref{Profile: "default"}

	changed := make(chan struct{}, 1)
	watcher, err := blobstore.NewWatcher(store, ref, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()

	if _, err := store.Save(context.Background(), ref, map[string]any{"a.b": true}, blobstore.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := blobstore.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	changed := make(chan struct{}, 1)
	watcher, err := blobstore.NewWatcher(store, blobstore.Ref{Profile: "default"}, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer watcher.Close()

	if _, err := store.Save(context.Background(), blobstore.Ref{Profile: "other"}, map[string]any{"a.b": true}, blobstore.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case <-changed:
		t.Fatal("unexpected notification for unrelated profile")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherRequiresCallback(t *testing.T) {
	store, err := blobstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if _, err := blobstore.NewWatcher(store, blobstore.Ref{Profile: "default"}, 0, nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
}
