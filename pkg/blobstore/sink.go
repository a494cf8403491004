package blobstore

import "context"

// Sink adapts a Store to the core's write-through persistence hook: every
// override mutation hands the full flat blob to Persist.
type Sink struct {
	store Store
	ref   Ref
}

// NewSink binds a store and profile reference.
func NewSink(store Store, ref Ref) *Sink {
	return &Sink{store: store, ref: ref}
}

// Persist saves the blob, letting the store mint fresh metadata.
func (s *Sink) Persist(entries map[string]any) error {
	_, err := s.store.Save(context.Background(), s.ref, entries, Meta{})
	return err
}
