package hudcfg

import (
	"context"
	"sort"

	"github.com/goliatone/go-hudcfg/pkg/activity"
)

// Sink receives the full override snapshot after every mutation. The blob
// store satisfies this to give the host write-through persistence.
type Sink interface {
	Persist(snapshot map[string]any) error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// StoreWithHooks attaches activity hooks notified on every set/clear.
func StoreWithHooks(hooks activity.Hooks) StoreOption {
	return func(s *Store) {
		s.hooks = hooks
	}
}

// StoreWithSink attaches a write-through persistence sink.
func StoreWithSink(sink Sink) StoreOption {
	return func(s *Store) {
		s.sink = sink
	}
}

// StoreWithSinkErrorHandler routes sink failures to the host. Mutations
// themselves never fail; persistence errors are reported out of band.
func StoreWithSinkErrorHandler(handler func(error)) StoreOption {
	return func(s *Store) {
		s.sinkErr = handler
	}
}

type storedEntry struct {
	path  Path
	value any
}

// Store is the sparse override store: it records only values the user
// explicitly chose, keyed by dotted path. It knows nothing about defaults;
// callers needing "differs from default" semantics go through Resolver.
// Removing an entry is indistinguishable from never having set it.
type Store struct {
	entries map[string]storedEntry
	hooks   activity.Hooks
	sink    Sink
	sinkErr func(error)
}

// NewStore constructs an empty override store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{entries: make(map[string]storedEntry)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the override recorded for p, if any.
func (s *Store) Get(p Path) (any, bool) {
	entry, ok := s.entries[p.String()]
	if !ok {
		return nil, false
	}
	return entry.value, true
}

// IsOverridden reports whether an entry exists for p. It is entry existence
// only, independent of any default comparison.
func (s *Store) IsOverridden(p Path) bool {
	_, ok := s.entries[p.String()]
	return ok
}

// Set records value under p, immediately visible to subsequent Get calls.
func (s *Store) Set(p Path, value any) {
	if p.IsZero() {
		return
	}
	old, existed := s.Get(p)
	s.entries[p.String()] = storedEntry{path: p, value: value}
	s.persist()
	if s.hooks.Enabled() {
		input := activity.SettingEventInput{Path: p.String(), NewValue: value}
		if existed {
			input.OldValue = old
		}
		_ = s.hooks.Notify(context.Background(), activity.BuildOverrideSetEvent(input))
	}
}

// Clear removes the entry for p. Clearing an absent path is a no-op.
func (s *Store) Clear(p Path) {
	entry, existed := s.entries[p.String()]
	if !existed {
		return
	}
	delete(s.entries, p.String())
	s.persist()
	if s.hooks.Enabled() {
		_ = s.hooks.Notify(context.Background(), activity.BuildOverrideClearedEvent(activity.SettingEventInput{
			Path:     p.String(),
			OldValue: entry.value,
		}))
	}
}

// Len returns the number of stored overrides.
func (s *Store) Len() int {
	return len(s.entries)
}

// Walk visits every entry in canonical path order.
func (s *Store) Walk(fn func(p Path, value any)) {
	if fn == nil {
		return
	}
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		entry := s.entries[key]
		fn(entry.path, entry.value)
	}
}

// Snapshot returns a flat copy of all entries keyed by canonical path.
func (s *Store) Snapshot() map[string]any {
	out := make(map[string]any, len(s.entries))
	for key, entry := range s.entries {
		out[key] = entry.value
	}
	return out
}

// Replace swaps the full entry set, used for startup load and blob reload.
// Malformed paths are skipped (tolerant load); unknown-but-valid paths are
// kept verbatim so they survive a future save. Replace emits no per-path
// events and does not write through to the sink.
func (s *Store) Replace(entries map[string]any) {
	next := make(map[string]storedEntry, len(entries))
	for raw, value := range entries {
		path, err := ParsePath(raw)
		if err != nil {
			continue
		}
		next[path.String()] = storedEntry{path: path, value: value}
	}
	s.entries = next
}

func (s *Store) persist() {
	if s.sink == nil {
		return
	}
	if err := s.sink.Persist(s.Snapshot()); err != nil && s.sinkErr != nil {
		s.sinkErr(err)
	}
}

// OverriddenItems returns the distinct item IDs that have at least one
// per-item field override, sorted ascending.
func (s *Store) OverriddenItems() []ItemID {
	seen := make(map[ItemID]struct{})
	for _, entry := range s.entries {
		if id, _, ok := ParseItemFieldPath(entry.path); ok {
			seen[id] = struct{}{}
		}
	}
	out := make([]ItemID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
