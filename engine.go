package hudcfg

import (
	"github.com/goliatone/go-hudcfg/pkg/activity"
)

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	defaults []DefaultsOption
	store    []StoreOption
	reorder  []ReorderOption
	graph    []GraphOption
	hooks    activity.Hooks
}

// EngineWithHooks attaches activity hooks to the store, graph and reorder
// engine in one go.
func EngineWithHooks(hooks activity.Hooks) EngineOption {
	return func(cfg *engineConfig) {
		cfg.hooks = hooks
	}
}

// EngineWithDefaults forwards options to the default resolver.
func EngineWithDefaults(opts ...DefaultsOption) EngineOption {
	return func(cfg *engineConfig) {
		cfg.defaults = append(cfg.defaults, opts...)
	}
}

// EngineWithStore forwards options to the override store.
func EngineWithStore(opts ...StoreOption) EngineOption {
	return func(cfg *engineConfig) {
		cfg.store = append(cfg.store, opts...)
	}
}

// EngineWithReorder forwards options to the reorder engine.
func EngineWithReorder(opts ...ReorderOption) EngineOption {
	return func(cfg *engineConfig) {
		cfg.reorder = append(cfg.reorder, opts...)
	}
}

// EngineWithGraph forwards options to the dependency graph.
func EngineWithGraph(opts ...GraphOption) EngineOption {
	return func(cfg *engineConfig) {
		cfg.graph = append(cfg.graph, opts...)
	}
}

// Engine wires the override store, default resolver, dependency graph,
// list builder, exclusion filter and reorder engine into one settings
// surface. All operations are synchronous; reads flow store+defaults →
// effective values → list, writes flow user action → store → rebuild.
type Engine struct {
	store    *Store
	defaults *DefaultResolver
	resolver *Resolver
	graph    *DependencyGraph
	excl     *ExclusionFilter
	builder  *ListBuilder
	reorder  *ReorderEngine

	last *BucketList
}

// NewEngine constructs a fully wired engine over the host providers.
func NewEngine(meta MetadataProvider, ctxp ContextProvider, opts ...EngineOption) *Engine {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.hooks.Enabled() {
		cfg.store = append(cfg.store, StoreWithHooks(cfg.hooks))
		cfg.graph = append(cfg.graph, GraphWithHooks(cfg.hooks))
		cfg.reorder = append(cfg.reorder, ReorderWithHooks(cfg.hooks))
	}

	e := &Engine{}
	e.store = NewStore(cfg.store...)
	e.defaults = NewDefaultResolver(meta, ctxp, cfg.defaults...)
	e.resolver = NewResolver(e.store, e.defaults)
	e.graph = NewDependencyGraph(e.resolver, cfg.graph...)
	e.excl = NewExclusionFilter(e.store, meta, ctxp)
	e.builder = NewListBuilder(e.resolver, meta, ctxp, e.excl)

	reorderOpts := append([]ReorderOption{
		ReorderWithAfterMove(func(_ MoveResult, changed []Path) {
			e.afterWrite(changed)
		}),
	}, cfg.reorder...)
	e.reorder = NewReorderEngine(e.resolver, e.builder, reorderOpts...)
	return e
}

// Set validates raw, writes value with no-op suppression, notifies
// dependents and rebuilds. Malformed paths are rejected without touching
// the store.
func (e *Engine) Set(raw string, value any) error {
	path, err := ParsePath(raw)
	if err != nil {
		return err
	}
	e.resolver.Write(path, value)
	e.afterWrite([]Path{path})
	return nil
}

// Clear removes the override at raw, restoring the default.
func (e *Engine) Clear(raw string) error {
	path, err := ParsePath(raw)
	if err != nil {
		return err
	}
	e.store.Clear(path)
	e.afterWrite([]Path{path})
	return nil
}

// Get returns the effective value at raw.
func (e *Engine) Get(raw string) (any, bool) {
	path, err := ParsePath(raw)
	if err != nil {
		return nil, false
	}
	return e.resolver.EffectiveValue(path)
}

// IsModified reports whether raw carries an override differing from the
// current default.
func (e *Engine) IsModified(raw string) bool {
	path, err := ParsePath(raw)
	if err != nil {
		return false
	}
	return e.resolver.IsModified(path)
}

// Rebuild recomputes the effective list and installs it on the reorder
// engine. Rebuilds are pure functions of current state; redundant calls
// are tolerated.
func (e *Engine) Rebuild() *BucketList {
	e.last = e.builder.Build()
	e.reorder.SetList(e.last)
	return e.last
}

// List returns the last built list, building one if none exists yet.
func (e *Engine) List() *BucketList {
	if e.last == nil {
		return e.Rebuild()
	}
	return e.last
}

// ContextChanged drops memoized defaults, re-evaluates the dependency
// graph and rebuilds. The host calls it on spec/class switches.
func (e *Engine) ContextChanged() *BucketList {
	e.defaults.Invalidate()
	e.graph.Refresh()
	return e.Rebuild()
}

// LoadBlob replaces the override set from a persisted blob (tolerant of
// unknown and malformed paths), kills any live drag session and rebuilds.
func (e *Engine) LoadBlob(entries map[string]any) *BucketList {
	e.store.Replace(entries)
	e.reorder.Invalidate()
	e.graph.Refresh()
	return e.Rebuild()
}

// Resolver exposes the effective value resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Store exposes the override store.
func (e *Engine) Store() *Store { return e.store }

// Graph exposes the dependency graph for registration.
func (e *Engine) Graph() *DependencyGraph { return e.graph }

// Reorder exposes the drag-and-drop engine.
func (e *Engine) Reorder() *ReorderEngine { return e.reorder }

// Excluded reports whether id is hidden from candidate listing by its
// link group.
func (e *Engine) Excluded(id ItemID) bool { return e.excl.IsExcluded(id) }

func (e *Engine) afterWrite(changed []Path) {
	for _, path := range changed {
		if e.graph.HasDependents(path) {
			e.graph.OnChange(path)
		}
	}
	e.Rebuild()
}
