package hudcfg

// Resolver merges the override store with the default resolver to answer
// "what is the current value of path P" and "is P modified".
type Resolver struct {
	store    *Store
	defaults *DefaultResolver
}

// NewResolver constructs a Resolver over store and defaults.
func NewResolver(store *Store, defaults *DefaultResolver) *Resolver {
	return &Resolver{store: store, defaults: defaults}
}

// EffectiveValue returns override ?? default. ok is false only when neither
// layer has a value for p.
func (r *Resolver) EffectiveValue(p Path) (any, bool) {
	if value, ok := r.store.Get(p); ok {
		return value, true
	}
	return r.defaults.ResolveDefault(p)
}

// IsModified reports whether an override entry exists AND differs from the
// current default. An entry whose value the computed default later
// converged to (e.g. after a spec switch) reports false even though the
// entry physically remains; the stored intent is not cleared.
func (r *Resolver) IsModified(p Path) bool {
	value, ok := r.store.Get(p)
	if !ok {
		return false
	}
	def, hasDefault := r.defaults.ResolveDefault(p)
	if !hasDefault {
		return true
	}
	return !valuesEqual(value, def)
}

// Write stores value under p, suppressing writes equal to the current
// default: those delete the entry instead, so untouched settings keep
// tracking future defaults.
func (r *Resolver) Write(p Path, value any) {
	if p.IsZero() {
		return
	}
	if def, ok := r.defaults.ResolveDefault(p); ok && valuesEqual(value, def) {
		r.store.Clear(p)
		return
	}
	r.store.Set(p, value)
}

// Reset removes any override at p, restoring the default.
func (r *Resolver) Reset(p Path) {
	r.store.Clear(p)
}

// Store exposes the underlying override store.
func (r *Resolver) Store() *Store {
	return r.store
}

// Defaults exposes the underlying default resolver.
func (r *Resolver) Defaults() *DefaultResolver {
	return r.defaults
}

// Explain returns the per-layer provenance for p.
func (r *Resolver) Explain(p Path) Trace {
	trace := Trace{Path: p.String()}

	value, found := r.store.Get(p)
	trace.Layers = append(trace.Layers, Provenance{
		Layer: LayerOverride,
		Path:  p.String(),
		Value: value,
		Found: found,
	})

	layer := LayerStatic
	if _, _, isItem := ParseItemFieldPath(p); isItem {
		layer = LayerContext
	}
	def, hasDefault := r.defaults.ResolveDefault(p)
	trace.Layers = append(trace.Layers, Provenance{
		Layer: layer,
		Path:  p.String(),
		Value: def,
		Found: hasDefault,
	})
	return trace
}
