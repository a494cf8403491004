package hudcfg

// ExclusionFilter removes items from "available" candidacy when a mutually
// exclusive linked item is already active (shared-cooldown style
// exclusivity). Excluded items are hidden, not shown disabled.
type ExclusionFilter struct {
	store *Store
	meta  MetadataProvider
	ctxp  ContextProvider
}

// NewExclusionFilter constructs a filter over the store and providers.
func NewExclusionFilter(store *Store, meta MetadataProvider, ctxp ContextProvider) *ExclusionFilter {
	return &ExclusionFilter{store: store, meta: meta, ctxp: ctxp}
}

// IsExcluded reports whether another member of id's link group is
// effectively enabled. Items without a link group are never excluded.
func (f *ExclusionFilter) IsExcluded(id ItemID) bool {
	meta, ok := f.meta.Item(id)
	if !ok || meta.LinkGroup == "" {
		return false
	}
	for _, other := range f.meta.Items() {
		if other == id {
			continue
		}
		otherMeta, ok := f.meta.Item(other)
		if !ok || otherMeta.LinkGroup != meta.LinkGroup {
			continue
		}
		if effectiveEnabled(f.store, f.ctxp, other) {
			return true
		}
	}
	return false
}

// effectiveEnabled applies the asymmetric enabled rule: tracked items are
// opt-out (override ?? true), candidate-only items are opt-in (override
// must be exactly true).
func effectiveEnabled(store *Store, ctxp ContextProvider, id ItemID) bool {
	value, has := store.Get(ItemFieldPath(id, FieldEnabled))
	if ctxp.IsTracked(id) {
		if !has {
			return true
		}
		b, ok := asBool(value)
		return ok && b
	}
	if !has {
		return false
	}
	b, ok := asBool(value)
	return ok && b
}
