package hudcfg

import "sort"

// ItemPosition locates one item inside a built list.
type ItemPosition struct {
	Bucket int
	Index  int
}

// BucketList is the derived grouping of effective items into ordered
// buckets. It is recomputed on every rebuild trigger and never persisted.
type BucketList struct {
	Context PlayerContext

	buckets     map[int][]EffectiveItem
	bucketOrder []int
	positions   map[ItemID]ItemPosition
}

// Bucket returns the ordered items of one bucket.
func (l *BucketList) Bucket(bucket int) []EffectiveItem {
	if l == nil {
		return nil
	}
	return l.buckets[bucket]
}

// BucketOrder returns the bucket iteration order: the host's configured
// buckets first, stray buckets ascending, the unassigned bucket last.
func (l *BucketList) BucketOrder() []int {
	if l == nil {
		return nil
	}
	return l.bucketOrder
}

// Position locates id inside the list.
func (l *BucketList) Position(id ItemID) (ItemPosition, bool) {
	if l == nil {
		return ItemPosition{}, false
	}
	pos, ok := l.positions[id]
	return pos, ok
}

// Item returns the effective view for id.
func (l *BucketList) Item(id ItemID) (EffectiveItem, bool) {
	pos, ok := l.Position(id)
	if !ok {
		return EffectiveItem{}, false
	}
	return l.buckets[pos.Bucket][pos.Index], true
}

// Len returns the total number of items across buckets.
func (l *BucketList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.positions)
}

// ListBuilder produces the effective bucketed view from the override store,
// defaults, providers and exclusion filter.
type ListBuilder struct {
	resolver *Resolver
	meta     MetadataProvider
	ctxp     ContextProvider
	excl     *ExclusionFilter
}

// NewListBuilder constructs a builder over the shared resolution state.
func NewListBuilder(resolver *Resolver, meta MetadataProvider, ctxp ContextProvider, excl *ExclusionFilter) *ListBuilder {
	return &ListBuilder{resolver: resolver, meta: meta, ctxp: ctxp, excl: excl}
}

// Build computes a fresh BucketList. With no player context detected it
// returns an empty list; the caller retries once context is available.
func (b *ListBuilder) Build() *BucketList {
	list := &BucketList{
		buckets:   make(map[int][]EffectiveItem),
		positions: make(map[ItemID]ItemPosition),
	}
	ctx, ok := b.ctxp.Current()
	if !ok {
		return list
	}
	list.Context = ctx

	store := b.resolver.Store()
	candidates := make(map[ItemID]struct{})
	for _, id := range b.meta.Items() {
		if b.ctxp.IsTracked(id) {
			candidates[id] = struct{}{}
			continue
		}
		if b.excl != nil && b.excl.IsExcluded(id) {
			continue
		}
		candidates[id] = struct{}{}
	}
	for _, id := range store.OverriddenItems() {
		candidates[id] = struct{}{}
	}

	for id := range candidates {
		item := b.effectiveItem(id)
		list.buckets[item.Bucket] = append(list.buckets[item.Bucket], item)
	}

	for bucket, items := range list.buckets {
		list.buckets[bucket] = b.sortBucket(items)
	}
	list.bucketOrder = b.bucketOrder(list.buckets)
	for _, bucket := range list.bucketOrder {
		for index, item := range list.buckets[bucket] {
			list.positions[item.ID] = ItemPosition{Bucket: bucket, Index: index}
		}
	}
	return list
}

func (b *ListBuilder) effectiveItem(id ItemID) EffectiveItem {
	store := b.resolver.Store()
	tracked := b.ctxp.IsTracked(id)

	bucket := UnassignedBucket
	if value, ok := store.Get(ItemFieldPath(id, FieldBucket)); ok {
		if n, ok := asInt(value); ok {
			bucket = n
		}
	} else if value, ok := b.resolver.Defaults().ResolveDefault(ItemFieldPath(id, FieldBucket)); ok {
		if n, ok := asInt(value); ok {
			bucket = n
		}
	}

	item := EffectiveItem{
		ID:            id,
		Bucket:        bucket,
		Enabled:       effectiveEnabled(store, b.ctxp, id),
		CandidateOnly: !tracked,
		Modified:      b.itemModified(id),
	}
	return item
}

func (b *ListBuilder) itemModified(id ItemID) bool {
	for _, field := range []string{FieldEnabled, FieldBucket, FieldOrder} {
		if b.resolver.IsModified(ItemFieldPath(id, field)) {
			return true
		}
	}
	return false
}

// sortBucket applies the two-pass ordering. The natural pass establishes
// deterministic baseline ranks; the override pass lets any subset of items
// pin explicit fractional positions without renumbering the rest.
func (b *ListBuilder) sortBucket(items []EffectiveItem) []EffectiveItem {
	sort.Slice(items, func(i, j int) bool {
		return b.naturalLess(items[i].ID, items[j].ID)
	})
	for i := range items {
		items[i].DefaultOrder = float64(i + 1)
		items[i].Order = items[i].DefaultOrder
		if value, ok := b.resolver.Store().Get(ItemFieldPath(items[i].ID, FieldOrder)); ok {
			if f, ok := asFloat(value); ok {
				items[i].Order = f
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	return items
}

// orderedBucketExcluding re-runs the two-pass sort over one bucket with the
// dragged item removed, yielding the effective order keys the reorder
// engine interpolates between.
func (b *ListBuilder) orderedBucketExcluding(list *BucketList, bucket int, exclude ItemID) []EffectiveItem {
	source := list.Bucket(bucket)
	remaining := make([]EffectiveItem, 0, len(source))
	for _, item := range source {
		if item.ID == exclude {
			continue
		}
		remaining = append(remaining, EffectiveItem{
			ID:            item.ID,
			Bucket:        item.Bucket,
			Enabled:       item.Enabled,
			CandidateOnly: item.CandidateOnly,
			Modified:      item.Modified,
		})
	}
	return b.sortBucket(remaining)
}

func (b *ListBuilder) naturalLess(a, c ItemID) bool {
	am, _ := b.meta.Item(a)
	cm, _ := b.meta.Item(c)
	if am.Priority != cm.Priority {
		return am.Priority < cm.Priority
	}
	if am.SecondaryKey != cm.SecondaryKey {
		return am.SecondaryKey < cm.SecondaryKey
	}
	return a < c
}

func (b *ListBuilder) bucketOrder(buckets map[int][]EffectiveItem) []int {
	ordered := make([]int, 0, len(buckets))
	seen := make(map[int]struct{})
	for _, bucket := range b.meta.Buckets() {
		if _, ok := buckets[bucket]; ok {
			ordered = append(ordered, bucket)
			seen[bucket] = struct{}{}
		}
	}
	var stray []int
	hasUnassigned := false
	for bucket := range buckets {
		if _, ok := seen[bucket]; ok {
			continue
		}
		if bucket == UnassignedBucket {
			hasUnassigned = true
			continue
		}
		stray = append(stray, bucket)
	}
	sort.Ints(stray)
	ordered = append(ordered, stray...)
	if hasUnassigned {
		ordered = append(ordered, UnassignedBucket)
	}
	return ordered
}
