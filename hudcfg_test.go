package hudcfg

// Shared test fixtures: an in-memory item catalog and a mutable player
// context provider.

type fakeMeta struct {
	items      map[ItemID]ItemMeta
	order      []ItemID
	buckets    []int
	placements map[ItemID]int
	placeFn    func(id ItemID, ctx PlayerContext) (int, bool)
}

func (m *fakeMeta) Item(id ItemID) (ItemMeta, bool) {
	meta, ok := m.items[id]
	return meta, ok
}

func (m *fakeMeta) Items() []ItemID {
	return append([]ItemID(nil), m.order...)
}

func (m *fakeMeta) DefaultBucket(id ItemID, ctx PlayerContext) (int, bool) {
	if m.placeFn != nil {
		return m.placeFn(id, ctx)
	}
	bucket, ok := m.placements[id]
	if !ok {
		return UnassignedBucket, false
	}
	return bucket, true
}

func (m *fakeMeta) Buckets() []int {
	return append([]int(nil), m.buckets...)
}

type fakeCtx struct {
	ctx     PlayerContext
	ok      bool
	tracked map[ItemID]bool
}

func (c *fakeCtx) Current() (PlayerContext, bool) {
	return c.ctx, c.ok
}

func (c *fakeCtx) IsTracked(id ItemID) bool {
	return c.tracked[id]
}

// newFixture builds a catalog of four items across two buckets:
//
//	item 1: tracked, bucket 0, priority 1
//	item 2: tracked, bucket 0, priority 2
//	item 3: relevant but untracked, bucket 1, priority 1
//	item 4: not relevant (no default placement)
func newFixture() (*fakeMeta, *fakeCtx) {
	meta := &fakeMeta{
		items: map[ItemID]ItemMeta{
			1: {Priority: 1},
			2: {Priority: 2},
			3: {Priority: 1},
			4: {Priority: 1},
		},
		order:      []ItemID{1, 2, 3, 4},
		buckets:    []int{0, 1},
		placements: map[ItemID]int{1: 0, 2: 0, 3: 1},
	}
	ctx := &fakeCtx{
		ctx:     PlayerContext{ClassKey: "MAGE", SpecKey: "frost"},
		ok:      true,
		tracked: map[ItemID]bool{1: true, 2: true},
	}
	return meta, ctx
}

func newFixtureResolver() (*Resolver, *fakeMeta, *fakeCtx) {
	meta, ctx := newFixture()
	store := NewStore()
	defaults := NewDefaultResolver(meta, ctx)
	return NewResolver(store, defaults), meta, ctx
}
