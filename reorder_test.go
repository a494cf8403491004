package hudcfg

import (
	"errors"
	"testing"
)

type stubLocator struct {
	hit Hit
	ok  bool
}

func (s *stubLocator) Locate(Point) (Hit, bool) {
	return s.hit, s.ok
}

func newReorderFixture(t *testing.T) (*ReorderEngine, *ListBuilder, *Resolver, *stubLocator) {
	t.Helper()
	builder, resolver, _, _ := newListFixture()
	locator := &stubLocator{}
	engine := NewReorderEngine(resolver, builder, ReorderWithLocator(locator))
	engine.SetList(builder.Build())
	return engine, builder, resolver, locator
}

func TestDragStartValidation(t *testing.T) {
	engine, _, _, _ := newReorderFixture(t)

	if err := engine.Start(999); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("unknown item err = %v", err)
	}
	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Start(2); !errors.Is(err, ErrDragActive) {
		t.Fatalf("second start err = %v", err)
	}

	session, ok := engine.Session()
	if !ok || session.Item != 1 || session.SourceBucket != 0 || session.SourceIndex != 0 {
		t.Fatalf("session = %+v, ok=%t", session, ok)
	}
	if session.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("session without an identifier")
	}
}

func TestDragUpdateResolvesTargets(t *testing.T) {
	engine, _, _, locator := newReorderFixture(t)
	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Upper half of an item slot inserts before it.
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 0, Index: 1, Item: 2}, UpperHalf: true}
	locator.ok = true
	engine.Update(Point{})
	session, _ := engine.Session()
	if session.Target == nil || session.Target.Index != 1 || session.Target.Bucket != 0 {
		t.Fatalf("upper-half target = %+v", session.Target)
	}

	// Lower half inserts after it.
	locator.hit.UpperHalf = false
	engine.Update(Point{})
	session, _ = engine.Session()
	if session.Target == nil || session.Target.Index != 2 {
		t.Fatalf("lower-half target = %+v", session.Target)
	}

	// A bucket header targets the end of that bucket.
	locator.hit = Hit{Slot: Slot{Kind: SlotHeader, Bucket: 1}}
	engine.Update(Point{})
	session, _ = engine.Session()
	if session.Target == nil || !session.Target.EndOfBucket || session.Target.Bucket != 1 {
		t.Fatalf("header target = %+v", session.Target)
	}

	// No slot under the pointer clears the target.
	locator.ok = false
	engine.Update(Point{})
	session, _ = engine.Session()
	if session.Target != nil {
		t.Fatalf("target = %+v, want nil", session.Target)
	}
}

func TestDragEndWithoutTargetIsCancel(t *testing.T) {
	engine, _, resolver, _ := newReorderFixture(t)
	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, moved := engine.End(); moved {
		t.Fatal("end without target reported a move")
	}
	if _, ok := engine.Session(); ok {
		t.Fatal("session survived End")
	}
	if resolver.Store().Len() != 0 {
		t.Fatal("cancelled drag wrote overrides")
	}
}

func TestDragAdjacentDropIsNoOp(t *testing.T) {
	engine, _, resolver, locator := newReorderFixture(t)

	// Dropping item 1 onto its own lower half (index 1 == source+1).
	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 0, Index: 0, Item: 1}}
	locator.ok = true
	engine.Update(Point{})
	if _, moved := engine.End(); moved {
		t.Fatal("adjacent drop reported a move")
	}
	if resolver.Store().Len() != 0 {
		t.Fatal("adjacent drop wrote overrides")
	}
}

func TestDragReorderWithinBucket(t *testing.T) {
	engine, builder, resolver, locator := newReorderFixture(t)

	// Move item 2 before item 1: first item order 1, insertion at the front
	// yields 0.5.
	if err := engine.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 0, Index: 0, Item: 1}, UpperHalf: true}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved {
		t.Fatal("expected a move")
	}
	if result.Item != 2 || result.FromBucket != 0 || result.ToBucket != 0 || result.Order != 0.5 {
		t.Fatalf("result = %+v", result)
	}

	value, ok := resolver.Store().Get(ItemFieldPath(2, FieldOrder))
	if !ok || value != 0.5 {
		t.Fatalf("order override = %v, %t", value, ok)
	}

	list := builder.Build()
	if got := bucketIDs(list, 0); got[0] != 2 || got[1] != 1 {
		t.Fatalf("bucket 0 after move = %v", got)
	}
}

func TestDragMidpointInsertion(t *testing.T) {
	builder, resolver, meta, ctx := newListFixture()
	meta.items[5] = ItemMeta{Priority: 3}
	meta.order = append(meta.order, 5)
	meta.placements[5] = 0
	ctx.tracked[5] = true

	locator := &stubLocator{}
	engine := NewReorderEngine(resolver, builder, ReorderWithLocator(locator))
	engine.SetList(builder.Build())

	// Bucket 0 is [1 2 5] with orders [1 2 3]. Dropping item 5 between
	// items 1 and 2 lands on the midpoint 1.5.
	if err := engine.Start(5); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 0, Index: 1, Item: 2}, UpperHalf: true}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved || result.Order != 1.5 {
		t.Fatalf("result = %+v, moved=%t", result, moved)
	}
}

func TestDragMidpointBetweenLaterNeighbours(t *testing.T) {
	builder, resolver, meta, ctx := newListFixture()
	// Bucket 0 holds four items with orders [1 2 3 4].
	meta.items[5] = ItemMeta{Priority: 3}
	meta.items[6] = ItemMeta{Priority: 4}
	meta.order = append(meta.order, 5, 6)
	meta.placements[5] = 0
	meta.placements[6] = 0
	ctx.tracked[5] = true
	ctx.tracked[6] = true

	locator := &stubLocator{}
	engine := NewReorderEngine(resolver, builder, ReorderWithLocator(locator))
	engine.SetList(builder.Build())

	// Dropping the last item between the second and third lands on 2.5.
	if err := engine.Start(6); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 0, Index: 2, Item: 5}, UpperHalf: true}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved || result.Order != 2.5 {
		t.Fatalf("result = %+v, moved=%t", result, moved)
	}
}

func TestDragEndOfBucketViaHeader(t *testing.T) {
	engine, _, _, locator := newReorderFixture(t)

	// Item 3 is alone in bucket 1; dropping item 1 on the bucket 1 header
	// appends after it.
	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotHeader, Bucket: 1}}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved {
		t.Fatal("expected a move")
	}
	if result.ToBucket != 1 || result.Order != 2 {
		t.Fatalf("result = %+v", result)
	}
}

func TestDragCrossBucketWritesBucketOverride(t *testing.T) {
	engine, _, resolver, locator := newReorderFixture(t)

	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotItem, Bucket: 1, Index: 0, Item: 3}, UpperHalf: true}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved || result.FromBucket != 0 || result.ToBucket != 1 {
		t.Fatalf("result = %+v, moved=%t", result, moved)
	}

	value, ok := resolver.Store().Get(ItemFieldPath(1, FieldBucket))
	if !ok || value != 1 {
		t.Fatalf("bucket override = %v, %t", value, ok)
	}
}

func TestDragToUnassignedDisablesAndClearsPlacement(t *testing.T) {
	engine, builder, resolver, locator := newReorderFixture(t)

	// Park item 1 in a non-default bucket first so a placement override
	// exists to clear.
	resolver.Write(ItemFieldPath(1, FieldBucket), 1)
	engine.SetList(builder.Build())

	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotHeader, Bucket: UnassignedBucket}}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved || result.ToBucket != UnassignedBucket {
		t.Fatalf("result = %+v, moved=%t", result, moved)
	}

	if value, ok := resolver.Store().Get(ItemFieldPath(1, FieldEnabled)); !ok || value != false {
		t.Fatalf("enabled override = %v, %t", value, ok)
	}
	if _, ok := resolver.Store().Get(ItemFieldPath(1, FieldBucket)); ok {
		t.Fatal("placement override survived the move to unassigned")
	}
}

func TestDragFromUnassignedEnablesAndPlaces(t *testing.T) {
	engine, _, resolver, locator := newReorderFixture(t)

	// Item 4 starts unassigned.
	if err := engine.Start(4); err != nil {
		t.Fatalf("start: %v", err)
	}
	locator.hit = Hit{Slot: Slot{Kind: SlotHeader, Bucket: 0}}
	locator.ok = true
	engine.Update(Point{})

	result, moved := engine.End()
	if !moved || result.FromBucket != UnassignedBucket || result.ToBucket != 0 {
		t.Fatalf("result = %+v, moved=%t", result, moved)
	}

	if value, ok := resolver.Store().Get(ItemFieldPath(4, FieldEnabled)); !ok || value != true {
		t.Fatalf("enabled override = %v, %t", value, ok)
	}
	if value, ok := resolver.Store().Get(ItemFieldPath(4, FieldBucket)); !ok || value != 0 {
		t.Fatalf("bucket override = %v, %t", value, ok)
	}
}

func TestRebuildMidDragInvalidatesSession(t *testing.T) {
	engine, builder, _, _ := newReorderFixture(t)

	if err := engine.Start(1); err != nil {
		t.Fatalf("start: %v", err)
	}
	engine.SetList(builder.Build())

	if _, ok := engine.Session(); ok {
		t.Fatal("session survived a rebuild")
	}
	if _, moved := engine.End(); moved {
		t.Fatal("invalidated session still produced a move")
	}
}
