package hudcfg

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-hudcfg/pkg/activity"
)

var (
	// ErrDragActive indicates Start was called while a session exists.
	ErrDragActive = errors.New("hudcfg: drag session already active")
	// ErrUnknownItem indicates the dragged item is not in the last built
	// list.
	ErrUnknownItem = errors.New("hudcfg: item not present in current list")
)

// Point is a pointer position in the host's slot coordinate space.
type Point struct {
	X float64
	Y float64
}

// SlotKind discriminates hit-test results.
type SlotKind int

const (
	// SlotItem is an item row inside a bucket.
	SlotItem SlotKind = iota + 1
	// SlotHeader is a bucket header; dropping on it targets the bucket end.
	SlotHeader
)

// Slot describes one rendered slot as reported by the host's hit-tester.
type Slot struct {
	Kind   SlotKind
	Bucket int
	Index  int
	Item   ItemID
}

// Hit is a successful hit-test: the slot under the pointer and which half
// of it the pointer is in.
type Hit struct {
	Slot      Slot
	UpperHalf bool
}

// SlotLocator is the render/hit-test provider contract. The core never
// creates visuals; it only asks what is under a position. ok=false means
// no slot (stale or removed geometry), which End treats as a cancel.
type SlotLocator interface {
	Locate(p Point) (Hit, bool)
}

// SlotLocatorFunc adapts a function to SlotLocator.
type SlotLocatorFunc func(p Point) (Hit, bool)

// Locate implements SlotLocator.
func (fn SlotLocatorFunc) Locate(p Point) (Hit, bool) {
	if fn == nil {
		return Hit{}, false
	}
	return fn(p)
}

// DropTarget is the resolved insertion point of an in-flight drag.
type DropTarget struct {
	Bucket      int
	Index       int
	EndOfBucket bool
}

// DragSession is the ephemeral in-memory drag state. It exists only
// between Start and End and is destroyed unconditionally on End.
type DragSession struct {
	ID           uuid.UUID
	Item         ItemID
	SourceBucket int
	SourceIndex  int
	Target       *DropTarget
}

// MoveResult describes the write-through outcome of a completed drop.
type MoveResult struct {
	Item       ItemID
	FromBucket int
	ToBucket   int
	Order      float64
}

// ReorderOption configures a ReorderEngine.
type ReorderOption func(*ReorderEngine)

// ReorderWithLocator installs the host hit-test provider.
func ReorderWithLocator(locator SlotLocator) ReorderOption {
	return func(e *ReorderEngine) {
		e.locator = locator
	}
}

// ReorderWithHooks attaches activity hooks notified on completed moves.
func ReorderWithHooks(hooks activity.Hooks) ReorderOption {
	return func(e *ReorderEngine) {
		e.hooks = hooks
	}
}

// ReorderWithAfterMove installs the post-write callback: the engine uses
// it to trigger a rebuild and dependency notifications for changed paths.
func ReorderWithAfterMove(fn func(result MoveResult, changed []Path)) ReorderOption {
	return func(e *ReorderEngine) {
		e.afterMove = fn
	}
}

// ReorderEngine is the Idle → Dragging → Idle state machine translating
// pointer positions into fractional order keys and bucket reassignment,
// written through the override store.
type ReorderEngine struct {
	resolver *Resolver
	builder  *ListBuilder
	locator  SlotLocator
	hooks    activity.Hooks
	afterMove func(result MoveResult, changed []Path)

	session *DragSession
	last    *BucketList
}

// NewReorderEngine constructs an engine over the shared resolution state.
func NewReorderEngine(resolver *Resolver, builder *ListBuilder, opts ...ReorderOption) *ReorderEngine {
	e := &ReorderEngine{resolver: resolver, builder: builder}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// SetList installs the latest built list. Hit-test indices refer to it.
// A rebuild that lands mid-drag invalidates the session defensively.
func (e *ReorderEngine) SetList(list *BucketList) {
	e.last = list
	if e.session != nil {
		e.Invalidate()
	}
}

// Session returns a copy of the active drag session, if any.
func (e *ReorderEngine) Session() (DragSession, bool) {
	if e.session == nil {
		return DragSession{}, false
	}
	session := *e.session
	if e.session.Target != nil {
		target := *e.session.Target
		session.Target = &target
	}
	return session, true
}

// Start opens a drag session for id, capturing its source position from
// the last built list.
func (e *ReorderEngine) Start(id ItemID) error {
	if e.session != nil {
		return ErrDragActive
	}
	pos, ok := e.last.Position(id)
	if !ok {
		return ErrUnknownItem
	}
	e.session = &DragSession{
		ID:           uuid.New(),
		Item:         id,
		SourceBucket: pos.Bucket,
		SourceIndex:  pos.Index,
	}
	return nil
}

// Update hit-tests the pointer position and records the resolved drop
// target. Upper half inserts before the slot, lower half after; a header
// targets the end of its bucket; no hit clears the target.
func (e *ReorderEngine) Update(p Point) {
	if e.session == nil {
		return
	}
	if e.locator == nil {
		e.session.Target = nil
		return
	}
	hit, ok := e.locator.Locate(p)
	if !ok {
		e.session.Target = nil
		return
	}
	switch hit.Slot.Kind {
	case SlotHeader:
		e.session.Target = &DropTarget{Bucket: hit.Slot.Bucket, EndOfBucket: true}
	case SlotItem:
		index := hit.Slot.Index
		if !hit.UpperHalf {
			index++
		}
		e.session.Target = &DropTarget{Bucket: hit.Slot.Bucket, Index: index}
	default:
		e.session.Target = nil
	}
}

// Invalidate destroys the session without writing, used when an unrelated
// rebuild lands mid-drag.
func (e *ReorderEngine) Invalidate() {
	e.session = nil
}

// End resolves the drag. Without a valid target, or when dropping adjacent
// to the item's own position, nothing is written. Otherwise membership
// transitions and the fractional order key are written through the store.
// The session is destroyed regardless of outcome.
func (e *ReorderEngine) End() (MoveResult, bool) {
	session := e.session
	e.session = nil
	if session == nil || session.Target == nil || e.last == nil {
		return MoveResult{}, false
	}

	target := *session.Target
	targetIndex := target.Index
	if target.EndOfBucket {
		targetIndex = len(e.last.Bucket(target.Bucket))
	}
	if target.Bucket == session.SourceBucket &&
		(targetIndex == session.SourceIndex || targetIndex == session.SourceIndex+1) {
		return MoveResult{}, false
	}

	id := session.Item
	enabledPath := ItemFieldPath(id, FieldEnabled)
	bucketPath := ItemFieldPath(id, FieldBucket)
	orderPath := ItemFieldPath(id, FieldOrder)

	fromUnassigned := session.SourceBucket == UnassignedBucket
	toUnassigned := target.Bucket == UnassignedBucket

	var changed []Path
	switch {
	case toUnassigned && !fromUnassigned:
		// Un-placing disables as a pair with clearing the placement; the
		// store never ends up with enabled=true on an unassigned item.
		e.resolver.Write(enabledPath, false)
		e.resolver.Store().Clear(bucketPath)
		changed = append(changed, enabledPath, bucketPath)
	case !toUnassigned && fromUnassigned:
		e.resolver.Write(enabledPath, true)
		e.resolver.Write(bucketPath, target.Bucket)
		changed = append(changed, enabledPath, bucketPath)
	case !toUnassigned && target.Bucket != session.SourceBucket:
		e.resolver.Write(bucketPath, target.Bucket)
		changed = append(changed, bucketPath)
	}

	// Removal shifts later indices left when the item came from the same
	// bucket above the insertion point.
	if target.Bucket == session.SourceBucket && session.SourceIndex < targetIndex {
		targetIndex--
	}
	remaining := e.builder.orderedBucketExcluding(e.last, target.Bucket, id)
	order := insertionOrder(remaining, targetIndex)
	e.resolver.Write(orderPath, order)
	changed = append(changed, orderPath)

	result := MoveResult{
		Item:       id,
		FromBucket: session.SourceBucket,
		ToBucket:   target.Bucket,
		Order:      order,
	}
	if e.hooks.Enabled() {
		_ = e.hooks.Notify(context.Background(), activity.BuildItemMovedEvent(activity.MoveEventInput{
			ItemID:     int64(id),
			FromBucket: result.FromBucket,
			ToBucket:   result.ToBucket,
			Order:      order,
		}))
	}
	if e.afterMove != nil {
		e.afterMove(result, changed)
	}
	return result, true
}

// insertionOrder computes the fractional key for inserting at index into
// the already-sorted remaining items.
func insertionOrder(remaining []EffectiveItem, index int) float64 {
	switch {
	case len(remaining) == 0:
		return 1
	case index >= len(remaining):
		return remaining[len(remaining)-1].Order + 1
	case index <= 0:
		return remaining[0].Order - 0.5
	default:
		return (remaining[index-1].Order + remaining[index].Order) / 2
	}
}
