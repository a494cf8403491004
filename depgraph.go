package hudcfg

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-hudcfg/pkg/activity"
)

var (
	// ErrDependencyCycle indicates a registration would close a cycle.
	// Cycles are a setup-time programming error; the graph fails fast here
	// rather than guarding at evaluation time.
	ErrDependencyCycle = errors.New("hudcfg: dependency cycle")
	// ErrDuplicateDependency indicates the child already has a parent edge.
	ErrDuplicateDependency = errors.New("hudcfg: dependency already registered")
)

// DependencyMode selects how a parent's effective value gates the child.
type DependencyMode int

const (
	// ModeBoolean is satisfied when the parent's effective value is true.
	ModeBoolean DependencyMode = iota + 1
	// ModeEquals is satisfied when the parent's effective value equals Want.
	ModeEquals
	// ModeNotEquals is satisfied when the parent's value differs from Want.
	ModeNotEquals
)

// DependencyEdge links a child setting to the parent that gates it.
// Children point to exactly one parent; the edges form a directed forest.
type DependencyEdge struct {
	Child  Path
	Parent Path
	Mode   DependencyMode
	Want   any
}

// BooleanEdge builds an edge satisfied when parent is true.
func BooleanEdge(child, parent Path) DependencyEdge {
	return DependencyEdge{Child: child, Parent: parent, Mode: ModeBoolean}
}

// EqualsEdge builds an edge satisfied when parent equals want.
func EqualsEdge(child, parent Path, want any) DependencyEdge {
	return DependencyEdge{Child: child, Parent: parent, Mode: ModeEquals, Want: want}
}

// NotEqualsEdge builds an edge satisfied when parent differs from want.
func NotEqualsEdge(child, parent Path, want any) DependencyEdge {
	return DependencyEdge{Child: child, Parent: parent, Mode: ModeNotEquals, Want: want}
}

// NotifyFunc receives (path, satisfied) whenever re-evaluation changes a
// path's enabled state. The presentation layer applies visuals; the graph
// never touches render objects.
type NotifyFunc func(p Path, satisfied bool)

// GraphOption configures a DependencyGraph.
type GraphOption func(*DependencyGraph)

// GraphWithNotify installs the change callback.
func GraphWithNotify(fn NotifyFunc) GraphOption {
	return func(g *DependencyGraph) {
		g.notify = fn
	}
}

// GraphWithHooks attaches activity hooks fired alongside the callback.
func GraphWithHooks(hooks activity.Hooks) GraphOption {
	return func(g *DependencyGraph) {
		g.hooks = hooks
	}
}

// DependencyGraph resolves enable/disable relationships between setting
// paths, transitively through parent chains.
type DependencyGraph struct {
	resolver *Resolver
	edges    map[string]DependencyEdge
	children map[string][]Path
	state    map[string]bool
	notify   NotifyFunc
	hooks    activity.Hooks
}

// NewDependencyGraph constructs an empty graph over resolver.
func NewDependencyGraph(resolver *Resolver, opts ...GraphOption) *DependencyGraph {
	g := &DependencyGraph{
		resolver: resolver,
		edges:    make(map[string]DependencyEdge),
		children: make(map[string][]Path),
		state:    make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Register adds edge to the graph. A child may have one parent; registering
// a second edge for the same child, or an edge that closes a cycle, fails.
func (g *DependencyGraph) Register(edge DependencyEdge) error {
	if edge.Child.IsZero() || edge.Parent.IsZero() {
		return fmt.Errorf("%w: child and parent required", ErrInvalidPath)
	}
	if edge.Mode < ModeBoolean || edge.Mode > ModeNotEquals {
		return fmt.Errorf("hudcfg: unknown dependency mode %d", edge.Mode)
	}
	child := edge.Child.String()
	if _, exists := g.edges[child]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateDependency, child)
	}
	// Walk the ancestor chain from the new parent; reaching the child means
	// the registration would close a cycle.
	for cursor := edge.Parent; !cursor.IsZero(); {
		if cursor.Equal(edge.Child) {
			return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, child, edge.Parent.String())
		}
		next, ok := g.edges[cursor.String()]
		if !ok {
			break
		}
		cursor = next.Parent
	}
	g.edges[child] = edge
	g.children[edge.Parent.String()] = append(g.children[edge.Parent.String()], edge.Child)
	g.state[child] = g.IsSatisfied(edge.Child)
	return nil
}

// IsSatisfied reports whether p's entire ancestor chain holds. Paths with
// no registered dependency are always satisfied.
func (g *DependencyGraph) IsSatisfied(p Path) bool {
	edge, ok := g.edges[p.String()]
	if !ok {
		return true
	}
	value, _ := g.resolver.EffectiveValue(edge.Parent)
	if !edgeHolds(edge, value) {
		return false
	}
	return g.IsSatisfied(edge.Parent)
}

// OnChange re-evaluates satisfaction for all direct children of p,
// cascading breadth-first through their own children. The callback fires
// only for children whose satisfied state actually changed.
func (g *DependencyGraph) OnChange(p Path) {
	queue := append([]Path(nil), g.children[p.String()]...)
	for len(queue) > 0 {
		child := queue[0]
		queue = queue[1:]
		satisfied := g.IsSatisfied(child)
		key := child.String()
		if previous, known := g.state[key]; !known || previous != satisfied {
			g.state[key] = satisfied
			g.fire(child, satisfied)
		}
		queue = append(queue, g.children[key]...)
	}
}

// Refresh re-evaluates every registered child, used after context changes
// that can move effective values without any single OnChange trigger.
func (g *DependencyGraph) Refresh() {
	for key := range g.edges {
		edge := g.edges[key]
		satisfied := g.IsSatisfied(edge.Child)
		if previous, known := g.state[key]; !known || previous != satisfied {
			g.state[key] = satisfied
			g.fire(edge.Child, satisfied)
		}
	}
}

// HasDependents reports whether any child is gated on p.
func (g *DependencyGraph) HasDependents(p Path) bool {
	return len(g.children[p.String()]) > 0
}

func (g *DependencyGraph) fire(p Path, satisfied bool) {
	if g.notify != nil {
		g.notify(p, satisfied)
	}
	if g.hooks.Enabled() {
		_ = g.hooks.Notify(context.Background(), activity.BuildDependencyChangedEvent(p.String(), satisfied))
	}
}

func edgeHolds(edge DependencyEdge, parentValue any) bool {
	switch edge.Mode {
	case ModeBoolean:
		b, ok := asBool(parentValue)
		return ok && b
	case ModeEquals:
		return valuesEqual(parentValue, edge.Want)
	case ModeNotEquals:
		return !valuesEqual(parentValue, edge.Want)
	default:
		return false
	}
}
