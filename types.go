package hudcfg

import "time"

// ItemID identifies a trackable item (e.g. a spell). Identity is immutable;
// all mutable per-item state lives in the override store under
// items.<id>.<field> keys.
type ItemID int64

// UnassignedBucket is the sentinel bucket meaning "not placed, candidate
// only". Real buckets are zero-based ordinals supplied by the metadata
// provider.
const UnassignedBucket = -1

// PlayerContext is the read-only contextual state supplied by the host:
// which class/spec the defaults should be resolved against.
type PlayerContext struct {
	ClassKey string
	SpecKey  string
}

// ContextProvider supplies the current player context and the tracked-state
// predicate. The core only reads from it, never mutates it. Current reports
// ok=false while no context has been detected yet; builds then return an
// empty list and the host retries once context is available.
type ContextProvider interface {
	Current() (PlayerContext, bool)
	IsTracked(id ItemID) bool
}

// ItemMeta is the static, per-item metadata owned by the host catalog.
// Attributes carries arbitrary fields (cooldown, forced, tags) that
// relevance and exclusion rules can bind against.
type ItemMeta struct {
	Priority     int
	SecondaryKey float64
	LinkGroup    string
	Attributes   map[string]any
}

// MetadataProvider exposes the static item catalog and bucket layout.
// DefaultBucket reports the contextual default placement for an item; ok is
// false when the item is not relevant for ctx.
type MetadataProvider interface {
	Item(id ItemID) (ItemMeta, bool)
	Items() []ItemID
	DefaultBucket(id ItemID, ctx PlayerContext) (int, bool)
	Buckets() []int
}

// EffectiveItem is the derived, never-persisted view of one item after a
// rebuild: placement, resolved order keys and enabled state.
type EffectiveItem struct {
	ID            ItemID
	Bucket        int
	Order         float64
	DefaultOrder  float64
	Enabled       bool
	Modified      bool
	CandidateOnly bool
}

// RuleContext carries the bindings available to relevance/exclusion rules.
// Item attributes are additionally flattened into the evaluation
// environment so predicates read naturally (e.g. "cooldown < 30").
type RuleContext struct {
	Item     map[string]any
	Player   map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Item == nil {
		ctx.Item = map[string]any{}
	}
	if ctx.Player == nil {
		ctx.Player = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes rule expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// PredicateFunc is a native Go predicate that bypasses the evaluator stack.
type PredicateFunc func(ctx RuleContext) bool

func copyAttributes(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
