package hudcfg

import "time"

// DefaultsOption configures a DefaultResolver.
type DefaultsOption func(*DefaultResolver)

// WithStaticDefaults installs the static default tree for plain settings.
// The tree is nested (maps of maps); leaves become dotted paths.
func WithStaticDefaults(tree map[string]any) DefaultsOption {
	return func(r *DefaultResolver) {
		r.statics = flattenTree(tree, "")
	}
}

// WithEvaluator selects the rule engine used for the default-enabled
// exclusion predicate. When unset the expr backend is used.
func WithEvaluator(e Evaluator) DefaultsOption {
	return func(r *DefaultResolver) {
		r.evaluator = e
	}
}

// WithProgramCache wires a compiled-program cache into the rule engine.
func WithProgramCache(cache ProgramCache) DefaultsOption {
	return func(r *DefaultResolver) {
		r.cache = cache
	}
}

// WithFunctionRegistry exposes host functions to rule expressions.
func WithFunctionRegistry(registry *FunctionRegistry) DefaultsOption {
	return func(r *DefaultResolver) {
		if registry == nil {
			return
		}
		r.registry = registry.Clone()
	}
}

// WithRuleLogger attaches a logger for rule evaluation events.
func WithRuleLogger(logger RuleLogger) DefaultsOption {
	return func(r *DefaultResolver) {
		if logger == nil {
			r.logger = noopRuleLogger{}
			return
		}
		r.logger = logger
	}
}

// WithExclusionRule installs the expression deciding which relevant items
// still default to disabled (e.g. "cooldown < 30 && !forced"). The rule
// sees the item attributes flattened plus item/player bindings.
func WithExclusionRule(expr string) DefaultsOption {
	return func(r *DefaultResolver) {
		r.exclusionExpr = expr
	}
}

// WithExclusionPredicate installs a native predicate instead of an
// expression. It takes precedence over WithExclusionRule.
func WithExclusionPredicate(fn PredicateFunc) DefaultsOption {
	return func(r *DefaultResolver) {
		r.exclusionFn = fn
	}
}

// DefaultResolver computes the contextual default for any (path) pair. It
// is deterministic and side-effect free for a fixed player context, which
// makes per-pass memoization safe; Invalidate drops the memo when context
// changes.
type DefaultResolver struct {
	meta MetadataProvider
	ctxp ContextProvider

	statics map[string]any

	evaluator     Evaluator
	cache         ProgramCache
	registry      *FunctionRegistry
	logger        RuleLogger
	exclusionExpr string
	exclusionFn   PredicateFunc
	exclusionRule CompiledRule

	memo map[string]memoEntry
}

type memoEntry struct {
	value any
	ok    bool
}

// NewDefaultResolver constructs a resolver over the host's metadata and
// context providers.
func NewDefaultResolver(meta MetadataProvider, ctxp ContextProvider, opts ...DefaultsOption) *DefaultResolver {
	r := &DefaultResolver{
		meta:   meta,
		ctxp:   ctxp,
		logger: noopRuleLogger{},
		memo:   make(map[string]memoEntry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ResolveDefault computes the default value at p. ok is false when the path
// has no default (notably per-item order, where absence means "use natural
// rank").
func (r *DefaultResolver) ResolveDefault(p Path) (any, bool) {
	if p.IsZero() {
		return nil, false
	}
	if entry, hit := r.memo[p.String()]; hit {
		return entry.value, entry.ok
	}
	value, ok := r.resolve(p)
	r.memo[p.String()] = memoEntry{value: value, ok: ok}
	return value, ok
}

// Invalidate drops the memo. The engine calls it whenever the player
// context changes; defaults are pure otherwise.
func (r *DefaultResolver) Invalidate() {
	r.memo = make(map[string]memoEntry)
}

func (r *DefaultResolver) resolve(p Path) (any, bool) {
	if id, field, ok := ParseItemFieldPath(p); ok {
		return r.resolveItemField(id, field)
	}
	value, ok := r.statics[p.String()]
	return value, ok
}

func (r *DefaultResolver) resolveItemField(id ItemID, field string) (any, bool) {
	switch field {
	case FieldOrder:
		// Absent: natural ranking applies.
		return nil, false
	case FieldBucket:
		if bucket, ok := r.defaultBucket(id); ok {
			return bucket, true
		}
		return UnassignedBucket, true
	case FieldEnabled:
		if _, relevant := r.defaultBucket(id); !relevant {
			return false, true
		}
		meta, ok := r.meta.Item(id)
		if !ok {
			return false, true
		}
		return !r.excludedByDefault(id, meta), true
	default:
		return nil, false
	}
}

func (r *DefaultResolver) defaultBucket(id ItemID) (int, bool) {
	ctx, ok := r.ctxp.Current()
	if !ok {
		return UnassignedBucket, false
	}
	return r.meta.DefaultBucket(id, ctx)
}

// excludedByDefault applies the host predicate deciding which relevant
// items still default to disabled. Evaluation failures never break default
// resolution; they log and count as "not excluded".
func (r *DefaultResolver) excludedByDefault(id ItemID, meta ItemMeta) bool {
	ruleCtx := r.ruleContext(id, meta)
	if r.exclusionFn != nil {
		return r.exclusionFn(ruleCtx)
	}
	if r.exclusionExpr == "" {
		return false
	}
	rule, err := r.compiledExclusionRule()
	if err != nil {
		r.logger.LogRule(RuleLogEvent{Engine: "exclusion", Expr: r.exclusionExpr, ItemID: id, Err: err})
		return false
	}
	start := time.Now()
	result, err := rule.Evaluate(ruleCtx)
	r.logger.LogRule(RuleLogEvent{
		Engine:   "exclusion",
		Expr:     r.exclusionExpr,
		ItemID:   id,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return false
	}
	excluded, ok := result.(bool)
	return ok && excluded
}

func (r *DefaultResolver) ruleContext(id ItemID, meta ItemMeta) RuleContext {
	item := copyAttributes(meta.Attributes)
	if item == nil {
		item = map[string]any{}
	}
	item["id"] = int64(id)
	item["priority"] = meta.Priority
	item["secondaryKey"] = meta.SecondaryKey
	if meta.LinkGroup != "" {
		item["linkGroup"] = meta.LinkGroup
	}
	player := map[string]any{}
	if ctx, ok := r.ctxp.Current(); ok {
		player["class"] = ctx.ClassKey
		player["spec"] = ctx.SpecKey
	}
	return RuleContext{Item: item, Player: player}
}

func (r *DefaultResolver) compiledExclusionRule() (CompiledRule, error) {
	if r.exclusionRule != nil {
		return r.exclusionRule, nil
	}
	rule, err := r.resolveEvaluator().Compile(r.exclusionExpr)
	if err != nil {
		return nil, err
	}
	r.exclusionRule = rule
	return rule, nil
}

func (r *DefaultResolver) resolveEvaluator() Evaluator {
	if r.evaluator != nil {
		return r.evaluator
	}
	var exprOpts []ExprEvaluatorOption
	if r.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(r.cache))
	}
	if r.registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(r.registry))
	}
	r.evaluator = NewExprEvaluator(exprOpts...)
	return r.evaluator
}

func flattenTree(tree map[string]any, prefix string) map[string]any {
	out := make(map[string]any)
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenTree(nested, path) {
				out[k] = v
			}
			continue
		}
		out[path] = value
	}
	return out
}
