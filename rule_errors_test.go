package hudcfg

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapRuleErrorAddsMetadata(t *testing.T) {
	cause := errors.New("unexpected token")
	err := wrapRuleError("expr", "cooldown <", cause)

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("err = %T, want *RuleError", err)
	}
	if ruleErr.Engine != "expr" || ruleErr.Expr != "cooldown <" {
		t.Fatalf("ruleErr = %+v", ruleErr)
	}
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error lost its cause")
	}
	if !strings.Contains(err.Error(), `expr=`) || !strings.HasPrefix(err.Error(), "hudcfg:") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestWrapRuleErrorIsIdempotent(t *testing.T) {
	inner := wrapRuleError("expr", "a < b", errors.New("boom"))
	outer := wrapRuleError("cel", "other", inner)

	var ruleErr *RuleError
	if !errors.As(outer, &ruleErr) {
		t.Fatalf("outer = %T", outer)
	}
	// The first wrap's metadata wins.
	if ruleErr.Engine != "expr" || ruleErr.Expr != "a < b" {
		t.Fatalf("ruleErr = %+v", ruleErr)
	}
}

func TestWrapRuleEngineError(t *testing.T) {
	if wrapRuleEngineError("expr", nil) != nil {
		t.Fatal("nil error wrapped")
	}

	prefixed := fmt.Errorf("hudcfg: already ours")
	if got := wrapRuleEngineError("expr", prefixed); got != prefixed {
		t.Fatalf("prefixed error rewrapped: %v", got)
	}

	err := wrapRuleEngineError("expr", errors.New("boom"))
	if !strings.HasPrefix(err.Error(), "hudcfg: expr rule:") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestEvaluateReturnsRuleError(t *testing.T) {
	evaluator := NewExprEvaluator()
	_, err := evaluator.Evaluate(ruleContextFixture(), "cooldown <")

	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("err = %T (%v), want *RuleError", err, err)
	}
	if ruleErr.Engine != "expr" {
		t.Fatalf("engine = %q", ruleErr.Engine)
	}
}
