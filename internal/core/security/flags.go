// Package security provides feature gating for tenant plans.
//
// Flag rules are CEL expressions evaluated against the caller's tenant
// attributes, so plan entitlements can be changed without a deploy:
//
//	reports.overview: `plan == "premium" || plan == "enterprise"`
//	transfers.barcode: `true`
package security

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// FlagProvider decides whether a feature is enabled for the caller.
type FlagProvider interface {
	IsEnabled(ctx context.Context, flag string, attrs FlagAttributes) bool
}

// FlagAttributes are the variables visible to flag rules.
type FlagAttributes struct {
	TenantID string
	Plan     string
	Role     string
}

// Well-known flag names.
const (
	FlagReportsOverview  = "reports.overview"
	FlagTransfersBarcode = "transfers.barcode"
	FlagCashSummary      = "cash.summary"
)

// CELFlags evaluates flag rules written as CEL expressions.
// Unknown flags and rules that fail to compile or evaluate are treated
// as disabled; gating must fail closed.
type CELFlags struct {
	mu       sync.RWMutex
	env      *cel.Env
	programs map[string]cel.Program
}

// NewCELFlags creates a provider with the given rule set (flag -> expression).
func NewCELFlags(rules map[string]string) (*CELFlags, error) {
	env, err := cel.NewEnv(
		cel.Variable("tenant_id", cel.StringType),
		cel.Variable("plan", cel.StringType),
		cel.Variable("role", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	f := &CELFlags{
		env:      env,
		programs: make(map[string]cel.Program, len(rules)),
	}
	for flag, expr := range rules {
		if err := f.SetRule(flag, expr); err != nil {
			return nil, fmt.Errorf("flag %s: %w", flag, err)
		}
	}
	return f, nil
}

// SetRule compiles and installs a rule for a flag, replacing any previous one.
func (f *CELFlags) SetRule(flag, expr string) error {
	ast, issues := f.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return fmt.Errorf("compile rule: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return fmt.Errorf("rule must evaluate to bool, got %s", ast.OutputType())
	}

	prg, err := f.env.Program(ast)
	if err != nil {
		return fmt.Errorf("build program: %w", err)
	}

	f.mu.Lock()
	f.programs[flag] = prg
	f.mu.Unlock()
	return nil
}

// IsEnabled implements FlagProvider.
func (f *CELFlags) IsEnabled(ctx context.Context, flag string, attrs FlagAttributes) bool {
	f.mu.RLock()
	prg, ok := f.programs[flag]
	f.mu.RUnlock()
	if !ok {
		return false
	}

	out, _, err := prg.ContextEval(ctx, map[string]any{
		"tenant_id": attrs.TenantID,
		"plan":      attrs.Plan,
		"role":      attrs.Role,
	})
	if err != nil {
		return false
	}

	enabled, ok := out.Value().(bool)
	return ok && enabled
}

// DefaultRules returns the built-in entitlement matrix. The overview
// report and cash summary are open to every plan; rules exist so an
// operator can restrict them later without code changes.
func DefaultRules() map[string]string {
	return map[string]string{
		FlagReportsOverview:  `true`,
		FlagCashSummary:      `true`,
		FlagTransfersBarcode: `plan != "starter"`,
	}
}

var _ FlagProvider = (*CELFlags)(nil)
