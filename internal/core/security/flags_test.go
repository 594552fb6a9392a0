package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCELFlags_BadRuleFailsFast(t *testing.T) {
	_, err := NewCELFlags(map[string]string{"broken": `plan ==`})
	assert.Error(t, err)
}

func TestNewCELFlags_NonBoolRuleRejected(t *testing.T) {
	_, err := NewCELFlags(map[string]string{"weird": `plan + role`})
	assert.Error(t, err)
}

func TestIsEnabled_PlanRule(t *testing.T) {
	f, err := NewCELFlags(map[string]string{
		"pro.feature": `plan == "pro" || plan == "enterprise"`,
	})
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, f.IsEnabled(ctx, "pro.feature", FlagAttributes{Plan: "pro"}))
	assert.True(t, f.IsEnabled(ctx, "pro.feature", FlagAttributes{Plan: "enterprise"}))
	assert.False(t, f.IsEnabled(ctx, "pro.feature", FlagAttributes{Plan: "starter"}))
}

func TestIsEnabled_UnknownFlagFailsClosed(t *testing.T) {
	f, err := NewCELFlags(DefaultRules())
	require.NoError(t, err)

	assert.False(t, f.IsEnabled(context.Background(), "no.such.flag", FlagAttributes{Plan: "pro"}))
}

func TestIsEnabled_RoleRule(t *testing.T) {
	f, err := NewCELFlags(map[string]string{
		"admin.only": `role == "tenant_admin"`,
	})
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, f.IsEnabled(ctx, "admin.only", FlagAttributes{Role: "tenant_admin"}))
	assert.False(t, f.IsEnabled(ctx, "admin.only", FlagAttributes{Role: "seller"}))
}

func TestSetRule_ReplacesExisting(t *testing.T) {
	f, err := NewCELFlags(map[string]string{"toggle": `true`})
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, f.IsEnabled(ctx, "toggle", FlagAttributes{}))
	require.NoError(t, f.SetRule("toggle", `false`))
	assert.False(t, f.IsEnabled(ctx, "toggle", FlagAttributes{}))
}

func TestDefaultRules(t *testing.T) {
	f, err := NewCELFlags(DefaultRules())
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, f.IsEnabled(ctx, FlagReportsOverview, FlagAttributes{Plan: "starter"}))
	assert.True(t, f.IsEnabled(ctx, FlagCashSummary, FlagAttributes{Plan: "starter"}))
	assert.False(t, f.IsEnabled(ctx, FlagTransfersBarcode, FlagAttributes{Plan: "starter"}))
	assert.True(t, f.IsEnabled(ctx, FlagTransfersBarcode, FlagAttributes{Plan: "standard"}))
}
