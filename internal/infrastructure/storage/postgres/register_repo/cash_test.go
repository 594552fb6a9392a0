package register_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/cash"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/reports"
)

func dayPeriod(t *testing.T, mode reports.Mode) reports.Period {
	t.Helper()
	p, err := reports.NewPeriod(mode, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestListQuery_PeriodBoundsBindHalfOpen(t *testing.T) {
	from, to := dayPeriod(t, reports.ModeWeek).Range()
	sql, args, err := NewCashRepo(nil).listQuery(id.New(), cash.ListFilter{From: &from, To: &to})
	require.NoError(t, err)

	assert.Contains(t, sql, "cash_date >= $2")
	assert.Contains(t, sql, "cash_date < $3")
	require.Len(t, args, 3)
	assert.Equal(t, from, args[1])
	assert.Equal(t, to, args[2])
}

func TestListQuery_BranchTypeResolvesAgainstCatalog(t *testing.T) {
	bt := branch.TypeOutlet
	sql, args, err := NewCashRepo(nil).listQuery(id.New(), cash.ListFilter{BranchType: &bt})
	require.NoError(t, err)

	// Matched through the catalog, never a stored column on the entry.
	assert.Contains(t, sql, "branch_id IN (SELECT id FROM branches WHERE tenant_id = $2 AND branch_type = $3)")
	require.Len(t, args, 3)
	assert.Equal(t, bt, args[2])
}

func TestSummarizeQuery_CurrentAmountIgnoresPeriod(t *testing.T) {
	tenantID := id.New()

	daySQL, dayArgs := summarizeQuery(tenantID, dayPeriod(t, reports.ModeDay), cash.SummaryFilter{})
	yearSQL, _ := summarizeQuery(tenantID, dayPeriod(t, reports.ModeYear), cash.SummaryFilter{})

	// Only the bound window moves between modes; the SQL is identical,
	// and the totals behind current_amount take no date parameters.
	assert.Equal(t, daySQL, yearSQL)
	assert.Contains(t, daySQL, "SUM(total_amount)::bigint AS total,")
	assert.Contains(t, daySQL, "SUM(amount)::bigint AS total,")
	assert.Contains(t, daySQL, "COALESCE(s.total, 0) + COALESCE(c.total, 0) AS current_amount")
	require.Len(t, dayArgs, 3)
}

func TestSummarizeQuery_PeriodScopesOnlySubtotals(t *testing.T) {
	sql, _ := summarizeQuery(id.New(), dayPeriod(t, reports.ModeDay), cash.SummaryFilter{})

	assert.Contains(t, sql, "FILTER (WHERE sale_date >= $2 AND sale_date < $3)")
	assert.Contains(t, sql, "FILTER (WHERE amount > 0 AND cash_date >= $2 AND cash_date < $3)")
	// Withdrawals are stored negative; the period figure reports them positive.
	assert.Contains(t, sql, "SUM(-amount) FILTER (WHERE amount < 0")
}

func TestSummarizeQuery_BranchFiltersAppend(t *testing.T) {
	bt := branch.TypeBranch
	branchID := id.New()

	sql, args := summarizeQuery(id.New(), dayPeriod(t, reports.ModeDay), cash.SummaryFilter{
		BranchType: &bt,
		BranchID:   &branchID,
	})

	assert.Contains(t, sql, "b.branch_type = $4")
	assert.Contains(t, sql, "b.id = $5")
	require.Len(t, args, 5)
	assert.Equal(t, bt, args[3])
	assert.Equal(t, branchID, args[4])
}
