package register_repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetflow/internal/core/id"
	"sweetflow/internal/domain/warehouse"
)

func TestStockQuery_RoutesPooledBranchesToCentral(t *testing.T) {
	sql, args, err := stockQuery(id.New(), warehouse.LogicalFilter{Kind: warehouse.FilterAll})
	require.NoError(t, err)

	// The pooling rule lives in the query, never in a stored column.
	assert.Contains(t, sql, "ob.branch_type = 'OUTLET'")
	assert.Contains(t, sql, "ob.use_central_stock")
	assert.Contains(t, sql, "THEN NULL ELSE m.branch_id END")
	assert.Len(t, args, 1) // tenant only
}

func TestStockQuery_SignedSumAndZeroRowDrop(t *testing.T) {
	sql, _, err := stockQuery(id.New(), warehouse.LogicalFilter{Kind: warehouse.FilterAll})
	require.NoError(t, err)

	assert.Contains(t, sql, "WHEN m.movement_type = 'OUT' THEN -m.quantity ELSE m.quantity END")
	assert.Contains(t, sql, "HAVING "+signedSumExpr+" <> 0")
}

func TestStockQuery_CentralFilter(t *testing.T) {
	sql, _, err := stockQuery(id.New(), warehouse.LogicalFilter{Kind: warehouse.FilterCentralOnly})
	require.NoError(t, err)

	assert.Contains(t, sql, logicalBranchExpr+" IS NULL")
}

func TestStockQuery_BranchFilterBindsID(t *testing.T) {
	branchID := id.New()
	sql, args, err := stockQuery(id.New(), warehouse.LogicalFilter{Kind: warehouse.FilterBranchOnly, BranchID: branchID})
	require.NoError(t, err)

	assert.Contains(t, sql, logicalBranchExpr+" = $")
	require.Len(t, args, 2)
	assert.Equal(t, branchID, args[1])
}

func TestStockQuery_DollarPlaceholders(t *testing.T) {
	sql, _, err := stockQuery(id.New(), warehouse.LogicalFilter{Kind: warehouse.FilterAll})
	require.NoError(t, err)

	assert.Contains(t, sql, "$1")
	assert.False(t, strings.Contains(sql, "?"))
}
