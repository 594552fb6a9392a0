package report_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineValueExpr_SumsBeforeDividing(t *testing.T) {
	expr := lineValueExpr("ti.quantity", "ti.unit_value")

	// The scale division runs once over the whole sum; a per-row
	// division would truncate every line.
	assert.Contains(t, expr, "SUM(ti.quantity * ti.unit_value)")
	assert.Contains(t, expr, "::numeric / 10000")
	assert.NotContains(t, expr, "unit_value / 10000")
	assert.Contains(t, expr, "ROUND(")
	assert.Contains(t, expr, "COALESCE(")
}

func TestAllTimeQuery_ValuesLinesLikeSales(t *testing.T) {
	assert.Contains(t, allTimeQuery, lineValueExpr("ti.quantity", "ti.unit_value"))
	assert.Contains(t, allTimeQuery, lineValueExpr("ri.quantity", "ri.unit_value"))
	assert.NotContains(t, allTimeQuery, "unit_value / 10000")
}
