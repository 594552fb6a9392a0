package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_FixedPointScale(t *testing.T) {
	q := NewQuantityFromFloat64(2.5)
	assert.Equal(t, int64(25000), q.Int64Scaled())
	assert.Equal(t, 2.5, q.Float64())
}

func TestQuantity_String(t *testing.T) {
	assert.Equal(t, "2.5000", NewQuantityFromFloat64(2.5).String())
	assert.Equal(t, "0.0001", NewQuantityFromInt64Scaled(1).String())
	assert.Equal(t, "-3.2500", NewQuantityFromFloat64(-3.25).String())
	assert.Equal(t, "0.0000", Quantity(0).String())
}

func TestQuantity_MarshalJSONIsNumber(t *testing.T) {
	data, err := json.Marshal(NewQuantityFromFloat64(1.25))
	require.NoError(t, err)
	assert.Equal(t, "1.2500", string(data))
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Quantity
	}{
		{"number", `2.5`, NewQuantityFromFloat64(2.5)},
		{"string", `"2.5"`, NewQuantityFromFloat64(2.5)},
		{"integer", `7`, NewQuantityFromFloat64(7)},
		{"negative", `-0.25`, NewQuantityFromFloat64(-0.25)},
		{"null", `null`, 0},
		{"excess digits truncated", `1.23456`, NewQuantityFromInt64Scaled(12345)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tt.in), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantity_UnmarshalJSONRejectsGarbage(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
}

func TestQuantity_SignHelpers(t *testing.T) {
	assert.True(t, NewQuantityFromFloat64(1).IsPositive())
	assert.True(t, NewQuantityFromFloat64(-1).IsNegative())
	assert.True(t, Quantity(0).IsZero())
	assert.Equal(t, NewQuantityFromFloat64(3), NewQuantityFromFloat64(-3).Neg())
	assert.Equal(t, NewQuantityFromFloat64(3), NewQuantityFromFloat64(-3).Abs())
}

func TestMinorUnits_MajorConversion(t *testing.T) {
	m := NewMinorUnitsFromMajor(12.34, 2)
	assert.Equal(t, MinorUnits(1234), m)
	assert.Equal(t, 12.34, m.ToMajor(2))
}

func TestMoney_StringConstruction(t *testing.T) {
	m, err := NewMoneyFromString("99.90")
	require.NoError(t, err)
	assert.Equal(t, "99.9", m.String())
	assert.True(t, MustMoney("99.90").Equal(m))
}
