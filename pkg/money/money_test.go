package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New(123456, USD)
	assert.Equal(t, int64(123456), m.Amount())
	assert.Equal(t, USD, m.Currency())
	assert.Equal(t, "$1,234.56", m.Display())
}

func TestNewFromDecimal(t *testing.T) {
	t.Run("exact cents", func(t *testing.T) {
		d := decimal.RequireFromString("1234.56")
		m := NewFromDecimal(d, USD)
		assert.Equal(t, int64(123456), m.Amount())
	})

	t.Run("rounds half up", func(t *testing.T) {
		d := decimal.RequireFromString("10.005")
		m := NewFromDecimal(d, USD)
		assert.Equal(t, int64(1001), m.Amount())
	})

	t.Run("unknown currency falls back to USD fraction", func(t *testing.T) {
		d := decimal.RequireFromString("5.00")
		m := NewFromDecimal(d, "XXX")
		assert.Equal(t, int64(500), m.Amount())
	})
}

func TestNilSafety(t *testing.T) {
	var m *Money
	assert.Equal(t, int64(0), m.Amount())
	assert.Equal(t, "", m.Currency())
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, "$0.00", m.Display())
	assert.Equal(t, "0.00", m.String())
}

func TestArithmetic(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		sum, err := New(1050, USD).Add(New(950, USD))
		require.NoError(t, err)
		assert.Equal(t, int64(2000), sum.Amount())
	})

	t.Run("add currency mismatch", func(t *testing.T) {
		_, err := New(100, USD).Add(New(100, EUR))
		assert.Error(t, err)
	})

	t.Run("add to nil", func(t *testing.T) {
		var m *Money
		sum, err := m.Add(New(500, USD))
		require.NoError(t, err)
		assert.Equal(t, int64(500), sum.Amount())
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := New(1000, USD).Subtract(New(1500, USD))
		require.NoError(t, err)
		assert.Equal(t, int64(-500), diff.Amount())
		assert.True(t, diff.IsNegative())
	})

	t.Run("negate and abs", func(t *testing.T) {
		m := New(750, USD).Negate()
		assert.Equal(t, int64(-750), m.Amount())
		assert.Equal(t, int64(750), m.Abs().Amount())
	})
}

func TestToDecimal(t *testing.T) {
	m := New(123456, USD)
	assert.Equal(t, "1234.56", m.ToDecimal().String())
	assert.Equal(t, "1234.56", m.String())
}

func TestJSONRoundTrip(t *testing.T) {
	m := New(-2500, EUR)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":-2500`)
	assert.Contains(t, string(data), `"currency":"EUR"`)

	var got Money
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, int64(-2500), got.Amount())
	assert.Equal(t, EUR, got.Currency())
}
