package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromDecimal(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(99.99))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestZero(t *testing.T) {
	m := Zero()
	assert.True(t, m.IsZero())
	assert.Equal(t, DefaultCurrency, m.Currency())
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyFromFloat(100)
		b := NewMoneyFromFloat(50.25)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(150.25)))
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyFromFloat(100)
		b, err := NewMoney(decimal.NewFromInt(50), EUR)
		require.NoError(t, err)
		_, err = a.Add(b)
		assert.Error(t, err)
	})

	t.Run("does not mutate operands", func(t *testing.T) {
		a := NewMoneyFromFloat(100)
		b := NewMoneyFromFloat(1)
		_, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, a.Amount().Equal(decimal.NewFromInt(100)))
	})
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyFromFloat(100)
	b := NewMoneyFromFloat(150)
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(-50)))
}

func TestMoney_MultiplyByInt(t *testing.T) {
	m := NewMoneyFromFloat(2500)
	total := m.MultiplyByInt(6)
	assert.True(t, total.Amount().Equal(decimal.NewFromInt(15000)))
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyFromFloat(10)
	b := NewMoneyFromFloat(20)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, a.Equals(NewMoneyFromFloat(10)))
	assert.False(t, a.Equals(b))
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyFromFloat(1234.5)
	assert.Equal(t, "1234.50 USD", m.String())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := NewMoneyFromFloat(42.42)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("missing currency falls back to default", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"7.50"}`), &m))
		assert.Equal(t, DefaultCurrency, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(7.50)))
	})
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("199.99"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(199.99)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(3.14))
	})
}
