package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/amount"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		dong int64
	}{
		{"positive", 226500},
		{"zero", 0},
		{"negative", -5000},
		{"large", 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.dong)
			assert.Equal(t, tt.dong, m.Amount())
			assert.Equal(t, VND, m.Currency())
		})
	}
}

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   int64
	}{
		{"whole", "226500", 226500},
		{"negative", "-5000", -5000},
		{"rounds down", "1282.4", 1282},
		{"rounds up", "1282.6", 1283},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, NewFromDecimal(d).Amount())
		})
	}
}

func TestZero(t *testing.T) {
	m := Zero()
	assert.True(t, m.IsZero())
	assert.Equal(t, int64(0), m.Amount())
	assert.Equal(t, VND, m.Currency())
}

func TestSum(t *testing.T) {
	total := Sum(New(169500), New(27000), nil, New(-5000))
	assert.Equal(t, int64(191500), total.Amount())

	assert.True(t, Sum().IsZero())
}

func TestArithmetic(t *testing.T) {
	a := New(55000)
	b := New(5000)

	assert.Equal(t, int64(60000), a.Add(b).Amount())
	assert.Equal(t, int64(50000), a.Sub(b).Amount())
	assert.Equal(t, int64(165000), a.Multiply(3).Amount())
	assert.Equal(t, int64(-55000), a.Negate().Amount())
	assert.Equal(t, int64(55000), New(-55000).Abs().Amount())

	// Nil operands count as zero.
	var nilMoney *Money
	assert.Equal(t, int64(55000), a.Add(nilMoney).Amount())
	assert.Equal(t, int64(-55000), nilMoney.Sub(a).Amount())
}

func TestComparisons(t *testing.T) {
	small := New(1000)
	big := New(226500)

	assert.True(t, small.LessThan(big))
	assert.True(t, big.GreaterThan(small))
	assert.False(t, small.Equals(big))
	assert.True(t, New(1000).Equals(small))

	assert.Equal(t, -1, small.Compare(big))
	assert.Equal(t, 1, big.Compare(small))
	assert.Equal(t, 0, small.Compare(New(1000)))

	var nilMoney *Money
	assert.True(t, nilMoney.Equals(Zero()))
	assert.True(t, nilMoney.LessThan(small))
}

func TestIsPositiveNegative(t *testing.T) {
	assert.True(t, New(100).IsPositive())
	assert.True(t, New(-100).IsNegative())
	assert.False(t, Zero().IsPositive())
	assert.False(t, Zero().IsNegative())

	var nilMoney *Money
	assert.True(t, nilMoney.IsZero())
	assert.False(t, nilMoney.IsPositive())
}

func TestFormatVND(t *testing.T) {
	tests := []struct {
		name string
		dong int64
		want string
	}{
		{"zero", 0, "0 ₫"},
		{"under a thousand", 500, "500 ₫"},
		{"exactly a thousand", 1000, "1.000 ₫"},
		{"two groups", 22500, "22.500 ₫"},
		{"receipt price", 226500, "226.500 ₫"},
		{"receipt total", 729318, "729.318 ₫"},
		{"three groups", 1234567, "1.234.567 ₫"},
		{"negative discount", -5000, "-5.000 ₫"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.dong).FormatVND())
		})
	}
}

// Rendered values must parse back through the recognition cascade so that
// displayed totals and extracted amounts never drift apart.
func TestFormatVND_RoundTrip(t *testing.T) {
	values := []int64{500, 1000, 5591, 10955, 22500, 169500, 226500, 729318, -5000, -57000}

	for _, v := range values {
		m := New(v)
		c, ok := amount.Find(m.FormatVND(), 0)
		require.True(t, ok, "rendered %q should parse", m.FormatVND())
		assert.True(t, c.Value.Equal(m.ToDecimal()),
			"rendered %q parsed back as %s", m.FormatVND(), c.Value)
	}

	// Zero renders but never parses; the cascade skips zero values.
	_, ok := amount.Find(Zero().FormatVND(), 0)
	assert.False(t, ok)
}

func TestDisplay(t *testing.T) {
	assert.Contains(t, New(226500).Display(), "₫")

	var nilMoney *Money
	assert.Contains(t, nilMoney.Display(), "₫")
}

func TestStringAndDecimal(t *testing.T) {
	m := New(226500)
	assert.Equal(t, "226500", m.String())
	assert.True(t, m.ToDecimal().Equal(decimal.NewFromInt(226500)))

	var nilMoney *Money
	assert.True(t, nilMoney.ToDecimal().IsZero())
}

func TestJSON(t *testing.T) {
	data, err := json.Marshal(New(226500))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"amount":226500`)
	assert.Contains(t, string(data), `"currency":"VND"`)
	assert.Contains(t, string(data), `"display":"226.500 ₫"`)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, int64(226500), back.Amount())
}

func BenchmarkFormatVND(b *testing.B) {
	m := New(226500)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FormatVND()
	}
}
