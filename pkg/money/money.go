// Package money represents Vietnamese đồng values for receipt totals and
// display. It wraps go-money for ISO-4217 currency handling and
// shopspring/decimal for exact conversion. The đồng carries no minor units,
// so every value is a whole number of đồng.
package money

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// VND is the ISO-4217 code for the Vietnamese đồng.
const VND = "VND"

// Symbol is the đồng sign used by FormatVND.
const Symbol = "₫"

// Money is an immutable đồng value.
type Money struct {
	m *money.Money
}

// New creates a Money value from a whole number of đồng.
func New(dong int64) *Money {
	return &Money{m: money.New(dong, VND)}
}

// NewFromDecimal creates a Money value from a decimal amount, rounding to
// the nearest whole đồng. Receipt amounts arrive as decimals and are already
// whole, so rounding only matters for derived values.
func NewFromDecimal(amount decimal.Decimal) *Money {
	currency := money.GetCurrency(VND)
	multiplier := decimal.New(1, int32(currency.Fraction))
	units := amount.Mul(multiplier).Round(0).IntPart()
	return New(units)
}

// Zero returns a zero đồng value.
func Zero() *Money {
	return New(0)
}

// Sum adds a sequence of values. Nil entries count as zero.
func Sum(values ...*Money) *Money {
	var total int64
	for _, v := range values {
		total += v.Amount()
	}
	return New(total)
}

// Amount returns the value as a whole number of đồng.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return VND
	}
	return m.m.Currency().Code
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (m *Money) IsPositive() bool {
	return m != nil && m.m != nil && m.m.IsPositive()
}

// IsNegative returns true if the amount is less than zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value.
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero()
	}
	return &Money{m: m.m.Absolute()}
}

// Negate returns the negated value.
func (m *Money) Negate() *Money {
	if m == nil || m.m == nil {
		return Zero()
	}
	return &Money{m: m.m.Negative()}
}

// Add returns m + other. Every value is đồng, so addition never fails.
func (m *Money) Add(other *Money) *Money {
	return New(m.Amount() + other.Amount())
}

// Sub returns m - other.
func (m *Money) Sub(other *Money) *Money {
	return New(m.Amount() - other.Amount())
}

// Multiply returns the value multiplied by an integer factor.
func (m *Money) Multiply(factor int64) *Money {
	if m == nil || m.m == nil {
		return Zero()
	}
	return &Money{m: m.m.Multiply(factor)}
}

// Equals returns true if both values are equal. Nil compares as zero.
func (m *Money) Equals(other *Money) bool {
	return m.Amount() == other.Amount()
}

// LessThan returns true if m < other.
func (m *Money) LessThan(other *Money) bool {
	return m.Amount() < other.Amount()
}

// GreaterThan returns true if m > other.
func (m *Money) GreaterThan(other *Money) bool {
	return m.Amount() > other.Amount()
}

// Compare returns -1 if m < other, 0 if equal, 1 if m > other.
func (m *Money) Compare(other *Money) int {
	switch {
	case m.Amount() < other.Amount():
		return -1
	case m.Amount() > other.Amount():
		return 1
	}
	return 0
}

// ToDecimal converts to decimal.Decimal for precise calculations.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// String returns the amount as a plain decimal string (e.g. "226500").
func (m *Money) String() string {
	return m.ToDecimal().String()
}

// Display formats through go-money's locale template for the đồng.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return money.New(0, VND).Display()
	}
	return m.m.Display()
}

// FormatVND renders the value the way Vietnamese receipts print it:
// thousands grouped with dots, the đồng sign after a space ("226.500 ₫").
// The output parses back through the amount cascade.
func (m *Money) FormatVND() string {
	units := m.Amount()
	var b strings.Builder
	if units < 0 {
		b.WriteByte('-')
		units = -units
	}
	b.WriteString(groupDots(units))
	b.WriteByte(' ')
	b.WriteString(Symbol)
	return b.String()
}

// groupDots writes an absolute đồng count with '.' thousands separators.
func groupDots(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// MarshalJSON emits the amount in whole đồng alongside the currency code and
// a receipt-style rendering.
func (m *Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"amount":   m.Amount(),
		"currency": m.Currency(),
		"display":  m.FormatVND(),
	})
}

// UnmarshalJSON reads the amount back; the currency field is accepted for
// symmetry but every value is đồng.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.m = money.New(v.Amount, VND)
	return nil
}
