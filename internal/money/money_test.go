package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDecimal_Garbage(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
	}{
		{"nil", nil},
		{"empty string", ""},
		{"whitespace", "   "},
		{"non-numeric string", "abc"},
		{"NaN", math.NaN()},
		{"positive Inf", math.Inf(1)},
		{"negative Inf", math.Inf(-1)},
		{"unsupported type", struct{}{}},
		{"nil decimal pointer", (*decimal.Decimal)(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, ToDecimal(tc.in).IsZero())
		})
	}
}

func TestToDecimal_Numeric(t *testing.T) {
	assert.Equal(t, "1234.5", ToDecimal("1234.50").String())
	assert.Equal(t, "-3.25", ToDecimal(-3.25).String())
	assert.Equal(t, "42", ToDecimal(42).String())
	assert.Equal(t, "7", ToDecimal(int64(7)).String())
	assert.Equal(t, "99.9", ToDecimal(json.Number("99.9")).String())

	d := decimal.NewFromInt(10)
	assert.True(t, ToDecimal(d).Equal(d))
	assert.True(t, ToDecimal(&d).Equal(d))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "L 0.00", Format(decimal.Zero))
	assert.Equal(t, "L 1,234.50", Format(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "L 999.99", Format(decimal.NewFromFloat(999.99)))
	assert.Equal(t, "L 1,000,000.00", Format(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-L 250.75", Format(decimal.NewFromFloat(-250.75)))
}
