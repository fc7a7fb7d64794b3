package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeAmounts(t *testing.T) {
	cases := []struct {
		name      string
		unitPrice decimal.Decimal
		quantity  int
		discount  decimal.Decimal
		total     string
		final     string
	}{
		{"no discount", d(1500), 3, d(0), "4500", "4500"},
		{"partial discount", d(1500), 3, d(1000), "4500", "3500"},
		{"discount floor", d(1500), 3, d(9000), "4500", "0"},
		{"zero quantity", d(1500), 0, d(0), "0", "0"},
		{"zero price", d(0), 5, d(100), "0", "0"},
		{"fractional price", decimal.RequireFromString("10.50"), 3, decimal.RequireFromString("0.50"), "31.5", "31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAmounts(tc.unitPrice, tc.quantity, tc.discount)
			assert.Equal(t, tc.total, got.Total.String())
			assert.Equal(t, tc.final, got.Final.String())
		})
	}
}

func TestComputeAmountsIdempotent(t *testing.T) {
	first := ComputeAmounts(d(10000), 3, d(2500))
	second := ComputeAmounts(d(10000), 3, d(2500))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Final.Equal(second.Final))
}
