package booking

import "github.com/shopspring/decimal"

type Amounts struct {
	Total decimal.Decimal `json:"total_amount"`
	Final decimal.Decimal `json:"final_amount"`
}

// ComputeAmounts derives the payable amounts for a booking request.
// The discount is floored at zero: it can never push the final amount
// negative, a discount larger than the total just zeroes the payable.
func ComputeAmounts(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) Amounts {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	final := total.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return Amounts{Total: total, Final: final}
}
