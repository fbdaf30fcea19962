package core

import "github.com/shopspring/decimal"

// Summary holds the totals shown above the entry list.
type Summary struct {
	Balance    decimal.Decimal `json:"balance"`
	Projection decimal.Decimal `json:"projection"`
	Count      int             `json:"count"`
}

// SignedAmount returns the amount negated for expenses.
func SignedAmount(e Entry) decimal.Decimal {
	if e.Type == Expense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Balance sums the signed amounts of paid entries only.
func Balance(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Paid {
			total = total.Add(SignedAmount(e))
		}
	}
	return total
}

// Projection sums the signed amounts of every entry, paid or not.
func Projection(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(SignedAmount(e))
	}
	return total
}

// Totals computes balance and projection in a single pass.
func Totals(entries []Entry) Summary {
	s := Summary{Balance: decimal.Zero, Projection: decimal.Zero, Count: len(entries)}
	for _, e := range entries {
		v := SignedAmount(e)
		s.Projection = s.Projection.Add(v)
		if e.Paid {
			s.Balance = s.Balance.Add(v)
		}
	}
	return s
}
