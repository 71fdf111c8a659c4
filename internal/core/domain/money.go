package domain

import "github.com/shopspring/decimal"

// moneyEpsilon is the nudge added before rounding. It mirrors the float
// epsilon the portal has always applied, so totals stay identical to the
// figures already shown on historical runs.
var moneyEpsilon = decimal.RequireFromString("0.0000000000000002220446049250313")

// RoundMoney rounds v to cents, half away from zero, after adding moneyEpsilon.
func RoundMoney(v decimal.Decimal) decimal.Decimal {
	return v.Add(moneyEpsilon).Round(2)
}

// AddMoney adds amount to total and rounds the result. Totals are built by
// repeated AddMoney calls, so every partial sum is itself rounded to cents.
func AddMoney(total, amount decimal.Decimal) decimal.Decimal {
	return RoundMoney(total.Add(amount))
}
