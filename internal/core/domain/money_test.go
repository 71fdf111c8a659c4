package domain_test

import (
	"testing"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already cents", in: "78.75", want: "78.75"},
		{name: "half rounds up", in: "0.125", want: "0.13"},
		{name: "below half rounds down", in: "10.1249", want: "10.12"},
		{name: "long fraction", in: "33.33333333", want: "33.33"},
		{name: "negative half rounds toward zero after epsilon", in: "-0.125", want: "-0.12"},
		{name: "zero", in: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.RoundMoney(decimal.RequireFromString(tt.in))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestAddMoney_RoundsEveryStep(t *testing.T) {
	third := decimal.RequireFromString("0.005")

	total := decimal.Zero
	for i := 0; i < 3; i++ {
		total = domain.AddMoney(total, third)
	}

	// 0.005 -> 0.01, 0.015 -> 0.02, 0.025 -> 0.03; a single final rounding would give 0.02.
	assert.True(t, decimal.RequireFromString("0.03").Equal(total), "got %s", total)
}
