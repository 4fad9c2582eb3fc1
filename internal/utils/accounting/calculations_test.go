package accounting_test

import (
	"testing"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBalanceChange(t *testing.T) {
	testCases := []struct {
		name     string
		debit    string
		credit   string
		normal   domain.NormalBalance
		expected string
	}{
		{"debit to debit-normal increases", "100", "0", domain.DebitNormal, "100"},
		{"credit to debit-normal decreases", "0", "40", domain.DebitNormal, "-40"},
		{"credit to credit-normal increases", "0", "100", domain.CreditNormal, "100"},
		{"debit to credit-normal decreases", "25.50", "0", domain.CreditNormal, "-25.50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			change, err := accounting.BalanceChange(dec(tc.debit), dec(tc.credit), tc.normal)
			require.NoError(t, err)
			assert.True(t, change.Equal(dec(tc.expected)), "got %s, want %s", change, tc.expected)
		})
	}
}

func TestBalanceChangeUnknownPolarity(t *testing.T) {
	_, err := accounting.BalanceChange(dec("1"), dec("0"), domain.NormalBalance("SIDEWAYS"))
	assert.Error(t, err)
}

// Void applies the same formula with debit and credit swapped. The swap must be
// the exact algebraic inverse of the original application for any polarity.
func TestBalanceChangeSwapIsExactInverse(t *testing.T) {
	for _, normal := range []domain.NormalBalance{domain.DebitNormal, domain.CreditNormal} {
		fwd, err := accounting.BalanceChange(dec("123.45"), dec("0"), normal)
		require.NoError(t, err)
		inv, err := accounting.BalanceChange(dec("0"), dec("123.45"), normal)
		require.NoError(t, err)
		assert.True(t, fwd.Add(inv).IsZero(), "polarity %s: %s + %s != 0", normal, fwd, inv)
	}
}

func TestSumLines(t *testing.T) {
	lines := []domain.JournalLine{
		{Debit: dec("100"), Credit: dec("0")},
		{Debit: dec("0"), Credit: dec("60")},
		{Debit: dec("0"), Credit: dec("40")},
	}
	totalDebit, totalCredit := accounting.SumLines(lines)
	assert.True(t, totalDebit.Equal(dec("100")))
	assert.True(t, totalCredit.Equal(dec("100")))
}

func TestIsBalanced(t *testing.T) {
	assert.True(t, accounting.IsBalanced(dec("100"), dec("100")))
	assert.True(t, accounting.IsBalanced(dec("100.0005"), dec("100")), "drift inside tolerance accepted")
	assert.True(t, accounting.IsBalanced(dec("100"), dec("100.001")), "tolerance boundary accepted")
	assert.False(t, accounting.IsBalanced(dec("100.002"), dec("100")))
	assert.False(t, accounting.IsBalanced(dec("50"), dec("40")))
}

func TestValidateLineAmounts(t *testing.T) {
	assert.NoError(t, accounting.ValidateLineAmounts(dec("10"), dec("0")))
	assert.NoError(t, accounting.ValidateLineAmounts(dec("0"), dec("10")))
	assert.Error(t, accounting.ValidateLineAmounts(dec("0"), dec("0")), "both zero rejected")
	assert.Error(t, accounting.ValidateLineAmounts(dec("10"), dec("10")), "both set rejected")
	assert.Error(t, accounting.ValidateLineAmounts(dec("-5"), dec("0")), "negative rejected")
	assert.Error(t, accounting.ValidateLineAmounts(dec("5"), dec("-5")))
}
