package accounting

import (
	"fmt"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum |total debit - total credit| accepted when
// an entry is posted. Sub-tenth-of-a-cent drift from upstream rounding is
// tolerated; anything larger is rejected.
var BalanceTolerance = decimal.NewFromFloat(0.001)

// BalanceChange returns the signed effect of one line on an account's running
// balance. DEBIT-normal accounts grow with debits (debit - credit);
// CREDIT-normal accounts grow with credits (credit - debit).
//
// Posting, voiding and auto-posting all go through this single function.
// Voiding passes debit and credit swapped rather than negating the result, so
// the two directions can never drift apart.
func BalanceChange(debit, credit decimal.Decimal, normal domain.NormalBalance) (decimal.Decimal, error) {
	switch normal {
	case domain.DebitNormal:
		return debit.Sub(credit), nil
	case domain.CreditNormal:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance %q", normal)
	}
}

// SumLines returns the debit and credit totals of a line set.
func SumLines(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether debit and credit totals agree within
// BalanceTolerance.
func IsBalanced(totalDebit, totalCredit decimal.Decimal) bool {
	return totalDebit.Sub(totalCredit).Abs().LessThanOrEqual(BalanceTolerance)
}

// ValidateLineAmounts checks the single-sided invariant: exactly one of
// debit/credit is strictly positive and the other is exactly zero.
func ValidateLineAmounts(debit, credit decimal.Decimal) error {
	debitSet := debit.IsPositive()
	creditSet := credit.IsPositive()
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("line amounts must not be negative")
	}
	if debitSet == creditSet {
		// Both zero or both positive.
		return fmt.Errorf("line must have exactly one of debit or credit set")
	}
	return nil
}
