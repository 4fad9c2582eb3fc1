package accounting

import (
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

// NextOccurrence returns the next date in a recurring chain.
//
// Calendar arithmetic uses time.AddDate, which normalizes overflow: adding one
// month to Jan 31 yields Mar 2 (Mar 3 in leap years), not Feb 28. The schedule
// tests pin this behaviour.
func NextOccurrence(date time.Time, freq domain.RecurringFrequency) (time.Time, error) {
	switch freq {
	case domain.Daily:
		return date.AddDate(0, 0, 1), nil
	case domain.Weekly:
		return date.AddDate(0, 0, 7), nil
	case domain.Biweekly:
		return date.AddDate(0, 0, 14), nil
	case domain.Monthly:
		return date.AddDate(0, 1, 0), nil
	case domain.Quarterly:
		return date.AddDate(0, 3, 0), nil
	case domain.Yearly:
		return date.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown recurring frequency %q", freq)
	}
}
