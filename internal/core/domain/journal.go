package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
// Transitions are monotonic: DRAFT -> POSTED -> VOID, nothing else.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// EntryType classifies a journal entry.
type EntryType string

const (
	Standard  EntryType = "STANDARD"
	Adjusting EntryType = "ADJUSTING"
	Closing   EntryType = "CLOSING"
	Reversing EntryType = "REVERSING"
	Recurring EntryType = "RECURRING"
)

// RecurringFrequency is the cadence at which a recurring entry spawns its next
// occurrence.
type RecurringFrequency string

const (
	Daily     RecurringFrequency = "DAILY"
	Weekly    RecurringFrequency = "WEEKLY"
	Biweekly  RecurringFrequency = "BIWEEKLY"
	Monthly   RecurringFrequency = "MONTHLY"
	Quarterly RecurringFrequency = "QUARTERLY"
	Yearly    RecurringFrequency = "YEARLY"
)

// JournalEntry represents a single balanced financial event composed of
// multiple lines. It is the unit of atomicity: header, lines, and the balance
// effects of posting always change together.
type JournalEntry struct {
	EntryID      string      `json:"entryID"`      // Primary key (UUID)
	CompanyID    string      `json:"companyID"`    // Owning company (Not Null)
	EntryNumber  string      `json:"entryNumber"`  // Human-readable, unique per company, "JE-0001" style
	EntryDate    time.Time   `json:"entryDate"`    // Date the event occurred
	Description  string      `json:"description"`  // Nullable user description
	CurrencyCode string      `json:"currencyCode"` // Primary currency of the entry (Not Null)
	Status       EntryStatus `json:"status"`       // DRAFT, POSTED or VOID
	EntryType    EntryType   `json:"entryType"`    // STANDARD, ADJUSTING, CLOSING, REVERSING, RECURRING

	// Cached totals, kept equal to the sums of the line debit/credit fields.
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`

	// Recurrence. Posting a recurring entry spawns a draft clone dated at
	// NextRecurringDate; there is no background scheduler.
	IsRecurring        bool                `json:"isRecurring"`
	RecurringFrequency *RecurringFrequency `json:"recurringFrequency,omitempty"`
	NextRecurringDate  *time.Time          `json:"nextRecurringDate,omitempty"`
	RecurringEndDate   *time.Time          `json:"recurringEndDate,omitempty"`

	// Auto-reversal. Posting spawns a draft reversing entry dated ReversalDate.
	IsAutoReversing bool       `json:"isAutoReversing"`
	ReversalDate    *time.Time `json:"reversalDate,omitempty"`

	// Weak back-references, informational only. Dangling targets are tolerated.
	ReversedFromID *string `json:"reversedFromID,omitempty"` // Entry this one reverses
	SourceType     *string `json:"sourceType,omitempty"`     // Originating document kind, e.g. "invoice"
	SourceID       *string `json:"sourceID,omitempty"`       // Originating document ID

	// Posting bookkeeping, set by the DRAFT -> POSTED transition.
	PostedAt *time.Time `json:"postedAt,omitempty"`
	PostedBy *string    `json:"postedBy,omitempty"`

	// Voiding bookkeeping, set by the POSTED -> VOID transition.
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidedBy   *string    `json:"voidedBy,omitempty"`
	VoidReason *string    `json:"voidReason,omitempty"`

	AuditFields

	// Lines are populated on demand; they are owned exclusively by the entry.
	Lines []JournalLine `json:"lines,omitempty"`
}

// IsDraft reports whether the entry is still mutable.
func (e *JournalEntry) IsDraft() bool { return e.Status == Draft }

// FormatEntryNumber renders a sequence value as a human-readable entry number.
// Width grows past four digits rather than wrapping.
func FormatEntryNumber(seq int64) string {
	return fmt.Sprintf("JE-%04d", seq)
}

// JournalLine is a single line item within a journal entry, affecting one
// account. Exactly one of Debit/Credit is strictly positive, the other is zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`      // Primary key (UUID)
	EntryID     string          `json:"entryID"`     // FK -> JournalEntry.entryID (Not Null, owning aggregate)
	AccountID   string          `json:"accountID"`   // FK -> Account.accountID (Not Null)
	Debit       decimal.Decimal `json:"debit"`       // Positive or zero
	Credit      decimal.Decimal `json:"credit"`      // Positive or zero
	Description string          `json:"description"` // Nullable
	ContactType *string         `json:"contactType,omitempty"` // Informational, e.g. "customer"
	ContactID   *string         `json:"contactID,omitempty"`   // Informational
	SortOrder   int             `json:"sortOrder"`   // Display order, preserved by cloning
	AuditFields
}
