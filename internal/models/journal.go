package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus for DB storage.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Void   EntryStatus = "VOID"
)

// EntryType mirrors domain.EntryType for DB storage.
type EntryType string

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID      string      `json:"entryID"`
	CompanyID    string      `json:"companyID"`
	EntryNumber  string      `json:"entryNumber"`
	EntryDate    time.Time   `json:"entryDate"`
	Description  string      `json:"description"`
	CurrencyCode string      `json:"currencyCode"`
	Status       EntryStatus `json:"status"`
	EntryType    EntryType   `json:"entryType"`

	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`

	IsRecurring        bool       `json:"isRecurring"`
	RecurringFrequency *string    `json:"recurringFrequency"`
	NextRecurringDate  *time.Time `json:"nextRecurringDate"`
	RecurringEndDate   *time.Time `json:"recurringEndDate"`

	IsAutoReversing bool       `json:"isAutoReversing"`
	ReversalDate    *time.Time `json:"reversalDate"`

	ReversedFromID *string `json:"reversedFromID"`
	SourceType     *string `json:"sourceType"`
	SourceID       *string `json:"sourceID"`

	PostedAt *time.Time `json:"postedAt"`
	PostedBy *string    `json:"postedBy"`

	VoidedAt   *time.Time `json:"voidedAt"`
	VoidedBy   *string    `json:"voidedBy"`
	VoidReason *string    `json:"voidReason"`

	AuditFields
}

// JournalLine is the database representation of a single entry line.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ContactType *string         `json:"contactType"`
	ContactID   *string         `json:"contactID"`
	SortOrder   int             `json:"sortOrder"`
	AuditFields
}
