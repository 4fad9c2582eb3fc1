package dto

import (
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest defines one line of a journal entry being created or
// replaced. Exactly one of Debit/Credit must be strictly positive; the service
// enforces that invariant since struct tags cannot express it.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ContactType *string         `json:"contactType"`
	ContactID   *string         `json:"contactID"`
	SortOrder   int             `json:"sortOrder"`
}

// CreateEntryRequest defines the data needed to create a draft journal entry.
type CreateEntryRequest struct {
	EntryNumber  *string            `json:"entryNumber"` // Auto-allocated when omitted
	EntryDate    time.Time          `json:"entryDate" binding:"required"`
	Description  string             `json:"description"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	EntryType    *domain.EntryType  `json:"entryType" binding:"omitempty,oneof=STANDARD ADJUSTING CLOSING REVERSING RECURRING"`
	Lines        []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`

	IsRecurring        bool                       `json:"isRecurring"`
	RecurringFrequency *domain.RecurringFrequency `json:"recurringFrequency" binding:"omitempty,frequency"`
	NextRecurringDate  *time.Time                 `json:"nextRecurringDate"`
	RecurringEndDate   *time.Time                 `json:"recurringEndDate"`

	IsAutoReversing bool       `json:"isAutoReversing"`
	ReversalDate    *time.Time `json:"reversalDate"`
}

// UpdateEntryRequest defines the data allowed when patching a draft entry.
// Pointer fields distinguish "not provided" from zero values. When Lines is
// non-nil the full line set is replaced and totals recomputed.
type UpdateEntryRequest struct {
	EntryDate    *time.Time          `json:"entryDate"`
	Description  *string             `json:"description"`
	CurrencyCode *string             `json:"currencyCode" binding:"omitempty,len=3"`
	EntryType    *domain.EntryType   `json:"entryType" binding:"omitempty,oneof=STANDARD ADJUSTING CLOSING REVERSING RECURRING"`
	Lines        *[]EntryLineRequest `json:"lines" binding:"omitempty,min=2,dive"`

	IsRecurring        *bool                      `json:"isRecurring"`
	RecurringFrequency *domain.RecurringFrequency `json:"recurringFrequency" binding:"omitempty,frequency"`
	NextRecurringDate  *time.Time                 `json:"nextRecurringDate"`
	RecurringEndDate   *time.Time                 `json:"recurringEndDate"`

	IsAutoReversing *bool      `json:"isAutoReversing"`
	ReversalDate    *time.Time `json:"reversalDate"`
}

// VoidEntryRequest carries the mandatory reason for voiding a posted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AutoEntryLine is one line of an auto-posted entry. Either AccountID or
// AccountType must be set; AccountType is resolved to the unique active
// account of that type for the company.
type AutoEntryLine struct {
	AccountID   *string         `json:"accountID"`
	AccountType *string         `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// AutoEntryParams is the contract of the auto-journal-entry bridge. Document
// services pass their own open transaction; the bridge never opens one.
type AutoEntryParams struct {
	CompanyID    string
	UserID       string
	EntryDate    time.Time
	Description  string
	CurrencyCode string
	SourceType   string // Originating document kind, e.g. "invoice"
	SourceID     string // Originating document ID
	Lines        []AutoEntryLine
}

// EntryLineResponse defines the data returned for a journal entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	ContactType *string         `json:"contactType,omitempty"`
	ContactID   *string         `json:"contactID,omitempty"`
	SortOrder   int             `json:"sortOrder"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string              `json:"entryID"`
	CompanyID         string              `json:"companyID"`
	EntryNumber       string              `json:"entryNumber"`
	EntryDate         time.Time           `json:"entryDate"`
	Description       string              `json:"description"`
	CurrencyCode      string              `json:"currencyCode"`
	Status            domain.EntryStatus  `json:"status"`
	EntryType         domain.EntryType    `json:"entryType"`
	TotalDebit        decimal.Decimal     `json:"totalDebit"`
	TotalCredit       decimal.Decimal     `json:"totalCredit"`
	IsRecurring       bool                `json:"isRecurring"`
	NextRecurringDate *time.Time          `json:"nextRecurringDate,omitempty"`
	IsAutoReversing   bool                `json:"isAutoReversing"`
	ReversalDate      *time.Time          `json:"reversalDate,omitempty"`
	ReversedFromID    *string             `json:"reversedFromID,omitempty"`
	SourceType        *string             `json:"sourceType,omitempty"`
	SourceID          *string             `json:"sourceID,omitempty"`
	PostedAt          *time.Time          `json:"postedAt,omitempty"`
	PostedBy          *string             `json:"postedBy,omitempty"`
	VoidedAt          *time.Time          `json:"voidedAt,omitempty"`
	VoidReason        *string             `json:"voidReason,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	Lines             []EntryLineResponse `json:"lines,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalLine to an EntryLineResponse DTO.
func ToEntryLineResponse(line *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:      line.LineID,
		AccountID:   line.AccountID,
		Debit:       line.Debit,
		Credit:      line.Credit,
		Description: line.Description,
		ContactType: line.ContactType,
		ContactID:   line.ContactID,
		SortOrder:   line.SortOrder,
	}
}

// ToEntryLineResponses converts a slice of domain.JournalLine to DTOs.
func ToEntryLineResponses(lines []domain.JournalLine) []EntryLineResponse {
	responses := make([]EntryLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToEntryLineResponse(&line)
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to an EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:           e.EntryID,
		CompanyID:         e.CompanyID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		CurrencyCode:      e.CurrencyCode,
		Status:            e.Status,
		EntryType:         e.EntryType,
		TotalDebit:        e.TotalDebit,
		TotalCredit:       e.TotalCredit,
		IsRecurring:       e.IsRecurring,
		NextRecurringDate: e.NextRecurringDate,
		IsAutoReversing:   e.IsAutoReversing,
		ReversalDate:      e.ReversalDate,
		ReversedFromID:    e.ReversedFromID,
		SourceType:        e.SourceType,
		SourceID:          e.SourceID,
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		VoidedAt:          e.VoidedAt,
		VoidReason:        e.VoidReason,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = ToEntryLineResponses(e.Lines)
	}
	return resp
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit        int     `form:"limit,default=20"`
	NextToken    *string `form:"nextToken"`
	Status       *string `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOID"`
	IncludeLines bool    `form:"includeLines"`
}

// ListEntriesResponse wraps a page of journal entries with a continuation token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
