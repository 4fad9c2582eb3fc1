package domain

import (
	"github.com/shopspring/decimal"
)

// NormalBalance is the polarity in which an account's balance naturally
// increases. It is fixed at account creation and never changes.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account represents a ledger account within the core domain.
// Balance is mutated only through posting and voiding journal entries.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	CompanyID     string          `json:"companyID"`     // Owning company (Not Null)
	Name          string          `json:"name"`          // User-defined name
	AccountType   string          `json:"accountType"`   // Classifier used for auto-entry resolution, e.g. "Accounts Receivable"
	NormalBalance NormalBalance   `json:"normalBalance"` // DEBIT or CREDIT, immutable
	CurrencyCode  string          `json:"currencyCode"`  // ISO currency code
	Description   string          `json:"description"`   // Nullable user description
	IsActive      bool            `json:"isActive"`      // Inactive accounts cannot appear on new entries
	Balance       decimal.Decimal `json:"balance"`       // Running balance, reflects currently posted lines only
	AuditFields
}
