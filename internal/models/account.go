package models

import (
	"github.com/shopspring/decimal"
)

// NormalBalance mirrors domain.NormalBalance for DB storage.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account is the database representation of a ledger account.
type Account struct {
	AccountID     string          `json:"accountID"`
	CompanyID     string          `json:"companyID"`
	Name          string          `json:"name"`
	AccountType   string          `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	CurrencyCode  string          `json:"currencyCode"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"isActive"`
	Balance       decimal.Decimal `json:"balance"`
	AuditFields
}
