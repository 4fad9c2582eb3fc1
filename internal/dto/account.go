package dto

import (
	"time"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new ledger account.
type CreateAccountRequest struct {
	Name          string               `json:"name" binding:"required"`
	AccountType   string               `json:"accountType" binding:"required"` // Classifier, e.g. "Accounts Receivable"
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"required,oneof=DEBIT CREDIT"`
	CurrencyCode  string               `json:"currencyCode" binding:"required,len=3"`
	Description   string               `json:"description"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// NormalBalance is deliberately absent: polarity is fixed at creation.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	CompanyID     string               `json:"companyID"`
	Name          string               `json:"name"`
	AccountType   string               `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	CurrencyCode  string               `json:"currencyCode"`
	Description   string               `json:"description"`
	IsActive      bool                 `json:"isActive"`
	Balance       decimal.Decimal      `json:"balance"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		CompanyID:     acc.CompanyID,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: acc.NormalBalance,
		CurrencyCode:  acc.CurrencyCode,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
