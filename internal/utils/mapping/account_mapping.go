package mapping

import (
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		CompanyID:     d.CompanyID,
		Name:          d.Name,
		AccountType:   d.AccountType,
		NormalBalance: models.NormalBalance(d.NormalBalance),
		CurrencyCode:  d.CurrencyCode,
		Description:   d.Description,
		IsActive:      d.IsActive,
		Balance:       d.Balance,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		CompanyID:     m.CompanyID,
		Name:          m.Name,
		AccountType:   m.AccountType,
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		CurrencyCode:  m.CurrencyCode,
		Description:   m.Description,
		IsActive:      m.IsActive,
		Balance:       m.Balance,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
