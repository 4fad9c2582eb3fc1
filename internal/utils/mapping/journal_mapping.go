package mapping

import (
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	var freq *string
	if d.RecurringFrequency != nil {
		f := string(*d.RecurringFrequency)
		freq = &f
	}
	return models.JournalEntry{
		EntryID:            d.EntryID,
		CompanyID:          d.CompanyID,
		EntryNumber:        d.EntryNumber,
		EntryDate:          d.EntryDate,
		Description:        d.Description,
		CurrencyCode:       d.CurrencyCode,
		Status:             models.EntryStatus(d.Status),
		EntryType:          models.EntryType(d.EntryType),
		TotalDebit:         d.TotalDebit,
		TotalCredit:        d.TotalCredit,
		IsRecurring:        d.IsRecurring,
		RecurringFrequency: freq,
		NextRecurringDate:  d.NextRecurringDate,
		RecurringEndDate:   d.RecurringEndDate,
		IsAutoReversing:    d.IsAutoReversing,
		ReversalDate:       d.ReversalDate,
		ReversedFromID:     d.ReversedFromID,
		SourceType:         d.SourceType,
		SourceID:           d.SourceID,
		PostedAt:           d.PostedAt,
		PostedBy:           d.PostedBy,
		VoidedAt:           d.VoidedAt,
		VoidedBy:           d.VoidedBy,
		VoidReason:         d.VoidReason,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	var freq *domain.RecurringFrequency
	if m.RecurringFrequency != nil {
		f := domain.RecurringFrequency(*m.RecurringFrequency)
		freq = &f
	}
	return domain.JournalEntry{
		EntryID:            m.EntryID,
		CompanyID:          m.CompanyID,
		EntryNumber:        m.EntryNumber,
		EntryDate:          m.EntryDate,
		Description:        m.Description,
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.EntryStatus(m.Status),
		EntryType:          domain.EntryType(m.EntryType),
		TotalDebit:         m.TotalDebit,
		TotalCredit:        m.TotalCredit,
		IsRecurring:        m.IsRecurring,
		RecurringFrequency: freq,
		NextRecurringDate:  m.NextRecurringDate,
		RecurringEndDate:   m.RecurringEndDate,
		IsAutoReversing:    m.IsAutoReversing,
		ReversalDate:       m.ReversalDate,
		ReversedFromID:     m.ReversedFromID,
		SourceType:         m.SourceType,
		SourceID:           m.SourceID,
		PostedAt:           m.PostedAt,
		PostedBy:           m.PostedBy,
		VoidedAt:           m.VoidedAt,
		VoidedBy:           m.VoidedBy,
		VoidReason:         m.VoidReason,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		ContactType: d.ContactType,
		ContactID:   d.ContactID,
		SortOrder:   d.SortOrder,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		ContactType: m.ContactType,
		ContactID:   m.ContactID,
		SortOrder:   m.SortOrder,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
