package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryByID retrieves an entry with its lines populated.
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a company.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines the lifecycle operations of the posting engine.
type JournalWriterSvc interface {
	// CreateEntry validates and persists a new draft entry.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateEntry patches a draft entry, optionally replacing its lines wholesale.
	UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry hard-deletes a draft entry.
	DeleteEntry(ctx context.Context, companyID string, entryID string) error

	// PostEntry finalizes a draft entry, applying its balance effects and
	// spawning any auto-reversal/recurrence drafts.
	PostEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)

	// VoidEntry retracts a posted entry's balance effect in place.
	VoidEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates an independent draft counter-entry for a posted entry.
	ReverseEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)

	// DuplicateEntry clones any entry into a fresh draft.
	DuplicateEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error)
}

// AutoPostSvc is the auto-journal-entry bridge. Document services (invoices,
// bills, credit/debit notes, expenses) call it inside their own pgx
// transaction so the ledger effect commits or rolls back with the document.
type AutoPostSvc interface {
	// PostAutoEntry builds, numbers, and immediately posts a balanced entry on
	// the caller's transaction. Returns apperrors.ErrAccountUnresolved, having
	// written nothing, when a line's account cannot be resolved.
	PostAutoEntry(ctx context.Context, tx pgx.Tx, params dto.AutoEntryParams) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
