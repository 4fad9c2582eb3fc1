package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal entry data.
type JournalEntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves an entry's lines ordered by sort order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListEntriesByCompany retrieves a page of entries using token-based
	// pagination, optionally filtered by status. Returns the entries and a
	// token for the next page.
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entry data. Every
// method is atomic: it opens, commits, or rolls back its own DB transaction.
type JournalEntryWriter interface {
	// SaveEntry inserts a new entry header with its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntry updates a draft entry's header. When replaceLines is true the
	// existing line set is deleted and the supplied lines inserted in its place.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, replaceLines bool) error

	// DeleteEntry hard-deletes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error

	// PostEntry finalizes an entry: writes the POSTED header, locks the
	// affected accounts, applies the balance increments, and inserts any
	// spawned draft entries (auto-reversal, next recurrence) with their lines.
	// All of it happens in one transaction.
	PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, spawned []domain.JournalEntry) error

	// VoidEntry writes the VOID header and applies the inverse balance
	// increments in one transaction.
	VoidEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error

	// NextEntryNumber allocates the next number from the company's atomic
	// sequence. Safe under concurrent allocation; gaps are acceptable.
	NextEntryNumber(ctx context.Context, companyID string) (int64, error)
}

// JournalEntryTxWriter defines entry writes that run on a transaction owned by
// the caller. Used by the auto-journal-entry bridge, which must be atomic with
// the document state change that triggered it.
type JournalEntryTxWriter interface {
	// InsertPostedEntryInTx inserts an already-POSTED entry with its lines and
	// applies the balance increments, all on the supplied transaction. The
	// affected account rows must already be locked by the caller.
	InsertPostedEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// NextEntryNumberInTx allocates the next entry number on the supplied transaction.
	NextEntryNumberInTx(ctx context.Context, tx pgx.Tx, companyID string) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	JournalEntryTxWriter
}
