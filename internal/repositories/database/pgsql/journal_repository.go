package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	"github.com/ledgerline/ledgerline_backend/internal/models"
	"github.com/ledgerline/ledgerline_backend/internal/utils/mapping"
	"github.com/ledgerline/ledgerline_backend/internal/utils/pagination"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, description, currency_code, status, entry_type, total_debit, total_credit, is_recurring, recurring_frequency, next_recurring_date, recurring_end_date, is_auto_reversing, reversal_date, reversed_from_id, source_type, source_id, posted_at, posted_by, voided_at, voided_by, void_reason, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, contact_type, contact_id, sort_order, created_at, created_by, last_updated_at, last_updated_by`

// PgxJournalRepository persists journal entries in PostgreSQL. Posting and
// voiding coordinate with the account repository's tx operations so header
// writes and balance increments share one transaction.
type PgxJournalRepository struct {
	BaseRepository
	accountTx portsrepo.AccountTxOperator
}

// NewJournalRepository creates a new repository for journal entry data.
func NewJournalRepository(pool *pgxpool.Pool, accountTx portsrepo.AccountTxOperator) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountTx:      accountTx,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.EntryType,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.IsRecurring,
		&m.RecurringFrequency,
		&m.NextRecurringDate,
		&m.RecurringEndDate,
		&m.IsAutoReversing,
		&m.ReversalDate,
		&m.ReversedFromID,
		&m.SourceType,
		&m.SourceID,
		&m.PostedAt,
		&m.PostedBy,
		&m.VoidedAt,
		&m.VoidedBy,
		&m.VoidReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.ContactType,
		&m.ContactID,
		&m.SortOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertEntryInTx inserts a journal entry header on the given transaction.
func insertEntryInTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.CompanyID,
		m.EntryNumber,
		m.EntryDate,
		m.Description,
		m.CurrencyCode,
		m.Status,
		m.EntryType,
		m.TotalDebit,
		m.TotalCredit,
		m.IsRecurring,
		m.RecurringFrequency,
		m.NextRecurringDate,
		m.RecurringEndDate,
		m.IsAutoReversing,
		m.ReversalDate,
		m.ReversedFromID,
		m.SourceType,
		m.SourceID,
		m.PostedAt,
		m.PostedBy,
		m.VoidedAt,
		m.VoidedBy,
		m.VoidReason,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry %s (number %s)", apperrors.ErrDuplicate, m.EntryID, m.EntryNumber)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLinesInTx batch-inserts journal lines on the given transaction.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.Description,
			m.ContactType,
			m.ContactID,
			m.SortOrder,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert journal line %s: %w", lines[i].LineID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close line insert batch: %w", err)
	}
	return batchErr
}

// SaveEntry inserts a new entry header with its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryInTx(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves an entry's lines ordered by sort order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY sort_order;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, sort_order;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.JournalLine)
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		grouped[m.EntryID] = append(grouped[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	return grouped, nil
}

// ListEntriesByCompany retrieves a page of entries using keyset pagination on
// (entry_date, created_at) descending. Returns a token for the next page when
// more rows remain.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`
	args := []interface{}{companyID}

	if status != nil {
		baseQuery += ` AND status = $` + strconv.Itoa(len(args)+1)
		args = append(args, string(*status))
	}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		// Tuple comparison keeps the cursor condition concise and index-friendly.
		baseQuery += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}

	query := baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries for company %s: %w", companyID, err)
	}
	defer rows.Close()

	fetched := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		fetched = append(fetched, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var nextTokenVal *string
	results := fetched
	if len(fetched) > limit {
		results = fetched[:limit]
		last := results[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// UpdateEntry updates a draft entry's header and, when replaceLines is set,
// swaps the entire line set in the same transaction.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, replaceLines bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournalEntry(entry)

	// The status guard makes the draft check hold even if the entry was
	// posted between the service's read and this write.
	query := `
		UPDATE journal_entries
		SET entry_date = $2, description = $3, currency_code = $4, entry_type = $5,
			total_debit = $6, total_credit = $7,
			is_recurring = $8, recurring_frequency = $9, next_recurring_date = $10, recurring_end_date = $11,
			is_auto_reversing = $12, reversal_date = $13,
			last_updated_at = $14, last_updated_by = $15
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryDate,
		m.Description,
		m.CurrencyCode,
		m.EntryType,
		m.TotalDebit,
		m.TotalCredit,
		m.IsRecurring,
		m.RecurringFrequency,
		m.NextRecurringDate,
		m.RecurringEndDate,
		m.IsAutoReversing,
		m.ReversalDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not an updatable draft", apperrors.ErrInvalidState, m.EntryID)
	}

	if replaceLines {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return fmt.Errorf("failed to delete existing lines for entry %s: %w", m.EntryID, err)
		}
		if err := insertLinesInTx(ctx, tx, lines); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteEntry hard-deletes a draft entry and its lines.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines for entry %s: %w", entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a deletable draft", apperrors.ErrInvalidState, entryID)
	}

	return r.Commit(ctx, tx)
}

// updateStatusInTx writes the posting or voiding header fields. The expected
// current status guards against a concurrent transition winning the race.
func updateStatusInTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry, expectedStatus models.EntryStatus) error {
	query := `
		UPDATE journal_entries
		SET status = $2, total_debit = $3, total_credit = $4,
			next_recurring_date = $5,
			posted_at = $6, posted_by = $7,
			voided_at = $8, voided_by = $9, void_reason = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE entry_id = $1 AND status = $13;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.EntryID,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.NextRecurringDate,
		m.PostedAt,
		m.PostedBy,
		m.VoidedAt,
		m.VoidedBy,
		m.VoidReason,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrInvalidState, m.EntryID, expectedStatus)
	}
	return nil
}

// PostEntry finalizes an entry in one transaction: POSTED header, locked
// account rows, balance increments, and any spawned drafts with their lines.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, spawned []domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updateStatusInTx(ctx, tx, mapping.ToModelJournalEntry(entry), models.Draft); err != nil {
		return err
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	if _, err := r.accountTx.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	if err := r.accountTx.IncrementAccountBalancesInTx(ctx, tx, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return err
	}

	for _, draft := range spawned {
		if err := insertEntryInTx(ctx, tx, mapping.ToModelJournalEntry(draft)); err != nil {
			return err
		}
		if err := insertLinesInTx(ctx, tx, draft.Lines); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// VoidEntry writes the VOID header and applies the inverse balance increments
// in one transaction.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updateStatusInTx(ctx, tx, mapping.ToModelJournalEntry(entry), models.Posted); err != nil {
		return err
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}
	if _, err := r.accountTx.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	if err := r.accountTx.IncrementAccountBalancesInTx(ctx, tx, balanceChanges, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

const nextEntryNumberQuery = `
	INSERT INTO entry_number_sequences (company_id, last_number)
	VALUES ($1, 1)
	ON CONFLICT (company_id)
	DO UPDATE SET last_number = entry_number_sequences.last_number + 1
	RETURNING last_number;
`

// NextEntryNumber allocates the next number from the company's sequence row.
// The single upsert statement is atomic, so concurrent allocations never
// produce the same number. Numbers lost to rolled-back callers leave gaps,
// which is acceptable.
func (r *PgxJournalRepository) NextEntryNumber(ctx context.Context, companyID string) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, nextEntryNumberQuery, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate entry number for company %s: %w", companyID, err)
	}
	return n, nil
}

// NextEntryNumberInTx allocates the next entry number on the supplied transaction.
func (r *PgxJournalRepository) NextEntryNumberInTx(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	var n int64
	if err := tx.QueryRow(ctx, nextEntryNumberQuery, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to allocate entry number for company %s: %w", companyID, err)
	}
	return n, nil
}

// InsertPostedEntryInTx inserts an already-POSTED entry with its lines and
// applies the balance increments on the caller's transaction. Used by the
// auto-journal-entry bridge; the caller has already locked the account rows.
func (r *PgxJournalRepository) InsertPostedEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	if err := insertEntryInTx(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return err
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}
	return r.accountTx.IncrementAccountBalancesInTx(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt)
}
