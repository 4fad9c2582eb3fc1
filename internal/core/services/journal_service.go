package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
	"github.com/ledgerline/ledgerline_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryMinLines    = errors.New("journal entry must have at least two lines")
	ErrAccountNotFound  = errors.New("account not found")
	ErrCurrencyMismatch = errors.New("account currency does not match entry currency")
)

// journalService implements the journal entry lifecycle: draft creation and
// editing, posting with balance application, voiding, reversal, duplication,
// and the recurrence/auto-reversal generation triggered by posting.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines for a given entry,
// validating the single-sided amount invariant on each.
func buildLines(entryID string, reqLines []dto.EntryLineRequest, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		if err := accounting.ValidateLineAmounts(lr.Debit, lr.Credit); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i+1, err.Error())
		}
		sortOrder := lr.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lr.AccountID,
			Debit:       lr.Debit,
			Credit:      lr.Credit,
			Description: lr.Description,
			ContactType: lr.ContactType,
			ContactID:   lr.ContactID,
			SortOrder:   sortOrder,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines, nil
}

// fetchAndValidateAccounts loads the accounts referenced by a line set and
// checks company ownership, active status, and currency match.
func (s *journalService) fetchAndValidateAccounts(ctx context.Context, companyID, currencyCode string, lines []domain.JournalLine) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	uniqueIDs := uniqueStrings(accountIDs)

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range uniqueIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: %w: ID %s", apperrors.ErrValidation, ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: %w: account %s is %s, entry is %s", apperrors.ErrValidation, ErrCurrencyMismatch, id, acc.CurrencyCode, currencyCode)
		}
	}
	return accountsMap, nil
}

// computeBalanceChanges aggregates per-account balance deltas for a line set.
// With swapped=true the debit and credit inputs are exchanged, which yields
// the exact algebraic inverse; voiding uses that instead of a separate formula.
func computeBalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account, swapped bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account %s missing during balance calculation", line.AccountID)
		}
		debit, credit := line.Debit, line.Credit
		if swapped {
			debit, credit = credit, debit
		}
		delta, err := accounting.BalanceChange(debit, credit, acc.NormalBalance)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// allocateEntryNumber formats the next value of the company's entry sequence.
func (s *journalService) allocateEntryNumber(ctx context.Context, companyID string) (string, error) {
	seq, err := s.journalRepo.NextEntryNumber(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("failed to allocate entry number: %w", err)
	}
	return domain.FormatEntryNumber(seq), nil
}

// CreateEntry creates a new draft journal entry after validation.
//
// Balance is deliberately NOT checked here: drafts may be saved half-finished
// and the invariant is enforced exactly once, at post time.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinLines)
	}
	if req.IsRecurring && (req.RecurringFrequency == nil || req.NextRecurringDate == nil) {
		return nil, fmt.Errorf("%w: recurring entries need a frequency and a next occurrence date", apperrors.ErrValidation)
	}
	if req.IsAutoReversing && req.ReversalDate == nil {
		return nil, fmt.Errorf("%w: auto-reversing entries need a reversal date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := buildLines(entryID, req.Lines, userID, now)
	if err != nil {
		return nil, err
	}

	if _, err := s.fetchAndValidateAccounts(ctx, companyID, req.CurrencyCode, lines); err != nil {
		return nil, err
	}

	entryNumber := ""
	if req.EntryNumber != nil && *req.EntryNumber != "" {
		entryNumber = *req.EntryNumber
	} else {
		entryNumber, err = s.allocateEntryNumber(ctx, companyID)
		if err != nil {
			return nil, err
		}
	}

	entryType := domain.Standard
	if req.EntryType != nil {
		entryType = *req.EntryType
	}

	totalDebit, totalCredit := accounting.SumLines(lines)

	entry := domain.JournalEntry{
		EntryID:            entryID,
		CompanyID:          companyID,
		EntryNumber:        entryNumber,
		EntryDate:          req.EntryDate,
		Description:        req.Description,
		CurrencyCode:       req.CurrencyCode,
		Status:             domain.Draft,
		EntryType:          entryType,
		TotalDebit:         totalDebit,
		TotalCredit:        totalCredit,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
		NextRecurringDate:  req.NextRecurringDate,
		RecurringEndDate:   req.RecurringEndDate,
		IsAutoReversing:    req.IsAutoReversing,
		ReversalDate:       req.ReversalDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	entry.Lines = lines
	return &entry, nil
}

// findCompanyEntry fetches an entry and verifies it belongs to the company.
// Entries of other companies surface as not found.
func (s *journalService) findCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for a company.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var status *domain.EntryStatus
	if params.Status != nil {
		st := domain.EntryStatus(*params.Status)
		status = &st
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, params.Limit, params.NextToken, status)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	var linesMap map[string][]domain.JournalLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.EntryID
		}
		linesMap, err = s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			// Lines are a nicety on the list endpoint; return headers anyway.
			logger.Warn("Failed to fetch lines for entry list", slog.String("error", err.Error()))
			linesMap = nil
		}
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i, e := range entries {
		if linesMap != nil {
			e.Lines = linesMap[e.EntryID]
		}
		responses[i] = dto.ToEntryResponse(&e)
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// UpdateEntry patches a draft entry. A supplied line set replaces the existing
// one wholesale (delete-then-recreate) and the cached totals are recomputed.
func (s *journalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsDraft() {
		return nil, fmt.Errorf("%w: entry %s is %s, only drafts can be updated", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	now := time.Now().UTC()

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.CurrencyCode != nil {
		entry.CurrencyCode = *req.CurrencyCode
	}
	if req.EntryType != nil {
		entry.EntryType = *req.EntryType
	}
	if req.IsRecurring != nil {
		entry.IsRecurring = *req.IsRecurring
	}
	if req.RecurringFrequency != nil {
		entry.RecurringFrequency = req.RecurringFrequency
	}
	if req.NextRecurringDate != nil {
		entry.NextRecurringDate = req.NextRecurringDate
	}
	if req.RecurringEndDate != nil {
		entry.RecurringEndDate = req.RecurringEndDate
	}
	if req.IsAutoReversing != nil {
		entry.IsAutoReversing = *req.IsAutoReversing
	}
	if req.ReversalDate != nil {
		entry.ReversalDate = req.ReversalDate
	}
	if entry.IsRecurring && (entry.RecurringFrequency == nil || entry.NextRecurringDate == nil) {
		return nil, fmt.Errorf("%w: recurring entries need a frequency and a next occurrence date", apperrors.ErrValidation)
	}

	var newLines []domain.JournalLine
	replaceLines := false
	if req.Lines != nil {
		if len(*req.Lines) < 2 {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinLines)
		}
		newLines, err = buildLines(entry.EntryID, *req.Lines, userID, now)
		if err != nil {
			return nil, err
		}
		if _, err := s.fetchAndValidateAccounts(ctx, companyID, entry.CurrencyCode, newLines); err != nil {
			return nil, err
		}
		entry.TotalDebit, entry.TotalCredit = accounting.SumLines(newLines)
		replaceLines = true
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateEntry(ctx, *entry, newLines, replaceLines); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID), slog.Bool("lines_replaced", replaceLines))
	entry.Lines = newLines
	return entry, nil
}

// DeleteEntry hard-deletes a draft entry together with its lines.
func (s *journalService) DeleteEntry(ctx context.Context, companyID string, entryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if !entry.IsDraft() {
		return fmt.Errorf("%w: entry %s is %s, only drafts can be deleted", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	return nil
}

// PostEntry finalizes a draft entry. Totals are recomputed from the current
// lines (never trusted from the cached header), the balance invariant is
// enforced, per-account deltas are derived with the shared formula, and any
// auto-reversal or recurrence drafts are spawned. The repository applies the
// header write, the balance increments, and the spawned drafts in one
// transaction, so a reader can never observe a half-posted entry.
func (s *journalService) PostEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsDraft() {
		return nil, fmt.Errorf("%w: entry %s is %s, only drafts can be posted", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinLines)
	}

	totalDebit, totalCredit := accounting.SumLines(lines)
	if !accounting.IsBalanced(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, totalDebit.String(), totalCredit.String())
	}

	accounts, err := s.fetchAndValidateAccounts(ctx, companyID, entry.CurrencyCode, lines)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := computeBalanceChanges(lines, accounts, false)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balance changes: %w", err)
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &userID
	entry.TotalDebit = totalDebit
	entry.TotalCredit = totalCredit
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	spawned, err := s.buildSpawnedDrafts(ctx, entry, lines, userID, now)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.PostEntry(ctx, *entry, balanceChanges, spawned); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry: %w", err)
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("total_debit", totalDebit.String()),
		slog.Int("spawned_drafts", len(spawned)))
	entry.Lines = lines
	return entry, nil
}

// buildSpawnedDrafts derives the draft entries that posting generates: the
// scheduled auto-reversal and the next recurrence occurrence. Both await
// manual posting; nothing here touches balances.
func (s *journalService) buildSpawnedDrafts(ctx context.Context, entry *domain.JournalEntry, lines []domain.JournalLine, userID string, now time.Time) ([]domain.JournalEntry, error) {
	var spawned []domain.JournalEntry

	if entry.IsAutoReversing && entry.ReversalDate != nil {
		number, err := s.allocateEntryNumber(ctx, entry.CompanyID)
		if err != nil {
			return nil, err
		}
		rev := buildReversingEntry(entry, lines, *entry.ReversalDate, number, userID, now)
		spawned = append(spawned, rev)
	}

	if entry.IsRecurring && entry.RecurringFrequency != nil && entry.NextRecurringDate != nil {
		occurrence := *entry.NextRecurringDate
		withinEnd := entry.RecurringEndDate == nil || !occurrence.After(*entry.RecurringEndDate)
		if withinEnd {
			number, err := s.allocateEntryNumber(ctx, entry.CompanyID)
			if err != nil {
				return nil, err
			}
			clone, err := buildRecurrenceClone(entry, lines, occurrence, number, userID, now)
			if err != nil {
				return nil, err
			}
			spawned = append(spawned, clone)
		}
		// The chain has moved forward (or ended); this entry is no longer pending.
		entry.NextRecurringDate = nil
	}

	return spawned, nil
}

// buildReversingEntry creates a draft counter-entry: every line's debit and
// credit are swapped, totals are swapped, and ReversedFromID points at the
// source. The source entry itself is untouched.
func buildReversingEntry(src *domain.JournalEntry, lines []domain.JournalLine, entryDate time.Time, entryNumber string, userID string, now time.Time) domain.JournalEntry {
	newID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	flipped := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		flipped[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     newID,
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
			ContactType: line.ContactType,
			ContactID:   line.ContactID,
			SortOrder:   line.SortOrder,
			AuditFields: audit,
		}
	}

	return domain.JournalEntry{
		EntryID:        newID,
		CompanyID:      src.CompanyID,
		EntryNumber:    entryNumber,
		EntryDate:      entryDate,
		Description:    fmt.Sprintf("Reversal of %s", src.EntryNumber),
		CurrencyCode:   src.CurrencyCode,
		Status:         domain.Draft,
		EntryType:      domain.Reversing,
		TotalDebit:     src.TotalCredit,
		TotalCredit:    src.TotalDebit,
		ReversedFromID: &src.EntryID,
		AuditFields:    audit,
		Lines:          flipped,
	}
}

// buildRecurrenceClone creates the next occurrence of a recurring entry: a
// draft dated at the occurrence date with lines copied verbatim and its own
// NextRecurringDate advanced one period.
func buildRecurrenceClone(src *domain.JournalEntry, lines []domain.JournalLine, occurrence time.Time, entryNumber string, userID string, now time.Time) (domain.JournalEntry, error) {
	next, err := accounting.NextOccurrence(occurrence, *src.RecurringFrequency)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("failed to advance recurrence date: %w", err)
	}

	newID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	copied := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		copied[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     newID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			ContactType: line.ContactType,
			ContactID:   line.ContactID,
			SortOrder:   line.SortOrder,
			AuditFields: audit,
		}
	}

	return domain.JournalEntry{
		EntryID:            newID,
		CompanyID:          src.CompanyID,
		EntryNumber:        entryNumber,
		EntryDate:          occurrence,
		Description:        src.Description,
		CurrencyCode:       src.CurrencyCode,
		Status:             domain.Draft,
		EntryType:          src.EntryType,
		TotalDebit:         src.TotalDebit,
		TotalCredit:        src.TotalCredit,
		IsRecurring:        true,
		RecurringFrequency: src.RecurringFrequency,
		NextRecurringDate:  &next,
		RecurringEndDate:   src.RecurringEndDate,
		AuditFields:        audit,
		Lines:              copied,
	}, nil
}

// VoidEntry retracts a posted entry's balance effect in place by applying the
// shared formula with debit and credit swapped. A second void fails: the
// financial effect must not be double-reversed.
func (s *journalService) VoidEntry(ctx context.Context, companyID string, entryID string, reason string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s, only posted entries can be voided", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	balanceChanges, err := computeBalanceChanges(lines, accounts, true)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate void balance changes: %w", err)
	}

	now := time.Now().UTC()
	entry.Status = domain.Void
	entry.VoidedAt = &now
	entry.VoidedBy = &userID
	entry.VoidReason = &reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.VoidEntry(ctx, *entry, balanceChanges); err != nil {
		logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to void journal entry: %w", err)
	}

	logger.Info("Journal entry voided", slog.String("entry_id", entryID), slog.String("reason", reason))
	entry.Lines = lines
	return entry, nil
}

// ReverseEntry creates an independent draft counter-entry for a posted entry.
// Unlike voiding it does not touch the source or any balance; the draft only
// affects balances once someone posts it.
func (s *journalService) ReverseEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s, only posted entries can be reversed", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	number, err := s.allocateEntryNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversing := buildReversingEntry(entry, lines, entry.EntryDate, number, userID, now)

	if err := s.journalRepo.SaveEntry(ctx, reversing, reversing.Lines); err != nil {
		logger.Error("Failed to save reversing entry", slog.String("error", err.Error()), slog.String("source_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversing entry: %w", err)
	}

	logger.Info("Reversing entry created", slog.String("entry_id", reversing.EntryID), slog.String("source_entry_id", entryID))
	return &reversing, nil
}

// DuplicateEntry clones any entry into a fresh draft dated today. A REVERSING
// source is downgraded to STANDARD, and back-references are not carried over.
func (s *journalService) DuplicateEntry(ctx context.Context, companyID string, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	number, err := s.allocateEntryNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	entryType := entry.EntryType
	if entryType == domain.Reversing {
		entryType = domain.Standard
	}

	copied := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		copied[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     newID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
			ContactType: line.ContactType,
			ContactID:   line.ContactID,
			SortOrder:   line.SortOrder,
			AuditFields: audit,
		}
	}

	duplicate := domain.JournalEntry{
		EntryID:            newID,
		CompanyID:          companyID,
		EntryNumber:        number,
		EntryDate:          now,
		Description:        entry.Description,
		CurrencyCode:       entry.CurrencyCode,
		Status:             domain.Draft,
		EntryType:          entryType,
		TotalDebit:         entry.TotalDebit,
		TotalCredit:        entry.TotalCredit,
		IsRecurring:        entry.IsRecurring,
		RecurringFrequency: entry.RecurringFrequency,
		NextRecurringDate:  entry.NextRecurringDate,
		RecurringEndDate:   entry.RecurringEndDate,
		IsAutoReversing:    entry.IsAutoReversing,
		ReversalDate:       entry.ReversalDate,
		AuditFields:        audit,
		Lines:              copied,
	}

	if err := s.journalRepo.SaveEntry(ctx, duplicate, copied); err != nil {
		logger.Error("Failed to save duplicated entry", slog.String("error", err.Error()), slog.String("source_entry_id", entryID))
		return nil, fmt.Errorf("failed to save duplicated entry: %w", err)
	}

	logger.Info("Journal entry duplicated", slog.String("entry_id", newID), slog.String("source_entry_id", entryID))
	return &duplicate, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
