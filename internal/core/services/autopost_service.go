package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portsrepo "github.com/ledgerline/ledgerline_backend/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
	"github.com/ledgerline/ledgerline_backend/internal/utils/accounting"
)

// autoPostService is the auto-journal-entry bridge: it turns a document event
// (invoice posted, expense approved) into an immediately-POSTED entry on the
// caller's transaction, so document and ledger commit or roll back together.
type autoPostService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAutoPostService creates the bridge service.
func NewAutoPostService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.AutoPostSvc {
	return &autoPostService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.AutoPostSvc = (*autoPostService)(nil)

// PostAutoEntry builds, numbers, and posts a balanced entry on tx.
//
// All validation and account resolution happens before the first write, so an
// ErrAccountUnresolved (or any validation failure) leaves the transaction
// clean and usable: the caller decides whether to abort the document or
// surface the misconfiguration. Row-not-found during resolution is a
// client-side condition, not a SQL error, so it does not poison tx.
func (s *autoPostService) PostAutoEntry(ctx context.Context, tx pgx.Tx, p dto.AutoEntryParams) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(p.Lines) < 2 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrEntryMinLines)
	}
	for i, line := range p.Lines {
		if line.AccountID == nil && line.AccountType == nil {
			return nil, fmt.Errorf("%w: line %d names neither an account ID nor an account type", apperrors.ErrValidation, i+1)
		}
		if err := accounting.ValidateLineAmounts(line.Debit, line.Credit); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i+1, err.Error())
		}
	}

	accounts, resolvedIDs, err := s.resolveAccounts(ctx, tx, p)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(p.Lines))
	for i, lr := range p.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   resolvedIDs[i],
			Debit:       lr.Debit,
			Credit:      lr.Credit,
			Description: lr.Description,
			SortOrder:   i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     p.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: p.UserID,
			},
		}
	}

	totalDebit, totalCredit := accounting.SumLines(lines)
	if !accounting.IsBalanced(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, totalDebit.String(), totalCredit.String())
	}

	balanceChanges, err := computeBalanceChanges(lines, accounts, false)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balance changes: %w", err)
	}

	seq, err := s.journalRepo.NextEntryNumberInTx(ctx, tx, p.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    p.CompanyID,
		EntryNumber:  domain.FormatEntryNumber(seq),
		EntryDate:    p.EntryDate,
		Description:  p.Description,
		CurrencyCode: p.CurrencyCode,
		Status:       domain.Posted,
		EntryType:    domain.Standard,
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		SourceType:   &p.SourceType,
		SourceID:     &p.SourceID,
		PostedAt:     &now,
		PostedBy:     &p.UserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     p.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: p.UserID,
		},
	}

	if err := s.journalRepo.InsertPostedEntryInTx(ctx, tx, entry, lines, balanceChanges); err != nil {
		logger.Error("Failed to insert auto-posted entry",
			slog.String("error", err.Error()),
			slog.String("source_type", p.SourceType),
			slog.String("source_id", p.SourceID))
		return nil, fmt.Errorf("failed to insert auto-posted entry: %w", err)
	}

	logger.Info("Auto-posted journal entry",
		slog.String("entry_id", entryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("source_type", p.SourceType),
		slog.String("source_id", p.SourceID))
	entry.Lines = lines
	return &entry, nil
}

// resolveAccounts maps every param line to a locked account row. ID references
// are batch-locked; type references resolve to the company's unique active
// account of that type. Any failure reports which reference could not be
// resolved via ErrAccountUnresolved.
func (s *autoPostService) resolveAccounts(ctx context.Context, tx pgx.Tx, p dto.AutoEntryParams) (map[string]domain.Account, []string, error) {
	var idRefs []string
	for _, line := range p.Lines {
		if line.AccountID != nil {
			idRefs = append(idRefs, *line.AccountID)
		}
	}

	accounts := make(map[string]domain.Account)
	if len(idRefs) > 0 {
		byID, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, uniqueStrings(idRefs))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: account lookup failed: %s", apperrors.ErrAccountUnresolved, err.Error())
		}
		for id, acc := range byID {
			if acc.CompanyID != p.CompanyID || !acc.IsActive {
				return nil, nil, fmt.Errorf("%w: account ID %s", apperrors.ErrAccountUnresolved, id)
			}
			accounts[id] = acc
		}
		for _, id := range idRefs {
			if _, ok := accounts[id]; !ok {
				return nil, nil, fmt.Errorf("%w: account ID %s", apperrors.ErrAccountUnresolved, id)
			}
		}
	}

	resolvedIDs := make([]string, len(p.Lines))
	byType := make(map[string]string)
	for i, line := range p.Lines {
		if line.AccountID != nil {
			resolvedIDs[i] = *line.AccountID
			continue
		}
		accType := *line.AccountType
		if id, ok := byType[accType]; ok {
			resolvedIDs[i] = id
			continue
		}
		acc, err := s.accountRepo.FindActiveAccountByTypeForUpdate(ctx, tx, p.CompanyID, accType)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: account type %q: %s", apperrors.ErrAccountUnresolved, accType, err.Error())
		}
		accounts[acc.AccountID] = *acc
		byType[accType] = acc.AccountID
		resolvedIDs[i] = acc.AccountID
	}

	return accounts, resolvedIDs, nil
}
