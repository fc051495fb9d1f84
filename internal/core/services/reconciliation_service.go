package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/bank_reconciliation/internal/core/reporting"
	"github.com/SscSPs/bank_reconciliation/internal/core/statement"
	"github.com/SscSPs/bank_reconciliation/internal/dto"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

// reconciliationService implements the ReconciliationSvcFacade interface
type reconciliationService struct {
	BaseService
	sessionRepo    portsrepo.ReconciliationRepositoryFacade
	ledgerRepo     portsrepo.LedgerReader
	accountRepo    portsrepo.AccountReader
	audit          AuditSink
	engine         *matching.Engine
	validate       *validator.Validate
	balanceEpsilon decimal.Decimal
	dateLocale     dateparse.Locale
	now            func() time.Time
	newID          func() string
}

// ReconciliationServiceOption is a functional option for configuring the reconciliation service
type ReconciliationServiceOption func(*reconciliationService)

// WithReconciliationWorkplaceAuthorizer adds workplace authorizer dependency
func WithReconciliationWorkplaceAuthorizer(authorizer portssvc.WorkplaceAuthorizerSvc) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.WorkplaceAuthorizer = authorizer
	}
}

// WithAuditSink sets where audit events go
func WithAuditSink(sink AuditSink) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.audit = sink
	}
}

// WithMatchingEngine replaces the engine built from the default policy
func WithMatchingEngine(engine *matching.Engine) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.engine = engine
	}
}

// WithBalanceEpsilon sets the largest discrepancy reported as balanced
func WithBalanceEpsilon(epsilon decimal.Decimal) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.balanceEpsilon = epsilon
	}
}

// WithDefaultDateLocale sets the day/month order used when an upload gives none
func WithDefaultDateLocale(locale dateparse.Locale) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.dateLocale = locale
	}
}

// WithServiceClock sets the time source
func WithServiceClock(now func() time.Time) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.now = now
	}
}

// WithServiceIDGenerator sets how session, entry and match IDs are generated
func WithServiceIDGenerator(newID func() string) ReconciliationServiceOption {
	return func(s *reconciliationService) {
		s.newID = newID
	}
}

// NewReconciliationService creates a new reconciliation service with the provided options
func NewReconciliationService(
	sessionRepo portsrepo.ReconciliationRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	accountRepo portsrepo.AccountReader,
	options ...ReconciliationServiceOption,
) portssvc.ReconciliationSvcFacade {
	svc := &reconciliationService{
		sessionRepo:    sessionRepo,
		ledgerRepo:     ledgerRepo,
		accountRepo:    accountRepo,
		validate:       validator.New(),
		balanceEpsilon: reporting.DefaultBalanceEpsilon,
		now:            func() time.Time { return time.Now().UTC() },
		newID:          uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.engine == nil {
		svc.engine = matching.NewEngine(matching.DefaultConfig(),
			matching.WithIDGenerator(svc.newID), matching.WithClock(svc.now))
	}
	return svc
}

// Ensure reconciliationService implements the ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Fingerprint identifies statement bytes for duplicate upload detection.
func Fingerprint(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (s *reconciliationService) UploadStatement(ctx context.Context, workplaceID, userID string, req dto.UploadStatementRequest) (*dto.UploadStatementResult, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		s.LogError(ctx, err, "User not authorized to upload statement",
			slog.String("user_id", userID),
			slog.String("workplace_id", workplaceID))
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := s.reconcilableAccount(ctx, workplaceID, req.AccountID); err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(req.Content)
	existing, err := s.sessionRepo.FindSessionByFingerprint(ctx, workplaceID, req.AccountID, fingerprint)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: statement already uploaded as session %s", apperrors.ErrDuplicate, existing.SessionID)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check statement fingerprint", slog.String("account_id", req.AccountID))
		return nil, err
	}

	locale := s.dateLocale
	if req.DateLocale != "" {
		locale = dateparse.ParseLocale(req.DateLocale)
	}
	parsed, err := statement.Parse(req.Content, req.Filename, statement.Options{Locale: locale, NewID: s.newID})
	if err != nil {
		s.LogInfo(ctx, "Statement rejected",
			slog.String("filename", req.Filename),
			slog.String("reason", err.Error()))
		return nil, err
	}
	for _, row := range parsed.Skipped {
		s.LogWarn(ctx, "Statement row skipped",
			slog.String("filename", req.Filename),
			slog.Int("line", row.Line),
			slog.String("reason", row.Reason))
	}

	var closing decimal.Decimal
	switch {
	case req.ClosingBalance != nil:
		closing = *req.ClosingBalance
	case parsed.Meta.LedgerBalance != nil:
		closing = *parsed.Meta.LedgerBalance
	default:
		return nil, fmt.Errorf("%w: closing balance is required when the statement does not carry one", apperrors.ErrValidation)
	}

	session, err := domain.NewReconciliationSession(s.newID(), workplaceID, req.AccountID, req.StatementDate,
		req.OpeningBalance, closing, parsed.Entries, userID, s.now())
	if err != nil {
		return nil, err
	}
	session.SourceFilename = req.Filename
	session.StatementFingerprint = fingerprint
	session.Meta = parsed.Meta

	var autoMatched []domain.Match
	if req.AutoMatch {
		txns, err := s.loadCandidates(ctx, session)
		if err != nil {
			return nil, err
		}
		autoMatched = s.applyAutoMatch(ctx, session, txns, s.engine.Config().AutoMatchThreshold, userID)
	}

	if err := s.sessionRepo.SaveSession(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation session",
			slog.String("session_id", session.SessionID))
		return nil, err
	}

	s.recordAudit(ctx, session, domain.AuditSessionCreated, userID, map[string]any{
		"account_id":      session.AccountID,
		"filename":        req.Filename,
		"format":          string(parsed.Format),
		"entries_parsed":  len(parsed.Entries),
		"entries_skipped": len(parsed.Skipped),
	})
	if len(autoMatched) > 0 {
		s.recordAudit(ctx, session, domain.AuditAutoMatched, userID, map[string]any{"matched": len(autoMatched)})
	}

	s.LogInfo(ctx, "Statement uploaded",
		slog.String("session_id", session.SessionID),
		slog.Int("entries", len(session.Entries)),
		slog.Int("skipped", len(parsed.Skipped)),
		slog.Int("auto_matched", len(autoMatched)))
	return &dto.UploadStatementResult{Session: session, Skipped: parsed.Skipped, AutoMatched: len(autoMatched)}, nil
}

func (s *reconciliationService) CreateSession(ctx context.Context, workplaceID, userID string, req dto.CreateSessionRequest) (*domain.ReconciliationSession, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := s.reconcilableAccount(ctx, workplaceID, req.AccountID); err != nil {
		return nil, err
	}

	session, err := domain.NewReconciliationSession(s.newID(), workplaceID, req.AccountID, req.StatementDate,
		req.OpeningBalance, req.ClosingBalance, req.Entries, userID, s.now())
	if err != nil {
		return nil, err
	}
	session.SourceFilename = req.SourceFilename
	session.StatementFingerprint = req.StatementFingerprint
	session.Meta = req.Meta

	if err := s.sessionRepo.SaveSession(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to save reconciliation session",
			slog.String("session_id", session.SessionID))
		return nil, err
	}
	s.recordAudit(ctx, session, domain.AuditSessionCreated, userID, map[string]any{
		"account_id": session.AccountID,
		"entries":    len(session.Entries),
	})
	return session, nil
}

func (s *reconciliationService) GetSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationSession, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findSession(ctx, workplaceID, sessionID)
}

func (s *reconciliationService) ListSessions(ctx context.Context, workplaceID, userID string, params dto.ListSessionsParams) ([]domain.ReconciliationSession, *string, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	sessions, next, err := s.sessionRepo.ListSessions(ctx, workplaceID, params.AccountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliation sessions", slog.String("workplace_id", workplaceID))
		return nil, nil, err
	}
	if sessions == nil {
		sessions = []domain.ReconciliationSession{}
	}
	return sessions, next, nil
}

func (s *reconciliationService) GetSuggestions(ctx context.Context, workplaceID, sessionID, userID string) ([]matching.Decision, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionInProgress {
		return []matching.Decision{}, nil
	}
	txns, err := s.loadCandidates(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.engine.Evaluate(session, txns, s.engine.Config().AutoMatchThreshold), nil
}

func (s *reconciliationService) GetReport(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.buildReport(ctx, session)
}

func (s *reconciliationService) AutoMatch(ctx context.Context, workplaceID, sessionID, userID string, threshold *float64) (*domain.ReconciliationSession, []domain.Match, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, nil, err
	}
	t := s.engine.Config().AutoMatchThreshold
	if threshold != nil {
		if *threshold <= 0 || *threshold > 1 {
			return nil, nil, fmt.Errorf("%w: threshold must be in (0, 1]", apperrors.ErrValidation)
		}
		t = *threshold
	}

	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := session.EnsureMutable(); err != nil {
		return nil, nil, err
	}
	txns, err := s.loadCandidates(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	expectedVersion := session.Version
	matches := s.applyAutoMatch(ctx, session, txns, t, userID)
	if len(matches) == 0 {
		return session, matches, nil
	}
	if err := s.persist(ctx, session, expectedVersion, userID, matches, nil); err != nil {
		return nil, nil, err
	}

	s.recordAudit(ctx, session, domain.AuditAutoMatched, userID, map[string]any{
		"matched":   len(matches),
		"threshold": t,
	})
	s.LogInfo(ctx, "Auto-match completed",
		slog.String("session_id", sessionID),
		slog.Int("matched", len(matches)))
	return session, matches, nil
}

func (s *reconciliationService) Match(ctx context.Context, workplaceID, sessionID, userID, bankEntryID, transactionID string) (*domain.Match, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction ID is required", apperrors.ErrValidation)
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.EnsureMutable(); err != nil {
		return nil, err
	}
	entry, ok := session.FindEntry(bankEntryID)
	if !ok {
		return nil, fmt.Errorf("%w: bank entry %s not in session %s", apperrors.ErrNotFound, bankEntryID, sessionID)
	}

	found, err := s.ledgerRepo.FindLedgerTransactionsByIDs(ctx, workplaceID, []string{transactionID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	txn, ok := found[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: ledger transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if txn.AccountID != session.AccountID {
		return nil, fmt.Errorf("%w: transaction %s does not belong to account %s", apperrors.ErrValidation, transactionID, session.AccountID)
	}
	if txn.IsReconciled && !session.IsTransactionMatched(transactionID) {
		return nil, fmt.Errorf("%w: transaction %s is reconciled in another session", apperrors.ErrAlreadyMatched, transactionID)
	}

	rating := s.engine.Scorer().Rate(entry, txn)
	match := domain.Match{
		MatchID:       s.newID(),
		BankEntryID:   bankEntryID,
		TransactionID: &transactionID,
		Confidence:    rating.Score,
		MatchType:     domain.MatchManual,
		CreatedAt:     s.now(),
		CreatedBy:     userID,
	}
	return s.addManualMatch(ctx, session, match)
}

func (s *reconciliationService) MatchBankOnly(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.Match, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	match := domain.Match{
		MatchID:     s.newID(),
		BankEntryID: bankEntryID,
		MatchType:   domain.MatchManual,
		CreatedAt:   s.now(),
		CreatedBy:   userID,
	}
	return s.addManualMatch(ctx, session, match)
}

func (s *reconciliationService) Unmatch(ctx context.Context, workplaceID, sessionID, userID, matchID string) (*domain.ReconciliationSession, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.removeMatch(ctx, session, userID, matchID)
}

func (s *reconciliationService) UnmatchEntry(ctx context.Context, workplaceID, sessionID, userID, bankEntryID string) (*domain.ReconciliationSession, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.EnsureMutable(); err != nil {
		return nil, err
	}
	match, ok := session.MatchForEntry(bankEntryID)
	if !ok {
		return nil, fmt.Errorf("%w: bank entry %s has no match", apperrors.ErrNotFound, bankEntryID)
	}
	return s.removeMatch(ctx, session, userID, match.MatchID)
}

func (s *reconciliationService) CompleteSession(ctx context.Context, workplaceID, sessionID, userID string) (*domain.ReconciliationReport, error) {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	expectedVersion := session.Version
	if err := session.Complete(userID, s.now()); err != nil {
		return nil, err
	}
	session.Version++
	change := portsrepo.SessionChange{ExpectedStatus: domain.SessionInProgress, ExpectedVersion: expectedVersion}
	if err := s.sessionRepo.UpdateSession(ctx, *session, change); err != nil {
		s.LogError(ctx, err, "Failed to complete reconciliation session", slog.String("session_id", sessionID))
		return nil, err
	}

	report, err := s.buildReport(ctx, session)
	if err != nil {
		return nil, err
	}
	s.recordAudit(ctx, session, domain.AuditSessionCompleted, userID, map[string]any{
		"matched_count":       report.MatchedCount,
		"unmatched_count":     report.UnmatchedCount,
		"balance_discrepancy": report.BalanceDiscrepancy.String(),
	})
	if !report.IsBalanced {
		s.LogWarn(ctx, "Session completed with balance discrepancy",
			slog.String("session_id", sessionID),
			slog.String("discrepancy", report.BalanceDiscrepancy.String()))
	}
	return report, nil
}

func (s *reconciliationService) DeleteSession(ctx context.Context, workplaceID, sessionID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, workplaceID, domain.RoleMember); err != nil {
		return err
	}
	session, err := s.findSession(ctx, workplaceID, sessionID)
	if err != nil {
		return err
	}
	if err := session.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteSession(ctx, *session); err != nil {
		s.LogError(ctx, err, "Failed to delete reconciliation session", slog.String("session_id", sessionID))
		return err
	}
	s.recordAudit(ctx, session, domain.AuditSessionDeleted, userID, map[string]any{
		"released_matches": len(session.Matches),
	})
	return nil
}

// reconcilableAccount returns the account if it belongs to the workplace and can be reconciled.
func (s *reconciliationService) reconcilableAccount(ctx context.Context, workplaceID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s not found in workplace", apperrors.ErrValidation, accountID)
		}
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	if account.WorkplaceID != workplaceID {
		return nil, fmt.Errorf("%w: account %s not found in workplace", apperrors.ErrValidation, accountID)
	}
	if !account.IsReconcilable() {
		return nil, fmt.Errorf("%w: account %s cannot be reconciled", apperrors.ErrValidation, accountID)
	}
	return account, nil
}

func (s *reconciliationService) findSession(ctx context.Context, workplaceID, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := s.sessionRepo.FindSessionByID(ctx, workplaceID, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find reconciliation session", slog.String("session_id", sessionID))
		}
		return nil, err
	}
	return session, nil
}

// loadCandidates reads the account's unreconciled transactions around the statement period.
func (s *reconciliationService) loadCandidates(ctx context.Context, session *domain.ReconciliationSession) ([]domain.LedgerTransaction, error) {
	from, to := session.PeriodBounds()
	window := time.Duration(s.engine.Config().CandidateWindowDays) * 24 * time.Hour
	txns, err := s.ledgerRepo.ListCandidateTransactions(ctx, session.WorkplaceID, session.AccountID, from.Add(-window), to.Add(window))
	if err != nil {
		s.LogError(ctx, err, "Failed to load candidate transactions", slog.String("session_id", session.SessionID))
		return nil, err
	}
	s.LogDebug(ctx, "Loaded candidate transactions",
		slog.String("session_id", session.SessionID),
		slog.Int("count", len(txns)))
	return txns, nil
}

// applyAutoMatch adds the engine's auto matches to session and returns them.
func (s *reconciliationService) applyAutoMatch(ctx context.Context, session *domain.ReconciliationSession, txns []domain.LedgerTransaction, threshold float64, userID string) []domain.Match {
	res := s.engine.AutoMatch(session, txns, threshold)
	added := make([]domain.Match, 0, len(res.Matches))
	for _, m := range res.Matches {
		m.CreatedBy = userID
		if err := session.AddMatch(m); err != nil {
			txnID := ""
			if m.TransactionID != nil {
				txnID = *m.TransactionID
			}
			s.LogWarn(ctx, "Dropped auto match rejected by session",
				slog.String("session_id", session.SessionID),
				slog.String("bank_entry_id", m.BankEntryID),
				slog.String("transaction_id", txnID),
				slog.String("reason", err.Error()))
			continue
		}
		added = append(added, m)
	}
	return added
}

func (s *reconciliationService) addManualMatch(ctx context.Context, session *domain.ReconciliationSession, match domain.Match) (*domain.Match, error) {
	expectedVersion := session.Version
	if err := session.AddMatch(match); err != nil {
		return nil, err
	}
	match.SessionID = session.SessionID
	if err := s.persist(ctx, session, expectedVersion, match.CreatedBy, []domain.Match{match}, nil); err != nil {
		return nil, err
	}

	details := map[string]any{"match_id": match.MatchID, "bank_entry_id": match.BankEntryID, "confidence": match.Confidence}
	if match.TransactionID != nil {
		details["transaction_id"] = *match.TransactionID
	} else {
		details["bank_only"] = true
	}
	s.recordAudit(ctx, session, domain.AuditMatched, match.CreatedBy, details)
	return &match, nil
}

func (s *reconciliationService) removeMatch(ctx context.Context, session *domain.ReconciliationSession, userID, matchID string) (*domain.ReconciliationSession, error) {
	expectedVersion := session.Version
	removed, err := session.RemoveMatch(matchID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, session, expectedVersion, userID, nil, []domain.Match{removed}); err != nil {
		return nil, err
	}

	details := map[string]any{"match_id": removed.MatchID, "bank_entry_id": removed.BankEntryID}
	if removed.TransactionID != nil {
		details["transaction_id"] = *removed.TransactionID
	}
	s.recordAudit(ctx, session, domain.AuditUnmatched, userID, details)
	return session, nil
}

// persist stores an in-progress session mutation guarded by the version it was read at.
func (s *reconciliationService) persist(ctx context.Context, session *domain.ReconciliationSession, expectedVersion int,
	userID string, added, removed []domain.Match) error {
	session.Version = expectedVersion + 1
	session.Touch(userID, s.now())
	change := portsrepo.SessionChange{
		ExpectedStatus:  domain.SessionInProgress,
		ExpectedVersion: expectedVersion,
		AddedMatches:    added,
		RemovedMatches:  removed,
	}
	if err := s.sessionRepo.UpdateSession(ctx, *session, change); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update reconciliation session", slog.String("session_id", session.SessionID))
			return err
		}
		s.LogInfo(ctx, "Concurrent session update rejected",
			slog.String("session_id", session.SessionID),
			slog.String("reason", err.Error()))
		if !errors.Is(err, apperrors.ErrAlreadyMatched) && len(added) > 0 {
			return s.explainConflict(ctx, session, added, err)
		}
		return err
	}
	return nil
}

// explainConflict re-reads the session after a lost update and reports
// ErrAlreadyMatched when the winner matched one of the same entries or transactions.
func (s *reconciliationService) explainConflict(ctx context.Context, session *domain.ReconciliationSession,
	added []domain.Match, conflict error) error {
	current, err := s.sessionRepo.FindSessionByID(ctx, session.WorkplaceID, session.SessionID)
	if err != nil {
		s.LogWarn(ctx, "Failed to re-read session after conflict",
			slog.String("session_id", session.SessionID),
			slog.String("error", err.Error()))
		return conflict
	}
	for _, m := range added {
		if _, taken := current.MatchForEntry(m.BankEntryID); taken {
			return fmt.Errorf("%w: bank entry %s was matched concurrently", apperrors.ErrAlreadyMatched, m.BankEntryID)
		}
		if m.TransactionID != nil && current.IsTransactionMatched(*m.TransactionID) {
			return fmt.Errorf("%w: transaction %s was matched concurrently", apperrors.ErrAlreadyMatched, *m.TransactionID)
		}
	}
	return conflict
}

func (s *reconciliationService) buildReport(ctx context.Context, session *domain.ReconciliationSession) (*domain.ReconciliationReport, error) {
	linked := map[string]domain.LedgerTransaction{}
	if ids := session.MatchedTransactionIDs(); len(ids) > 0 {
		found, err := s.ledgerRepo.FindLedgerTransactionsByIDs(ctx, session.WorkplaceID, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to load matched transactions", slog.String("session_id", session.SessionID))
			return nil, err
		}
		linked = found
	}
	report := reporting.Generate(session, linked, s.balanceEpsilon)
	return &report, nil
}

// recordAudit hands an event to the sink. Failures are logged; they never undo the mutation.
func (s *reconciliationService) recordAudit(ctx context.Context, session *domain.ReconciliationSession,
	action domain.AuditAction, userID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	event := domain.AuditEvent{
		EventID:     s.newID(),
		WorkplaceID: session.WorkplaceID,
		SessionID:   session.SessionID,
		Action:      action,
		ActorID:     userID,
		Details:     details,
		OccurredAt:  s.now(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to record audit event",
			slog.String("session_id", session.SessionID),
			slog.String("action", string(action)))
	}
}
