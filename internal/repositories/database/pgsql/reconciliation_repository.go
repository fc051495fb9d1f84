package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation/internal/models"
	"github.com/SscSPs/bank_reconciliation/internal/utils/mapping"
	"github.com/SscSPs/bank_reconciliation/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReconciliationRepository stores sessions in reconciliation_sessions (entries and
// metadata as JSONB) and their active matches in reconciliation_matches. Claiming a
// match flips transactions.is_reconciled in the same database transaction.
type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const sessionSelectQuery = `
SELECT s.session_id, s.workplace_id, s.account_id, s.statement_date, s.opening_balance, s.closing_balance,
       s.source_filename, s.statement_fingerprint, s.meta, s.entries, s.status,
       s.matched_count, s.unmatched_count, s.completed_at, s.version,
       s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM reconciliation_sessions s
`

const matchSelectQuery = `
SELECT match_id, session_id, bank_entry_id, transaction_id, confidence, match_type, created_at, created_by
FROM reconciliation_matches
`

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxReconciliationRepository) getSessions(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.ReconciliationSession, error) {
	rows, err := q.Query(ctx, sessionSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliation sessions", err)
	}
	modelSessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ReconciliationSession])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect reconciliation session rows", err)
	}
	if len(modelSessions) == 0 {
		return []domain.ReconciliationSession{}, nil
	}

	ids := make([]string, len(modelSessions))
	for i, m := range modelSessions {
		ids[i] = m.SessionID
	}
	matchesBySession, err := r.getMatches(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.ReconciliationSession, len(modelSessions))
	for i, m := range modelSessions {
		sessions[i] = mapping.ToDomainReconciliationSession(m, matchesBySession[m.SessionID])
	}
	return sessions, nil
}

func (r *PgxReconciliationRepository) getMatches(ctx context.Context, q querier, sessionIDs []string) (map[string][]models.ReconciliationMatch, error) {
	rows, err := q.Query(ctx, matchSelectQuery+`WHERE session_id = ANY($1) ORDER BY created_at, match_id;`, sessionIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliation matches", err)
	}
	modelMatches, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ReconciliationMatch])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect reconciliation match rows", err)
	}
	out := make(map[string][]models.ReconciliationMatch, len(sessionIDs))
	for _, m := range modelMatches {
		out[m.SessionID] = append(out[m.SessionID], m)
	}
	return out, nil
}

func (r *PgxReconciliationRepository) FindSessionByID(ctx context.Context, workplaceID, sessionID string) (*domain.ReconciliationSession, error) {
	sessions, err := r.getSessions(ctx, r.Pool, `WHERE s.workplace_id = $1 AND s.session_id = $2;`, workplaceID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *PgxReconciliationRepository) FindSessionByFingerprint(ctx context.Context, workplaceID, accountID, fingerprint string) (*domain.ReconciliationSession, error) {
	sessions, err := r.getSessions(ctx, r.Pool,
		`WHERE s.workplace_id = $1 AND s.account_id = $2 AND s.statement_fingerprint = $3 LIMIT 1;`,
		workplaceID, accountID, fingerprint)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

// ListSessions pages newest first on (created_at, session_id).
func (r *PgxReconciliationRepository) ListSessions(ctx context.Context, workplaceID string, accountID *string, limit int, nextToken *string) ([]domain.ReconciliationSession, *string, error) {
	args := []any{workplaceID}
	filter := `WHERE s.workplace_id = $1`
	if accountID != nil && *accountID != "" {
		args = append(args, *accountID)
		filter += fmt.Sprintf(` AND s.account_id = $%d`, len(args))
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt, lastID)
		filter += fmt.Sprintf(` AND (s.created_at, s.session_id) < ($%d, $%d)`, len(args)-1, len(args))
	}
	// One extra row tells us whether another page exists.
	args = append(args, limit+1)
	filter += fmt.Sprintf(` ORDER BY s.created_at DESC, s.session_id DESC LIMIT $%d;`, len(args))

	sessions, err := r.getSessions(ctx, r.Pool, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(sessions) > limit {
		sessions = sessions[:limit]
		last := sessions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.SessionID)
		next = &token
	}
	return sessions, next, nil
}

func (r *PgxReconciliationRepository) SaveSession(ctx context.Context, session domain.ReconciliationSession) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationSession(session)
	query := `
		INSERT INTO reconciliation_sessions (
			session_id, workplace_id, account_id, statement_date, opening_balance, closing_balance,
			source_filename, statement_fingerprint, meta, entries, status,
			matched_count, unmatched_count, completed_at, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, query,
		m.SessionID,
		m.WorkplaceID,
		m.AccountID,
		m.StatementDate,
		m.OpeningBalance,
		m.ClosingBalance,
		m.SourceFilename,
		m.StatementFingerprint,
		m.Meta,
		m.Entries,
		m.Status,
		m.MatchedCount,
		m.UnmatchedCount,
		m.CompletedAt,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		code, constraint := pgErrorCode(err)
		switch {
		case code == pgUniqueViolation && constraint == "uq_reconciliation_sessions_fingerprint":
			return fmt.Errorf("%w: statement already uploaded for account %s", apperrors.ErrDuplicate, m.AccountID)
		case code == pgUniqueViolation:
			return fmt.Errorf("%w: session %s", apperrors.ErrDuplicate, m.SessionID)
		case code == pgForeignKeyViolation:
			return fmt.Errorf("%w: unknown workplace or account", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation session "+m.SessionID, err)
	}

	if err := r.insertMatches(ctx, tx, session.WorkplaceID, session.SessionID, session.Matches, session.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateSession writes the session only while the stored row still has the
// expected status and version; otherwise nothing changes and ErrConflict is returned.
func (r *PgxReconciliationRepository) UpdateSession(ctx context.Context, session domain.ReconciliationSession, change portsrepo.SessionChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationSession(session)
	query := `
		UPDATE reconciliation_sessions
		SET status = $1, matched_count = $2, unmatched_count = $3, completed_at = $4, version = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE workplace_id = $8 AND session_id = $9 AND status = $10 AND version = $11;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.Status,
		m.MatchedCount,
		m.UnmatchedCount,
		m.CompletedAt,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.WorkplaceID,
		m.SessionID,
		string(change.ExpectedStatus),
		change.ExpectedVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reconciliation session "+m.SessionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s was modified concurrently", apperrors.ErrConflict, m.SessionID)
	}

	if len(change.RemovedMatches) > 0 {
		matchIDs := make([]string, len(change.RemovedMatches))
		for i, rm := range change.RemovedMatches {
			matchIDs[i] = rm.MatchID
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reconciliation_matches WHERE session_id = $1 AND match_id = ANY($2);`, m.SessionID, matchIDs); err != nil {
			return apperrors.NewAppError(500, "failed to delete reconciliation matches", err)
		}
		if err := r.release(ctx, tx, m.SessionID, transactionIDs(change.RemovedMatches)); err != nil {
			return err
		}
	}

	if err := r.insertMatches(ctx, tx, session.WorkplaceID, session.SessionID, change.AddedMatches, session.LastUpdatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteSession removes an in-progress session. Its match rows cascade.
func (r *PgxReconciliationRepository) DeleteSession(ctx context.Context, session domain.ReconciliationSession) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `SELECT transaction_id FROM reconciliation_matches WHERE session_id = $1 AND transaction_id IS NOT NULL;`, session.SessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query claimed transactions", err)
	}
	claimed, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return apperrors.NewAppError(500, "failed to collect claimed transactions", err)
	}
	// Release first: the session foreign key on transactions is cleared by the delete.
	if err := r.release(ctx, tx, session.SessionID, claimed); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM reconciliation_sessions WHERE workplace_id = $1 AND session_id = $2 AND status = $3;`,
		session.WorkplaceID, session.SessionID, string(domain.SessionInProgress))
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete reconciliation session "+session.SessionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindSessionByID(ctx, session.WorkplaceID, session.SessionID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: session %s is no longer in progress", apperrors.ErrConflict, session.SessionID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxReconciliationRepository) insertMatches(ctx context.Context, tx pgx.Tx, workplaceID, sessionID string, matches []domain.Match, now time.Time) error {
	if len(matches) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO reconciliation_matches (match_id, session_id, bank_entry_id, transaction_id, confidence, match_type, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, d := range matches {
		m := mapping.ToModelMatch(d)
		batch.Queue(query,
			m.MatchID,
			sessionID,
			m.BankEntryID,
			m.TransactionID,
			m.Confidence,
			m.MatchType,
			m.CreatedAt,
			m.CreatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return fmt.Errorf("%w: bank entry or transaction already matched", apperrors.ErrAlreadyMatched)
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation matches for session "+sessionID, err)
	}

	return r.claim(ctx, tx, workplaceID, sessionID, transactionIDs(matches), now)
}

// claim marks the transactions reconciled by this session. A transaction that is
// already reconciled, or outside the workplace, makes the whole claim fail.
func (r *PgxReconciliationRepository) claim(ctx context.Context, tx pgx.Tx, workplaceID, sessionID string, ids []string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE transactions t
		SET is_reconciled = TRUE, reconciled_at = $1, reconciliation_session_id = $2
		FROM journals j
		WHERE t.journal_id = j.journal_id AND j.workplace_id = $3
		  AND t.transaction_id = ANY($4) AND NOT t.is_reconciled;
	`
	cmdTag, err := tx.Exec(ctx, query, now, sessionID, workplaceID, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to claim transactions for session "+sessionID, err)
	}
	if cmdTag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d transactions could not be claimed", apperrors.ErrAlreadyMatched, int64(len(ids))-cmdTag.RowsAffected(), len(ids))
	}
	return nil
}

// releaseTransactionsQuery clears the flag and the session link together, the only
// update the guard trigger allows on a reconciled row.
const releaseTransactionsQuery = `
	UPDATE transactions
	SET is_reconciled = FALSE, reconciled_at = NULL, reconciliation_session_id = NULL
	WHERE transaction_id = ANY($1) AND reconciliation_session_id = $2;
`

func (r *PgxReconciliationRepository) release(ctx context.Context, tx pgx.Tx, sessionID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, releaseTransactionsQuery, ids, sessionID); err != nil {
		return apperrors.NewAppError(500, "failed to release transactions of session "+sessionID, err)
	}
	return nil
}

func transactionIDs(matches []domain.Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.TransactionID != nil {
			ids = append(ids, *m.TransactionID)
		}
	}
	return ids
}
