package dto

import (
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/core/matching"
	"github.com/SscSPs/bank_reconciliation/internal/core/statement"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// UploadStatementForm is the multipart form of a statement upload (the file travels in part "file").
type UploadStatementForm struct {
	AccountID      string `form:"accountID" binding:"required"`
	StatementDate  string `form:"statementDate" binding:"required"`
	OpeningBalance string `form:"openingBalance" binding:"required"`
	ClosingBalance string `form:"closingBalance"` // Optional for OFX: the ledger balance is used
	AutoMatch      bool   `form:"autoMatch"`
	DateLocale     string `form:"dateLocale" binding:"omitempty,oneof=US EU us eu"`
}

// UploadStatementRequest is the service input for an upload.
type UploadStatementRequest struct {
	AccountID      string           `validate:"required"`
	Filename       string           `validate:"required"`
	Content        []byte           `validate:"required,min=1"`
	StatementDate  time.Time        `validate:"required"`
	OpeningBalance decimal.Decimal  // Zero is a valid opening balance
	ClosingBalance *decimal.Decimal // Optional, nil falls back to the statement's own ledger balance
	AutoMatch      bool
	DateLocale     string `validate:"omitempty,oneof=US EU"`
}

// CreateSessionRequest is the service input for creating a session from already parsed entries.
type CreateSessionRequest struct {
	AccountID            string             `validate:"required"`
	StatementDate        time.Time          `validate:"required"`
	OpeningBalance       decimal.Decimal
	ClosingBalance       decimal.Decimal
	Entries              []domain.BankEntry `validate:"required,min=1"`
	SourceFilename       string
	StatementFingerprint string
	Meta                 domain.StatementMeta
}

// UploadStatementResult is what an upload produced.
type UploadStatementResult struct {
	Session     *domain.ReconciliationSession
	Skipped     []statement.SkippedRow
	AutoMatched int
}

// ListSessionsParams defines query parameters for listing sessions.
type ListSessionsParams struct {
	AccountID *string `form:"accountID"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// CreateMatchRequest confirms a pairing. Omitting transactionID acknowledges a bank-only entry.
type CreateMatchRequest struct {
	BankEntryID   string  `json:"bankEntryID" binding:"required"`
	TransactionID *string `json:"transactionID"`
}

// AutoMatchRequest optionally overrides the configured threshold.
type AutoMatchRequest struct {
	Threshold *float64 `json:"threshold" binding:"omitempty,gt=0,lte=1"`
}

// BankEntryResponse is one statement line.
type BankEntryResponse struct {
	EntryID     string          `json:"entryID"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	Line        int             `json:"line"`
	Matched     bool            `json:"matched"`
}

// MatchResponse is one confirmed pairing.
type MatchResponse struct {
	MatchID       string           `json:"matchID"`
	BankEntryID   string           `json:"bankEntryID"`
	TransactionID *string          `json:"transactionID,omitempty"`
	Confidence    float64          `json:"confidence"`
	MatchType     domain.MatchType `json:"matchType"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
}

// SessionSummaryResponse is a session without its entries.
type SessionSummaryResponse struct {
	SessionID      string               `json:"sessionID"`
	AccountID      string               `json:"accountID"`
	StatementDate  string               `json:"statementDate"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	SourceFilename string               `json:"sourceFilename"`
	Status         domain.SessionStatus `json:"status"`
	TotalEntries   int                  `json:"totalEntries"`
	MatchedCount   int                  `json:"matchedCount"`
	UnmatchedCount int                  `json:"unmatchedCount"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	CompletedAt    *time.Time           `json:"completedAt,omitempty"`
}

// SessionResponse is a full session.
type SessionResponse struct {
	SessionSummaryResponse
	Meta    domain.StatementMeta `json:"meta"`
	Entries []BankEntryResponse  `json:"entries"`
	Matches []MatchResponse      `json:"matches"`
}

// ListSessionsResponse wraps a page of sessions.
type ListSessionsResponse struct {
	Sessions  []SessionSummaryResponse `json:"sessions"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// UploadStatementResponse summarises an upload.
type UploadStatementResponse struct {
	Session        SessionResponse        `json:"session"`
	EntriesParsed  int                    `json:"entriesParsed"`
	EntriesSkipped int                    `json:"entriesSkipped"`
	SkippedRows    []statement.SkippedRow `json:"skippedRows"`
	AutoMatched    int                    `json:"autoMatched"`
}

// AutoMatchResponse reports the matches created by an auto-match run.
type AutoMatchResponse struct {
	AutoMatched int             `json:"autoMatched"`
	Matches     []MatchResponse `json:"matches"`
	Session     SessionResponse `json:"session"`
}

// CandidateResponse is one ranked suggestion.
type CandidateResponse struct {
	TransactionID    string          `json:"transactionID"`
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Score            float64         `json:"score"`
	AmountScore      float64         `json:"amountScore"`
	DateScore        float64         `json:"dateScore"`
	DescriptionScore float64         `json:"descriptionScore"`
}

// SuggestionResponse is the engine's decision for one unmatched entry.
type SuggestionResponse struct {
	BankEntry  BankEntryResponse     `json:"bankEntry"`
	Decision   matching.DecisionKind `json:"decision"`
	BankOnly   bool                  `json:"bankOnly"`
	Reason     string                `json:"reason,omitempty"`
	Candidates []CandidateResponse   `json:"candidates"`
}

// SuggestionsResponse wraps all suggestions of a session.
type SuggestionsResponse struct {
	SessionID   string               `json:"sessionID"`
	Suggestions []SuggestionResponse `json:"suggestions"`
}

// ToMatchResponse converts a domain.Match.
func ToMatchResponse(m domain.Match) MatchResponse {
	return MatchResponse{
		MatchID:       m.MatchID,
		BankEntryID:   m.BankEntryID,
		TransactionID: m.TransactionID,
		Confidence:    m.Confidence,
		MatchType:     m.MatchType,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToMatchResponses converts a slice of matches.
func ToMatchResponses(ms []domain.Match) []MatchResponse {
	res := make([]MatchResponse, len(ms))
	for i, m := range ms {
		res[i] = ToMatchResponse(m)
	}
	return res
}

func toBankEntryResponse(e domain.BankEntry, matched bool) BankEntryResponse {
	return BankEntryResponse{
		EntryID:     e.EntryID,
		Date:        e.Date.Format(DateLayout),
		Description: e.Description,
		Amount:      e.Amount,
		Reference:   e.Reference,
		Line:        e.Line,
		Matched:     matched,
	}
}

// ToSessionSummaryResponse converts a session without entries and matches.
func ToSessionSummaryResponse(s *domain.ReconciliationSession) SessionSummaryResponse {
	return SessionSummaryResponse{
		SessionID:      s.SessionID,
		AccountID:      s.AccountID,
		StatementDate:  s.StatementDate.Format(DateLayout),
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		SourceFilename: s.SourceFilename,
		Status:         s.Status,
		TotalEntries:   len(s.Entries),
		MatchedCount:   s.MatchedCount,
		UnmatchedCount: s.UnmatchedCount,
		CreatedAt:      s.CreatedAt,
		CreatedBy:      s.CreatedBy,
		CompletedAt:    s.CompletedAt,
	}
}

// ToSessionResponse converts a full session.
func ToSessionResponse(s *domain.ReconciliationSession) SessionResponse {
	entries := make([]BankEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		_, matched := s.MatchForEntry(e.EntryID)
		entries[i] = toBankEntryResponse(e, matched)
	}
	return SessionResponse{
		SessionSummaryResponse: ToSessionSummaryResponse(s),
		Meta:                   s.Meta,
		Entries:                entries,
		Matches:                ToMatchResponses(s.Matches),
	}
}

// ToListSessionsResponse converts a page of sessions.
func ToListSessionsResponse(sessions []domain.ReconciliationSession, nextToken *string) ListSessionsResponse {
	res := ListSessionsResponse{Sessions: make([]SessionSummaryResponse, len(sessions)), NextToken: nextToken}
	for i := range sessions {
		res.Sessions[i] = ToSessionSummaryResponse(&sessions[i])
	}
	return res
}

// ToUploadStatementResponse converts an upload result.
func ToUploadStatementResponse(r *UploadStatementResult) UploadStatementResponse {
	skipped := r.Skipped
	if skipped == nil {
		skipped = []statement.SkippedRow{}
	}
	return UploadStatementResponse{
		Session:        ToSessionResponse(r.Session),
		EntriesParsed:  len(r.Session.Entries),
		EntriesSkipped: len(skipped),
		SkippedRows:    skipped,
		AutoMatched:    r.AutoMatched,
	}
}

// ToSuggestionsResponse converts engine decisions.
func ToSuggestionsResponse(sessionID string, decisions []matching.Decision) SuggestionsResponse {
	res := SuggestionsResponse{SessionID: sessionID, Suggestions: make([]SuggestionResponse, len(decisions))}
	for i, d := range decisions {
		candidates := make([]CandidateResponse, len(d.Candidates))
		for j, c := range d.Candidates {
			candidates[j] = CandidateResponse{
				TransactionID:    c.TransactionID,
				Date:             c.Transaction.Date.Format(DateLayout),
				Description:      c.Transaction.Description,
				Amount:           c.Transaction.Amount,
				Score:            c.Score,
				AmountScore:      c.AmountScore,
				DateScore:        c.DateScore,
				DescriptionScore: c.DescriptionScore,
			}
		}
		res.Suggestions[i] = SuggestionResponse{
			BankEntry:  toBankEntryResponse(d.Entry, false),
			Decision:   d.Kind,
			BankOnly:   d.BankOnly,
			Reason:     d.Reason,
			Candidates: candidates,
		}
	}
	return res
}
