package matching

import (
	"sort"
	"time"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/google/uuid"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// DecisionKind tags the outcome for one bank entry.
type DecisionKind string

const (
	// DecisionAuto: the top candidate clears the threshold with no close runner-up.
	DecisionAuto DecisionKind = "AUTO"
	// DecisionSuggest: candidates exist but need a human.
	DecisionSuggest DecisionKind = "SUGGEST"
	// DecisionNoMatch: no plausible ledger counterpart; the entry is bank-only.
	DecisionNoMatch DecisionKind = "NO_MATCH"
)

// Decision is what the engine concludes for one bank entry. Best is set only
// for DecisionAuto; Candidates holds the ranked list for every kind but NoMatch.
type Decision struct {
	Kind       DecisionKind     `json:"kind"`
	Entry      domain.BankEntry `json:"entry"`
	Best       *MatchCandidate  `json:"best,omitempty"`
	Candidates []MatchCandidate `json:"candidates"`
	BankOnly   bool             `json:"bankOnly"`
	Reason     string           `json:"reason,omitempty"`
}

// AutoMatchResult is the outcome of an auto-matching pass.
type AutoMatchResult struct {
	Matches   []domain.Match
	Decisions []Decision
}

// Engine ranks candidates and applies the auto-match policy.
type Engine struct {
	cfg    Config
	scorer *Scorer
	newID  func() string
	now    func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator sets how match IDs are generated.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithClock sets the time source for match timestamps.
func WithClock(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = fn
	}
}

// NewEngine creates an Engine for the given policy.
func NewEngine(cfg Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's policy.
func (e *Engine) Config() Config {
	return e.cfg
}

// Scorer exposes the engine's scorer, e.g. to rate manual matches.
func (e *Engine) Scorer() *Scorer {
	return e.scorer
}

// FindCandidates scores entry against every unreconciled transaction and returns
// the best MaxCandidates, highest score first.
func (e *Engine) FindCandidates(entry domain.BankEntry, txns []domain.LedgerTransaction) []MatchCandidate {
	candidates := make([]MatchCandidate, 0, len(txns))
	for _, txn := range txns {
		if txn.IsReconciled {
			continue
		}
		if c, ok := e.scorer.Score(entry, txn); ok {
			candidates = append(candidates, c)
		}
	}

	entryText := normalizedDescription(entry.Description)
	distance := make(map[string]int, len(candidates))
	for _, c := range candidates {
		distance[c.TransactionID] = levenshtein.DistanceForStrings(
			[]rune(entryText), []rune(normalizedDescription(c.Transaction.Description)), levenshtein.DefaultOptions)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.Score != b.Score:
			return a.Score > b.Score
		case !a.AmountDiff.Equal(b.AmountDiff):
			return a.AmountDiff.LessThan(b.AmountDiff)
		case a.DaysApart != b.DaysApart:
			return a.DaysApart < b.DaysApart
		case distance[a.TransactionID] != distance[b.TransactionID]:
			return distance[a.TransactionID] < distance[b.TransactionID]
		}
		return a.TransactionID < b.TransactionID
	})

	if len(candidates) > e.cfg.MaxCandidates {
		candidates = candidates[:e.cfg.MaxCandidates]
	}
	return candidates
}

// Decide applies the auto-match policy to ranked candidates.
func (e *Engine) Decide(entry domain.BankEntry, candidates []MatchCandidate, threshold float64) Decision {
	if len(candidates) == 0 {
		return Decision{Kind: DecisionNoMatch, Entry: entry, Candidates: []MatchCandidate{}, BankOnly: true,
			Reason: "no ledger transaction within the amount ceiling"}
	}
	top := candidates[0]
	d := Decision{Kind: DecisionSuggest, Entry: entry, Candidates: candidates}
	switch {
	case top.Score < threshold:
		d.Reason = "top score below threshold"
	case !top.WithinAmountTolerance():
		d.Reason = "amount outside tolerance"
	case len(candidates) > 1 && top.Score-candidates[1].Score < e.cfg.AmbiguityMargin:
		d.Reason = "ambiguous: runner-up within margin"
	default:
		d.Kind = DecisionAuto
		d.Best = &top
	}
	return d
}

// Evaluate decides every unmatched entry of the session independently, without claiming transactions.
func (e *Engine) Evaluate(session *domain.ReconciliationSession, txns []domain.LedgerTransaction, threshold float64) []Decision {
	pool := e.available(session, txns)
	entries := session.UnmatchedEntries()
	decisions := make([]Decision, 0, len(entries))
	for _, entry := range entries {
		decisions = append(decisions, e.Decide(entry, e.FindCandidates(entry, pool), threshold))
	}
	return decisions
}

// AutoMatch walks the unmatched entries in statement order and proposes an auto
// Match for each confident, unambiguous decision. A transaction claimed by an
// earlier entry is not offered to later ones. The session is not modified.
func (e *Engine) AutoMatch(session *domain.ReconciliationSession, txns []domain.LedgerTransaction, threshold float64) AutoMatchResult {
	pool := e.available(session, txns)
	claimed := make(map[string]struct{})
	res := AutoMatchResult{Matches: []domain.Match{}}

	for _, entry := range session.UnmatchedEntries() {
		remaining := make([]domain.LedgerTransaction, 0, len(pool))
		for _, txn := range pool {
			if _, taken := claimed[txn.TransactionID]; !taken {
				remaining = append(remaining, txn)
			}
		}

		d := e.Decide(entry, e.FindCandidates(entry, remaining), threshold)
		res.Decisions = append(res.Decisions, d)
		if d.Kind != DecisionAuto {
			continue
		}

		txnID := d.Best.TransactionID
		claimed[txnID] = struct{}{}
		res.Matches = append(res.Matches, domain.Match{
			MatchID:       e.newID(),
			SessionID:     session.SessionID,
			BankEntryID:   entry.EntryID,
			TransactionID: &txnID,
			Confidence:    d.Best.Score,
			MatchType:     domain.MatchAuto,
			CreatedAt:     e.now(),
		})
	}
	return res
}

// available drops transactions that are reconciled or already matched in the session.
func (e *Engine) available(session *domain.ReconciliationSession, txns []domain.LedgerTransaction) []domain.LedgerTransaction {
	out := make([]domain.LedgerTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.IsReconciled || txn.AccountID != session.AccountID || session.IsTransactionMatched(txn.TransactionID) {
			continue
		}
		out = append(out, txn)
	}
	return out
}
