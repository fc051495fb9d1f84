package matching

import (
	"math"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/SscSPs/bank_reconciliation/internal/utils/dateparse"
	"github.com/shopspring/decimal"
)

// dateScoreFloor is the date score at the edge of the tolerance window.
const dateScoreFloor = 0.5

// MatchCandidate is a scored (bank entry, ledger transaction) pair. It is never persisted.
type MatchCandidate struct {
	BankEntryID      string                   `json:"bankEntryID"`
	TransactionID    string                   `json:"transactionID"`
	Score            float64                  `json:"score"`
	AmountScore      float64                  `json:"amountScore"`
	DateScore        float64                  `json:"dateScore"`
	DescriptionScore float64                  `json:"descriptionScore"`
	AmountDiff       decimal.Decimal          `json:"amountDiff"`
	DaysApart        int                      `json:"daysApart"`
	Transaction      domain.LedgerTransaction `json:"transaction"`
}

// WithinAmountTolerance reports whether the amounts agree closely enough for an automatic match.
func (c MatchCandidate) WithinAmountTolerance() bool {
	return c.AmountScore > 0
}

// Scorer computes confidence scores. It has no side effects.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer for the given policy.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score rates txn as a counterpart of entry. The second result is false when the
// amount difference exceeds the consideration ceiling and the pair should not be offered at all.
func (s *Scorer) Score(entry domain.BankEntry, txn domain.LedgerTransaction) (MatchCandidate, bool) {
	if entry.Amount.Sub(txn.Amount).Abs().GreaterThan(s.cfg.ConsiderationCeiling()) {
		return MatchCandidate{}, false
	}
	return s.Rate(entry, txn), true
}

// Rate scores a pair regardless of the consideration ceiling. Manual matches use it
// to record how well the chosen transaction fits.
func (s *Scorer) Rate(entry domain.BankEntry, txn domain.LedgerTransaction) MatchCandidate {
	diff := entry.Amount.Sub(txn.Amount).Abs()
	days := dateparse.DaysBetween(entry.Date, txn.Date)

	c := MatchCandidate{
		BankEntryID:      entry.EntryID,
		TransactionID:    txn.TransactionID,
		AmountScore:      s.AmountScore(diff),
		DateScore:        s.DateScore(days),
		DescriptionScore: DescriptionScore(entry.Description, txn.Description),
		AmountDiff:       diff,
		DaysApart:        days,
		Transaction:      txn,
	}
	c.Score = composite(c.AmountScore, c.DateScore, c.DescriptionScore)
	return c
}

// AmountScore is 1 for equal amounts, decaying linearly to 0 at the tolerance.
func (s *Scorer) AmountScore(diff decimal.Decimal) float64 {
	diff = diff.Abs()
	if diff.IsZero() {
		return 1
	}
	if diff.GreaterThanOrEqual(s.cfg.AmountTolerance) {
		return 0
	}
	ratio, _ := diff.Div(s.cfg.AmountTolerance).Float64()
	return clamp01(1 - ratio)
}

// DateScore is 1 on the same day, decaying linearly to dateScoreFloor at the
// edge of the tolerance window, and 0 outside it.
func (s *Scorer) DateScore(days int) float64 {
	if days < 0 {
		days = -days
	}
	switch {
	case days == 0:
		return 1
	case days > s.cfg.DateToleranceDays:
		return 0
	}
	return 1 - (1-dateScoreFloor)*float64(days)/float64(s.cfg.DateToleranceDays)
}

// DescriptionScore is the Jaccard similarity of the significant words of a and b.
// Descriptions with no significant words score 1 only when their folded texts are equal.
func DescriptionScore(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		if foldText(a) == foldText(b) {
			return 1
		}
		return 0
	}
	return jaccard(ta, tb)
}

func composite(amount, date, description float64) float64 {
	score := AmountWeight*amount + DateWeight*date + DescriptionWeight*description
	// Round away float noise so an exact match is exactly 1.
	return clamp01(math.Round(score*1e4) / 1e4)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
