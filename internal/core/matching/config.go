// Package matching scores bank entries against ledger transactions and decides
// which pairings can be accepted automatically.
package matching

import (
	"fmt"

	"github.com/SscSPs/bank_reconciliation/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Weights of the composite score. They sum to 1.
const (
	AmountWeight      = 0.5
	DateWeight        = 0.3
	DescriptionWeight = 0.2
)

// Config is the matching policy.
type Config struct {
	// AmountTolerance is the absolute difference at which the amount score reaches 0.
	AmountTolerance decimal.Decimal
	// DateToleranceDays is the window over which the date score decays.
	DateToleranceDays int
	// ConsiderationMultiplier widens AmountTolerance into the candidate ceiling.
	ConsiderationMultiplier int64
	// AutoMatchThreshold is the minimum composite score for an automatic match.
	AutoMatchThreshold float64
	// AmbiguityMargin blocks auto-matching when the runner-up is this close to the top score.
	AmbiguityMargin float64
	// MaxCandidates caps the ranked suggestions kept per entry.
	MaxCandidates int
	// CandidateWindowDays pads the statement period when loading ledger candidates.
	CandidateWindowDays int
}

// DefaultConfig returns the stock policy.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:         decimal.NewFromFloat(0.01),
		DateToleranceDays:       2,
		ConsiderationMultiplier: 5,
		AutoMatchThreshold:      0.8,
		AmbiguityMargin:         0.05,
		MaxCandidates:           5,
		CandidateWindowDays:     7,
	}
}

// ConsiderationCeiling is the largest amount difference a candidate may have.
func (c Config) ConsiderationCeiling() decimal.Decimal {
	return c.AmountTolerance.Mul(decimal.NewFromInt(c.ConsiderationMultiplier))
}

// Validate checks the policy is usable.
func (c Config) Validate() error {
	switch {
	case !c.AmountTolerance.IsPositive():
		return fmt.Errorf("%w: amount tolerance must be positive", apperrors.ErrValidation)
	case c.DateToleranceDays < 0:
		return fmt.Errorf("%w: date tolerance must not be negative", apperrors.ErrValidation)
	case c.ConsiderationMultiplier < 1:
		return fmt.Errorf("%w: consideration multiplier must be at least 1", apperrors.ErrValidation)
	case c.AutoMatchThreshold <= 0 || c.AutoMatchThreshold > 1:
		return fmt.Errorf("%w: auto-match threshold must be in (0, 1]", apperrors.ErrValidation)
	case c.AmbiguityMargin < 0 || c.AmbiguityMargin >= 1:
		return fmt.Errorf("%w: ambiguity margin must be in [0, 1)", apperrors.ErrValidation)
	case c.MaxCandidates < 1:
		return fmt.Errorf("%w: max candidates must be at least 1", apperrors.ErrValidation)
	case c.CandidateWindowDays < 0:
		return fmt.Errorf("%w: candidate window must not be negative", apperrors.ErrValidation)
	}
	return nil
}
