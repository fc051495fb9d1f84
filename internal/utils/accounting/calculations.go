package accounting

import (
	"fmt"

	"github.com/SscSPs/bank_reconciliation/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a transaction amount based on account type and transaction type.
// The result is the effect on the account's natural balance.
func CalculateSignedAmount(amount decimal.Decimal, txnType domain.TransactionType, accountType domain.AccountType) (decimal.Decimal, error) {
	signedAmount := amount
	isDebit := txnType == domain.Debit

	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signedAmount = signedAmount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			signedAmount = signedAmount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	return signedAmount, nil
}

// StatementSignedAmount expresses a ledger line the way the account's bank statement shows it:
// positive is money in, negative is money out. For a bank (asset) account this is the
// balance effect; for a card or loan (liability) account an increase of the balance is money out.
func StatementSignedAmount(amount decimal.Decimal, txnType domain.TransactionType, accountType domain.AccountType) (decimal.Decimal, error) {
	signed, err := CalculateSignedAmount(amount, txnType, accountType)
	if err != nil {
		return decimal.Zero, err
	}
	switch accountType {
	case domain.Asset:
		return signed, nil
	case domain.Liability:
		return signed.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("account type '%s' has no bank statement", accountType)
	}
}
