package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account is the ledger account a bank statement is reconciled against.
// Only ASSET (bank, cash) and LIABILITY (credit card, loan) accounts can be reconciled.
type Account struct {
	AccountID    string      `json:"accountID"`
	WorkplaceID  string      `json:"workplaceID"`
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}

// IsReconcilable reports whether statements can be reconciled against the account.
func (a Account) IsReconcilable() bool {
	return a.IsActive && (a.AccountType == Asset || a.AccountType == Liability)
}
