package models

import "github.com/shopspring/decimal"

type FeeOperation string

const (
	OperationDeposit        FeeOperation = "deposit"
	OperationWithdrawal     FeeOperation = "withdrawal"
	OperationTransfer       FeeOperation = "transfer"
	OperationCardTopup      FeeOperation = "card_topup"
	OperationCardWithdrawal FeeOperation = "card_withdrawal"
	OperationReferral       FeeOperation = "referral"
)

// FeeKey identifies one row of the country fee schedule. Method holds the
// crypto method for deposits and withdrawals, the card usage for card top-ups
// and is empty otherwise.
type FeeKey struct {
	CountryID int64
	Currency  Currency
	Operation FeeOperation
	Method    string
}

type FeeSchedule struct {
	FeeKey
	FixedFee   decimal.Decimal
	PercentFee decimal.Decimal
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
	CardPrice  decimal.Decimal
}
