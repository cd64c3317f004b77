package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID                       int64               `json:"id"`
	UserID                   int64               `json:"user_id"`
	SenderID                 int64               `json:"sender_id,omitempty"`
	ReceiverID               int64               `json:"receiver_id,omitempty"`
	CardID                   int64               `json:"card_id,omitempty"`
	Currency                 Currency            `json:"currency"`
	AffectedAmount           decimal.Decimal     `json:"affected_amount"`
	AppliedFee               decimal.Decimal     `json:"applied_fee"`
	FixedFee                 decimal.Decimal     `json:"fixed_fee"`
	PercentageFee            decimal.Decimal     `json:"percentage_fee"`
	CardPrice                decimal.Decimal     `json:"card_price"`
	Type                     TransactionType     `json:"type"`
	Status                   TransactionStatus   `json:"status"`
	CryptoType               CryptoCurrency      `json:"crypto_type,omitempty"`
	ExchangeRate             decimal.NullDecimal `json:"exchange_rate"`
	CryptoAmount             decimal.NullDecimal `json:"crypto_amount"`
	ExternalPaymentReference string              `json:"external_payment_reference,omitempty"`
	Description              string              `json:"description"`
	Reason                   string              `json:"reason,omitempty"`
	CreatedAt                time.Time           `json:"created_at"`
}

type TransactionType string

const (
	TypeDeposit          TransactionType = "DEPOSIT"
	TypeWithdrawal       TransactionType = "WITHDRAWAL"
	TypeTransferSent     TransactionType = "TRANSFER_SENT"
	TypeTransferReceived TransactionType = "TRANSFER_RECEIVED"
	TypeCardCreation     TransactionType = "CARD_CREATION"
	TypeCardTopup        TransactionType = "CARD_TOPUP"
	TypeCardWithdrawal   TransactionType = "CARD_WITHDRAWAL"
	TypeReferralFee      TransactionType = "REFERRAL_FEE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransferSent, TypeTransferReceived,
		TypeCardCreation, TypeCardTopup, TypeCardWithdrawal, TypeReferralFee:
		return true
	}
	return false
}

// Credit reports whether rows of this type add to the owner's balance.
func (t TransactionType) Credit() bool {
	switch t {
	case TypeDeposit, TypeTransferReceived, TypeCardWithdrawal, TypeReferralFee:
		return true
	case TypeWithdrawal, TypeTransferSent, TypeCardCreation, TypeCardTopup:
		return false
	}
	return false
}

type TransactionStatus string

const (
	StatusInProgress TransactionStatus = "IN_PROGRESS"
	StatusPerformed  TransactionStatus = "PERFORMED"
	StatusRejected   TransactionStatus = "REJECTED"
	StatusRefunded   TransactionStatus = "REFUNDED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusPerformed, StatusRejected, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no webhook may move the row any further.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusRefunded:
		return true
	case StatusInProgress, StatusPerformed:
		return false
	}
	return true
}

// CanTransitionTo encodes IN_PROGRESS -> {PERFORMED, REJECTED} and PERFORMED -> REFUNDED.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusInProgress:
		return next == StatusPerformed || next == StatusRejected
	case StatusPerformed:
		return next == StatusRefunded
	}
	return false
}

type TransactionFilter struct {
	UserID      int64
	Currency    Currency
	FromAmount  decimal.NullDecimal
	ToAmount    decimal.NullDecimal
	FromDate    *time.Time
	ToDate      *time.Time
	Types       []TransactionType
	CryptoTypes []CryptoCurrency
	Limit       int
}
