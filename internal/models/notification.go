package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type NotificationType string

const (
	NotificationDeposit          NotificationType = "DEPOSIT"
	NotificationWithdrawal       NotificationType = "WITHDRAWAL"
	NotificationTransferSent     NotificationType = "TRANSFER_SENT"
	NotificationTransferReceived NotificationType = "TRANSFER_RECEIVED"
	NotificationCardTopup        NotificationType = "CARD_TOPUP"
	NotificationCardWithdrawal   NotificationType = "CARD_WITHDRAWAL"
	NotificationReferralFee      NotificationType = "REFERRAL_FEE"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationDeposit, NotificationWithdrawal, NotificationTransferSent, NotificationTransferReceived,
		NotificationCardTopup, NotificationCardWithdrawal, NotificationReferralFee:
		return true
	}
	return false
}

type Notification struct {
	ID        int64            `json:"id,omitempty"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Amount    decimal.Decimal  `json:"amount"`
	Currency  Currency         `json:"currency"`
	CreatedAt time.Time        `json:"created_at"`
}

// Email is handed to the mail worker over Kafka; rendering and delivery happen there.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	TopImage string `json:"top_image,omitempty"`
}
