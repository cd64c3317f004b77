package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardUsage string

const (
	CardUsageUnique   CardUsage = "UNIQUE"
	CardUsageMultiple CardUsage = "MULTIPLE"
)

func (u CardUsage) Valid() bool {
	return u == CardUsageUnique || u == CardUsageMultiple
}

type Card struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Currency       Currency   `json:"currency"`
	Usage          CardUsage  `json:"usage"`
	ExternalCardID string     `json:"external_card_id"`
	IsBlocked      bool       `json:"is_blocked"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// CardDetails is a card joined with what the issuer reports about it.
type CardDetails struct {
	Card
	Balance decimal.Decimal `json:"balance"`
}

type CardActivity struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}
