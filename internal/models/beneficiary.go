package models

import "time"

type BeneficiaryWallet struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Address   string         `json:"address"`
	Name      string         `json:"name"`
	Type      CryptoCurrency `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
}

type BeneficiaryUser struct {
	ID        int64     `json:"id"`
	PayerID   int64     `json:"payer_id"`
	PayeeID   int64     `json:"payee_id"`
	CreatedAt time.Time `json:"created_at"`
}
