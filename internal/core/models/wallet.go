package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the per-user balance record. It is created lazily on first access
// and mutated only through deposit, withdraw and transfer.
type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	Currency  string          `json:"currency" db:"currency"` // ISO 4217: "USD", "EUR"
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// MoneyOperation carries the validated parameters of a deposit or withdrawal.
type MoneyOperation struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// TransferOperation adds the recipient lookup key.
type TransferOperation struct {
	MoneyOperation
	ReceiverPhone string
}

// TransferResult is returned by a completed transfer: both updated wallets and
// the ledger record tying them together.
type TransferResult struct {
	SenderWallet   *Wallet      `json:"sender_wallet"`
	ReceiverWallet *Wallet      `json:"receiver_wallet"`
	Transaction    *Transaction `json:"transaction"`
}
