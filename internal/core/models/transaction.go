package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionDeposit    TransactionKind = "deposit"
	TransactionWithdrawal TransactionKind = "withdrawal"
	TransactionTransfer   TransactionKind = "transfer"
)

// Only completed transactions are recorded; there is no pending state.
const TransactionStatusCompleted = "completed"

// Transaction is an immutable ledger entry. A transfer has both sides
// populated; deposits and withdrawals have only one.
type Transaction struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Currency         string          `json:"currency" db:"currency"`
	Kind             TransactionKind `json:"kind" db:"kind"`
	Status           string          `json:"status" db:"status"`
	SenderWalletID   *uuid.UUID      `json:"sender_wallet_id,omitempty" db:"sender_wallet_id"`
	SenderUserID     *uuid.UUID      `json:"sender_user_id,omitempty" db:"sender_user_id"`
	ReceiverWalletID *uuid.UUID      `json:"receiver_wallet_id,omitempty" db:"receiver_wallet_id"`
	ReceiverUserID   *uuid.UUID      `json:"receiver_user_id,omitempty" db:"receiver_user_id"`
	Description      string          `json:"description" db:"description"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// TransactionPage is one page of a user's history, newest first.
type TransactionPage struct {
	Items []Transaction `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}
