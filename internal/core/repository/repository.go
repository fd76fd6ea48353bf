package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
)

var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	CreateForUser(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency string) (*models.Wallet, error)

	// Credit atomically increments the balance and appends the deposit record,
	// creating the wallet seeded at zero when absent.
	Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.Wallet, *models.Transaction, error)

	// Debit atomically decrements the balance and appends the withdrawal
	// record. Returns ErrWalletNotFound or ErrInsufficientFunds.
	Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.Wallet, *models.Transaction, error)

	// Transfer debits the sender, credits the receiver (lazily creating the
	// receiver wallet at zero) and appends the transfer record, all inside one
	// serializable store transaction.
	Transfer(ctx context.Context, senderUserID, receiverUserID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.TransferResult, error)

	// ListByUser returns transactions where the user is sender or receiver,
	// newest first, plus the total count.
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByPhone matches a stored phone against any of the candidate strings,
	// or against the last-10-digits suffix when non-empty. Ambiguous matches
	// resolve by stable phone ordering.
	FindByPhone(ctx context.Context, candidates []string, last10 string) (*models.User, error)
}
