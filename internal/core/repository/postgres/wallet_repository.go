package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/repository"
)

const walletColumns = "id, user_id, balance, currency, created_at, updated_at"

type postgresWalletRepo struct {
	db  *sqlx.DB
	log logger.Logger
}

func NewPostgresWalletRepo(db *sqlx.DB, log logger.Logger) repository.WalletRepository {
	return &postgresWalletRepo{
		db:  db,
		log: log,
	}
}

func (r *postgresWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	err := r.db.GetContext(ctx, &wallet, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrWalletNotFound
		}
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}

	return &wallet, nil
}

func (r *postgresWalletRepo) CreateForUser(ctx context.Context, userID uuid.UUID, balance decimal.Decimal, currency string) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `
		INSERT INTO wallets (id, user_id, balance, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + walletColumns
	err := r.db.GetContext(ctx, &wallet, query, uuid.New(), userID, balance, currency)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	return &wallet, nil
}

func (r *postgresWalletRepo) Credit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.Wallet, *models.Transaction, error) {
	var (
		wallet *models.Wallet
		record *models.Transaction
	)
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.ensureWallet(ctx, tx, userID, currency); err != nil {
			return err
		}

		w, err := r.adjustBalance(ctx, tx, userID, amount)
		if err != nil {
			return err
		}

		t := &models.Transaction{
			ID:               uuid.New(),
			Amount:           amount,
			Currency:         currency,
			Kind:             models.TransactionDeposit,
			Status:           models.TransactionStatusCompleted,
			ReceiverWalletID: &w.ID,
			ReceiverUserID:   &w.UserID,
			Description:      description,
		}
		if err := r.insertTransaction(ctx, tx, t); err != nil {
			return err
		}

		wallet, record = w, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, record, nil
}

func (r *postgresWalletRepo) Debit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.Wallet, *models.Transaction, error) {
	var (
		wallet *models.Wallet
		record *models.Transaction
	)
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		w, err := r.adjustBalance(ctx, tx, userID, amount.Neg())
		if err != nil {
			return err
		}

		t := &models.Transaction{
			ID:             uuid.New(),
			Amount:         amount,
			Currency:       currency,
			Kind:           models.TransactionWithdrawal,
			Status:         models.TransactionStatusCompleted,
			SenderWalletID: &w.ID,
			SenderUserID:   &w.UserID,
			Description:    description,
		}
		if err := r.insertTransaction(ctx, tx, t); err != nil {
			return err
		}

		wallet, record = w, t
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return wallet, record, nil
}

func (r *postgresWalletRepo) Transfer(ctx context.Context, senderUserID, receiverUserID uuid.UUID, amount decimal.Decimal, currency, description string) (*models.TransferResult, error) {
	var result *models.TransferResult
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		sender, err := r.adjustBalance(ctx, tx, senderUserID, amount.Neg())
		if err != nil {
			return err
		}

		if err := r.ensureWallet(ctx, tx, receiverUserID, currency); err != nil {
			return err
		}
		receiver, err := r.adjustBalance(ctx, tx, receiverUserID, amount)
		if err != nil {
			return err
		}

		record := &models.Transaction{
			ID:               uuid.New(),
			Amount:           amount,
			Currency:         currency,
			Kind:             models.TransactionTransfer,
			Status:           models.TransactionStatusCompleted,
			SenderWalletID:   &sender.ID,
			SenderUserID:     &sender.UserID,
			ReceiverWalletID: &receiver.ID,
			ReceiverUserID:   &receiver.UserID,
			Description:      description,
		}
		if err := r.insertTransaction(ctx, tx, record); err != nil {
			return err
		}

		result = &models.TransferResult{
			SenderWallet:   sender,
			ReceiverWallet: receiver,
			Transaction:    record,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresWalletRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE sender_user_id = $1 OR receiver_user_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	items := []models.Transaction{}
	query := `
		SELECT id, amount, currency, kind, status,
		       sender_wallet_id, sender_user_id, receiver_wallet_id, receiver_user_id,
		       description, created_at
		FROM transactions
		WHERE sender_user_id = $1 OR receiver_user_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`
	if err := r.db.SelectContext(ctx, &items, query, userID, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}

	return items, total, nil
}

// withTx runs fn inside a serializable transaction so that concurrent
// operations touching the same wallets serialize and a crash mid-operation
// cannot leave a debit without its matching credit.
func (r *postgresWalletRepo) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	var isCommitted bool
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		r.log.Error("Error beginning transaction",
			logger.ErrorField("error", err))
		return fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if err != nil && !isCommitted {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("Transaction rollback failed",
					logger.ErrorField("error", rbErr))
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			} else {
				r.log.Warn("Transaction rolled back due to error",
					logger.ErrorField("error", err))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		r.log.Error("Error committing transaction",
			logger.ErrorField("error", err))
		return fmt.Errorf("commit failed: %w", err)
	}

	isCommitted = true
	return nil
}

// ensureWallet lazily creates the wallet seeded at zero.
func (r *postgresWalletRepo) ensureWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency string) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, currency)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, query, uuid.New(), userID, currency); err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

// adjustBalance applies a signed delta and returns the updated row. A negative
// post-balance aborts the surrounding transaction with ErrInsufficientFunds.
func (r *postgresWalletRepo) adjustBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, delta decimal.Decimal) (*models.Wallet, error) {
	var wallet models.Wallet
	query := `
		UPDATE wallets
		SET balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING ` + walletColumns
	err := tx.GetContext(ctx, &wallet, query, delta, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrWalletNotFound
		}
		return nil, fmt.Errorf("update balance: %w", err)
	}

	if wallet.Balance.Sign() < 0 {
		return nil, repository.ErrInsufficientFunds
	}

	return &wallet, nil
}

func (r *postgresWalletRepo) insertTransaction(ctx context.Context, tx *sqlx.Tx, t *models.Transaction) error {
	const query = `
		INSERT INTO transactions
			(id, amount, currency, kind, status,
			 sender_wallet_id, sender_user_id, receiver_wallet_id, receiver_user_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`
	err := tx.GetContext(ctx, &t.CreatedAt, query,
		t.ID,
		t.Amount,
		t.Currency,
		t.Kind,
		t.Status,
		t.SenderWalletID,
		t.SenderUserID,
		t.ReceiverWalletID,
		t.ReceiverUserID,
		t.Description,
	)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}
