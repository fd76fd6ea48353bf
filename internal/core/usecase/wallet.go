package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/phone"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/repository"
	"github.com/swarajjadhav12/piggybankai-online/pkg/config"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type WalletUsecase interface {
	GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Deposit(ctx context.Context, userID uuid.UUID, op models.MoneyOperation) (*models.Wallet, error)
	Withdraw(ctx context.Context, userID uuid.UUID, op models.MoneyOperation) (*models.Wallet, error)
	Transfer(ctx context.Context, senderUserID uuid.UUID, op models.TransferOperation) (*models.TransferResult, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*models.TransactionPage, error)
}

// WalletCache mirrors cache.WalletCache; nil disables caching.
type WalletCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	Set(ctx context.Context, wallet *models.Wallet) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// TransactionPublisher mirrors events.TransactionPublisher; nil disables the
// event stream.
type TransactionPublisher interface {
	Publish(ctx context.Context, t *models.Transaction) error
}

type walletUsecase struct {
	wallets   repository.WalletRepository
	users     repository.UserRepository
	cache     WalletCache
	publisher TransactionPublisher
	cfg       config.WalletConfig
	log       logger.Logger
}

func NewWalletUsecase(
	wallets repository.WalletRepository,
	users repository.UserRepository,
	cache WalletCache,
	publisher TransactionPublisher,
	cfg config.WalletConfig,
	log logger.Logger,
) WalletUsecase {
	return &walletUsecase{
		wallets:   wallets,
		users:     users,
		cache:     cache,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// GetWallet returns the user's wallet, creating it with the configured start
// balance on first access.
func (uc *walletUsecase) GetWallet(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	if uc.cache != nil {
		if wallet, err := uc.cache.Get(ctx, userID); err == nil {
			return wallet, nil
		}
	}

	wallet, err := uc.wallets.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrWalletNotFound) {
		wallet, err = uc.wallets.CreateForUser(ctx, userID, uc.cfg.StartBalance, uc.cfg.DefaultCurrency)
		if err == nil {
			uc.log.Info("Wallet created",
				logger.StringField("user_id", userID.String()),
				logger.StringField("balance", wallet.Balance.StringFixedBank(2)))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	uc.cacheSet(ctx, wallet)
	return wallet, nil
}

func (uc *walletUsecase) Deposit(ctx context.Context, userID uuid.UUID, op models.MoneyOperation) (*models.Wallet, error) {
	if op.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, record, err := uc.wallets.Credit(ctx, userID, op.Amount, uc.currency(op.Currency), op.Description)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	uc.finishOperation(ctx, wallet, record)
	return wallet, nil
}

func (uc *walletUsecase) Withdraw(ctx context.Context, userID uuid.UUID, op models.MoneyOperation) (*models.Wallet, error) {
	if op.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	current, err := uc.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	if current.Balance.LessThan(op.Amount) {
		uc.log.Warn("Insufficient funds",
			logger.StringField("user_id", userID.String()),
			logger.StringField("balance", current.Balance.String()),
			logger.StringField("requested", op.Amount.String()))
		return nil, ErrInsufficientFunds
	}

	wallet, record, err := uc.wallets.Debit(ctx, userID, op.Amount, uc.currency(op.Currency), op.Description)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	uc.finishOperation(ctx, wallet, record)
	return wallet, nil
}

func (uc *walletUsecase) Transfer(ctx context.Context, senderUserID uuid.UUID, op models.TransferOperation) (*models.TransferResult, error) {
	if op.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(op.ReceiverPhone) == "" {
		return nil, ErrMissingRecipient
	}

	receiver, err := uc.resolveRecipient(ctx, op.ReceiverPhone)
	if err != nil {
		return nil, err
	}

	sender, err := uc.users.GetByID(ctx, senderUserID)
	if err != nil {
		return nil, fmt.Errorf("transfer: load sender: %w", err)
	}
	if receiver.ID == sender.ID || phone.SameNumber(sender.Phone, receiver.Phone) {
		return nil, ErrSelfTransfer
	}

	senderWallet, err := uc.wallets.GetByUserID(ctx, senderUserID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("transfer: load sender wallet: %w", err)
	}
	if senderWallet.Balance.LessThan(op.Amount) {
		uc.log.Warn("Insufficient funds for transfer",
			logger.StringField("user_id", senderUserID.String()),
			logger.StringField("balance", senderWallet.Balance.String()),
			logger.StringField("requested", op.Amount.String()))
		return nil, ErrInsufficientFunds
	}

	result, err := uc.wallets.Transfer(ctx, senderUserID, receiver.ID, op.Amount, uc.currency(op.Currency), op.Description)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientFunds
		}
		return nil, fmt.Errorf("transfer: %w", err)
	}

	uc.log.Info("Transfer completed",
		logger.StringField("sender_user_id", senderUserID.String()),
		logger.StringField("receiver_user_id", receiver.ID.String()),
		logger.StringField("amount", op.Amount.String()))

	uc.finishOperation(ctx, result.SenderWallet, result.Transaction)
	uc.cacheDelete(ctx, result.ReceiverWallet.UserID)
	return result, nil
}

func (uc *walletUsecase) ListTransactions(ctx context.Context, userID uuid.UUID, page, limit int) (*models.TransactionPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := uc.wallets.ListByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return &models.TransactionPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// resolveRecipient tries the candidate forms of the entered phone number
// against stored numbers. Formatting leniency, not identity resolution.
func (uc *walletUsecase) resolveRecipient(ctx context.Context, receiverPhone string) (*models.User, error) {
	candidates, last10 := phone.Candidates(receiverPhone)
	receiver, err := uc.users.FindByPhone(ctx, candidates, last10)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("transfer: resolve recipient: %w", err)
	}
	return receiver, nil
}

func (uc *walletUsecase) currency(requested string) string {
	if requested == "" {
		return uc.cfg.DefaultCurrency
	}
	return strings.ToUpper(requested)
}

// finishOperation invalidates the cached wallet and streams the ledger record.
// Both are best effort; the ledger write has already committed.
func (uc *walletUsecase) finishOperation(ctx context.Context, wallet *models.Wallet, record *models.Transaction) {
	uc.cacheDelete(ctx, wallet.UserID)

	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, record); err != nil {
		uc.log.Error("Failed to publish transaction event",
			logger.StringField("transaction_id", record.ID.String()),
			logger.ErrorField("error", err))
	}
}

func (uc *walletUsecase) cacheSet(ctx context.Context, wallet *models.Wallet) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, wallet); err != nil {
		uc.log.Warn("Failed to cache wallet",
			logger.StringField("user_id", wallet.UserID.String()),
			logger.ErrorField("error", err))
	}
}

func (uc *walletUsecase) cacheDelete(ctx context.Context, userID uuid.UUID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, userID); err != nil {
		uc.log.Warn("Failed to invalidate cached wallet",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err))
	}
}
