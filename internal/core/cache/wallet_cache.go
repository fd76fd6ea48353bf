package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
)

const expiration = 5 * time.Minute

var ErrCacheMiss = errors.New("wallet not found in cache")

// WalletCache keeps recently read wallets in redis. Entries are deleted on
// every balance mutation; a miss simply falls through to the store.
type WalletCache struct {
	client *redis.Client
	prefix string
}

func NewWalletCache(client *redis.Client) *WalletCache {
	return &WalletCache{
		client: client,
		prefix: "wallet:",
	}
}

func (c *WalletCache) Get(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get wallet from redis: %w", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal(data, &wallet); err != nil {
		return nil, fmt.Errorf("failed to decode cached wallet: %w", err)
	}

	return &wallet, nil
}

func (c *WalletCache) Set(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to encode wallet for redis: %w", err)
	}

	if err := c.client.Set(ctx, c.key(wallet.UserID), data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set wallet in redis: %w", err)
	}

	return nil
}

func (c *WalletCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete wallet from redis: %w", err)
	}

	return nil
}

func (c *WalletCache) key(userID uuid.UUID) string {
	return c.prefix + userID.String()
}
