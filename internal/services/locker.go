package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
)

// locker serialises debits of one user's wallet across instances.
type locker struct {
	redisClient redis.RedisClient
	ttl         time.Duration
}

func lockKey(userID int64, currency models.Currency) string {
	return fmt.Sprintf("lock:user:%d:%s", userID, currency)
}

// acquire takes the wallet lock or fails with ErrBalanceLocked. The returned
// release must be called once the debit row is persisted or abandoned.
func (l *locker) acquire(ctx context.Context, userID int64, currency models.Currency) (func(), error) {
	key := lockKey(userID, currency)
	ok, err := l.redisClient.SetNX(ctx, key, "locked", l.ttl)
	if err != nil {
		slog.Error("failed to acquire lock", "lock_key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrBalanceLocked, err)
	}
	if !ok {
		slog.Warn("balance is locked", "lock_key", key)
		return nil, pkgerrors.ErrBalanceLocked
	}

	return func() {
		// The request context may already be cancelled here.
		if err := l.redisClient.Del(context.WithoutCancel(ctx), key); err != nil {
			slog.Error("failed to release lock", "lock_key", key, "error", err)
		}
	}, nil
}
