package lock

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresLocker uses session advisory locks. The lock lives on one pooled
// connection for the duration of fn; fn itself may use any connection.
type PostgresLocker struct {
	db *gorm.DB
}

func NewPostgresLocker(db *gorm.DB) *PostgresLocker {
	return &PostgresLocker{db: db}
}

func (l *PostgresLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return l.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(hashtext(?))", key).Error; err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, err)
		}
		defer func() {
			err := conn.WithContext(context.Background()).Exec("SELECT pg_advisory_unlock(hashtext(?))", key).Error
			if err != nil {
				zap.L().Error("failed to release advisory lock", zap.String("key", key), zap.Error(err))
			}
		}()

		return fn(ctx)
	})
}
