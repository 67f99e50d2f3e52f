package lock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/event-attendance-api/internal/db/dbtest"
	"github.com/vietanh2810/event-attendance-api/internal/lock"
)

func TestPostgresLocker(t *testing.T) {
	conn := dbtest.StartPostgres(t)
	l := lock.NewPostgresLocker(conn)

	t.Run("serializes same key", func(t *testing.T) {
		exerciseSameKey(t, l, "attendance:1:2")
	})

	t.Run("releases on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := l.WithLock(context.Background(), "attendance:7:8", func(context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)

		// A released lock can be taken again straight away.
		err = l.WithLock(context.Background(), "attendance:7:8", func(context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})
}
