package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) Close() error { return nil }

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("first delivery is handled", func(t *testing.T) {
		store := new(mockStore)
		inner := &recordingHandler{types: []string{"PaymentCompleted"}}
		evt := newTestEvent("PaymentCompleted")
		key := "event:ledger:" + evt.EventID().String()
		store.On("MarkProcessed", ctx, key, DefaultIdempotencyTTL).Return(true, nil)

		h := NewIdempotentHandler("ledger", inner, store, zap.NewNop())
		require.NoError(t, h.Handle(ctx, evt))

		assert.Equal(t, 1, inner.count())
		assert.Equal(t, []string{"PaymentCompleted"}, h.EventTypes())
		store.AssertExpectations(t)
	})

	t.Run("duplicate delivery is skipped", func(t *testing.T) {
		store := new(mockStore)
		inner := &recordingHandler{}
		store.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(false, nil)

		h := NewIdempotentHandler("ledger", inner, store, zap.NewNop())
		require.NoError(t, h.Handle(ctx, newTestEvent("PaymentCompleted")))

		assert.Zero(t, inner.count())
	})

	t.Run("failure releases the key", func(t *testing.T) {
		store := new(mockStore)
		inner := &recordingHandler{err: errors.New("insert failed")}
		evt := newTestEvent("PaymentCompleted")
		key := "event:ledger:" + evt.EventID().String()
		store.On("MarkProcessed", ctx, key, mock.Anything).Return(true, nil)
		store.On("Release", ctx, key).Return(nil)

		h := NewIdempotentHandler("ledger", inner, store, zap.NewNop())
		assert.EqualError(t, h.Handle(ctx, evt), "insert failed")
		store.AssertExpectations(t)
	})

	t.Run("store error still processes", func(t *testing.T) {
		store := new(mockStore)
		inner := &recordingHandler{}
		store.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

		h := NewIdempotentHandler("ledger", inner, store, zap.NewNop())
		require.NoError(t, h.Handle(ctx, newTestEvent("PaymentCompleted")))
		assert.Equal(t, 1, inner.count())
	})
}
