package service

import (
	"context"
	"testing"
	"time"

	infraRepo "github.com/dukapos/dukapos-api/internal/infrastructure/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPublishCarriesStoreScope(t *testing.T) {
	t.Run("handler context keeps the publisher's store", func(t *testing.T) {
		bus := NewEventBus()
		storeID := uuid.New()

		got := make(chan context.Context, 1)
		bus.Subscribe("order.test", func(ctx context.Context, _ interface{}) {
			got <- ctx
		})

		bus.Publish(infraRepo.WithStore(context.Background(), storeID), "order.test", nil)

		select {
		case ctx := <-got:
			id, ok := infraRepo.GetStoreID(ctx)
			assert.True(t, ok)
			assert.Equal(t, storeID, id)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}
	})

	t.Run("handler context skips scoping when publisher has no store", func(t *testing.T) {
		bus := NewEventBus()

		got := make(chan context.Context, 1)
		bus.Subscribe("order.test", func(ctx context.Context, _ interface{}) {
			got <- ctx
		})

		bus.Publish(context.Background(), "order.test", nil)

		select {
		case ctx := <-got:
			_, ok := infraRepo.GetStoreID(ctx)
			assert.False(t, ok)
			skip, _ := ctx.Value(infraRepo.SkipStoreScopeKey).(bool)
			assert.True(t, skip)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}
	})

	t.Run("handler context outlives a cancelled request", func(t *testing.T) {
		bus := NewEventBus()

		got := make(chan error, 1)
		bus.Subscribe("order.test", func(ctx context.Context, _ interface{}) {
			got <- ctx.Err()
		})

		reqCtx, cancel := context.WithCancel(context.Background())
		cancel()
		bus.Publish(reqCtx, "order.test", nil)

		select {
		case err := <-got:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}
	})
}
