package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func service(id string) models.Service {
	return models.Service{ID: id, BusinessID: "salon-1", Name: id, Duration: 30, Price: "10.00"}
}

func TestRollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	store := NewStore()
	catalog := store.Catalog()
	ctx := context.Background()

	started := make(chan struct{})
	outside := make(chan error, 1)
	go func() {
		<-started
		outside <- catalog.CreateService(ctx, service("outside"))
	}()

	err := store.Transactor().WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, catalog.CreateService(ctx, service("inside")))
		close(started)
		select {
		case err := <-outside:
			t.Errorf("write outside the transaction did not wait for it: %v", err)
			outside <- err
		case <-time.After(50 * time.Millisecond):
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.NoError(t, <-outside)

	list, err := catalog.ListServices(ctx, "salon-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "outside", list[0].ID)
}

func TestTransactionsDoNotNest(t *testing.T) {
	store := NewStore()
	tx := store.Transactor()

	err := tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithTransaction(ctx, func(context.Context) error { return nil })
	})
	assert.Error(t, err)
}
