package sales

import (
	"context"
	"strings"
	"testing"

	"api_sales/internal/config"
	"api_sales/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestGormStorage(t *testing.T) *GormStorage {
	t.Helper()
	client, err := database.New(context.Background(), config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	storage := NewGormStorage(client)
	require.NoError(t, storage.Migrate(context.Background()))
	return storage
}

func storageImplementations(t *testing.T) map[string]func(t *testing.T) Storage {
	return map[string]func(t *testing.T) Storage{
		"local": func(t *testing.T) Storage { return NewLocalStorage() },
		"gorm":  func(t *testing.T) Storage { return newTestGormStorage(t) },
	}
}

func TestStorage_CRUD(t *testing.T) {
	for name, newStorage := range storageImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := newStorage(t)

			sale := newRecord(t, "Mouse", "Electronics", "50.5", 2, "2024-01-10", "Maria", "South")
			require.NoError(t, storage.Create(ctx, &sale))
			require.NotZero(t, sale.ID)

			got, err := storage.Get(ctx, sale.ID)
			require.NoError(t, err)
			assert.Equal(t, "Mouse", got.Product)
			assert.True(t, got.UnitPrice.Equal(sale.UnitPrice))
			assert.Equal(t, "2024-01-10", got.SaleDate.Format(DateLayout))

			qty := 5
			updated, err := storage.Update(ctx, sale.ID, Patch{Quantity: &qty})
			require.NoError(t, err)
			assert.Equal(t, 5, updated.Quantity)
			assert.Equal(t, "Maria", updated.Seller)

			got, err = storage.Get(ctx, sale.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, got.Quantity)

			require.NoError(t, storage.Delete(ctx, sale.ID))
			_, err = storage.Get(ctx, sale.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStorage_UnknownIDIsNotFound(t *testing.T) {
	for name, newStorage := range storageImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := newStorage(t)
			qty := 1

			_, err := storage.Get(ctx, 42)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = storage.Update(ctx, 42, Patch{Quantity: &qty})
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, storage.Delete(ctx, 42), ErrNotFound)
		})
	}
}

func TestStorage_BulkCreateAndList(t *testing.T) {
	for name, newStorage := range storageImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			storage := newStorage(t)

			batch := []SaleRecord{
				newRecord(t, "A", "C", "1", 1, "2024-01-01", "S", "R"),
				newRecord(t, "B", "C", "2", 1, "2024-01-02", "S", "R"),
				newRecord(t, "C", "C", "3", 1, "2024-01-03", "S", "R"),
			}
			n, err := storage.BulkCreate(ctx, batch)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			n, err = storage.BulkCreate(ctx, nil)
			require.NoError(t, err)
			assert.Zero(t, n)

			all, err := storage.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Product, all[1].Product, all[2].Product})
			assert.Less(t, all[0].ID, all[1].ID)

			page, err := storage.List(ctx, 1, 1)
			require.NoError(t, err)
			require.Len(t, page, 1)
			assert.Equal(t, "B", page[0].Product)

			page, err = storage.List(ctx, 10, 5)
			require.NoError(t, err)
			assert.Empty(t, page)

			page, err = storage.List(ctx, 1, -1)
			require.NoError(t, err, "a non-positive limit means no limit")
			assert.Len(t, page, 2)

			page, err = storage.List(ctx, 0, 0)
			require.NoError(t, err)
			assert.Len(t, page, 3)

			page, err = storage.List(ctx, -5, 2)
			require.NoError(t, err, "a negative offset counts as zero")
			require.Len(t, page, 2)
			assert.Equal(t, "A", page[0].Product)
		})
	}
}

func TestGormStorage_BulkCreateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	storage := newTestGormStorage(t)

	existing := newRecord(t, "A", "C", "1", 1, "2024-01-01", "S", "R")
	require.NoError(t, storage.Create(ctx, &existing))

	clash := newRecord(t, "B", "C", "2", 1, "2024-01-02", "S", "R")
	clash.ID = existing.ID
	batch := []SaleRecord{
		newRecord(t, "C", "C", "3", 1, "2024-01-03", "S", "R"),
		clash,
	}
	_, err := storage.BulkCreate(ctx, batch)
	require.Error(t, err)

	all, err := storage.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "a failed bulk insert leaves no partial rows")
}

func TestGormStorage_Ping(t *testing.T) {
	storage := newTestGormStorage(t)
	var pinger Pinger = storage
	assert.NoError(t, pinger.Ping(context.Background()))
}
