package sales

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRecords_AreValidAndRecent(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 4, 0, 0, time.UTC)
	records := SeedRecords(rand.New(rand.NewPCG(1, 2)), DefaultSeedCount, now)
	require.Len(t, records, DefaultSeedCount)

	oldest := civilDate(now).AddDate(0, 0, -seedWindowDays)
	minPrice := decimal.RequireFromString("10.00")
	maxPrice := decimal.RequireFromString("5000.00")
	for i := range records {
		r := records[i]
		require.NoError(t, validateRecord(&r), "record %d", i)
		assert.False(t, r.SaleDate.Before(oldest), "record %d is too old", i)
		assert.False(t, r.SaleDate.After(civilDate(now)), "record %d is in the future", i)
		assert.True(t, r.UnitPrice.GreaterThanOrEqual(minPrice) && r.UnitPrice.LessThanOrEqual(maxPrice), r.UnitPrice.String())
		assert.LessOrEqual(t, r.Quantity, 20)
	}
}

func TestSeedRecords_AreReproducibleWithTheSameSeed(t *testing.T) {
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	a := SeedRecords(rand.New(rand.NewPCG(7, 7)), 20, now)
	b := SeedRecords(rand.New(rand.NewPCG(7, 7)), 20, now)
	assert.Equal(t, a, b)
	assert.Empty(t, SeedRecords(rand.New(rand.NewPCG(7, 7)), 0, now))
}

func TestSeedRecords_BulkInsertIntoGorm(t *testing.T) {
	storage := newTestGormStorage(t)
	records := SeedRecords(rand.New(rand.NewPCG(3, 4)), 50, time.Now())

	n, err := storage.BulkCreate(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	all, err := storage.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
