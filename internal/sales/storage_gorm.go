package sales

import (
	"context"
	"errors"
	"fmt"

	"api_sales/internal/database"

	"gorm.io/gorm"
)

const bulkInsertBatchSize = 500

// GormStorage stores sales in a SQL database through gorm.
type GormStorage struct {
	client *database.Client
}

// NewGormStorage binds the storage to an open database client.
func NewGormStorage(client *database.Client) *GormStorage {
	return &GormStorage{client: client}
}

// Migrate creates the sales table.
func (g *GormStorage) Migrate(ctx context.Context) error {
	return g.client.AutoMigrate(ctx, &SaleRecord{})
}

func (g *GormStorage) Ping(ctx context.Context) error {
	return g.client.Ping(ctx)
}

func (g *GormStorage) Create(ctx context.Context, sale *SaleRecord) error {
	if err := g.client.DB(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("creating sale: %w", err)
	}
	return nil
}

func (g *GormStorage) Get(ctx context.Context, id uint) (*SaleRecord, error) {
	return findSale(g.client.DB(ctx), id)
}

// List follows LocalStorage.List: offset below zero is zero, limit <= 0 is unbounded.
func (g *GormStorage) List(ctx context.Context, offset, limit int) ([]SaleRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	var sales []SaleRecord
	if err := g.client.DB(ctx).Order("id").Offset(max(offset, 0)).Limit(limit).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	return sales, nil
}

func (g *GormStorage) ListAll(ctx context.Context) ([]SaleRecord, error) {
	var sales []SaleRecord
	if err := g.client.DB(ctx).Order("id").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("listing all sales: %w", err)
	}
	return sales, nil
}

func (g *GormStorage) Update(ctx context.Context, id uint, patch Patch) (*SaleRecord, error) {
	var updated *SaleRecord
	err := g.client.WithTx(ctx, func(tx *gorm.DB) error {
		sale, err := findSale(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(sale)
		if err := tx.Save(sale).Error; err != nil {
			return fmt.Errorf("updating sale %d: %w", id, err)
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (g *GormStorage) Delete(ctx context.Context, id uint) error {
	res := g.client.DB(ctx).Delete(&SaleRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting sale %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStorage) BulkCreate(ctx context.Context, sales []SaleRecord) (int, error) {
	if len(sales) == 0 {
		return 0, nil
	}
	err := g.client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.CreateInBatches(sales, bulkInsertBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("bulk insert sales: %w", err)
	}
	return len(sales), nil
}

func findSale(db *gorm.DB, id uint) (*SaleRecord, error) {
	var sale SaleRecord
	if err := db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding sale %d: %w", id, err)
	}
	return &sale, nil
}
