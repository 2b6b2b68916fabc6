package sales

import (
	"context"
	"sort"
	"sync"
)

// Storage is the main interface for our sales storage layer.
type Storage interface {
	// Create assigns the record an ID and stores it.
	Create(ctx context.Context, sale *SaleRecord) error
	Get(ctx context.Context, id uint) (*SaleRecord, error)
	List(ctx context.Context, offset, limit int) ([]SaleRecord, error)
	// ListAll returns every record ordered by ID.
	ListAll(ctx context.Context) ([]SaleRecord, error)
	Update(ctx context.Context, id uint, patch Patch) (*SaleRecord, error)
	Delete(ctx context.Context, id uint) error
	// BulkCreate stores all records or none of them.
	BulkCreate(ctx context.Context, sales []SaleRecord) (int, error)
}

// Pinger is implemented by storages backed by a remote datasource.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu     sync.RWMutex
	m      map[uint]SaleRecord
	nextID uint
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m:      map[uint]SaleRecord{},
		nextID: 1,
	}
}

func (l *LocalStorage) Create(_ context.Context, sale *SaleRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	sale.ID = l.nextID
	l.nextID++
	l.m[sale.ID] = *sale
	return nil
}

// Get retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Get(_ context.Context, id uint) (*SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

// List pages through the records by id. A negative offset counts as zero and
// a limit <= 0 returns everything after offset, like the gorm storage.
func (l *LocalStorage) List(ctx context.Context, offset, limit int) ([]SaleRecord, error) {
	all, _ := l.ListAll(ctx)
	offset = max(offset, 0)
	if offset >= len(all) {
		return []SaleRecord{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (l *LocalStorage) ListAll(_ context.Context) ([]SaleRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sales := make([]SaleRecord, 0, len(l.m))
	for _, s := range l.m {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })
	return sales, nil
}

func (l *LocalStorage) Update(_ context.Context, id uint, patch Patch) (*SaleRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&s)
	l.m[id] = s
	return &s, nil
}

func (l *LocalStorage) Delete(_ context.Context, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[id]; !ok {
		return ErrNotFound
	}
	delete(l.m, id)
	return nil
}

func (l *LocalStorage) BulkCreate(_ context.Context, sales []SaleRecord) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range sales {
		sales[i].ID = l.nextID
		l.nextID++
		l.m[sales[i].ID] = sales[i]
	}
	return len(sales), nil
}
