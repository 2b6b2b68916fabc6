package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultListLimit is the page size when a limit is not provided.
	DefaultListLimit = 10
	// MaxListLimit caps how many records one list call returns.
	MaxListLimit = 100
)

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	metrics *Metrics
}

// ImportResult describes one committed CSV import.
type ImportResult struct {
	ImportID string      `json:"import_id"`
	Imported int         `json:"imported"`
	Stats    IngestStats `json:"stats"`
}

// ExportResult holds one export. CSV is set for FormatCSV and Rows for FormatJSON.
type ExportResult struct {
	Format ExportFormat
	CSV    []byte
	Rows   []ExportRow
}

// NewService creates a new Service. logger and metrics may be nil.
func NewService(storage Storage, logger *zap.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

// Storage exposes the backend, mainly for health checks.
func (s *Service) Storage() Storage {
	return s.storage
}

// CreateSale validates and stores a single record.
func (s *Service) CreateSale(ctx context.Context, sale SaleRecord) (*SaleRecord, error) {
	sale.ID = 0
	if err := validateRecord(&sale); err != nil {
		return nil, err
	}
	if err := s.storage.Create(ctx, &sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("product", sale.Product), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}
	s.logger.Info("sale created", zap.Uint("sale_id", sale.ID))
	return &sale, nil
}

func (s *Service) GetSale(ctx context.Context, id uint) (*SaleRecord, error) {
	return s.storage.Get(ctx, id)
}

// ListSales returns one page of records ordered by ID.
func (s *Service) ListSales(ctx context.Context, offset, limit int) ([]SaleRecord, error) {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.storage.List(ctx, offset, limit)
}

// UpdateSale applies a validated partial update.
func (s *Service) UpdateSale(ctx context.Context, id uint, patch Patch) (*SaleRecord, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	sale, err := s.storage.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sale updated", zap.Uint("sale_id", id))
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, id uint) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("sale deleted", zap.Uint("sale_id", id))
	return nil
}

// ImportCSV cleans an upload and stores the surviving rows in one bulk insert.
func (s *Service) ImportCSV(ctx context.Context, raw []byte) (*ImportResult, error) {
	importID := uuid.NewString()
	logger := s.logger.With(zap.String("import_id", importID))

	records, stats, err := Ingest(raw)
	if err != nil {
		s.metrics.IncImport("rejected")
		logger.Warn("csv import rejected", zap.Int("bytes", len(raw)), zap.Error(err))
		return nil, err
	}
	s.metrics.ObserveImport(stats)

	imported, err := s.storage.BulkCreate(ctx, records)
	if err != nil {
		s.metrics.IncImport("failed")
		logger.Error("csv import failed", zap.Int("rows", len(records)), zap.Error(err))
		return nil, fmt.Errorf("storing import: %w", err)
	}
	s.metrics.IncImport("committed")

	logger.Info("csv import committed",
		zap.Int("rows_read", stats.Read),
		zap.Int("rows_imported", imported),
		zap.Int("rows_dropped", stats.Dropped()),
	)
	return &ImportResult{ImportID: importID, Imported: imported, Stats: stats}, nil
}

// MonthlyReport validates period before touching storage.
func (s *Service) MonthlyReport(ctx context.Context, period string) (Report, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Report{}, err
	}
	defer s.observe("monthly", time.Now())

	records, err := s.storage.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load sales for report", zap.String("period", period), zap.Error(err))
		return Report{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	report, err := MonthlyReport(records, p)
	if err != nil {
		return Report{}, err
	}
	s.logger.Info("monthly report computed",
		zap.String("period", report.Period),
		zap.Int("records", report.RecordCount),
	)
	return report, nil
}

// Export renders every record in the requested format. An unknown format
// fails with ErrInvalidArgument before storage is read.
func (s *Service) Export(ctx context.Context, format string) (*ExportResult, error) {
	f, err := ParseExportFormat(format)
	if err != nil {
		return nil, err
	}
	records, err := s.exportRecords(ctx, f)
	if err != nil {
		return nil, err
	}

	result := &ExportResult{Format: f}
	switch f {
	case FormatJSON:
		result.Rows, err = ExportJSON(records)
	default:
		result.CSV, err = ExportCSV(records)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) exportRecords(ctx context.Context, format ExportFormat) ([]SaleRecord, error) {
	defer s.observe("export_"+string(format), time.Now())
	records, err := s.storage.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load sales for export", zap.String("format", string(format)), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return records, nil
}

func (s *Service) observe(report string, start time.Time) {
	s.metrics.ObserveReport(report, time.Since(start))
}
