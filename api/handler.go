package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"api_sales/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService   *sales.Service
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger, maxUploadBytes int64) *salesHandler {
	return &salesHandler{
		salesService:   salesService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// saleRequest is the body of POST /sales and PUT /sales/:id.
type saleRequest struct {
	Product   string          `json:"product"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	SaleDate  string          `json:"sale_date"`
	Seller    string          `json:"seller"`
	Region    string          `json:"region"`
}

func (r saleRequest) toRecord() (sales.SaleRecord, error) {
	saleDate, ok := sales.ParseDate(r.SaleDate)
	if !ok {
		return sales.SaleRecord{}, fmt.Errorf("%w: sale_date %q is not a date", sales.ErrValidation, r.SaleDate)
	}
	return sales.SaleRecord{
		Product:   r.Product,
		Category:  r.Category,
		UnitPrice: r.UnitPrice,
		Quantity:  r.Quantity,
		SaleDate:  saleDate,
		Seller:    r.Seller,
		Region:    r.Region,
	}, nil
}

// patchRequest is the body of PATCH /sales/:id. Absent fields stay unchanged.
type patchRequest struct {
	Product   *string          `json:"product"`
	Category  *string          `json:"category"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Quantity  *int             `json:"quantity"`
	SaleDate  *string          `json:"sale_date"`
	Seller    *string          `json:"seller"`
	Region    *string          `json:"region"`
}

var patchFields = map[string]struct{}{
	"product": {}, "category": {}, "unit_price": {}, "quantity": {},
	"sale_date": {}, "seller": {}, "region": {},
}

func (r patchRequest) toPatch() (sales.Patch, error) {
	patch := sales.Patch{
		Product:   r.Product,
		Category:  r.Category,
		UnitPrice: r.UnitPrice,
		Quantity:  r.Quantity,
		Seller:    r.Seller,
		Region:    r.Region,
	}
	if r.SaleDate != nil {
		saleDate, ok := sales.ParseDate(*r.SaleDate)
		if !ok {
			return sales.Patch{}, fmt.Errorf("%w: sale_date %q is not a date", sales.ErrValidation, *r.SaleDate)
		}
		patch.SaleDate = &saleDate
	}
	return patch, nil
}

// handleCreateSale handles the POST /sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req saleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		requestLog(ctx, h.logger).Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	record, err := req.toRecord()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), record)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusCreated, sale)
}

func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	id, ok := saleID(ctx)
	if !ok {
		return
	}
	sale, err := h.salesService.GetSale(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *salesHandler) handleListSales(ctx *gin.Context) {
	offset, err := queryInt(ctx, "offset", 0)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	limit, err := queryInt(ctx, "limit", sales.DefaultListLimit)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	results, err := h.salesService.ListSales(ctx.Request.Context(), offset, limit)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// handleReplaceSale handles PUT /sales/:id, which overwrites every field.
func (h *salesHandler) handleReplaceSale(ctx *gin.Context) {
	id, ok := saleID(ctx)
	if !ok {
		return
	}
	var req saleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		requestLog(ctx, h.logger).Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	record, err := req.toRecord()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	sale, err := h.salesService.UpdateSale(ctx.Request.Context(), id, sales.FullPatch(record))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *salesHandler) handlePatchSale(ctx *gin.Context) {
	id, ok := saleID(ctx)
	if !ok {
		return
	}
	var fields map[string]json.RawMessage
	if err := ctx.ShouldBindBodyWith(&fields, binding.JSON); err != nil {
		requestLog(ctx, h.logger).Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	for name := range fields {
		if _, ok := patchFields[name]; !ok {
			badRequest(ctx, fmt.Sprintf("unknown field %q", name))
			return
		}
	}
	var req patchRequest
	if err := ctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		requestLog(ctx, h.logger).Warn("failed to bind JSON request", zap.Error(err))
		badRequest(ctx, "invalid request payload")
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	sale, err := h.salesService.UpdateSale(ctx.Request.Context(), id, patch)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, sale)
}

func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	id, ok := saleID(ctx)
	if !ok {
		return
	}
	if err := h.salesService.DeleteSale(ctx.Request.Context(), id); err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"detail": "sale deleted"})
}

// handleImportCSV accepts a multipart "file" field or a raw CSV body.
func (h *salesHandler) handleImportCSV(ctx *gin.Context) {
	raw, err := h.readUpload(ctx)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	if raw == nil {
		badRequest(ctx, "missing csv upload")
		return
	}

	result, err := h.salesService.ImportCSV(ctx.Request.Context(), raw)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "imported successfully",
		"import_id": result.ImportID,
		"records":   result.Imported,
		"stats":     result.Stats,
	})
}

func (h *salesHandler) readUpload(ctx *gin.Context) ([]byte, error) {
	if h.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, h.maxUploadBytes)
	}

	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		header, err := ctx.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, nil
			}
			return nil, unwrapUploadError(err)
		}
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

// unwrapUploadError keeps oversized bodies distinct from malformed forms.
func unwrapUploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: malformed multipart upload: %v", sales.ErrValidation, err)
}

func (h *salesHandler) handleMonthlyReport(ctx *gin.Context) {
	period := ctx.Query("period")
	report, err := h.salesService.MonthlyReport(ctx.Request.Context(), period)
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}
	if report.Empty() {
		ctx.JSON(http.StatusOK, gin.H{"detail": "no records found for period", "period": report.Period})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

func (h *salesHandler) handleExport(ctx *gin.Context) {
	export, err := h.salesService.Export(ctx.Request.Context(), ctx.Query("format"))
	if err != nil {
		writeError(ctx, h.logger, err)
		return
	}

	if export.Format == sales.FormatJSON {
		ctx.JSON(http.StatusOK, export.Rows)
		return
	}
	ctx.Header("Content-Disposition", "attachment; filename=sales.csv")
	ctx.Data(http.StatusOK, "text/csv", export.CSV)
}

func (h *salesHandler) handleHealth(ctx *gin.Context) {
	if pinger, ok := h.salesService.Storage().(sales.Pinger); ok {
		if err := pinger.Ping(ctx.Request.Context()); err != nil {
			requestLog(ctx, h.logger).Warn("storage ping failed", zap.Error(err))
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func saleID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		badRequest(ctx, "invalid sale id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(ctx *gin.Context, key string, fallback int) (int, error) {
	value, ok := ctx.GetQuery(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
