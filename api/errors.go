package api

import (
	"errors"
	"net/http"

	"api_sales/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps a service error to its HTTP status and aborts the request.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var ingestErr *sales.IngestionError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, sales.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ingestErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, sales.ErrValidation), errors.Is(err, sales.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &maxBytesErr):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
	default:
		requestLog(c, logger).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
