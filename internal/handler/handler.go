// Package handler exposes the bridge's HTTP surface. Handlers bind and
// validate requests, call services and translate errors; they carry no
// business logic of their own.
package handler

import (
	"math/big"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/metrics"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

const requestIDKey = "request_id"

// respondError writes the mapped status with a {"detail": reason} body,
// the shape the frontend already consumes.
func respondError(c *gin.Context, err error) {
	c.JSON(model.HTTPStatus(err), gin.H{"detail": model.Detail(err)})
}

// bindJSON binds the request body and reports malformed input as a
// validation error.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, model.WrapWithMessage(model.ErrValidation, err, "malformed request body"))
		return false
	}
	return true
}

// pathID parses a non-negative integer path parameter. Zero passes:
// the receipt interpreter's low-confidence default is 0, and a client
// holding one must still be able to query it.
func pathID(c *gin.Context, name string) (*big.Int, bool) {
	raw := c.Param(name)
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() < 0 {
		respondError(c, model.ErrValidation.WithMessagef("invalid %s: %q", name, raw))
		return nil, false
	}
	return id, true
}

// RequestID propagates or assigns an X-Request-ID per request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Observability records per-request metrics and an access log line.
func Observability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), elapsed.Seconds())

		logger.Info("http request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	}
}
