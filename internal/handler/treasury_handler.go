package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// TreasuryHandler serves the capital pool routes.
type TreasuryHandler struct {
	treasury *service.TreasuryService
}

// NewTreasuryHandler wires the treasury handler.
func NewTreasuryHandler(treasury *service.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasury: treasury}
}

// AddCapital handles POST /api/treasury/capital.
func (h *TreasuryHandler) AddCapital(c *gin.Context) {
	var req model.AddCapitalRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.treasury.AddCapital(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"transactionHash": result.TxHash,
		"blockNumber":     result.BlockNumber,
	})
}

// Balance handles GET /api/treasury/balance.
func (h *TreasuryHandler) Balance(c *gin.Context) {
	stats, err := h.treasury.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health handles GET /api/treasury/health.
func (h *TreasuryHandler) Health(c *gin.Context) {
	health, err := h.treasury.Health(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, health)
}
