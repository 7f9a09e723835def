package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// TokenHandler serves the governance token routes.
type TokenHandler struct {
	tokens *service.TokenService
}

// NewTokenHandler wires the token handler.
func NewTokenHandler(tokens *service.TokenService) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Balance handles GET /api/users/:address/tokens.
func (h *TokenHandler) Balance(c *gin.Context) {
	balance, err := h.tokens.Balance(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// Transfer handles POST /api/users/:address/tokens/transfer: sends
// tokens from the admin account to the addressed user.
func (h *TokenHandler) Transfer(c *gin.Context) {
	var req model.TransferTokensRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tokens.Transfer(c.Request.Context(), c.Param("address"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}
