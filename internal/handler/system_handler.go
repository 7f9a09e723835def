package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// ProofChecker verifies zero-knowledge proofs.
type ProofChecker interface {
	Verify(ctx context.Context, proof, publicSignals interface{}) (*service.VerifyResult, error)
}

// SystemHandler serves the status, dashboard and proof routes.
type SystemHandler struct {
	status *service.StatusService
	proofs ProofChecker
}

// NewSystemHandler wires the system handler.
func NewSystemHandler(status *service.StatusService, proofs ProofChecker) *SystemHandler {
	return &SystemHandler{status: status, proofs: proofs}
}

// Status handles GET /api/status.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status.Status(c.Request.Context()))
}

// Dashboard handles GET /api/dashboard/stats.
func (h *SystemHandler) Dashboard(c *gin.Context) {
	stats, err := h.status.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// VerifyProof handles POST /api/verify-proof. An invalid proof is a
// valid=false result, not an error.
func (h *SystemHandler) VerifyProof(c *gin.Context) {
	var req model.VerifyProofRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.proofs.Verify(c.Request.Context(), req.Proof, req.PublicSignals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
