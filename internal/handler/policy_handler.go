package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// PolicyHandler serves the policy lifecycle routes.
type PolicyHandler struct {
	policies *service.PolicyService
}

// NewPolicyHandler wires the policy handler.
func NewPolicyHandler(policies *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

// Create handles POST /api/policies.
func (h *PolicyHandler) Create(c *gin.Context) {
	var req model.CreatePolicyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.policies.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"policyId":        result.PolicyID.String(),
		"idSource":        result.IDSource,
		"transactionHash": result.TxHash,
		"blockNumber":     result.BlockNumber,
		"gasUsed":         result.GasUsed,
	}
	// a low-confidence ID is still a success, but the caller must not
	// treat it as authoritative
	if result.LowConfidence {
		resp["warning"] = "policy id could not be confirmed from the receipt"
	}
	c.JSON(http.StatusOK, resp)
}

// Activate handles POST /api/policies/:id/activate.
func (h *PolicyHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ActivatePolicyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.policies.Activate(c.Request.Context(), id, req.Premium)
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

// Cancel handles POST /api/policies/:id/cancel.
func (h *PolicyHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.policies.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/policies/:id.
func (h *PolicyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	policy, err := h.policies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// Status handles GET /api/policies/:id/status.
func (h *PolicyHandler) Status(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.policies.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Active handles GET /api/policies/active.
func (h *PolicyHandler) Active(c *gin.Context) {
	list, err := h.policies.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ForFarmer handles GET /api/farmers/:address/policies.
func (h *PolicyHandler) ForFarmer(c *gin.Context) {
	list, err := h.policies.ForFarmer(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// EvaluateClaim handles POST /api/policies/:id/openweather-data: it
// fetches the requested live reading and pays out when the policy's
// matching trigger fires.
func (h *PolicyHandler) EvaluateClaim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.ClimateDataRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.policies.EvaluateClaim(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"policyId":       result.PolicyID.String(),
		"claimTriggered": result.Evaluation.Triggered,
		"observedValue":  result.Evaluation.ObservedValue,
		"paid":           result.Paid,
	}
	if result.Evaluation.Parameter != nil {
		resp["parameterType"] = result.Evaluation.Parameter.ParameterType
	}
	if result.Evaluation.PayoutAmount != nil {
		resp["payoutAmount"] = result.Evaluation.PayoutAmount.String()
	}
	if result.TxResult != nil {
		resp["transactionHash"] = result.TxResult.TxHash
		resp["blockNumber"] = result.TxResult.BlockNumber
	}
	c.JSON(http.StatusOK, resp)
}

// TokenURI handles GET /api/policies/:id/token-uri.
func (h *PolicyHandler) TokenURI(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	uri, err := h.policies.TokenURI(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokenId": id.String(), "tokenURI": uri})
}

// Metadata handles GET /api/policies/:id/metadata.
func (h *PolicyHandler) Metadata(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	meta, err := h.policies.Metadata(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}
