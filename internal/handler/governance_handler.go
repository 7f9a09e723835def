package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// GovernanceHandler serves the proposal routes.
type GovernanceHandler struct {
	governance *service.GovernanceService
}

// NewGovernanceHandler wires the governance handler.
func NewGovernanceHandler(governance *service.GovernanceService) *GovernanceHandler {
	return &GovernanceHandler{governance: governance}
}

// CreateProposal handles POST /api/governance/proposals.
func (h *GovernanceHandler) CreateProposal(c *gin.Context) {
	var req model.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.governance.CreateProposal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"proposalId":      result.ProposalID.String(),
		"idSource":        result.IDSource,
		"transactionHash": result.TxHash,
		"blockNumber":     result.BlockNumber,
	}
	if result.LowConfidence {
		resp["warning"] = "proposal id could not be confirmed from the receipt"
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/governance/proposals/:id.
func (h *GovernanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	proposal, err := h.governance.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

// Vote handles POST /api/governance/proposals/:id/vote.
func (h *GovernanceHandler) Vote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req model.VoteProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.governance.Vote(c.Request.Context(), id, req.Support)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}

// Execute handles POST /api/governance/proposals/:id/execute.
func (h *GovernanceHandler) Execute(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.governance.Execute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}
