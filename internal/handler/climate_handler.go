package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// ClimateHandler serves live weather reads and oracle submissions.
type ClimateHandler struct {
	climate *service.ClimateService
}

// NewClimateHandler wires the climate handler.
func NewClimateHandler(climate *service.ClimateService) *ClimateHandler {
	return &ClimateHandler{climate: climate}
}

// Check handles POST /api/climate/check: one normalized reading for a
// region and parameter type.
func (h *ClimateHandler) Check(c *gin.Context) {
	var req model.ClimateDataRequest
	if !bindJSON(c, &req) {
		return
	}

	reading, err := h.climate.Check(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// Current handles GET /api/weather/:region: the full normalized
// snapshot for a region.
func (h *ClimateHandler) Current(c *gin.Context) {
	conditions, err := h.climate.Current(c.Request.Context(), c.Param("region"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conditions)
}

// SubmitObservation handles POST /api/oracle/observations: fetches a
// live reading and records it on the oracle contract.
func (h *ClimateHandler) SubmitObservation(c *gin.Context) {
	var req model.ClimateDataRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.climate.SubmitObservation(c.Request.Context(), req.Region, req.ParameterType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
