package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/service"
)

// AdminHandler serves the registry routes: supported regions and crops,
// oracle assignment.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler wires the admin handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Regions handles GET /api/regions.
func (h *AdminHandler) Regions(c *gin.Context) {
	list, err := h.admin.Regions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Crops handles GET /api/crops.
func (h *AdminHandler) Crops(c *gin.Context) {
	list, err := h.admin.Crops(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddRegion handles POST /api/admin/regions.
func (h *AdminHandler) AddRegion(c *gin.Context) {
	var req model.AddRegionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admin.AddRegion(c.Request.Context(), req.Region)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}

// AddCrop handles POST /api/admin/crops.
func (h *AdminHandler) AddCrop(c *gin.Context) {
	var req model.AddCropRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admin.AddCrop(c.Request.Context(), req.Crop)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}

// SetOracle handles POST /api/admin/oracle.
func (h *AdminHandler) SetOracle(c *gin.Context) {
	var req model.SetOracleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.admin.SetOracle(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionHash": result.TxHash})
}
