package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Policy     *PolicyHandler
	Climate    *ClimateHandler
	Treasury   *TreasuryHandler
	Governance *GovernanceHandler
	Token      *TokenHandler
	Admin      *AdminHandler
	System     *SystemHandler
}

// NewRouter builds the gin engine with every route mounted. Liveness
// and metrics sit at the root; the API itself is under /api.
func NewRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Observability())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/policies", h.Policy.Create)
		api.GET("/policies/active", h.Policy.Active)
		api.GET("/policies/:id", h.Policy.Get)
		api.GET("/policies/:id/status", h.Policy.Status)
		api.POST("/policies/:id/activate", h.Policy.Activate)
		api.POST("/policies/:id/cancel", h.Policy.Cancel)
		api.POST("/policies/:id/openweather-data", h.Policy.EvaluateClaim)
		api.GET("/policies/:id/token-uri", h.Policy.TokenURI)
		api.GET("/policies/:id/metadata", h.Policy.Metadata)
		api.GET("/farmers/:address/policies", h.Policy.ForFarmer)

		api.POST("/climate/check", h.Climate.Check)
		api.GET("/weather/:region", h.Climate.Current)
		api.POST("/oracle/observations", h.Climate.SubmitObservation)

		api.POST("/treasury/capital", h.Treasury.AddCapital)
		api.GET("/treasury/balance", h.Treasury.Balance)
		api.GET("/treasury/health", h.Treasury.Health)

		api.POST("/governance/proposals", h.Governance.CreateProposal)
		api.GET("/governance/proposals/:id", h.Governance.Get)
		api.POST("/governance/proposals/:id/vote", h.Governance.Vote)
		api.POST("/governance/proposals/:id/execute", h.Governance.Execute)

		api.GET("/users/:address/tokens", h.Token.Balance)
		api.POST("/users/:address/tokens/transfer", h.Token.Transfer)

		api.GET("/regions", h.Admin.Regions)
		api.GET("/crops", h.Admin.Crops)
		api.POST("/admin/regions", h.Admin.AddRegion)
		api.POST("/admin/crops", h.Admin.AddCrop)
		api.POST("/admin/oracle", h.Admin.SetOracle)

		api.POST("/verify-proof", h.System.VerifyProof)
		api.GET("/status", h.System.Status)
		api.GET("/dashboard/stats", h.System.Dashboard)
	}

	return router
}
