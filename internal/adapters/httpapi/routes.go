package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/example/fta/internal/logger"
)

// RegisterRoutes registers the /v1 endpoints on rg.
//
//	GET    /v1/investigations
//	POST   /v1/investigations
//	GET    /v1/investigations/:id
//	GET    /v1/investigations/:id/tree
//	POST   /v1/investigations/:id/nodes
//	POST   /v1/investigations/:id/check
//	GET    /v1/investigations/:id/audit
//	GET    /v1/nodes/:id
//	DELETE /v1/nodes/:id
//	POST   /v1/nodes/:id/status
//	PUT    /v1/nodes/:id/classification
//	PUT    /v1/nodes/:id/role
//	PUT    /v1/nodes/:id/recommendation
//	PUT    /v1/nodes/:id/label
//	POST   /v1/nodes/:id/move
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	inv := rg.Group("/investigations")
	{
		inv.GET("", h.HandleListInvestigations)
		inv.POST("", h.HandleCreateInvestigation)
		inv.GET("/:id", h.HandleGetInvestigation)
		inv.GET("/:id/tree", h.HandleGetTree)
		inv.POST("/:id/nodes", h.HandleCreateNode)
		inv.POST("/:id/check", h.HandleCheckIntegrity)
		inv.GET("/:id/audit", h.HandleAuditLog)
	}

	nodes := rg.Group("/nodes")
	{
		nodes.GET("/:id", h.HandleGetNode)
		nodes.DELETE("/:id", h.HandleDeleteNode)
		nodes.POST("/:id/status", h.HandleTransitionStatus)
		nodes.PUT("/:id/classification", h.HandleLinkClassification)
		nodes.PUT("/:id/role", h.HandleSetCauseRole)
		nodes.PUT("/:id/recommendation", h.HandleSetRecommendation)
		nodes.PUT("/:id/label", h.HandleUpdateLabel)
		nodes.POST("/:id/move", h.HandleMoveNode)
	}
}

// NewRouter builds the full engine: recovery, request context, /healthz
// and the /v1 group.
func NewRouter(h *Handlers, log *logger.Logger, defaultActor string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestContext(log, defaultActor))
	router.GET("/healthz", h.HandleHealth)
	RegisterRoutes(router.Group("/v1"), h)
	return router
}
