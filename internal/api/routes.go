package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the handlers on a router
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.HandleHealth)

	api := router.Group("/api")
	{
		api.POST("/characterize", h.HandleCharacterize)
		api.POST("/prepare", h.HandlePrepare)
		api.POST("/threshold", h.HandleThreshold)
		api.POST("/evaluate", h.HandleEvaluate)
		api.POST("/reports", h.HandleRecordReport)
		api.GET("/reports", h.HandleListReports)
		api.GET("/reports/:id", h.HandleGetReport)
	}
}

// NewRouter builds a gin engine with recovery and the API routes
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	h.RegisterRoutes(router)
	return router
}
