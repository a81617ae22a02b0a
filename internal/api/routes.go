package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, h *Handlers) {
	// CORS middleware for public API access
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Original-Size, X-Compressed-Size, X-Compression-Ratio, X-History-Id")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/health", HandleHealth)

	// Service information endpoint
	router.GET("/info", h.HandleInfo)
	router.GET("/", h.HandleInfo) // Root endpoint shows info

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/compress", h.limitBody, h.HandleCompress)
		v1.POST("/decompress", h.limitBody, h.HandleDecompress)
		v1.POST("/compare", h.limitBody, h.HandleCompare)
		v1.GET("/ws/compare", h.HandleWSCompare)

		v1.GET("/history", h.HandleHistory)
		v1.GET("/history.csv", h.HandleHistoryCSV)
		v1.GET("/history.pdf", h.HandleHistoryPDF)
		v1.GET("/history/:id", h.HandleHistoryGet)
		v1.DELETE("/history/:id", h.HandleHistoryDelete)
		v1.GET("/statistics", h.HandleStatistics)

		v1.GET("/info", h.HandleInfo)
		v1.GET("/health", HandleHealth)
	}

	// Legacy routes for backward compatibility
	router.POST("/compress", h.limitBody, h.HandleCompress)
	router.POST("/decompress", h.limitBody, h.HandleDecompress)
}
