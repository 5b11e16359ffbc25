package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter wires the HTTP routes.
func NewRouter(settlements *SettlementHandler, masterList *MasterListHandler, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(log))

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", health)

	api := router.Group("/api/v1")
	{
		api.GET("/health", health)

		settlement := api.Group("/settlements")
		{
			settlement.POST("/extract", settlements.ExtractSettlement)
			settlement.POST("/extract-text", settlements.ExtractText)
			settlement.POST("/export", settlements.ExportSettlement)
		}

		master := api.Group("/master-list")
		{
			master.GET("", masterList.GetMasterList)
			master.PUT("", masterList.ReplaceMasterList)
			master.POST("/organizations", masterList.AddOrganizations)
			master.DELETE("/organizations/:name", masterList.RemoveOrganization)
		}
	}

	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "GGV Oppgjør",
	})
}
