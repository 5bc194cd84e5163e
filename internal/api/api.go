package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"countcast-backend/internal/api/handlers"
	"countcast-backend/internal/api/middleware"
	"countcast-backend/internal/service"
)

type Services struct {
	InventoryService *service.InventoryService
	ForecastService  *service.ForecastService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.InventoryService != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)

			snapshotGroup := apiGroup.Group("/snapshots")
			{
				snapshotGroup.GET("", inventoryHandler.ListSnapshots)
				snapshotGroup.POST("", inventoryHandler.CreateSnapshot)
				snapshotGroup.DELETE("/:id", inventoryHandler.DeleteSnapshot)
			}

			poGroup := apiGroup.Group("/purchase_orders")
			{
				poGroup.GET("", inventoryHandler.ListPurchaseOrders)
				poGroup.POST("", inventoryHandler.CreatePurchaseOrder)
				poGroup.DELETE("/:id", inventoryHandler.DeletePurchaseOrder)
				poGroup.PUT("/:id/receipt", inventoryHandler.SetReceipt)
			}

			settingsGroup := apiGroup.Group("/settings")
			{
				settingsGroup.GET("", inventoryHandler.ListSettings)
				settingsGroup.PUT("", inventoryHandler.UpsertSettings)
			}
		}

		if services.ForecastService != nil {
			forecastHandler := handlers.NewForecastHandler(services.ForecastService)

			forecastGroup := apiGroup.Group("/forecast")
			{
				forecastGroup.GET("/planner", forecastHandler.GetPlanner)
				forecastGroup.GET("/planner/export", forecastHandler.ExportPlanner)
				forecastGroup.GET("/trend/:sku", forecastHandler.GetTrend)
				forecastGroup.GET("/lead_times", forecastHandler.GetLeadTime)
				forecastGroup.GET("/lead_times/export", forecastHandler.ExportLeadTime)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
