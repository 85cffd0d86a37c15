package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"factuur-portal/backoffice-backend/internal/catalog"
	"factuur-portal/backoffice-backend/internal/config"
	"factuur-portal/backoffice-backend/internal/customers"
	"factuur-portal/backoffice-backend/internal/database"
	"factuur-portal/backoffice-backend/internal/documents"
	"factuur-portal/backoffice-backend/internal/logger"
	"factuur-portal/backoffice-backend/internal/metrics"
	"factuur-portal/backoffice-backend/internal/validation"
)

// newRouter wires repositories, services and handlers onto a gin engine
func newRouter(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	validation.Setup()

	router := gin.New()
	router.Use(logger.RequestID(), logger.GinMiddleware(log), logger.Recovery(log), m.GinMiddleware())

	// Customers
	customerService := customers.NewService(customers.NewRepository(db), cfg.Pagination.PageSize, log)
	customerHandler := customers.NewHandler(customerService, log)

	// Services
	catalogService := catalog.NewCatalogService(catalog.NewRepository(db), cfg.Pagination.PageSize, log)
	catalogHandler := catalog.NewHandler(catalogService, log)

	// Documents
	renderer := documents.NewRenderer(
		documents.LayoutFromConfig(cfg.Documents),
		documents.OwnerFromConfig(cfg.Owner),
		log,
	)
	documentService := documents.NewService(
		renderer,
		customerService,
		catalogService,
		documents.SettingsFromConfig(cfg.Owner, cfg.Documents),
		m,
		log,
	)
	documentHandler := documents.NewHandler(documentService, log)

	api := router.Group("/api/v1")
	{
		customerHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
		documentHandler.RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		state := "healthy"
		if err := database.Ping(db, 2*time.Second); err != nil {
			status = http.StatusServiceUnavailable
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":    state,
			"timestamp": time.Now(),
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}
