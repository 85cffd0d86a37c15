package catalog

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/export"
	"factuur-portal/backoffice-backend/internal/logger"
	"factuur-portal/backoffice-backend/internal/validation"
)

type Handler struct {
	service CatalogService
	logger  *zap.Logger
}

func NewHandler(service CatalogService, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/services")
	{
		services.GET("", h.List)
		services.POST("", h.Create)
		services.GET("/export", h.Export)
		services.GET("/:id", h.Get)
		services.PUT("/:id", h.Update)
		services.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.service.ListServices(c.Request.Context(), page, perPage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBind(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	service, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	service, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBind(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	service, err := h.service.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.service.ListAllServices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	table := export.Table{
		Name:    "Diensten",
		Columns: []string{"ID", "Naam", "Prijs", "Omschrijving"},
	}
	for _, s := range items {
		table.Rows = append(table.Rows, []interface{}{s.ID, s.Name, s.Price, s.Description})
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "diensten." + string(format)}))
	c.Header("Content-Type", format.ContentType())
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, table); err != nil {
		logger.FromContext(c, h.logger).Error("Service export failed", zap.Error(err))
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
	case errors.Is(err, ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{"price": ErrInvalidPrice.Error()}})
	default:
		logger.FromContext(c, h.logger).Error("Service request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
