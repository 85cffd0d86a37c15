package customers

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
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.List)
		customers.POST("", h.Create)
		customers.GET("/export", h.Export)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.service.ListCustomers(c.Request.Context(), page, perPage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBind(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBind(&req); err != nil {
		validation.Respond(c, err)
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
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

	items, err := h.service.ListAllCustomers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	table := export.Table{
		Name:    "Klanten",
		Columns: []string{"ID", "Naam", "E-mail", "Telefoonnummer", "Adres"},
	}
	for _, cu := range items {
		table.Rows = append(table.Rows, []interface{}{cu.ID, cu.FullName, cu.Email, cu.PhoneNumber, cu.Address})
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "klanten." + string(format)}))
	c.Header("Content-Type", format.ContentType())
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, table); err != nil {
		logger.FromContext(c, h.logger).Error("Customer export failed", zap.Error(err))
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return
	}
	logger.FromContext(c, h.logger).Error("Customer request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
