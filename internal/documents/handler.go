package documents

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/catalog"
	"factuur-portal/backoffice-backend/internal/customers"
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
	rg.POST("/invoices", h.generate(KindInvoice))
	rg.POST("/quotes", h.generate(KindQuote))
	rg.GET("/documents/options", h.Options)
}

func (h *Handler) generate(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBind(&req); err != nil {
			validation.Respond(c, err)
			return
		}
		req.Kind = kind

		doc, err := h.service.Generate(c.Request.Context(), req)
		if err != nil {
			h.respondError(c, err)
			return
		}

		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
		c.Header("X-Document-Number", doc.Number)
		c.Data(http.StatusOK, "application/pdf", doc.Bytes())
	}
}

func (h *Handler) Options(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, customers.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrTaxRateRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{"tax_rate": ErrTaxRateRejected.Error()}})
	case errors.Is(err, ErrInvalidDueDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{"due_date": ErrInvalidDueDate.Error()}})
	case IsInvalidRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c, h.logger).Error("Document request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
