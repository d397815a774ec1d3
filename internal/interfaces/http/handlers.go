package http

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/application/service"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/pdf"
	"github.com/garyjia/invoice-studio/internal/storage"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HealthFunc reports whether the process can serve requests, with per-component detail
type HealthFunc func(ctx context.Context) (healthy bool, components interface{})

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService service.InvoiceService
	logger         Logger
	health         HealthFunc
}

// NewHandlers creates a new Handlers instance
func NewHandlers(invoiceService service.InvoiceService, logger Logger) *Handlers {
	return &Handlers{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Version    string      `json:"version"`
	Components interface{} `json:"components,omitempty"`
}

// PreviewResponse is an inline rendering of an invoice
type PreviewResponse struct {
	DataURI            string      `json:"data_uri"`
	Pages              int         `json:"pages"`
	Totals             interface{} `json:"totals"`
	ThumbnailPNGBase64 string      `json:"thumbnail_png_base64,omitempty"`
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// HealthCheck handles GET /health. Without a HealthFunc the process is reported healthy.
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	code := http.StatusOK
	if h.health != nil {
		healthy, components := h.health(c.Request.Context())
		resp.Components = components
		if !healthy {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, Response{Success: code == http.StatusOK, Data: resp})
}

// ComputeTotals handles POST /api/invoices/totals
func (h *Handlers) ComputeTotals(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.Totals(c.Request.Context(), rec)
	if err != nil {
		h.respondError(c, "Failed to compute totals", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// RenderInvoice handles POST /api/invoices/render
func (h *Handlers) RenderInvoice(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	doc, err := h.invoiceService.Render(c.Request.Context(), rec)
	if err != nil {
		h.respondError(c, "Failed to render invoice", err)
		return
	}
	attachment(c, rec.Number, "pdf", contentTypePDF, doc.Bytes)
}

// PreviewInvoice handles POST /api/invoices/preview
func (h *Handlers) PreviewInvoice(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}
	h.preview(c, func(ctx context.Context, thumbnail bool) (*service.PreviewResult, error) {
		return h.invoiceService.Preview(ctx, rec, thumbnail)
	})
}

// ExportInvoice handles POST /api/invoices/export
func (h *Handlers) ExportInvoice(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	data, err := h.invoiceService.Export(c.Request.Context(), rec)
	if err != nil {
		h.respondError(c, "Failed to export invoice", err)
		return
	}
	attachment(c, rec.Number, "xlsx", contentTypeXLSX, data)
}

// CreateInvoice handles POST /api/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Create(c.Request.Context(), rec); err != nil {
		h.respondError(c, "Failed to create invoice", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: rec})
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Errorw("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	page, err := h.invoiceService.List(c.Request.Context(), entity.InvoiceListFilter{
		Status: req.Status,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.respondError(c, "Failed to list invoices", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: page})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	rec, err := h.invoiceService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to get invoice", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// UpdateInvoice handles PUT /api/invoices/:id
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	rec, ok := h.bindInvoice(c)
	if !ok {
		return
	}
	rec.ID = c.Param("id")

	if err := h.invoiceService.Update(c.Request.Context(), rec); err != nil {
		h.respondError(c, "Failed to update invoice", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rec})
}

// DeleteInvoice handles DELETE /api/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "Failed to delete invoice", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// GetInvoicePDF handles GET /api/invoices/:id/pdf
func (h *Handlers) GetInvoicePDF(c *gin.Context) {
	doc, rec, err := h.invoiceService.RenderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to render invoice", err)
		return
	}
	attachment(c, rec.Number, "pdf", contentTypePDF, doc.Bytes)
}

// GetInvoicePreview handles GET /api/invoices/:id/preview
func (h *Handlers) GetInvoicePreview(c *gin.Context) {
	h.preview(c, func(ctx context.Context, thumbnail bool) (*service.PreviewResult, error) {
		return h.invoiceService.PreviewByID(ctx, c.Param("id"), thumbnail)
	})
}

// GetInvoiceXLSX handles GET /api/invoices/:id/xlsx
func (h *Handlers) GetInvoiceXLSX(c *gin.Context) {
	data, rec, err := h.invoiceService.ExportByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to export invoice", err)
		return
	}
	attachment(c, rec.Number, "xlsx", contentTypeXLSX, data)
}

// GetSettings handles GET /api/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.invoiceService.Settings(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to load settings", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: settings})
}

// UpdateSettings handles PUT /api/settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var settings service.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.logger.Errorw("Invalid settings payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid settings payload"})
		return
	}

	if err := h.invoiceService.SaveSettings(c.Request.Context(), settings); err != nil {
		h.respondError(c, "Failed to save settings", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: settings})
}

// GetSummary handles GET /api/summary
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.invoiceService.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to summarize invoices", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

func (h *Handlers) preview(c *gin.Context, run func(ctx context.Context, thumbnail bool) (*service.PreviewResult, error)) {
	withThumbnail := true
	if v := c.Query("thumbnail"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid thumbnail flag"})
			return
		}
		withThumbnail = parsed
	}

	result, err := run(c.Request.Context(), withThumbnail)
	if err != nil {
		h.respondError(c, "Failed to preview invoice", err)
		return
	}

	resp := PreviewResponse{
		DataURI: result.DataURI,
		Pages:   result.Pages,
		Totals:  result.Totals,
	}
	if result.Thumbnail != nil {
		resp.ThumbnailPNGBase64 = base64.StdEncoding.EncodeToString(result.Thumbnail.Data)
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

func (h *Handlers) bindInvoice(c *gin.Context) (*entity.InvoiceRecord, bool) {
	var rec entity.InvoiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		h.logger.Errorw("Invalid invoice payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid invoice payload",
		})
		return nil, false
	}
	service.Sanitize(&rec)
	return &rec, true
}

func (h *Handlers) respondError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	public := "internal error"

	switch {
	case errors.Is(err, port.ErrNotFound):
		status, public = http.StatusNotFound, "invoice not found"
	case errors.Is(err, service.ErrInvalidInvoice):
		status, public = http.StatusBadRequest, err.Error()
	case errors.Is(err, pdf.ErrRenderFailed):
		public = "failed to render invoice"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Errorw(msg, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, Response{Success: false, Error: public})
}

func attachment(c *gin.Context, number, ext, contentType string, data []byte) {
	name := storage.SanitizeFolderName(number)
	if name == "" {
		name = "invoice"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+name+"."+ext))
	c.Data(http.StatusOK, contentType, data)
}
