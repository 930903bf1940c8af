package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"larder/internal/domain"
	"larder/internal/itemexport"
	"larder/internal/service"
)

// InvoiceHandler handles invoice parsing and persistence endpoints.
type InvoiceHandler struct {
	invoices service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoices service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// Parse accepts a multipart upload with a "document" file (the invoice PDF
// or image) and optional "pages" files (per-page JPEG renderings), runs the
// parsing pipeline, and returns the persisted invoice with its items.
func (h *InvoiceHandler) Parse(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_DOCUMENT", "document file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer file.Close()

	documentBytes, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, err)
		return
	}

	var pageImages [][]byte
	if form, err := c.MultipartForm(); err == nil {
		for _, pageHeader := range form.File["pages"] {
			page, err := pageHeader.Open()
			if err != nil {
				HandleError(c, err)
				return
			}
			data, err := io.ReadAll(page)
			page.Close()
			if err != nil {
				HandleError(c, err)
				return
			}
			pageImages = append(pageImages, data)
		}
	}

	out, err := h.invoices.Parse(c.Request.Context(), userID, service.ParseInput{
		DocumentBytes: documentBytes,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		PageImages:    pageImages,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, out)
}

// List returns the authenticated user's invoices, newest first.
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	invoices, total, err := h.invoices.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: (page - 1) * pageSize, Limit: pageSize})
}

// Get returns one invoice with its line items.
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.invoices.Get(c.Request.Context(), userID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, detail)
}

// Delete removes an invoice, its items, and its stored page images.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), userID, invoiceID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": invoiceID})
}

// PageImages returns presigned URLs for the invoice's stored page images.
func (h *InvoiceHandler) PageImages(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	urls, err := h.invoices.PageImageURLs(c.Request.Context(), userID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"urls": urls})
}

// Export streams the invoice's line items as CSV or XLSX.
func (h *InvoiceHandler) Export(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.invoices.Get(c.Request.Context(), userID, invoiceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	stored := make([]domain.StoredItem, len(detail.Items))
	for i, item := range detail.Items {
		stored[i] = domain.StoredItem{
			InvoiceID:       invoiceID,
			ItemID:          item.ItemID,
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			PageIndex:       item.PageIndex,
			Position:        i,
		}
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		filename := itemexport.BuildFilename(detail.Invoice.DistributorName, "csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Writer.WriteHeader(http.StatusOK)
		_, _ = c.Writer.Write(itemexport.BOM)

		w := itemexport.NewWriter(c.Writer)
		if err := w.WriteHeader(); err != nil {
			return
		}
		if err := w.WriteItems(stored); err != nil {
			return
		}
		w.Flush()
	case "xlsx":
		filename := itemexport.BuildFilename(detail.Invoice.DistributorName, "xlsx")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Writer.WriteHeader(http.StatusOK)
		_ = itemexport.WriteXLSX(c.Writer, stored)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
