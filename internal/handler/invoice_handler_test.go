package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"larder/internal/domain"
	"larder/internal/middleware"
	"larder/internal/service"
	"larder/mocks"
)

func strPtr(s string) *string { return &s }

// authAs injects an authenticated user the way AuthMiddleware would.
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}

func newInvoiceRouter(userID uuid.UUID, svc service.InvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewInvoiceHandler(svc)

	r := gin.New()
	r.Use(authAs(userID))
	r.POST("/invoices/parse", h.Parse)
	r.GET("/invoices", h.List)
	r.GET("/invoices/:id", h.Get)
	r.DELETE("/invoices/:id", h.Delete)
	r.GET("/invoices/:id/pages", h.PageImages)
	r.GET("/invoices/:id/export", h.Export)
	return r
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func multipartDocument(t *testing.T, pages int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("document", "invoice.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	for i := 0; i < pages; i++ {
		page, err := mw.CreateFormFile("pages", "page.jpg")
		require.NoError(t, err)
		_, err = page.Write([]byte{0xFF, 0xD8, byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestParseEndpoint_Success(t *testing.T) {
	userID := uuid.New()

	svc := &mocks.MockInvoiceService{}
	svc.On("Parse", mock.Anything, userID, mock.MatchedBy(func(in service.ParseInput) bool {
		return len(in.DocumentBytes) > 0 && len(in.PageImages) == 2
	})).Return(&service.ParseOutput{
		Invoice: &domain.Invoice{ID: uuid.New(), DistributorName: "Sysco Foods"},
		Items:   []domain.InvoiceItem{{ItemID: strPtr("1"), ItemDescription: strPtr("CHICKEN")}},
	}, nil)

	body, contentType := multipartDocument(t, 2)
	req := httptest.NewRequest(http.MethodPost, "/invoices/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	newInvoiceRouter(userID, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestParseEndpoint_MissingDocument(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/invoices/parse", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newInvoiceRouter(uuid.New(), &mocks.MockInvoiceService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "MISSING_DOCUMENT", resp.Error.Code)
}

func TestParseEndpoint_FileTooLarge(t *testing.T) {
	svc := &mocks.MockInvoiceService{}
	svc.On("Parse", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrFileTooLarge)

	body, contentType := multipartDocument(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/invoices/parse", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	newInvoiceRouter(uuid.New(), svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
}

func TestListEndpoint_PaginationMeta(t *testing.T) {
	userID := uuid.New()

	svc := &mocks.MockInvoiceService{}
	svc.On("List", mock.Anything, userID, 2, 10).
		Return([]domain.Invoice{{ID: uuid.New()}}, 11, nil)

	req := httptest.NewRequest(http.MethodGet, "/invoices?page=2&page_size=10", nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(userID, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Offset)
	assert.Equal(t, 10, resp.Meta.Limit)
}

func TestGetEndpoint_NotFound(t *testing.T) {
	svc := &mocks.MockInvoiceService{}
	svc.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvoiceNotFound)

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(uuid.New(), svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVOICE_NOT_FOUND", resp.Error.Code)
}

func TestGetEndpoint_InvalidID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/invoices/not-a-uuid", nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(uuid.New(), &mocks.MockInvoiceService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestDeleteEndpoint_Forbidden(t *testing.T) {
	svc := &mocks.MockInvoiceService{}
	svc.On("Delete", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrForbidden)

	req := httptest.NewRequest(http.MethodDelete, "/invoices/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(uuid.New(), svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPageImagesEndpoint(t *testing.T) {
	userID, invoiceID := uuid.New(), uuid.New()

	svc := &mocks.MockInvoiceService{}
	svc.On("PageImageURLs", mock.Anything, userID, invoiceID).
		Return([]string{"https://s3/page0"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID.String()+"/pages", nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(userID, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://s3/page0")
}

func TestExportEndpoint_CSV(t *testing.T) {
	userID, invoiceID := uuid.New(), uuid.New()

	svc := &mocks.MockInvoiceService{}
	svc.On("Get", mock.Anything, userID, invoiceID).Return(&service.InvoiceDetail{
		Invoice: &domain.Invoice{ID: invoiceID, DistributorName: "Sysco Foods"},
		Items: []domain.InvoiceItem{
			{ItemID: strPtr("4532187"), ItemDescription: strPtr("CHICKEN BREAST BNLS")},
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID.String()+"/export?format=csv", nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(userID, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Sysco_Foods")
	assert.Contains(t, w.Body.String(), "CHICKEN BREAST BNLS")
}

func TestExportEndpoint_InvalidFormat(t *testing.T) {
	userID, invoiceID := uuid.New(), uuid.New()

	svc := &mocks.MockInvoiceService{}
	svc.On("Get", mock.Anything, userID, invoiceID).Return(&service.InvoiceDetail{
		Invoice: &domain.Invoice{ID: invoiceID},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/invoices/"+invoiceID.String()+"/export?format=pdf", nil)
	w := httptest.NewRecorder()
	newInvoiceRouter(userID, svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "INVALID_FORMAT", resp.Error.Code)
}

func TestEndpoint_NoAuthContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInvoiceHandler(&mocks.MockInvoiceService{})
	r := gin.New()
	r.GET("/invoices", h.List)

	req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
