package documents

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"factuur-portal/backoffice-backend/internal/catalog"
	"factuur-portal/backoffice-backend/internal/customers"
	"factuur-portal/backoffice-backend/internal/logger"
	"factuur-portal/backoffice-backend/internal/validation"
)

func newHandlerRouter(f *serviceFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Setup()

	r := gin.New()
	NewHandler(f.svc, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_GenerateInvoice(t *testing.T) {
	f := newServiceFixture()
	f.customers.On("GetCustomer", mock.Anything, uint(7)).Return(testCustomer(), nil)
	f.services.On("GetService", mock.Anything, uint(3)).Return(testCatalogService(3, "Consulting", "100.00"), nil)
	r := newHandlerRouter(f)

	w := postJSON(r, "/api/v1/invoices", `{"customer_id":7,"service_id":3,"tax_rate":21}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=factuur_Jan_de_Vries_20240305.pdf", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1709632800", w.Header().Get("X-Document-Number"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestHandler_AttachmentNameSurvivesPunctuation(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		want     string
	}{
		{
			name:     "comma and dots",
			fullName: "Bakker en Zn, B.V.",
			want:     "factuur_Bakker_en_Zn,_B.V._20240305.pdf",
		},
		{
			name:     "quote and semicolon",
			fullName: `Het "Hof"; Utrecht`,
			want:     `factuur_Het_"Hof";_Utrecht_20240305.pdf`,
		},
		{
			name:     "non-ascii letters",
			fullName: "Müller Bouw",
			want:     "factuur_Müller_Bouw_20240305.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			customer := testCustomer()
			customer.FullName = tt.fullName
			f.customers.On("GetCustomer", mock.Anything, uint(7)).Return(customer, nil)
			f.services.On("GetService", mock.Anything, uint(3)).Return(testCatalogService(3, "Consulting", "100.00"), nil)
			r := newHandlerRouter(f)

			w := postJSON(r, "/api/v1/invoices", `{"customer_id":7,"service_id":3}`)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "attachment", disposition)
			assert.Equal(t, tt.want, params["filename"])
		})
	}
}

func TestHandler_ErrorLogCarriesRequestID(t *testing.T) {
	f := newServiceFixture()
	f.customers.On("GetCustomer", mock.Anything, uint(7)).Return(nil, errors.New("database is locked"))

	core, logs := observer.New(zap.ErrorLevel)
	gin.SetMode(gin.TestMode)
	validation.Setup()
	r := gin.New()
	r.Use(logger.RequestID(), logger.GinMiddleware(zap.New(core)))
	NewHandler(f.svc, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(`{"customer_id":7,"service_id":3}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	failures := logs.FilterMessage("Document request failed").FilterField(zap.String("request_id", "req-42"))
	assert.Equal(t, 1, failures.Len())
}

func TestHandler_GenerateQuoteFromForm(t *testing.T) {
	f := newServiceFixture()
	f.customers.On("GetCustomer", mock.Anything, uint(7)).Return(testCustomer(), nil)
	f.services.On("GetService", mock.Anything, uint(3)).Return(testCatalogService(3, "Consulting", "100.00"), nil)
	r := newHandlerRouter(f)

	form := url.Values{
		"customer_id": {"7"},
		"service_id":  {"3"},
		"tax_rate":    {"9"},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "attachment; filename=offerte_Jan_de_Vries_20240305.pdf", w.Header().Get("Content-Disposition"))
}

func TestHandler_GenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(f *serviceFixture)
		wantStatus int
		wantField  string
	}{
		{
			name:       "missing customer",
			body:       `{"service_id":3}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "customer_id",
		},
		{
			name:       "rejected tax rate",
			body:       `{"customer_id":7,"service_id":3,"tax_rate":19}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "tax_rate",
		},
		{
			name:       "unparseable due date",
			body:       `{"customer_id":7,"service_id":3,"due_date":"morgen"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "due_date",
		},
		{
			name:       "no services selected",
			body:       `{"customer_id":7}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown customer",
			body: `{"customer_id":99,"service_id":3}`,
			setup: func(f *serviceFixture) {
				f.customers.On("GetCustomer", mock.Anything, uint(99)).Return(nil, customers.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "unknown service",
			body: `{"customer_id":7,"items":[{"service_id":42,"quantity":2}]}`,
			setup: func(f *serviceFixture) {
				f.customers.On("GetCustomer", mock.Anything, uint(7)).Return(testCustomer(), nil)
				f.services.On("GetService", mock.Anything, uint(42)).Return(nil, catalog.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			r := newHandlerRouter(f)

			w := postJSON(r, "/api/v1/invoices", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			body := errorBody(t, w)
			assert.NotEmpty(t, body["error"])
			if tt.wantField != "" {
				fields, ok := body["fields"].(map[string]interface{})
				require.True(t, ok, "missing fields in %v", body)
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}

func TestHandler_Options(t *testing.T) {
	f := newServiceFixture()
	f.customers.On("ListAllCustomers", mock.Anything).Return([]customers.Customer{*testCustomer()}, nil)
	f.services.On("ListAllServices", mock.Anything).Return([]catalog.Service{}, nil)
	r := newHandlerRouter(f)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/options", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var opts FormOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	assert.Len(t, opts.Customers, 1)
	assert.Empty(t, opts.Services)
	assert.Equal(t, 21, opts.DefaultTaxRate)
}
