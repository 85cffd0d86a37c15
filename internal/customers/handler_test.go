package customers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factuur-portal/backoffice-backend/internal/validation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Setup()

	logger := zap.NewNop()
	svc := NewService(NewRepository(newTestDB(t)), 10, logger)

	r := gin.New()
	NewHandler(svc, logger).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CRUD(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/customers",
		`{"full_name":"Jan de Vries","email":"jan@example.nl","phone_number":"0612345678","address":"Dorpsstraat 1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	w = do(r, http.MethodPut, "/api/v1/customers/1",
		`{"full_name":"Jan de Vries","email":"jan@example.nl","phone_number":"0612345678","address":"Kerkplein 2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kerkplein 2")

	w = do(r, http.MethodGet, "/api/v1/customers?page=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)

	w = do(r, http.MethodDelete, "/api/v1/customers/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/v1/customers/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/customers/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_CreateFromForm(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{
		"full_name":    {"Piet Jansen"},
		"email":        {"piet@example.nl"},
		"phone_number": {"0201234567"},
		"address":      {"Markt 5"},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_ValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/customers", `{"full_name":"","email":"geen-mail"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "full_name")
	assert.Contains(t, w.Body.String(), "address")

	w = do(r, http.MethodGet, "/api/v1/customers/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RejectsBlankName(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/customers",
		`{"full_name":"   ","email":"jan@example.nl","phone_number":"0612345678","address":"Dorpsstraat 1"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "This field is required", body.Fields["full_name"])

	w = do(r, http.MethodGet, "/api/v1/customers", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Zero(t, page.Total)
}

func TestHandler_ExportCSV(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodPost, "/api/v1/customers",
		`{"full_name":"Jan de Vries","email":"jan@example.nl","phone_number":"0612345678","address":"Dorpsstraat 1"}`)

	w := do(r, http.MethodGet, "/api/v1/customers/export?format=csv", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=klanten.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID,Naam,E-mail,Telefoonnummer,Adres\n1,Jan de Vries,jan@example.nl,0612345678,Dorpsstraat 1\n", w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/customers/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
