package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-api/pkg/invoice"
	"invoice-api/pkg/models"
	"invoice-api/pkg/services/auth"
	"invoice-api/pkg/services/pdf"
	"invoice-api/pkg/services/store"
)

const testToken = "Bearer good-token"

type fakeStore struct {
	invoices []models.Invoice
	nextID   uint
}

func newFakeStore() *fakeStore { return &fakeStore{nextID: 1} }

func (f *fakeStore) FetchAll() ([]models.InvoiceSummary, error) {
	out := make([]models.InvoiceSummary, 0, len(f.invoices))
	for _, inv := range f.invoices {
		out = append(out, inv.Summary())
	}
	return out, nil
}

func (f *fakeStore) Get(id uint) (models.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.InvoiceID == id {
			return inv, nil
		}
	}
	return models.Invoice{}, store.ErrNotFound
}

func (f *fakeStore) Create(inv models.Invoice) (models.Invoice, error) {
	for _, existing := range f.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return models.Invoice{}, store.ErrDuplicateNumber
		}
	}
	inv.InvoiceID = f.nextID
	f.nextID++
	f.invoices = append(f.invoices, inv)
	return inv, nil
}

func (f *fakeStore) Update(id uint, inv models.Invoice) (models.Invoice, error) {
	for i, existing := range f.invoices {
		if existing.InvoiceID == id {
			inv.InvoiceID = id
			inv.InvoiceNumber = existing.InvoiceNumber
			f.invoices[i] = inv
			return inv, nil
		}
	}
	return models.Invoice{}, store.ErrNotFound
}

func (f *fakeStore) Remove(id uint) error {
	for i, existing := range f.invoices {
		if existing.InvoiceID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeAuth struct{}

func (fakeAuth) Register(username, email, password string) (models.User, error) {
	if username == "taken" {
		return models.User{}, auth.ErrUserExists
	}
	return models.User{Username: username, Email: email}, nil
}

func (fakeAuth) Login(usernameOrEmail, password string) (string, error) {
	if password != "secret123" {
		return "", auth.ErrInvalidCredentials
	}
	return "good-token", nil
}

func (fakeAuth) ForgotPassword(email string) error { return nil }

func (fakeAuth) ResetPassword(token, newPassword string) error {
	if token != "live-token" {
		return auth.ErrResetTokenInvalid
	}
	return nil
}

func (fakeAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != testToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		c.Next()
	}
}

func newTestServer(t *testing.T) (*fakeStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	formatter, err := invoice.NewCurrencyFormatter("en-US", "USD")
	require.NoError(t, err)

	st := newFakeStore()
	r := gin.New()
	NewServer(st, fakeAuth{}, pdf.NewService(formatter)).Routes(r)
	return st, r
}

func seedInvoice(t *testing.T, st *fakeStore, number, customer string, day int) models.Invoice {
	t.Helper()
	inv, err := st.Create(models.Invoice{
		InvoiceNumber: number,
		CustomerName:  customer,
		InvoiceDate:   time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC),
		TotalAmount:   100,
		InvoiceItems: []models.InvoiceItem{
			{ProductName: "Widget", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	return inv
}

func doJSON(r *gin.Engine, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", testToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]any {
	return map[string]any{
		"InvoiceNumber": "INV-001",
		"CustomerName":  "Acme",
		"InvoiceDate":   "2025-01-15T00:00:00Z",
		"InvoiceItems": []map[string]any{
			{"productName": "Widget", "quantity": 2, "unitPrice": 9.99},
		},
	}
}

func TestInvoiceRoutesRequireAuth(t *testing.T) {
	_, r := newTestServer(t)
	w := doJSON(r, http.MethodGet, "/api/invoice", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListInvoices(t *testing.T) {
	st, r := newTestServer(t)
	seedInvoice(t, st, "INV-001", "Acme", 10)
	seedInvoice(t, st, "INV-002", "Globex", 20)

	w := doJSON(r, http.MethodGet, "/api/invoice?sort=asc", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	var page invoice.PresentedPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Invoices, 2)
	assert.Equal(t, "INV-001", page.Invoices[0].InvoiceNumber)

	// Filtered.
	w = doJSON(r, http.MethodGet, "/api/invoice?q=glob", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalItems)
}

func TestListInvoicesRejectsBadPaging(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(r, http.MethodGet, "/api/invoice?pageSize=0", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/invoice?page=abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoice(t *testing.T) {
	st, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/api/invoice", validPayload(), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, st.invoices, 1)
	assert.Equal(t, "INV-001", st.invoices[0].InvoiceNumber)
	assert.Equal(t, 19.98, st.invoices[0].TotalAmount)
}

func TestCreateInvoiceRejectsInvalidItems(t *testing.T) {
	st, r := newTestServer(t)

	payload := validPayload()
	payload["InvoiceItems"] = []map[string]any{
		{"productName": "", "quantity": 1, "unitPrice": 5},
	}
	w := doJSON(r, http.MethodPost, "/api/invoice", payload, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NameRequired")
	assert.Empty(t, st.invoices, "invalid draft must never reach the store")
}

func TestCreateInvoiceCoercesNumericStrings(t *testing.T) {
	_, r := newTestServer(t)

	payload := validPayload()
	payload["InvoiceItems"] = []map[string]any{
		{"productName": "Widget", "quantity": "abc", "unitPrice": "9.99"},
	}
	w := doJSON(r, http.MethodPost, "/api/invoice", payload, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "QuantityOutOfRange")
	assert.NotContains(t, w.Body.String(), "PriceNegativeOrInvalid")
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	st, r := newTestServer(t)
	seedInvoice(t, st, "INV-001", "Acme", 10)

	w := doJSON(r, http.MethodPost, "/api/invoice", validPayload(), true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateInvoiceKeepsNumber(t *testing.T) {
	st, r := newTestServer(t)
	inv := seedInvoice(t, st, "INV-001", "Acme", 10)

	payload := validPayload()
	payload["InvoiceNumber"] = "INV-999"
	payload["CustomerName"] = "Globex"
	w := doJSON(r, http.MethodPut, "/api/invoice/1", payload, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated, err := st.Get(inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", updated.InvoiceNumber, "edit must not change the number")
	assert.Equal(t, "Globex", updated.CustomerName)
}

func TestGetAndDeleteInvoice(t *testing.T) {
	st, r := newTestServer(t)
	seedInvoice(t, st, "INV-001", "Acme", 10)

	w := doJSON(r, http.MethodGet, "/api/invoice/1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"InvoiceNumber":"INV-001"`)

	w = doJSON(r, http.MethodDelete, "/api/invoice/1", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, st.invoices)

	w = doJSON(r, http.MethodDelete, "/api/invoice/1", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadPDF(t *testing.T) {
	st, r := newTestServer(t)
	seedInvoice(t, st, "INV-001", "Acme", 10)

	w := doJSON(r, http.MethodGet, "/api/invoice/1/pdf", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice_INV-001.pdf")
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestAuthEndpoints(t *testing.T) {
	_, r := newTestServer(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "secret123"}, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "taken", "email": "bob@example.com", "password": "secret123"}, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login",
		map[string]string{"usernameOrEmail": "alice", "password": "secret123"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"good-token"`)

	w = doJSON(r, http.MethodPost, "/api/auth/login",
		map[string]string{"usernameOrEmail": "alice", "password": "wrong-pass"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "alice@example.com"}, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": "stale", "newpassword": "newsecret"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/reset-password",
		map[string]string{"token": "live-token", "newpassword": "newsecret"}, false)
	assert.Equal(t, http.StatusOK, w.Code)
}
