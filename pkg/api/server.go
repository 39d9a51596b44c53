// Package api wires the HTTP surface: auth endpoints and the
// authenticated invoice CRUD plus PDF download.
package api

import (
	"github.com/gin-gonic/gin"

	"invoice-api/pkg/models"
)

// InvoiceStore is the persistence boundary the handlers need. The API
// only cares about the success/failure outcome of these five operations.
type InvoiceStore interface {
	FetchAll() ([]models.InvoiceSummary, error)
	Get(id uint) (models.Invoice, error)
	Create(inv models.Invoice) (models.Invoice, error)
	Update(id uint, inv models.Invoice) (models.Invoice, error)
	Remove(id uint) error
}

// AuthService is the account and token boundary.
type AuthService interface {
	Register(username, email, password string) (models.User, error)
	Login(usernameOrEmail, password string) (string, error)
	ForgotPassword(email string) error
	ResetPassword(token, newPassword string) error
	Middleware() gin.HandlerFunc
}

// PDFRenderer turns a stored invoice into a downloadable document.
type PDFRenderer interface {
	Filename(inv models.Invoice) string
	Render(inv models.Invoice) ([]byte, error)
}

const defaultPageSize = 10

// Server holds the handler dependencies.
type Server struct {
	store InvoiceStore
	auth  AuthService
	pdf   PDFRenderer
}

// NewServer creates a new API server
func NewServer(store InvoiceStore, auth AuthService, pdf PDFRenderer) *Server {
	return &Server{store: store, auth: auth, pdf: pdf}
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)
	api.POST("/auth/forgot-password", s.forgotPassword)
	api.POST("/auth/reset-password", s.resetPassword)

	inv := api.Group("/invoice", s.auth.Middleware())
	inv.GET("", s.listInvoices)
	inv.POST("", s.createInvoice)
	inv.GET("/:id", s.getInvoice)
	inv.PUT("/:id", s.updateInvoice)
	inv.DELETE("/:id", s.deleteInvoice)
	inv.GET("/:id/pdf", s.downloadPDF)
}
