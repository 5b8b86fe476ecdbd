package handlers

import (
	"net/http"

	"invoice_manager/internal/middleware"
	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	customerService services.CustomerService
	productService  services.ProductService
	orderService    services.OrderService
	invoiceService  services.InvoiceService
}

func NewAPIHandler(
	customerService services.CustomerService,
	productService services.ProductService,
	orderService services.OrderService,
	invoiceService services.InvoiceService,
) *APIHandler {
	return &APIHandler{
		customerService: customerService,
		productService:  productService,
		orderService:    orderService,
		invoiceService:  invoiceService,
	}
}

// RegisterRoutes mounts the API. auth runs in front of everything under /api.
func (h *APIHandler) RegisterRoutes(router *gin.Engine, auth ...gin.HandlerFunc) {
	router.GET("/health", h.Health)

	api := router.Group("/api", auth...)
	{
		api.GET("/customers", h.ListCustomers)
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers/:id", h.GetCustomer)
		api.PUT("/customers/:id", h.UpdateCustomer)
		api.DELETE("/customers/:id", h.DeleteCustomer)

		api.GET("/products", h.ListProducts)
		api.POST("/products", h.CreateProduct)
		api.GET("/products/:id", h.GetProduct)
		api.PUT("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)

		api.GET("/orders", h.ListOrders)
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders/:id", h.GetOrder)
		api.PUT("/orders/:id", h.UpdateOrder)
		api.DELETE("/orders/:id", h.DeleteOrder)

		api.GET("/invoices", h.ListInvoices)
		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices/:id", h.GetInvoice)
		api.PUT("/invoices/:id", h.UpdateInvoice)
		api.DELETE("/invoices/:id", middleware.AdminMiddleware(), h.DeleteInvoice)
		api.GET("/invoices/:id/barcode", h.GetInvoiceBarcode)
		api.GET("/invoices/:id/pdf", h.GetInvoicePDF)
		api.POST("/invoices/:id/send", h.SendInvoice)
		api.POST("/invoices/:id/paid", h.MarkInvoicePaid)
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
