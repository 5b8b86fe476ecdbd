package handlers

import (
	"net/http"

	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListCustomers(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	customers, err := h.customerService.ListCustomers(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "customers", customers)
}

func (h *APIHandler) CreateCustomer(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := h.customerService.CreateCustomer(c.Request.Context(), actor, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusCreated, "customer created", customer)
}

func (h *APIHandler) GetCustomer(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "customer", customer)
}

func (h *APIHandler) UpdateCustomer(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}
	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), actor, id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "customer updated", customer)
}

func (h *APIHandler) DeleteCustomer(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.customerService.DeleteCustomer(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "customer deleted", nil)
}

func (h *APIHandler) ListProducts(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	products, err := h.productService.ListProducts(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "products", products)
}

func (h *APIHandler) CreateProduct(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := h.productService.CreateProduct(c.Request.Context(), actor, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusCreated, "product created", product)
}

func (h *APIHandler) GetProduct(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "product", product)
}

func (h *APIHandler) UpdateProduct(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	product, err := h.productService.UpdateProduct(c.Request.Context(), actor, id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "product updated", product)
}

func (h *APIHandler) DeleteProduct(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "product deleted", nil)
}
