package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"invoice_manager/internal/repository"
	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListInvoices(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	filter := repository.InvoiceFilter{Status: c.Query("status")}
	if filter.OrderID, ok = optionalUUID(c, "order_id"); !ok {
		return
	}
	if filter.CustomerID, ok = optionalUUID(c, "customer_id"); !ok {
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), actor, filter)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoices", invoices)
}

func (h *APIHandler) CreateInvoice(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var input services.InvoiceInput
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), actor, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusCreated, "invoice created", invoice)
}

func (h *APIHandler) GetInvoice(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoice", invoice)
}

func (h *APIHandler) UpdateInvoice(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.InvoiceInput
	if !bindJSON(c, &input) {
		return
	}
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), actor, id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoice updated", invoice)
}

func (h *APIHandler) DeleteInvoice(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoice deleted", nil)
}

func (h *APIHandler) GetInvoiceBarcode(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	payload, err := h.invoiceService.Barcode(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "barcode", gin.H{"barcode": payload})
}

func (h *APIHandler) GetInvoicePDF(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	// Render into memory so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.invoiceService.RenderPDF(c.Request.Context(), actor, id, &buf); err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *APIHandler) SendInvoice(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoice sent", invoice)
}

func (h *APIHandler) MarkInvoicePaid(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "invoice paid", invoice)
}
