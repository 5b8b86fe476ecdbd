package handlers

import (
	"net/http"
	"time"

	"invoice_manager/internal/repository"
	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *APIHandler) ListOrders(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}

	filter := repository.OrderFilter{Status: c.Query("status")}
	if filter.CustomerID, ok = optionalUUID(c, "customer_id"); !ok {
		return
	}
	if filter.CreatedBy, ok = optionalUUID(c, "created_by"); !ok {
		return
	}
	if filter.From, ok = optionalDate(c, "from"); !ok {
		return
	}
	if filter.To, ok = optionalDate(c, "to"); !ok {
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), actor, filter)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "orders", orders)
}

func optionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name, err)
		return nil, false
	}
	return &t, true
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var input services.OrderInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), actor, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusCreated, "order created", order)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "order", order)
}

// UpdateOrder saves an order. The submitted items replace the persisted
// ones: lines with an id are patched, lines without are added, and persisted
// lines left out are removed.
func (h *APIHandler) UpdateOrder(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.OrderInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := h.orderService.UpdateOrder(c.Request.Context(), actor, id, input)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "order updated", order)
}

func (h *APIHandler) DeleteOrder(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}
	success(c, http.StatusOK, "order deleted", nil)
}
