package handlers

import (
	"errors"
	"net/http"

	"invoice_manager/internal/barcode"
	"invoice_manager/internal/middleware"
	"invoice_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"message": message}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// handleError maps service errors onto HTTP statuses.
func handleError(c *gin.Context, err error) {
	var validation *barcode.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, "not found", err)
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, services.ErrInvalidInput), errors.As(err, &validation):
		fail(c, http.StatusBadRequest, "invalid request", err)
	case services.IsConflict(err):
		fail(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, services.ErrNotifierDisabled):
		fail(c, http.StatusServiceUnavailable, "messaging unavailable", err)
	default:
		c.Error(err)
		fail(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func actorOf(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "unauthorized", nil)
	}
	return actor, ok
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id", err)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses a query parameter that may be absent.
func optionalUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name, err)
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "invalid request format", err)
		return false
	}
	return true
}
