package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-service/internal/service"
)

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type outcome struct {
	status  int
	code    string
	message string
}

// classify maps a service error onto the default status, code and message.
func classify(err error) outcome {
	switch {
	case errors.Is(err, service.ErrValidation):
		return outcome{http.StatusBadRequest, "validation_error", err.Error()}
	case errors.Is(err, service.ErrInvalidCredentials):
		return outcome{http.StatusBadRequest, "invalid_credentials", "Invalid credentials"}
	case errors.Is(err, service.ErrMissingToken):
		return outcome{http.StatusForbidden, "missing_token", "No token provided"}
	case errors.Is(err, service.ErrInvalidToken):
		return outcome{http.StatusForbidden, "invalid_token", "Invalid token"}
	case errors.Is(err, service.ErrInvalidID):
		return outcome{http.StatusBadRequest, "invalid_id", "Invalid product ID format"}
	case errors.Is(err, service.ErrNotFound):
		return outcome{http.StatusNotFound, "not_found", "Product not found"}
	case errors.Is(err, service.ErrDuplicateUser):
		// kept at 500 for compatibility with existing clients
		return outcome{http.StatusInternalServerError, "duplicate_user", err.Error()}
	case errors.Is(err, service.ErrSnapshotsDisabled):
		return outcome{http.StatusServiceUnavailable, "snapshots_disabled", err.Error()}
	default:
		return outcome{http.StatusInternalServerError, "storage_error", err.Error()}
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.respond(c, classify(err), err)
}

func (h *Handler) respond(c *gin.Context, out outcome, err error) {
	if out.status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(out.status, errorResponse{Message: out.message, Code: out.code})
}
