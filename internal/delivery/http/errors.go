package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylesphere/backend/internal/domain"
	"github.com/stylesphere/backend/internal/logging"
)

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnknownStore):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrNoWardrobeItems),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrModelFailure),
		errors.Is(err, domain.ErrMalformedModelResponse),
		domain.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"error": ...}. Internal errors are logged and
// replaced by a generic message.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
