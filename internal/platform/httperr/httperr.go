package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/logger"
)

const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_state_transition"
	CodeProtected         = "protection_violation"
	CodeUnauthenticated   = "unauthenticated"
	CodeUnauthorized      = "unauthorized"
	CodeConflict          = "conflict"
	CodeDegraded          = "external_service_degraded"
	CodeInternal          = "internal_error"
)

// Status maps an error of the taxonomy onto an HTTP status and a stable error code.
func Status(err error) (int, string) {
	switch apperr.KindOf(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest, CodeValidation
	case apperr.ErrNotFound:
		return http.StatusNotFound, CodeNotFound
	case apperr.ErrInvalidTransition:
		return http.StatusConflict, CodeInvalidTransition
	case apperr.ErrProtected:
		return http.StatusUnprocessableEntity, CodeProtected
	case apperr.ErrUnauthenticated:
		return http.StatusUnauthorized, CodeUnauthenticated
	case apperr.ErrUnauthorized:
		return http.StatusForbidden, CodeUnauthorized
	case apperr.ErrConflict:
		return http.StatusConflict, CodeConflict
	case apperr.ErrDegraded:
		return http.StatusServiceUnavailable, CodeDegraded
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// Respond writes the error envelope. Unclassified errors are logged and hidden behind fallback.
func Respond(c *gin.Context, err error, fallback string) {
	status, code := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(fallback, err)
		message = fallback
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

// BadRequest reports a malformed payload that failed gin binding.
func BadRequest(c *gin.Context, err error) {
	var msg string
	if err != nil {
		msg = "Invalid request payload: " + err.Error()
	} else {
		msg = "Invalid request payload"
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": CodeValidation, "message": msg})
}
