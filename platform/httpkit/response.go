// Package httpkit is the HTTP plumbing shared by every handler:
// response shapes, error-to-status mapping, caller identity and the
// middleware chain. No business logic lives here.
package httpkit

import (
	"net/http"

	"safari_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the single error payload shape clients see.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes payload with 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError writes the response for a service-layer error and
// reports whether there was one. Typed *apperr.Error values map
// through their Kind; anything untyped is treated as a bad request,
// so services must classify store and network failures before
// returning them.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
