package httpx

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error writes err as JSON and aborts the chain. Causes of 5xx errors are
// logged and never sent to the client.
func Error(c *gin.Context, err error) {
	e := apperr.From(err)
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		log.Printf("[http] rid=%s %s %s error=%v", RequestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Error: ErrorDetail{Code: e.ResponseCode(), Message: e.Message, Details: e.Details},
	})
}

// BindJSON decodes the body into dst, writing a validation error on failure.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Error(c, apperr.Validation("invalid json body").WithDetails(err.Error()))
		return false
	}
	return true
}

// NotFound answers unknown routes in the common error shape.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		Error(c, apperr.NotFound("route not found"))
	}
}
