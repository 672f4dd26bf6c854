package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API speaks the flat wire format the mobile clients already consume:
// success bodies are plain JSON payloads, failures are {"error": "..."}.

type errBody struct {
	Error string `json:"error"`
}

// BadRequest writes a 400 with an error message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errBody{Error: msg})
}

// Unauthorized writes a 401 with an error message.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, errBody{Error: msg})
}

// NotFound writes a bare 404; the data endpoints use it for missing rows.
func NotFound(c *gin.Context) {
	c.Status(http.StatusNotFound)
}

// Internal writes a 500 carrying diagnostic detail. Acceptable only outside
// production deployments; a hardening pass should strip the detail.
func Internal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, errBody{Error: err.Error()})
}

// OK writes an empty 200.
func OK(c *gin.Context) {
	c.Status(http.StatusOK)
}
