// Package respond implements the uniform JSON envelope every endpoint
// returns: {success, message?, data?, user?}. Clients depend on this shape.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	User    any    `json:"user,omitempty"`
}

// Data writes a 200 success envelope carrying a payload.
func Data(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// DataMessage writes a 200 success envelope with a message and payload.
func DataMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Message writes a 200 success envelope with only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// User writes a 200 success envelope carrying the authenticated identity.
func User(c *gin.Context, message string, user any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, User: user})
}

// Error writes a failure envelope with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// AbortError writes a failure envelope and stops the handler chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
