package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body shape of every API response
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSONResponse sends data wrapped in an Envelope
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}

// JSONError sends err wrapped in an Envelope
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, Envelope{Status: status, Message: message, Error: err.Error()})
}
