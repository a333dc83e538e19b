package stubapi

import "github.com/gin-gonic/gin"

// envelope is the uniform response shape every endpoint returns. Failures
// keep a 2xx-compatible body with isSuccess=false so clients handle them as
// recoverable, user-visible conditions.
type envelope struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{IsSuccess: true, Message: "success", Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{IsSuccess: false, Message: message})
}
