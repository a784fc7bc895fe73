package util

import (
	"github.com/gin-gonic/gin"
)

// Response is an ad hoc JSON object.
type Response map[string]interface{}

// Business error codes carried next to the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// JSON writes data as the response body unchanged.
func JSON(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, data)
}

// Error writes the uniform error body {code, message}.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, httpStatus int, code int, msg string) {
	Error(c, httpStatus, code, msg)
	c.Abort()
}
