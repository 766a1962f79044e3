package utils

import "github.com/gin-gonic/gin"

// Fail writes the uniform error body used across the API. Clients only ever
// see a message and the HTTP status; storage error detail stays in the logs.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}

// OK writes a 200 response with the given payload as-is.
func OK(ctx *gin.Context, payload interface{}) {
	ctx.JSON(200, payload)
}
