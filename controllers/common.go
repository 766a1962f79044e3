package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/pinglab/pingboard/middleware"
)

// getUserNo reads the authenticated user number placed by the auth middleware.
func getUserNo(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserNoKey)
	if !exists {
		return 0, false
	}
	userNo, ok := v.(uint)
	return userNo, ok
}
