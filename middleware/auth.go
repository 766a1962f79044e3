package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pinglab/pingboard/utils"
)

const (
	// ContextUserNoKey is the key used to store the authenticated user number in Gin context.
	ContextUserNoKey = "user_no"
	// ContextRoleKey stores the user role inside Gin context.
	ContextRoleKey = "user_role"
	// ContextGradeKey stores the user grade inside Gin context.
	ContextGradeKey = "user_grade"
)

// AuthRequired ensures the request carries a valid Bearer JWT. It rejects
// with 401 before any handler side effect.
func AuthRequired() gin.HandlerFunc {
	return authMiddleware(false)
}

// AuthRequiredWithCookie accepts a Bearer header first and falls back to a
// "token" cookie, for browser flows that keep the session in a cookie.
func AuthRequiredWithCookie() gin.HandlerFunc {
	return authMiddleware(true)
}

func authMiddleware(allowCookie bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, errMsg := bearerToken(ctx)
		if tokenString == "" && allowCookie {
			if c, err := ctx.Cookie("token"); err == nil && c != "" {
				tokenString, errMsg = c, ""
			}
		}
		if tokenString == "" {
			utils.Fail(ctx, http.StatusUnauthorized, errMsg)
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Fail(ctx, http.StatusUnauthorized, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserNoKey, claims.UserNo)
		ctx.Set(ContextRoleKey, claims.Role)
		ctx.Set(ContextGradeKey, claims.Grade)
		ctx.Next()
	}
}

// bearerToken extracts the token from the Authorization header. The second
// return value is the rejection message when no token was found.
func bearerToken(ctx *gin.Context) (string, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", "authorization header missing"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "empty bearer token"
	}
	return token, ""
}
