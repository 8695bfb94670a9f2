package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"rideshare-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Отсутствует токен авторизации"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Неверный формат токена"})
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil {
			slog.Debug("недействительный токен", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			return
		}

		// У админа user_id = 0
		if claims.Role == utils.RoleAdmin {
			c.Set(ContextUserID, uint(0))
			c.Set(ContextRole, utils.RoleAdmin)
			c.Next()
			return
		}

		if claims.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный ID пользователя"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin ставится после JWTAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != utils.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Доступ только для администратора", "kind": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireUser отсекает служебные токены от пользовательских операций
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetUint(ContextUserID) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Операция доступна только пользователю", "kind": "forbidden"})
			return
		}
		c.Next()
	}
}
