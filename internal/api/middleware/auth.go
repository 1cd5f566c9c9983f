package middleware

import (
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/redis"
	"InstaGraph/internal/pkg/response"
	"InstaGraph/internal/pkg/security"
	"InstaGraph/internal/repository"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenValidator 由 security.JWTManager 实现
type TokenValidator interface {
	ValidateToken(tokenString string) (*security.UserClaims, error)
}

// AuthMiddleware 校验 JWT、黑名单与用户是否存在，并将 user_id 注入 Context
func AuthMiddleware(tokens TokenValidator, userRepo repository.UserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			response.Fail(c, http.StatusUnauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		value, err := redis.GetValue(ctx, consts.TokenBlacklistKey+signature)
		if err != nil {
			log.ErrorContext(ctx, "读取 Token 黑名单失败", "err", err)
			response.Fail(c, http.StatusInternalServerError, "未知错误")
			c.Abort()
			return
		}
		if value != "" {
			response.Fail(c, http.StatusUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		user, err := userRepo.GetUserById(ctx, claims.UserID)
		if err != nil {
			log.ErrorContext(ctx, "查询用户失败", "user_id", claims.UserID, "err", err)
			response.Fail(c, http.StatusInternalServerError, "未知错误")
			c.Abort()
			return
		}
		if user == nil {
			response.Fail(c, http.StatusUnauthorized, "用户不存在")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

// BearerToken 从 Authorization 头中取出 Token
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
