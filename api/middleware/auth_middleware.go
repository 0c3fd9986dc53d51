package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anoixa/media-studio/api/common"
	"github.com/anoixa/media-studio/internal/auth"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// JWTAuth Bearer token 鉴权中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取 Authorization 头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondError(c, http.StatusUnauthorized, "No Authorization request header")
			c.Abort()
			return
		}

		// 解析 Scheme 和 Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespondError(c, http.StatusUnauthorized, "Authorization field format error")
			c.Abort()
			return
		}

		if err := handleJwtAuth(c, parts[1]); err != nil {
			common.RespondError(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		c.Next()
	}
}

func handleJwtAuth(c *gin.Context, token string) error {
	claims, err := auth.Parse(token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	userIDValue, ok := claims["user_id"]
	if !ok {
		return errors.New("user_id not found in token claims")
	}
	userID, ok := userIDValue.(float64)
	if !ok {
		return errors.New("user_id in token is not a valid number")
	}

	usernameValue, ok := claims["username"]
	if !ok {
		return errors.New("username not found in token claims")
	}
	username, ok := usernameValue.(string)
	if !ok {
		return errors.New("username in token is not a valid string")
	}

	//将用户信息存入上下文
	c.Set(ContextUserIDKey, uint(userID))
	c.Set(ContextUsernameKey, username)

	return nil
}

// CurrentUserID 从上下文取当前用户 ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
