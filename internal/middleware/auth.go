package middleware

import (
	"net/http"
	"strings"

	"ArsenalAura/internal/model"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
)

// 上下文键
const contextUserKey = "currentUser"

// banterGateMessage 死忠对头球迷的拦截文案
const banterGateMessage = "Banter Gate: switch your club to Arsenal to access this feature."

// RequireAuth Bearer token鉴权：校验access token并把用户挂到上下文
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}
		userID, err := auth.ParseToken(token, "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		user, err := auth.LoadUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser 从上下文取当前用户（RequireAuth之后才有）
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// BanterGate 对头俱乐部（热刺/切尔西）球迷禁用banter功能
func BanterGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}
		if user.BanterMode {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": banterGateMessage})
			return
		}
		c.Next()
	}
}
