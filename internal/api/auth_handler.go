package api

import (
	"errors"
	"net/http"

	"ArsenalAura/internal/config"
	"ArsenalAura/internal/middleware"
	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// refresh token走httpOnly cookie，access token走响应体
const refreshCookieName = "refresh_token"

// AuthHandler 注册/登录/刷新/管理员引导/个人资料接口
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.AuthConfig
	logger      *logrus.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	repo := repository.NewUserRepository(db)
	return &AuthHandler{
		authService: service.NewAuthService(repo, &cfg.Auth, logger),
		cfg:         &cfg.Auth,
		logger:      logger,
	}
}

// Service 暴露认证服务（中间件装配用）
func (h *AuthHandler) Service() *service.AuthService {
	return h.authService
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.RefreshTokenTTL.Seconds())
	if maxAge <= 0 {
		maxAge = 7 * 24 * 3600
	}
	c.SetCookie(refreshCookieName, token, maxAge, "/api/auth", "", h.cfg.SecureCookie, true)
}

func userView(u *model.User) gin.H {
	return gin.H{
		"id":            u.ID,
		"email":         u.Email,
		"favorite_club": u.FavoriteClub,
		"banter_mode":   u.BanterMode,
		"is_admin":      u.IsAdmin,
	}
}

// Register 注册接口
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		FavoriteClub string `json:"favorite_club" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, pair, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.FavoriteClub)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		case errors.Is(err, repository.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			h.logger.WithError(err).Error("Register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	c.JSON(http.StatusCreated, gin.H{
		"user":         userView(user),
		"access_token": pair.Access,
	})
}

// Login 登录接口
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger.WithError(err).Error("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.setRefreshCookie(c, pair.Refresh)
	c.JSON(http.StatusOK, gin.H{
		"user":         userView(user),
		"access_token": pair.Access,
	})
}

// Refresh 刷新access token。优先读cookie，兼容body传参
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
		return
	}

	access, err := h.authService.Refresh(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

// Bootstrap 管理员引导接口（口令不匹配一律403）
// POST /api/auth/bootstrap
func (h *AuthHandler) Bootstrap(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.authService.BootstrapAdmin(c.Request.Context(), req.Token, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		default:
			h.logger.WithError(err).Error("Bootstrap failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// Me 当前用户资料
// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// UpdateMe 修改主队，banter模式随之重算
// PATCH /api/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	var req struct {
		FavoriteClub string `json:"favorite_club" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.authService.UpdateFavoriteClub(c.Request.Context(), user, req.FavoriteClub); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club"})
			return
		}
		h.logger.WithError(err).Error("UpdateMe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}
