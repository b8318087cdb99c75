package api

import (
	"net/http"
	"strings"

	"ArsenalAura/internal/middleware"
	"ArsenalAura/internal/repository"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ChatHandler 关键词聊天接口
type ChatHandler struct {
	chatService *service.ChatService
	logger      *logrus.Logger
}

// NewChatHandler 创建 ChatHandler
func NewChatHandler(db *gorm.DB, logger *logrus.Logger) *ChatHandler {
	repo := repository.NewChatRepository(db)
	return &ChatHandler{
		chatService: service.NewChatService(repo, logger),
		logger:      logger,
	}
}

// Chat 一问一答
// POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.chatService.Respond(c.Request.Context(), user.ID, req.Message)
	if err != nil {
		h.logger.WithError(err).Error("Chat failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
