package api

import (
	"math/rand"
	"net/http"

	"ArsenalAura/internal/middleware"
	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BanterHandler 文本生成与素材查询接口
type BanterHandler struct {
	generator *service.GeneratorService
	repo      repository.BanterRepository
	logger    *logrus.Logger
}

// NewBanterHandler 创建 BanterHandler
func NewBanterHandler(db *gorm.DB, rng *rand.Rand, logger *logrus.Logger) *BanterHandler {
	repo := repository.NewBanterRepository(db)
	return &BanterHandler{
		generator: service.NewGeneratorService(repo, rng, logger),
		repo:      repo,
		logger:    logger,
	}
}

// ListPlayers 球员列表（按姓名升序）
// GET /api/players
func (h *BanterHandler) ListPlayers(c *gin.Context) {
	players, err := h.repo.ListPlayers(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListPlayers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	items := make([]gin.H, 0, len(players))
	for _, p := range players {
		items = append(items, gin.H{
			"id":        p.ID,
			"name":      p.Name,
			"position":  p.Position,
			"image_url": p.ImageURL,
		})
	}
	c.JSON(http.StatusOK, gin.H{"players": items})
}

// ListModes 可用模式与强度枚举
// GET /api/modes
func (h *BanterHandler) ListModes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"modes":       []string{model.ModePraise, model.ModeFact, model.ModeNostalgia},
		"intensities": []string{model.IntensityLow, model.IntensityMedium, model.IntensityHigh},
	})
}

// Generate 生成一条文本
// GET /api/generate?mode=praise&intensity=medium&player=Saka
func (h *BanterHandler) Generate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	mode := c.DefaultQuery("mode", model.ModePraise)
	intensity := c.DefaultQuery("intensity", model.IntensityMedium)
	playerName := c.Query("player")

	switch mode {
	case model.ModePraise, model.ModeFact, model.ModeNostalgia:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown mode"})
		return
	}
	switch intensity {
	case model.IntensityLow, model.IntensityMedium, model.IntensityHigh:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown intensity"})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), user.ID, mode, playerName, intensity)
	if err != nil {
		h.logger.WithError(err).Error("Generate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}
