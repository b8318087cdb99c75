package api

import (
	"errors"
	"net/http"
	"strconv"

	"ArsenalAura/internal/middleware"
	"ArsenalAura/internal/repository"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PredictionHandler 比分预测接口
type PredictionHandler struct {
	predictionService *service.PredictionService
	logger            *logrus.Logger
}

// NewPredictionHandler 创建 PredictionHandler。fixtures实例与赛程handler共享
func NewPredictionHandler(db *gorm.DB, fixtures *service.FixtureService, logger *logrus.Logger) *PredictionHandler {
	repo := repository.NewPredictionRepository(db)
	return &PredictionHandler{
		predictionService: service.NewPredictionService(repo, fixtures, logger),
		logger:            logger,
	}
}

// Submit 创建或更新预测
// POST /api/predictions
func (h *PredictionHandler) Submit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	var in service.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	p, created, err := h.predictionService.Submit(c.Request.Context(), user.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrKickoffPassed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Kickoff has passed"})
		case errors.Is(err, repository.ErrPredictionLocked):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prediction is locked"})
		default:
			h.logger.WithError(err).Error("Submit prediction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"prediction": p})
}

// Latest 用户最近一条预测
// GET /api/predictions/latest
func (h *PredictionHandler) Latest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	p, err := h.predictionService.Latest(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.WithError(err).Error("Latest prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"prediction": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction": p})
}

// Check 对照赛果计分
// POST /api/predictions/:id/check
func (h *PredictionHandler) Check(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	result, err := h.predictionService.Check(c.Request.Context(), user.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPredictionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
		case errors.Is(err, service.ErrMatchNotFinished):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Match not finished yet"})
		case errors.Is(err, service.ErrScoreUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Score not available"})
		case errors.Is(err, service.ErrUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream error"})
		default:
			h.logger.WithError(err).Error("Check prediction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
