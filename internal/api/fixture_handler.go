package api

import (
	"net/http"

	"ArsenalAura/internal/adapter/footballdata"
	"ArsenalAura/internal/adapter/sportsdb"
	"ArsenalAura/internal/config"
	"ArsenalAura/internal/repository"
	"ArsenalAura/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FixtureHandler 赛程查询接口
type FixtureHandler struct {
	fixtureService *service.FixtureService
	logger         *logrus.Logger
}

// NewFixtureHandler 创建 FixtureHandler（上游客户端按upstreams配置装配）
func NewFixtureHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *FixtureHandler {
	fdCfg := cfg.Upstreams["footballdata"]
	sdbCfg := cfg.Upstreams["sportsdb"]
	svc := service.NewFixtureService(
		repository.NewCacheRepository(db),
		footballdata.NewClient(&fdCfg, logger),
		sportsdb.NewClient(&sdbCfg, logger),
		cfg.Cache.TTLMinutes,
		fdCfg.TeamID,
		logger,
	)
	return &FixtureHandler{fixtureService: svc, logger: logger}
}

// Service 暴露赛程服务（预测handler复用同一实例，共享缓存语义）
func (h *FixtureHandler) Service() *service.FixtureService {
	return h.fixtureService
}

// NextFixture 下一场比赛
// GET /api/fixtures/next
// 解析失败不按5xx报错，返回 {unavailable: true, detail} 供前端降级展示
func (h *FixtureHandler) NextFixture(c *gin.Context) {
	summary, err := h.fixtureService.NextFixture(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Warn("NextFixture unavailable")
		c.JSON(http.StatusOK, gin.H{
			"unavailable": true,
			"detail":      err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}
