package api

import (
	"net/http"

	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 内容表为空时的内置兜底数据
var (
	defaultHonors = []model.Honor{
		{ID: 1, Title: "League Titles", Count: "13x", Subtitle: "Top-flight Champions"},
		{ID: 2, Title: "FA Cup Trophies", Count: "14x", Subtitle: "Record Winners"},
		{ID: 3, Title: "The Invincibles", Count: "2003/04", Subtitle: "Unbeaten League Season"},
	}
	defaultTimeline = []model.TimelineItem{
		{ID: 1, Title: "Woolwich Origins", Period: "1886", Description: "Founded in Woolwich and built from humble roots."},
		{ID: 2, Title: "Highbury Era", Period: "1913–2006", Description: "A historic home that shaped the club's identity."},
		{ID: 3, Title: "Emirates Stadium", Period: "2006–Present", Description: "Modern home with elite ambitions."},
		{ID: 4, Title: "Wenger Era", Period: "1996–2018", Description: "Style, trophies, and a global football legacy."},
		{ID: 5, Title: "Arteta Era", Period: "2019–Present", Description: "Control, youth, and a new Arsenal standard."},
	}
	defaultLinks = []model.InfoLink{
		{ID: 1, Title: "Arsenal Official Website", URL: "https://www.arsenal.com/"},
		{ID: 2, Title: "Arsenal on BBC Sport", URL: "https://www.bbc.com/sport/football/teams/arsenal"},
		{ID: 3, Title: "Arsenal on Sky Sports", URL: "https://www.skysports.com/arsenal"},
		{ID: 4, Title: "Arsenal Fixtures and Results", URL: "https://www.premierleague.com/clubs/1/Arsenal/fixtures"},
	}
)

// InfoHandler 俱乐部资讯接口（荣誉/时间线/链接）
type InfoHandler struct {
	repo   repository.InfoRepository
	logger *logrus.Logger
}

// NewInfoHandler 创建 InfoHandler
func NewInfoHandler(db *gorm.DB, logger *logrus.Logger) *InfoHandler {
	return &InfoHandler{repo: repository.NewInfoRepository(db), logger: logger}
}

// Honors 荣誉列表，表空时返回内置数据
// GET /api/info/honors
func (h *InfoHandler) Honors(c *gin.Context) {
	items, err := h.repo.ListHonors(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListHonors failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusOK, defaultHonors)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Timeline 历史时间线，表空时返回内置数据
// GET /api/info/timeline
func (h *InfoHandler) Timeline(c *gin.Context) {
	items, err := h.repo.ListTimeline(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListTimeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusOK, defaultTimeline)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Links 外部链接，表空时返回内置数据
// GET /api/info/links
func (h *InfoHandler) Links(c *gin.Context) {
	items, err := h.repo.ListLinks(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListLinks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusOK, defaultLinks)
		return
	}
	c.JSON(http.StatusOK, items)
}
