package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ArsenalAura/internal/config"
	"ArsenalAura/internal/interfaces"
	"ArsenalAura/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 赛程数据源客户端（API-FOOTBALL风格REST接口）
type Client struct {
	cfg        *config.UpstreamConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建赛程数据源客户端
func NewClient(cfg *config.UpstreamConfig, logger *logrus.Logger) interfaces.FixtureAPI {
	return &Client{
		cfg: cfg,
		httpClient: httpclient.New(httpclient.Options{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Proxy:   cfg.Proxy,
		}, logger),
		logger: logger,
	}
}

// ========== 上游原始响应结构 ==========

type teamSearchResponse struct {
	Response []struct {
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
	} `json:"response"`
}

type fixturesResponse struct {
	Response []fixtureEntry `json:"response"`
}

type fixtureEntry struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// SearchTeams 按名称搜索队伍
func (c *Client) SearchTeams(ctx context.Context, name string) ([]interfaces.TeamInfo, error) {
	params := url.Values{}
	params.Set("search", name)
	var body teamSearchResponse
	if err := c.doGet(ctx, "/teams", params, &body); err != nil {
		return nil, err
	}
	teams := make([]interfaces.TeamInfo, 0, len(body.Response))
	for _, r := range body.Response {
		teams = append(teams, interfaces.TeamInfo{ID: r.Team.ID, Name: r.Team.Name})
	}
	c.logger.Infof("队伍搜索[%s]返回%d条", name, len(teams))
	return teams, nil
}

// ListFixtures 按参数组拉取队伍赛程（零值参数不下发）
func (c *Client) ListFixtures(ctx context.Context, teamID int64, q interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
	params := url.Values{}
	params.Set("team", strconv.FormatInt(teamID, 10))
	if q.Next > 0 {
		params.Set("next", strconv.Itoa(q.Next))
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Season > 0 {
		params.Set("season", strconv.Itoa(q.Season))
	}
	var body fixturesResponse
	if err := c.doGet(ctx, "/fixtures", params, &body); err != nil {
		return nil, err
	}
	records := make([]interfaces.FixtureRecord, 0, len(body.Response))
	for _, e := range body.Response {
		records = append(records, convertEntry(e))
	}
	return records, nil
}

// GetFixture 按比赛ID拉取单场（含比分）
func (c *Client) GetFixture(ctx context.Context, matchID string) (*interfaces.FixtureRecord, error) {
	params := url.Values{}
	params.Set("id", matchID)
	var body fixturesResponse
	if err := c.doGet(ctx, "/fixtures", params, &body); err != nil {
		return nil, err
	}
	if len(body.Response) == 0 {
		return nil, fmt.Errorf("比赛%s无数据", matchID)
	}
	record := convertEntry(body.Response[0])
	return &record, nil
}

// convertEntry 上游条目转统一记录
func convertEntry(e fixtureEntry) interfaces.FixtureRecord {
	return interfaces.FixtureRecord{
		ID:          e.Fixture.ID,
		Date:        e.Fixture.Date,
		Competition: e.League.Name,
		HomeTeam:    e.Teams.Home.Name,
		AwayTeam:    e.Teams.Away.Name,
		StatusCode:  e.Fixture.Status.Short,
		HomeGoals:   e.Goals.Home,
		AwayGoals:   e.Goals.Away,
	}
}

// doGet 发起GET请求并解码（带认证头；非2xx视为上游错误）
func (c *Client) doGet(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.cfg.AuthToken == "" {
		return fmt.Errorf("缺少API key")
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("x-apisports-key", c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求上游失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭上游响应体失败: %v", err)
		}
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("上游返回%d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析上游响应失败: %w", err)
	}
	return nil
}
