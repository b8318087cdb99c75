package sportsdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ArsenalAura/internal/config"
	"ArsenalAura/internal/interfaces"
	"ArsenalAura/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 队徽数据源客户端（TheSportsDB风格接口，key拼在路径里）
type Client struct {
	cfg        *config.UpstreamConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient 创建队徽数据源客户端
func NewClient(cfg *config.UpstreamConfig, logger *logrus.Logger) interfaces.BadgeAPI {
	return &Client{
		cfg: cfg,
		httpClient: httpclient.New(httpclient.Options{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Proxy:   cfg.Proxy,
		}, logger),
		logger: logger,
	}
}

type searchTeamsResponse struct {
	Teams []struct {
		Name  string `json:"strTeam"`
		Badge string `json:"strTeamBadge"`
	} `json:"teams"`
}

// SearchTeamBadge 按队名搜索队徽URL；无结果返回空串
func (c *Client) SearchTeamBadge(ctx context.Context, teamName string) (string, error) {
	if c.cfg.AuthToken == "" {
		return "", fmt.Errorf("缺少API key")
	}
	params := url.Values{}
	params.Set("t", teamName)
	reqURL := fmt.Sprintf("%s/%s/searchteams.php?%s", c.cfg.BaseURL, c.cfg.AuthToken, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("构建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求上游失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭上游响应体失败: %v", err)
		}
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("上游返回%d", resp.StatusCode)
	}

	var body searchTeamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("解析上游响应失败: %w", err)
	}
	if len(body.Teams) == 0 {
		return "", nil
	}
	return body.Teams[0].Badge, nil
}
