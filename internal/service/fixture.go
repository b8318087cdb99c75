package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ArsenalAura/internal/interfaces"
	"ArsenalAura/internal/repository"

	"github.com/sirupsen/logrus"
)

// 解析失败阶段（结构化错误，handler翻译为 {unavailable, detail}）
var (
	ErrNoTeamID           = errors.New("Could not find Arsenal team id")
	ErrNoScheduledMatches = errors.New("No scheduled matches found")
	ErrIncompleteMatch    = errors.New("Match data incomplete")
	ErrUpstream           = errors.New("Upstream error")
)

// 内部状态词汇表
const (
	StatusFinished  = "FINISHED"
	StatusScheduled = "SCHEDULED"
	StatusPostponed = "POSTPONED"
	StatusInPlay    = "IN_PLAY"
	StatusCancelled = "CANCELLED"
)

// 缓存键
const (
	cacheKeyTeamID    = "fd_team_id_arsenal"
	cacheKeyNextMatch = "arsenal_next_match"
)

// NextMatchPayload 下一场比赛的内部统一形态（也是缓存payload）
type NextMatchPayload struct {
	MatchID     string `json:"match_id"`
	UTCDate     string `json:"utcDate"`
	Competition string `json:"competition"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	Status      string `json:"status"`
}

// Complete 完整性闸门：四要素齐全才可信/可缓存
func (p *NextMatchPayload) Complete() bool {
	return p != nil && p.MatchID != "" && p.UTCDate != "" && p.HomeTeam != "" && p.AwayTeam != ""
}

// MatchResult 赛果的内部统一形态（也是缓存payload）
type MatchResult struct {
	Status string `json:"status"`
	Score  struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

// FixtureSummary /fixtures/next 的响应形态
type FixtureSummary struct {
	MatchID       string  `json:"match_id"`
	UTCDate       string  `json:"utcDate"`
	Competition   string  `json:"competition"`
	HomeTeam      string  `json:"homeTeam"`
	AwayTeam      string  `json:"awayTeam"`
	HomeBadge     *string `json:"homeBadge"`
	AwayBadge     *string `json:"awayBadge"`
	Status        string  `json:"status"`
	ArsenalIsHome bool    `json:"arsenal_is_home"`
	Opponent      string  `json:"opponent"`
	Stale         bool    `json:"stale"`
}

// FixtureService 赛程/赛果解析器：缓存优先，上游失败回退过期缓存，坏数据不进缓存
type FixtureService struct {
	cache          repository.CacheRepository
	fixtures       interfaces.FixtureAPI
	badges         interfaces.BadgeAPI
	ttlMinutes     int
	teamIDOverride int64
	logger         *logrus.Logger
}

// NewFixtureService 创建赛程解析服务
func NewFixtureService(
	cache repository.CacheRepository,
	fixtures interfaces.FixtureAPI,
	badges interfaces.BadgeAPI,
	ttlMinutes int,
	teamIDOverride int64,
	logger *logrus.Logger,
) *FixtureService {
	return &FixtureService{
		cache:          cache,
		fixtures:       fixtures,
		badges:         badges,
		ttlMinutes:     ttlMinutes,
		teamIDOverride: teamIDOverride,
		logger:         logger,
	}
}

// mapStatus 上游状态码映射到内部词汇；未识别原样透传
func mapStatus(code string) string {
	switch code {
	case "FT", "AET", "PEN":
		return StatusFinished
	case "NS", "TBD":
		return StatusScheduled
	case "PST":
		return StatusPostponed
	case "1H", "HT", "2H", "ET", "BT", "P", "INT", "LIVE":
		return StatusInPlay
	case "CANC", "ABD", "SUSP":
		return StatusCancelled
	default:
		return code
	}
}

// seasonYear 赛季年份：7月及以后算当年赛季，否则算上一年
func seasonYear(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}

// ResolveArsenalTeamID 解析阿森纳的上游队伍ID。
// 缓存优先；配置了静态覆盖则直接采用并写缓存；上游失败回退过期缓存；都没有返回ErrNoTeamID
func (s *FixtureService) ResolveArsenalTeamID(ctx context.Context) (int64, error) {
	if raw, err := s.cache.GetCached(ctx, cacheKeyTeamID, false); err == nil && raw != nil {
		if id := decodeTeamID(raw); id > 0 {
			return id, nil
		}
	}
	if s.teamIDOverride > 0 {
		s.cacheTeamID(ctx, s.teamIDOverride)
		return s.teamIDOverride, nil
	}

	teams, err := s.fixtures.SearchTeams(ctx, "Arsenal")
	if err != nil {
		s.logger.WithError(err).Warn("队伍搜索失败，尝试过期缓存")
		if raw, cerr := s.cache.GetCached(ctx, cacheKeyTeamID, true); cerr == nil && raw != nil {
			if id := decodeTeamID(raw); id > 0 {
				return id, nil
			}
		}
		return 0, ErrNoTeamID
	}
	for _, t := range teams {
		if t.Name == "Arsenal" || strings.Contains(t.Name, "Arsenal") {
			s.cacheTeamID(ctx, t.ID)
			return t.ID, nil
		}
	}
	return 0, ErrNoTeamID
}

func decodeTeamID(raw []byte) int64 {
	var payload struct {
		TeamID int64 `json:"team_id"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0
	}
	return payload.TeamID
}

func (s *FixtureService) cacheTeamID(ctx context.Context, id int64) {
	payload := map[string]int64{"team_id": id}
	if err := s.cache.SetCached(ctx, cacheKeyTeamID, payload, s.ttlMinutes, ""); err != nil {
		s.logger.WithError(err).Warn("写入队伍ID缓存失败")
	}
}

// ResolveNextMatch 解析下一场比赛。
// 新鲜且完整的缓存直接返回；否则走上游（参数组按优先级递进），
// 任一环节失败回退最近一条完整的过期缓存并标记stale=true；无缓存返回阶段错误。
func (s *FixtureService) ResolveNextMatch(ctx context.Context) (*NextMatchPayload, bool, error) {
	if cached := s.cachedNextMatch(ctx, false); cached != nil {
		return cached, false, nil
	}

	teamID, err := s.ResolveArsenalTeamID(ctx)
	if err != nil || teamID == 0 {
		if stale := s.cachedNextMatch(ctx, true); stale != nil {
			return stale, true, nil
		}
		return nil, false, ErrNoTeamID
	}

	// 上游"未来N场"有时返回空/不可靠，逐步收窄status/season过滤补救
	queries := []interfaces.FixtureQuery{
		{Next: 10},
		{Status: "NS"},
		{Status: "NS", Season: seasonYear(time.Now())},
	}
	var records []interfaces.FixtureRecord
	upstreamFailed := true
	for _, q := range queries {
		list, err := s.fixtures.ListFixtures(ctx, teamID, q)
		if err != nil {
			s.logger.WithError(err).WithField("query", fmt.Sprintf("%+v", q)).Warn("赛程拉取失败，尝试下一组参数")
			continue
		}
		upstreamFailed = false
		if len(list) > 0 {
			records = list
			break
		}
	}
	if len(records) == 0 {
		if stale := s.cachedNextMatch(ctx, true); stale != nil {
			return stale, true, nil
		}
		if upstreamFailed {
			return nil, false, ErrUpstream
		}
		return nil, false, ErrNoScheduledMatches
	}

	// 按开球时间升序（缺失按空串排最前），跳过字段残缺的记录
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
	var selected *interfaces.FixtureRecord
	for i := range records {
		r := &records[i]
		if r.ID != 0 && r.Date != "" && r.HomeTeam != "" && r.AwayTeam != "" {
			selected = r
			break
		}
	}
	if selected == nil {
		if stale := s.cachedNextMatch(ctx, true); stale != nil {
			return stale, true, nil
		}
		return nil, false, ErrIncompleteMatch
	}

	payload := &NextMatchPayload{
		MatchID:     strconv.FormatInt(selected.ID, 10),
		UTCDate:     selected.Date,
		Competition: selected.Competition,
		HomeTeam:    selected.HomeTeam,
		AwayTeam:    selected.AwayTeam,
		Status:      mapStatus(selected.StatusCode),
	}
	s.storeNextMatch(ctx, payload)
	return payload, false, nil
}

// cachedNextMatch 读下一场比赛缓存；不完整的payload视同未命中
func (s *FixtureService) cachedNextMatch(ctx context.Context, allowExpired bool) *NextMatchPayload {
	raw, err := s.cache.GetCached(ctx, cacheKeyNextMatch, allowExpired)
	if err != nil || raw == nil {
		return nil
	}
	var payload NextMatchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if !payload.Complete() {
		return nil
	}
	return &payload
}

// storeNextMatch 完整性闸门：残缺payload绝不入缓存
func (s *FixtureService) storeNextMatch(ctx context.Context, payload *NextMatchPayload) {
	if !payload.Complete() {
		s.logger.WithField("match_id", payload.MatchID).Warn("payload不完整，跳过缓存")
		return
	}
	if err := s.cache.SetCached(ctx, cacheKeyNextMatch, payload, s.ttlMinutes, payload.MatchID); err != nil {
		s.logger.WithError(err).Warn("写入下一场比赛缓存失败")
	}
}

// ResolveMatchResult 解析赛果。已完场的赛果不会再变，缓存后不限新鲜度直接复用；
// 未完场的结果只在新鲜期内可信，过期必须回源重查，否则比赛永远"未结束"。
func (s *FixtureService) ResolveMatchResult(ctx context.Context, matchID string) (*MatchResult, error) {
	cacheKey := "match_result_" + matchID
	if raw, err := s.cache.GetCached(ctx, cacheKey, true); err == nil && raw != nil {
		var result MatchResult
		if err := json.Unmarshal(raw, &result); err == nil && result.Status == StatusFinished {
			return &result, nil
		}
	}
	if raw, err := s.cache.GetCached(ctx, cacheKey, false); err == nil && raw != nil {
		var result MatchResult
		if err := json.Unmarshal(raw, &result); err == nil {
			return &result, nil
		}
	}

	record, err := s.fixtures.GetFixture(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	result := &MatchResult{Status: mapStatus(record.StatusCode)}
	result.Score.FullTime.Home = record.HomeGoals
	result.Score.FullTime.Away = record.AwayGoals
	if err := s.cache.SetCached(ctx, cacheKey, result, s.ttlMinutes, matchID); err != nil {
		s.logger.WithError(err).Warn("写入赛果缓存失败")
	}
	return result, nil
}

// TeamBadge 查队徽URL；任何失败都静默返回nil（队徽是装饰，不阻塞主流程）
func (s *FixtureService) TeamBadge(ctx context.Context, teamName string) *string {
	if teamName == "" {
		return nil
	}
	normalized := strings.TrimSpace(strings.ReplaceAll(teamName, " FC", ""))
	cacheKey := "badge_" + strings.ToLower(normalized)
	if raw, err := s.cache.GetCached(ctx, cacheKey, false); err == nil && raw != nil {
		var payload struct {
			Badge string `json:"badge"`
		}
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Badge != "" {
			return &payload.Badge
		}
	}

	badge, err := s.badges.SearchTeamBadge(ctx, normalized)
	if err != nil {
		s.logger.WithError(err).WithField("team", teamName).Debug("队徽查询失败")
		return nil
	}
	if badge == "" {
		return nil
	}
	if err := s.cache.SetCached(ctx, cacheKey, map[string]string{"badge": badge}, s.ttlMinutes, ""); err != nil {
		s.logger.WithError(err).Warn("写入队徽缓存失败")
	}
	return &badge
}

// NextFixture 组装 /fixtures/next 的完整响应（主客判定、对手推导、队徽）
func (s *FixtureService) NextFixture(ctx context.Context) (*FixtureSummary, error) {
	payload, stale, err := s.ResolveNextMatch(ctx)
	if err != nil {
		return nil, err
	}
	if !payload.Complete() {
		return nil, ErrIncompleteMatch
	}

	isArsenal := func(name string) bool { return strings.Contains(name, "Arsenal") }
	arsenalIsHome := isArsenal(payload.HomeTeam)
	opponent := payload.AwayTeam
	if !arsenalIsHome {
		opponent = payload.HomeTeam
	}
	if isArsenal(opponent) {
		return nil, ErrIncompleteMatch
	}

	return &FixtureSummary{
		MatchID:       payload.MatchID,
		UTCDate:       payload.UTCDate,
		Competition:   payload.Competition,
		HomeTeam:      payload.HomeTeam,
		AwayTeam:      payload.AwayTeam,
		HomeBadge:     s.TeamBadge(ctx, payload.HomeTeam),
		AwayBadge:     s.TeamBadge(ctx, payload.AwayTeam),
		Status:        payload.Status,
		ArsenalIsHome: arsenalIsHome,
		Opponent:      opponent,
		Stale:         stale,
	}, nil
}
