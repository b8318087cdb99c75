package interfaces

import "context"

// TeamInfo 上游队伍搜索结果
type TeamInfo struct {
	ID   int64  // 上游队伍ID
	Name string // 队伍名称
}

// FixtureQuery 赛程查询参数（零值字段不参与请求）
type FixtureQuery struct {
	Next   int    // 未来N场
	Status string // 赛事状态过滤（上游状态码，如NS）
	Season int    // 赛季年份
}

// FixtureRecord 上游赛程/赛果的统一原始记录
type FixtureRecord struct {
	ID          int64  // 上游比赛ID
	Date        string // 开球时间（RFC3339字符串，可能为空）
	Competition string // 赛事名称
	HomeTeam    string // 主队名称
	AwayTeam    string // 客队名称
	StatusCode  string // 上游状态码（未映射）
	HomeGoals   *int   // 主队进球（未结束可空）
	AwayGoals   *int   // 客队进球（未结束可空）
}

// FixtureAPI 赛程数据源必须实现的接口
type FixtureAPI interface {
	SearchTeams(ctx context.Context, name string) ([]TeamInfo, error)                       // 按名称搜索队伍
	ListFixtures(ctx context.Context, teamID int64, q FixtureQuery) ([]FixtureRecord, error) // 按参数组拉取队伍赛程
	GetFixture(ctx context.Context, matchID string) (*FixtureRecord, error)                 // 按ID拉取单场
}

// BadgeAPI 队徽数据源必须实现的接口
type BadgeAPI interface {
	SearchTeamBadge(ctx context.Context, teamName string) (string, error) // 按队名搜索队徽URL（无结果返回空串）
}
