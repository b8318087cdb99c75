package model

import (
	"time"

	"gorm.io/datatypes"
)

// FixturesCache 外部体育数据缓存（追加写，不更新；同key最新到期行为当前值）
type FixturesCache struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	CacheKey  string         `gorm:"column:cache_key;type:varchar(120);index;not null;comment:缓存键"`
	MatchID   string         `gorm:"column:match_id;type:varchar(60);comment:关联比赛ID（可空）"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null;comment:缓存内容"`
	FetchedAt time.Time      `gorm:"column:fetched_at;type:timestamp;default:now();comment:抓取时间"`
	ExpiresAt time.Time      `gorm:"column:expires_at;type:timestamp;index;not null;comment:到期时间"`
}

func (FixturesCache) TableName() string { return "fixtures_cache" }
