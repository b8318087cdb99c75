package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ArsenalAura/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CacheRepository 外部体育数据缓存仓储。
// 写入只追加不更新，同一cache_key的"当前值"取expires_at最大的一行。
type CacheRepository interface {
	// GetCached 读取key的最新缓存；allowExpired=false时只认未到期行。未命中返回(nil, nil)
	GetCached(ctx context.Context, cacheKey string, allowExpired bool) (datatypes.JSON, error)
	// SetCached 追加一条缓存行，expires_at = now + ttl
	SetCached(ctx context.Context, cacheKey string, payload interface{}, ttlMinutes int, matchID string) error
}

type cacheRepository struct {
	db *gorm.DB
}

// NewCacheRepository 创建 CacheRepository 实例
func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) GetCached(ctx context.Context, cacheKey string, allowExpired bool) (datatypes.JSON, error) {
	db := r.db.WithContext(ctx).Model(&model.FixturesCache{}).Where("cache_key = ?", cacheKey)
	if !allowExpired {
		db = db.Where("expires_at > ?", time.Now())
	}
	var row model.FixturesCache
	if err := db.Order("expires_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.Payload, nil
}

func (r *cacheRepository) SetCached(ctx context.Context, cacheKey string, payload interface{}, ttlMinutes int, matchID string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化缓存内容失败: %w", err)
	}
	row := &model.FixturesCache{
		CacheKey:  cacheKey,
		MatchID:   matchID,
		Payload:   raw,
		FetchedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Duration(ttlMinutes) * time.Minute),
	}
	return r.db.WithContext(ctx).Create(row).Error
}
