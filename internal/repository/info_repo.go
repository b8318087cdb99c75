package repository

import (
	"context"

	"ArsenalAura/internal/model"

	"gorm.io/gorm"
)

// InfoRepository 俱乐部资讯仓储（荣誉/时间线/链接）
type InfoRepository interface {
	ListHonors(ctx context.Context) ([]*model.Honor, error)
	ListTimeline(ctx context.Context) ([]*model.TimelineItem, error)
	ListLinks(ctx context.Context) ([]*model.InfoLink, error)
}

type infoRepository struct {
	db *gorm.DB
}

// NewInfoRepository 创建 InfoRepository 实例
func NewInfoRepository(db *gorm.DB) InfoRepository {
	return &infoRepository{db: db}
}

func (r *infoRepository) ListHonors(ctx context.Context) ([]*model.Honor, error) {
	var items []*model.Honor
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *infoRepository) ListTimeline(ctx context.Context) ([]*model.TimelineItem, error) {
	var items []*model.TimelineItem
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *infoRepository) ListLinks(ctx context.Context) ([]*model.InfoLink, error) {
	var items []*model.InfoLink
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
