package repository

import (
	"context"
	"errors"

	"ArsenalAura/internal/model"

	"gorm.io/gorm"
)

// BanterRepository 文本生成相关仓储（片段/球员/事实/预生成文案/生成历史）。
// 随机抽取不依赖数据库的random原语：仓储只返回候选集，由调用方用自己的随机源抽取。
type BanterRepository interface {
	// ListFragmentsByCategory 某分类的全部片段
	ListFragmentsByCategory(ctx context.Context, category string) ([]*model.Fragment, error)
	// FindPlayerByName 按姓名精确查找球员，未找到返回(nil, nil)
	FindPlayerByName(ctx context.Context, name string) (*model.Player, error)
	// ListPlayers 全部球员（按姓名排序，也供 /players 接口用）
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	// ListFacts 全部事实文本
	ListFacts(ctx context.Context) ([]*model.Fact, error)
	// ListLinesByIntensity 按强度（以及可选球员名）过滤预生成文案
	ListLinesByIntensity(ctx context.Context, intensity, playerName string) ([]*model.PreGeneratedLine, error)
	// RecentOutputs 用户最近limit条生成文本（新到旧）
	RecentOutputs(ctx context.Context, userID uint64, limit int) ([]string, error)
	// AppendHistory 追加一条生成历史
	AppendHistory(ctx context.Context, entry *model.GeneratorHistory) error
}

type banterRepository struct {
	db *gorm.DB
}

// NewBanterRepository 创建 BanterRepository 实例
func NewBanterRepository(db *gorm.DB) BanterRepository {
	return &banterRepository{db: db}
}

func (r *banterRepository) ListFragmentsByCategory(ctx context.Context, category string) ([]*model.Fragment, error) {
	var fragments []*model.Fragment
	if err := r.db.WithContext(ctx).Where("category = ?", category).Find(&fragments).Error; err != nil {
		return nil, err
	}
	return fragments, nil
}

func (r *banterRepository) FindPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	var player model.Player
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

func (r *banterRepository) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	var players []*model.Player
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *banterRepository) ListFacts(ctx context.Context) ([]*model.Fact, error) {
	var facts []*model.Fact
	if err := r.db.WithContext(ctx).Find(&facts).Error; err != nil {
		return nil, err
	}
	return facts, nil
}

func (r *banterRepository) ListLinesByIntensity(ctx context.Context, intensity, playerName string) ([]*model.PreGeneratedLine, error) {
	db := r.db.WithContext(ctx).Model(&model.PreGeneratedLine{}).Preload("Player").
		Where("intensity = ?", intensity)
	if playerName != "" {
		db = db.Joins("JOIN players ON players.id = pre_generated_lines.player_id").
			Where("players.name = ?", playerName)
	}
	var lines []*model.PreGeneratedLine
	if err := db.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *banterRepository) RecentOutputs(ctx context.Context, userID uint64, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	var outputs []string
	if err := r.db.WithContext(ctx).Model(&model.GeneratorHistory{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").Limit(limit).
		Pluck("output_text", &outputs).Error; err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r *banterRepository) AppendHistory(ctx context.Context, entry *model.GeneratorHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
