package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"ArsenalAura/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 预测相关领域错误（handler据此映射HTTP状态码）
var (
	ErrPredictionLocked   = errors.New("prediction is locked")
	ErrKickoffPassed      = errors.New("kickoff already passed")
	ErrPredictionNotFound = errors.New("prediction not found")
)

// PredictionRepository 预测与用户战绩仓储。
// 同一(user, match_id)的创建或更新必须在一个事务内完成（行锁+唯一索引），防止并发双提交丢更新。
type PredictionRepository interface {
	// Upsert 开球前创建或更新预测；锁定/已开球返回领域错误。返回值标记是否新建
	Upsert(ctx context.Context, p *model.Prediction) (created bool, err error)
	// GetByIDForUser 按ID+用户查预测，未找到返回ErrPredictionNotFound
	GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Prediction, error)
	// LatestByUser 用户最近一条预测，可能为(nil, nil)
	LatestByUser(ctx context.Context, userID uint64) (*model.Prediction, error)
	// MarkLocked 将预测标记为锁定
	MarkLocked(ctx context.Context, id uint64) error
	// ApplyScore 原子落盘计分结果：预测行（实际比分/得分/锁定/计分时间）与用户战绩在同一事务
	ApplyScore(ctx context.Context, p *model.Prediction, points int) (*model.UserStats, error)
	// EnsureStats 确保用户战绩行存在
	EnsureStats(ctx context.Context, userID uint64) error
	// GetStats 读取用户战绩
	GetStats(ctx context.Context, userID uint64) (*model.UserStats, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository 创建 PredictionRepository 实例
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Upsert(ctx context.Context, p *model.Prediction) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Prediction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND match_id = ?", p.UserID, p.MatchID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Locked || !existing.Kickoff.After(time.Now()) {
				return ErrPredictionLocked
			}
			existing.Opponent = p.Opponent
			existing.ArsenalIsHome = p.ArsenalIsHome
			existing.Kickoff = p.Kickoff
			existing.PredictedHome = p.PredictedHome
			existing.PredictedAway = p.PredictedAway
			existing.UpdatedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*p = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(p).Error
		default:
			return err
		}
	})
	return created, err
}

func (r *predictionRepository) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Prediction, error) {
	var p model.Prediction
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *predictionRepository) LatestByUser(ctx context.Context, userID uint64) (*model.Prediction, error) {
	var p model.Prediction
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *predictionRepository) MarkLocked(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&model.Prediction{}).
		Where("id = ?", id).Update("locked", true).Error
}

func (r *predictionRepository) ApplyScore(ctx context.Context, p *model.Prediction, points int) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p.Points = points
		p.Locked = true
		if err := tx.Save(p).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", p.UserID).First(&stats).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			stats = model.UserStats{UserID: p.UserID}
		}
		applyPoints(&stats, points)
		stats.UpdatedAt = time.Now()
		return tx.Save(&stats).Error
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// applyPoints 把一次计分并入战绩：命中加连胜，脱靶清零，准确率保留两位小数
func applyPoints(stats *model.UserStats, points int) {
	stats.TotalPredictions++
	if points > 0 {
		stats.CorrectPredictions++
		stats.Streak++
	} else {
		stats.Streak = 0
	}
	stats.TotalPoints += points
	stats.Accuracy = math.Round(float64(stats.CorrectPredictions)/float64(stats.TotalPredictions)*100*100) / 100
}

func (r *predictionRepository) EnsureStats(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.UserStats{UserID: userID}).Error
}

func (r *predictionRepository) GetStats(ctx context.Context, userID uint64) (*model.UserStats, error) {
	var stats model.UserStats
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
