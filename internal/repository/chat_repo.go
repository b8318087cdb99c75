package repository

import (
	"context"

	"ArsenalAura/internal/model"

	"gorm.io/gorm"
)

// ChatRepository 关键词应答与聊天记录仓储
type ChatRepository interface {
	// ListKeywordResponses 全部关键词应答
	ListKeywordResponses(ctx context.Context) ([]*model.KeywordResponse, error)
	// AppendTurn 一轮对话落两条记录（用户+机器人），同一事务
	AppendTurn(ctx context.Context, userID uint64, userText, botText string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建 ChatRepository 实例
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) ListKeywordResponses(ctx context.Context) ([]*model.KeywordResponse, error) {
	var items []*model.KeywordResponse
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *chatRepository) AppendTurn(ctx context.Context, userID uint64, userText, botText string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.ChatMessage{UserID: userID, Role: model.ChatRoleUser, Text: userText}).Error; err != nil {
			return err
		}
		return tx.Create(&model.ChatMessage{UserID: userID, Role: model.ChatRoleBot, Text: botText}).Error
	})
}
