package model

import "time"

// 聊天消息角色
const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

// KeywordResponse 关键词应答表（静态查表）
type KeywordResponse struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Keyword  string `gorm:"column:keyword;type:varchar(80);uniqueIndex;not null;comment:关键词"`
	Response string `gorm:"column:response;type:text;not null;comment:应答文本"`
}

// ChatMessage 聊天记录（追加写，每轮两条：用户+机器人）
type ChatMessage struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID    uint64    `gorm:"column:user_id;type:bigint;index;not null;comment:用户ID"`
	Role      string    `gorm:"column:role;type:varchar(16);not null;comment:角色：user/bot"`
	Text      string    `gorm:"column:text;type:text;not null;comment:消息文本"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (KeywordResponse) TableName() string { return "keyword_responses" }
func (ChatMessage) TableName() string     { return "chat_messages" }
