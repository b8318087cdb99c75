package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ArsenalAura/internal/repository"

	"github.com/sirupsen/logrus"
)

// ChatService 关键词应答：子串匹配，长关键词优先，取前2条拼接
type ChatService struct {
	repo   repository.ChatRepository
	logger *logrus.Logger
}

// NewChatService 创建聊天应答服务
func NewChatService(repo repository.ChatRepository, logger *logrus.Logger) *ChatService {
	return &ChatService{repo: repo, logger: logger}
}

// Respond 生成回复并落两条聊天记录（默认回复路径也落库）
func (s *ChatService) Respond(ctx context.Context, userID uint64, message string) (string, error) {
	items, err := s.repo.ListKeywordResponses(ctx)
	if err != nil {
		return "", fmt.Errorf("读取关键词表失败: %w", err)
	}

	lowered := strings.ToLower(message)
	type match struct {
		keyword  string
		response string
	}
	var matches []match
	for _, item := range items {
		if strings.Contains(lowered, strings.ToLower(item.Keyword)) {
			matches = append(matches, match{keyword: item.Keyword, response: item.Response})
		}
	}

	reply := DefaultLine
	if len(matches) > 0 {
		// 长关键词更具体，排前面
		sort.SliceStable(matches, func(i, j int) bool {
			return len(matches[i].keyword) > len(matches[j].keyword)
		})
		best := matches
		if len(best) > 2 {
			best = best[:2]
		}
		parts := make([]string, 0, len(best))
		for _, m := range best {
			parts = append(parts, m.response)
		}
		reply = strings.Join(parts, " ")
	}

	if err := s.repo.AppendTurn(ctx, userID, message, reply); err != nil {
		return "", fmt.Errorf("写入聊天记录失败: %w", err)
	}
	return reply, nil
}
