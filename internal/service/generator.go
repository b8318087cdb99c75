package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultLine 无素材时的兜底文案（fact模式兜底与聊天默认回复共用）
const DefaultLine = "Arsenal is the best club."

// 生成参数边界
const (
	recentWindow = 20 // 防重复窗口：最近N条输出
	maxAttempts  = 10 // 防重复重试上限，超出后强制接受
)

// emojiDenylist 清洗时剔除的emoji字形（固定名单）
var emojiDenylist = []string{
	"🔴", "⚪", "🔥", "💫", "🎯", "🧠", "⚡", "🛡️", "🚀",
	"🏟️", "🌟", "👑", "💥", "🧩", "🔁", "🫶", "🏆",
}

// CleanText 剔除名单内emoji并压缩空白
func CleanText(text string) string {
	cleaned := text
	for _, ch := range emojiDenylist {
		cleaned = strings.ReplaceAll(cleaned, ch, "")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}

// GeneratorService 防重复文本生成器（片段组装，近期窗口内重复则换一条重试）
type GeneratorService struct {
	repo   repository.BanterRepository
	logger *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGeneratorService 创建生成器。rng由调用方注入（测试注入固定种子）
func NewGeneratorService(repo repository.BanterRepository, rng *rand.Rand, logger *logrus.Logger) *GeneratorService {
	return &GeneratorService{repo: repo, rng: rng, logger: logger}
}

// intn 并发安全的[0,n)随机数
func (s *GeneratorService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// PickFragment 按权重从分类里抽一条片段；分类为空返回空串
func (s *GeneratorService) PickFragment(ctx context.Context, category string) (string, error) {
	fragments, err := s.repo.ListFragmentsByCategory(ctx, category)
	if err != nil {
		return "", fmt.Errorf("读取片段[%s]失败: %w", category, err)
	}
	if len(fragments) == 0 {
		return "", nil
	}
	// 累计权重数组 + 均匀抽样（权重<1按1计）
	cumulative := make([]int, len(fragments))
	total := 0
	for i, f := range fragments {
		w := f.Weight
		if w < 1 {
			w = 1
		}
		total += w
		cumulative[i] = total
	}
	draw := s.intn(total)
	for i, c := range cumulative {
		if draw < c {
			return fragments[i].Text, nil
		}
	}
	return fragments[len(fragments)-1].Text, nil
}

// pickPlayer 指定姓名优先，否则均匀随机；无球员返回nil
func (s *GeneratorService) pickPlayer(ctx context.Context, playerName string) (*model.Player, error) {
	if playerName != "" {
		player, err := s.repo.FindPlayerByName(ctx, playerName)
		if err != nil {
			return nil, err
		}
		if player != nil {
			return player, nil
		}
	}
	players, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}
	return players[s.intn(len(players))], nil
}

// AssemblePraise 按强度组装一条夸赞文案。
// forceNostalgia=true且nostalgia片段非空时覆盖为怀旧句式；片段抽空时静默降级，不重抽。
func (s *GeneratorService) AssemblePraise(ctx context.Context, playerName, intensity string, forceNostalgia bool) (string, *model.Player, error) {
	player, err := s.pickPlayer(ctx, playerName)
	if err != nil {
		return "", nil, err
	}
	name := "Arsenal"
	if player != nil {
		name = player.Name
	}

	opener, err := s.PickFragment(ctx, model.FragmentOpener)
	if err != nil {
		return "", nil, err
	}
	praise, err := s.PickFragment(ctx, model.FragmentPraise)
	if err != nil {
		return "", nil, err
	}
	tactical, err := s.PickFragment(ctx, model.FragmentTactical)
	if err != nil {
		return "", nil, err
	}
	nostalgia, err := s.PickFragment(ctx, model.FragmentNostalgia)
	if err != nil {
		return "", nil, err
	}
	closer, err := s.PickFragment(ctx, model.FragmentCloser)
	if err != nil {
		return "", nil, err
	}
	emoji, err := s.PickFragment(ctx, model.FragmentEmoji)
	if err != nil {
		return "", nil, err
	}

	var text string
	switch intensity {
	case model.IntensityLow:
		text = fmt.Sprintf("%s %s %s. %s", opener, name, praise, closer)
	case model.IntensityMedium:
		text = fmt.Sprintf("%s %s %s. %s %s %s", opener, name, praise, tactical, closer, emoji)
	default:
		text = fmt.Sprintf("%s %s %s. %s %s %s %s", opener, name, praise, tactical, nostalgia, closer, emoji)
	}
	if forceNostalgia && nostalgia != "" {
		text = fmt.Sprintf("%s %s %s. %s %s %s", opener, name, praise, nostalgia, closer, emoji)
	}
	return CleanText(strings.TrimSpace(text)), player, nil
}

// Generate 生成一条输出并追加一条历史（含强制接受兜底）。
// 近20条内重复则重试，最多10次；第10次仍撞车就接受重复结果，保证必然返回。
func (s *GeneratorService) Generate(ctx context.Context, userID uint64, mode, playerName, intensity string) (string, error) {
	recent, err := s.repo.RecentOutputs(ctx, userID, recentWindow)
	if err != nil {
		return "", fmt.Errorf("读取生成历史失败: %w", err)
	}
	recentSet := make(map[string]struct{}, len(recent))
	for _, r := range recent {
		recentSet[r] = struct{}{}
	}

	var text string
	var player *model.Player
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		player = nil
		switch mode {
		case model.ModeFact:
			facts, err := s.repo.ListFacts(ctx)
			if err != nil {
				return "", fmt.Errorf("读取事实列表失败: %w", err)
			}
			if len(facts) == 0 {
				text = DefaultLine
			} else {
				text = facts[s.intn(len(facts))].Text
			}
		case model.ModeNostalgia:
			text, player, err = s.AssemblePraise(ctx, playerName, intensity, true)
			if err != nil {
				return "", err
			}
		default: // praise：预生成文案优先，抽不到再现场组装
			lines, err := s.repo.ListLinesByIntensity(ctx, intensity, playerName)
			if err != nil {
				return "", fmt.Errorf("读取预生成文案失败: %w", err)
			}
			if len(lines) > 0 {
				line := lines[s.intn(len(lines))]
				text = line.Text
				player = line.Player
			} else {
				text, player, err = s.AssemblePraise(ctx, playerName, intensity, false)
				if err != nil {
					return "", err
				}
			}
		}
		text = CleanText(text)
		if _, seen := recentSet[text]; !seen {
			break
		}
		if attempt == maxAttempts {
			s.logger.WithField("user_id", userID).Warn("防重复重试耗尽，强制接受重复输出")
		}
	}

	entry := &model.GeneratorHistory{
		UserID:     userID,
		OutputText: text,
		Mode:       mode,
	}
	if player != nil {
		entry.PlayerID = &player.ID
	}
	if err := s.repo.AppendHistory(ctx, entry); err != nil {
		return "", fmt.Errorf("写入生成历史失败: %w", err)
	}
	return text, nil
}
