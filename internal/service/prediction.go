package service

import (
	"context"
	"errors"
	"time"

	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"

	"github.com/sirupsen/logrus"
)

// 计分前置条件不满足（比赛未结束/比分缺失），不产生任何写入
var (
	ErrMatchNotFinished = errors.New("Match not finished yet")
	ErrScoreUnavailable = errors.New("Score not available")
)

// SubmitInput 提交预测的入参
type SubmitInput struct {
	MatchID       string    `json:"match_id" binding:"required"`
	Opponent      string    `json:"opponent" binding:"required"`
	ArsenalIsHome bool      `json:"arsenal_is_home"`
	Kickoff       time.Time `json:"kickoff" binding:"required"`
	PredictedHome int       `json:"predicted_home"`
	PredictedAway int       `json:"predicted_away"`
}

// CheckResult 计分结果（含展示文案）
type CheckResult struct {
	Prediction  *model.Prediction `json:"prediction"`
	Points      int               `json:"points"`
	Message     string            `json:"message"`
	ResultColor string            `json:"result_color"`
}

// PredictionService 预测计分状态机：Open（开球前可改）→ Locked（开球后/显式锁定）→ Scored（终态，仅一次）
type PredictionService struct {
	repo     repository.PredictionRepository
	fixtures *FixtureService
	logger   *logrus.Logger
}

// NewPredictionService 创建预测计分服务
func NewPredictionService(repo repository.PredictionRepository, fixtures *FixtureService, logger *logrus.Logger) *PredictionService {
	return &PredictionService{repo: repo, fixtures: fixtures, logger: logger}
}

// Submit 创建或更新预测（同一(user, match_id)只有一条"当前"预测）。
// 开球已过拒绝且不落库；锁定后拒绝编辑；预测比分负数按0计
func (s *PredictionService) Submit(ctx context.Context, userID uint64, in SubmitInput) (*model.Prediction, bool, error) {
	if !in.Kickoff.After(time.Now()) {
		return nil, false, repository.ErrKickoffPassed
	}
	p := &model.Prediction{
		UserID:        userID,
		MatchID:       in.MatchID,
		Opponent:      in.Opponent,
		ArsenalIsHome: in.ArsenalIsHome,
		Kickoff:       in.Kickoff,
		PredictedHome: max(0, in.PredictedHome),
		PredictedAway: max(0, in.PredictedAway),
	}
	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

// Latest 用户最近一条预测，可能为(nil, nil)
func (s *PredictionService) Latest(ctx context.Context, userID uint64) (*model.Prediction, error) {
	return s.repo.LatestByUser(ctx, userID)
}

// Check 用赛果给预测计分。比赛必须FINISHED且双边进球齐全；
// 已计分的预测不重复计分，直接返回既有结果
func (s *PredictionService) Check(ctx context.Context, userID, predictionID uint64) (*CheckResult, error) {
	p, err := s.repo.GetByIDForUser(ctx, predictionID, userID)
	if err != nil {
		return nil, err
	}

	// 开球已过即锁定（用户不可再编辑）
	if !p.Kickoff.After(time.Now()) && !p.Locked {
		if err := s.repo.MarkLocked(ctx, p.ID); err != nil {
			return nil, err
		}
		p.Locked = true
	}

	// 终态保护：只计分一次，重复check返回既有结果
	if p.CheckedAt != nil && p.ActualHome != nil && p.ActualAway != nil {
		exact, outcome := scoreAgainst(p, *p.ActualHome, *p.ActualAway)
		arsenalGoals, opponentGoals := orientGoals(p, *p.ActualHome, *p.ActualAway)
		return &CheckResult{
			Prediction:  p,
			Points:      p.Points,
			Message:     outcomeMessage(arsenalGoals, opponentGoals, exact, outcome),
			ResultColor: resultColor(p.Points),
		}, nil
	}

	result, err := s.fixtures.ResolveMatchResult(ctx, p.MatchID)
	if err != nil {
		return nil, err
	}
	if result.Status != StatusFinished {
		return nil, ErrMatchNotFinished
	}
	homeScore := result.Score.FullTime.Home
	awayScore := result.Score.FullTime.Away
	if homeScore == nil || awayScore == nil {
		return nil, ErrScoreUnavailable
	}

	now := time.Now()
	p.ActualHome = homeScore
	p.ActualAway = awayScore
	p.CheckedAt = &now

	exact, outcome := scoreAgainst(p, *homeScore, *awayScore)
	points := 0
	if exact {
		points = 3
	} else if outcome {
		points = 1
	}

	// 预测行与用户战绩在同一事务内落盘
	if _, err := s.repo.ApplyScore(ctx, p, points); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"match_id": p.MatchID,
		"points":   points,
	}).Info("预测计分完成")

	arsenalGoals, opponentGoals := orientGoals(p, *homeScore, *awayScore)
	return &CheckResult{
		Prediction:  p,
		Points:      points,
		Message:     outcomeMessage(arsenalGoals, opponentGoals, exact, outcome),
		ResultColor: resultColor(points),
	}, nil
}

// orientGoals 按主客旗标把主/客进球换算成阿森纳/对手进球
func orientGoals(p *model.Prediction, homeScore, awayScore int) (arsenal, opponent int) {
	if p.ArsenalIsHome {
		return homeScore, awayScore
	}
	return awayScore, homeScore
}

// scoreAgainst 判定精确比分与胜平负方向是否命中
func scoreAgainst(p *model.Prediction, homeScore, awayScore int) (exact, outcome bool) {
	arsenalGoals, opponentGoals := orientGoals(p, homeScore, awayScore)
	predictedArsenal := p.PredictedHome
	predictedOpponent := p.PredictedAway
	exact = arsenalGoals == predictedArsenal && opponentGoals == predictedOpponent
	outcome = (arsenalGoals > opponentGoals && predictedArsenal > predictedOpponent) ||
		(arsenalGoals == opponentGoals && predictedArsenal == predictedOpponent) ||
		(arsenalGoals < opponentGoals && predictedArsenal < predictedOpponent)
	return exact, outcome
}

// outcomeMessage 胜/平/负 × 精确/方向/全错 的固定文案矩阵（仅展示，不影响计分）
func outcomeMessage(arsenalGoals, opponentGoals int, exact, outcome bool) string {
	switch {
	case arsenalGoals > opponentGoals:
		if exact {
			return "Emirates prophet. You saw it all coming."
		}
		if outcome {
			return "Ball knowledge detected. You called the result."
		}
		return "Win secured, but the scoreline got away from you."
	case arsenalGoals == opponentGoals:
		if exact {
			return "You read the stalemate perfectly."
		}
		if outcome {
			return "Draw vibes felt. Solid call."
		}
		return "The draw came, but your numbers were bold."
	default:
		if exact {
			return "Unlucky exact call. You sensed the wrong way."
		}
		if outcome {
			return "You predicted the pain. Gooner resilience."
		}
		return "You jinxed it, gooner. We go again."
	}
}

func resultColor(points int) string {
	switch points {
	case 3:
		return "green"
	case 1:
		return "yellow"
	default:
		return "red"
	}
}
