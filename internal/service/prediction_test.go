package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ArsenalAura/internal/model"
	"ArsenalAura/internal/repository"

	"github.com/sirupsen/logrus"
)

// fakePredictionRepo 内存版预测仓储
type fakePredictionRepo struct {
	predictions map[uint64]*model.Prediction
	applyCalls  int
}

func (f *fakePredictionRepo) Upsert(_ context.Context, p *model.Prediction) (bool, error) {
	if f.predictions == nil {
		f.predictions = map[uint64]*model.Prediction{}
	}
	for _, existing := range f.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			if existing.Locked || !existing.Kickoff.After(time.Now()) {
				return false, repository.ErrPredictionLocked
			}
			p.ID = existing.ID
			f.predictions[p.ID] = p
			return false, nil
		}
	}
	p.ID = uint64(len(f.predictions) + 1)
	f.predictions[p.ID] = p
	return true, nil
}

func (f *fakePredictionRepo) GetByIDForUser(_ context.Context, id, userID uint64) (*model.Prediction, error) {
	p, ok := f.predictions[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrPredictionNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePredictionRepo) LatestByUser(_ context.Context, userID uint64) (*model.Prediction, error) {
	var latest *model.Prediction
	for _, p := range f.predictions {
		if p.UserID != userID {
			continue
		}
		if latest == nil || p.ID > latest.ID {
			latest = p
		}
	}
	return latest, nil
}

func (f *fakePredictionRepo) MarkLocked(_ context.Context, id uint64) error {
	if p, ok := f.predictions[id]; ok {
		p.Locked = true
	}
	return nil
}

func (f *fakePredictionRepo) ApplyScore(_ context.Context, p *model.Prediction, points int) (*model.UserStats, error) {
	f.applyCalls++
	p.Points = points
	p.Locked = true
	f.predictions[p.ID] = p
	return &model.UserStats{UserID: p.UserID, TotalPoints: points}, nil
}

func (f *fakePredictionRepo) EnsureStats(_ context.Context, _ uint64) error { return nil }

func (f *fakePredictionRepo) GetStats(_ context.Context, userID uint64) (*model.UserStats, error) {
	return &model.UserStats{UserID: userID}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func prediction(home bool, predHome, predAway int) *model.Prediction {
	return &model.Prediction{
		ArsenalIsHome: home,
		PredictedHome: predHome,
		PredictedAway: predAway,
	}
}

func TestScoreAgainstMatrix(t *testing.T) {
	cases := []struct {
		name              string
		predHome, predAway int
		actualHome, actualAway int
		wantExact, wantOutcome bool
	}{
		{"exact win", 2, 1, 2, 1, true, true},
		{"right outcome wrong score", 2, 1, 3, 0, false, true},
		{"all wrong", 2, 1, 0, 0, false, false},
		{"exact draw", 1, 1, 1, 1, true, true},
		{"predicted win got loss", 2, 0, 0, 1, false, false},
		{"predicted loss got loss", 0, 2, 1, 3, false, true},
	}
	for _, tc := range cases {
		p := prediction(true, tc.predHome, tc.predAway)
		exact, outcome := scoreAgainst(p, tc.actualHome, tc.actualAway)
		if exact != tc.wantExact || outcome != tc.wantOutcome {
			t.Fatalf("%s: exact=%v outcome=%v, want %v/%v", tc.name, exact, outcome, tc.wantExact, tc.wantOutcome)
		}
	}
}

func TestScoreAgainstAwayOrientation(t *testing.T) {
	// 阿森纳客场2-1取胜：上游主/客比分是1-2
	p := prediction(false, 2, 1)
	exact, outcome := scoreAgainst(p, 1, 2)
	if !exact || !outcome {
		t.Fatalf("away orientation broken: exact=%v outcome=%v", exact, outcome)
	}
}

func TestOrientGoals(t *testing.T) {
	arsenal, opponent := orientGoals(prediction(false, 0, 0), 3, 1)
	if arsenal != 1 || opponent != 3 {
		t.Fatalf("orientGoals away = %d/%d, want 1/3", arsenal, opponent)
	}
}

func TestResultColor(t *testing.T) {
	if resultColor(3) != "green" || resultColor(1) != "yellow" || resultColor(0) != "red" {
		t.Fatal("result color mapping broken")
	}
}

func TestOutcomeMessageSelection(t *testing.T) {
	if got := outcomeMessage(2, 1, true, true); got != "Emirates prophet. You saw it all coming." {
		t.Fatalf("exact win message = %q", got)
	}
	if got := outcomeMessage(1, 1, false, true); got != "Draw vibes felt. Solid call." {
		t.Fatalf("draw outcome message = %q", got)
	}
	if got := outcomeMessage(0, 2, false, false); got != "You jinxed it, gooner. We go again." {
		t.Fatalf("loss message = %q", got)
	}
}

func TestSubmitRejectsPastKickoff(t *testing.T) {
	repo := &fakePredictionRepo{}
	svc := NewPredictionService(repo, nil, quietLogger())

	_, _, err := svc.Submit(context.Background(), 1, SubmitInput{
		MatchID:  "10",
		Opponent: "Chelsea",
		Kickoff:  time.Now().Add(-time.Hour),
	})
	if !errors.Is(err, repository.ErrKickoffPassed) {
		t.Fatalf("expected ErrKickoffPassed, got %v", err)
	}
	if len(repo.predictions) != 0 {
		t.Fatal("rejected submission must not persist")
	}
}

func TestSubmitClampsNegativeScores(t *testing.T) {
	repo := &fakePredictionRepo{}
	svc := NewPredictionService(repo, nil, quietLogger())

	p, created, err := svc.Submit(context.Background(), 1, SubmitInput{
		MatchID:       "10",
		Opponent:      "Chelsea",
		Kickoff:       time.Now().Add(time.Hour),
		PredictedHome: -2,
		PredictedAway: 1,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !created {
		t.Fatal("expected new prediction")
	}
	if p.PredictedHome != 0 || p.PredictedAway != 1 {
		t.Fatalf("clamp broken: %d-%d", p.PredictedHome, p.PredictedAway)
	}
}

func TestSubmitUpdatesExistingPrediction(t *testing.T) {
	repo := &fakePredictionRepo{}
	svc := NewPredictionService(repo, nil, quietLogger())
	kickoff := time.Now().Add(2 * time.Hour)

	in := SubmitInput{MatchID: "10", Opponent: "Chelsea", Kickoff: kickoff, PredictedHome: 1, PredictedAway: 0}
	if _, created, err := svc.Submit(context.Background(), 1, in); err != nil || !created {
		t.Fatalf("first submit: created=%v err=%v", created, err)
	}
	in.PredictedHome = 3
	p, created, err := svc.Submit(context.Background(), 1, in)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatal("second submit must update, not create")
	}
	if len(repo.predictions) != 1 {
		t.Fatalf("expected single row, got %d", len(repo.predictions))
	}
	if p.PredictedHome != 3 {
		t.Fatalf("update lost: %d", p.PredictedHome)
	}
}

func TestCheckScoredPredictionIsTerminal(t *testing.T) {
	// 已计分的预测重复check：返回既有结果，不再回源也不再写战绩
	actualHome, actualAway := 2, 1
	checkedAt := time.Now().Add(-time.Hour)
	repo := &fakePredictionRepo{predictions: map[uint64]*model.Prediction{
		5: {
			ID: 5, UserID: 1, MatchID: "10", ArsenalIsHome: true,
			Kickoff:       time.Now().Add(-3 * time.Hour),
			PredictedHome: 2, PredictedAway: 1,
			ActualHome: &actualHome, ActualAway: &actualAway,
			CheckedAt: &checkedAt, Points: 3, Locked: true,
		},
	}}
	svc := NewPredictionService(repo, nil, quietLogger())

	result, err := svc.Check(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if result.Points != 3 {
		t.Fatalf("points = %d, want 3", result.Points)
	}
	if result.ResultColor != "green" {
		t.Fatalf("color = %q, want green", result.ResultColor)
	}
	if result.Message != "Emirates prophet. You saw it all coming." {
		t.Fatalf("message = %q", result.Message)
	}
	if repo.applyCalls != 0 {
		t.Fatalf("scored prediction re-scored %d times", repo.applyCalls)
	}
}

func TestCheckUnknownPrediction(t *testing.T) {
	svc := NewPredictionService(&fakePredictionRepo{}, nil, quietLogger())
	_, err := svc.Check(context.Background(), 1, 99)
	if !errors.Is(err, repository.ErrPredictionNotFound) {
		t.Fatalf("expected ErrPredictionNotFound, got %v", err)
	}
}
