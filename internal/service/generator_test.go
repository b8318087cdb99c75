package service

import (
	"context"
	"math/rand"
	"testing"

	"ArsenalAura/internal/model"

	"github.com/sirupsen/logrus"
)

// fakeBanterRepo 内存版素材仓储
type fakeBanterRepo struct {
	fragments map[string][]*model.Fragment
	players   []*model.Player
	facts     []*model.Fact
	lines     []*model.PreGeneratedLine
	history   []*model.GeneratorHistory
}

func (f *fakeBanterRepo) ListFragmentsByCategory(_ context.Context, category string) ([]*model.Fragment, error) {
	return f.fragments[category], nil
}

func (f *fakeBanterRepo) FindPlayerByName(_ context.Context, name string) (*model.Player, error) {
	for _, p := range f.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeBanterRepo) ListPlayers(_ context.Context) ([]*model.Player, error) {
	return f.players, nil
}

func (f *fakeBanterRepo) ListFacts(_ context.Context) ([]*model.Fact, error) {
	return f.facts, nil
}

func (f *fakeBanterRepo) ListLinesByIntensity(_ context.Context, intensity, playerName string) ([]*model.PreGeneratedLine, error) {
	var out []*model.PreGeneratedLine
	for _, l := range f.lines {
		if l.Intensity != intensity {
			continue
		}
		if playerName != "" && (l.Player == nil || l.Player.Name != playerName) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeBanterRepo) RecentOutputs(_ context.Context, userID uint64, limit int) ([]string, error) {
	var out []string
	for i := len(f.history) - 1; i >= 0 && len(out) < limit; i-- {
		if f.history[i].UserID == userID {
			out = append(out, f.history[i].OutputText)
		}
	}
	return out, nil
}

func (f *fakeBanterRepo) AppendHistory(_ context.Context, entry *model.GeneratorHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func newTestGenerator(repo *fakeBanterRepo) *GeneratorService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewGeneratorService(repo, rand.New(rand.NewSource(1)), logger)
}

func TestCleanText(t *testing.T) {
	got := CleanText("Pure class:  Saka 🔥  is electric.  🏆")
	want := "Pure class: Saka is electric."
	if got != want {
		t.Fatalf("CleanText = %q, want %q", got, want)
	}
}

func TestPickFragmentEmptyCategory(t *testing.T) {
	svc := newTestGenerator(&fakeBanterRepo{fragments: map[string][]*model.Fragment{}})
	got, err := svc.PickFragment(context.Background(), model.FragmentOpener)
	if err != nil {
		t.Fatalf("PickFragment: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty fragment, got %q", got)
	}
}

func TestPickFragmentWeighted(t *testing.T) {
	repo := &fakeBanterRepo{fragments: map[string][]*model.Fragment{
		model.FragmentOpener: {
			{Text: "heavy", Weight: 9},
			{Text: "light", Weight: 1},
		},
	}}
	svc := newTestGenerator(repo)

	counts := map[string]int{}
	for i := 0; i < 500; i++ {
		text, err := svc.PickFragment(context.Background(), model.FragmentOpener)
		if err != nil {
			t.Fatalf("PickFragment: %v", err)
		}
		counts[text]++
	}
	if counts["heavy"] <= counts["light"] {
		t.Fatalf("weighted pick broken: heavy=%d light=%d", counts["heavy"], counts["light"])
	}
	if counts["heavy"]+counts["light"] != 500 {
		t.Fatalf("unexpected fragment texts: %v", counts)
	}
}

func TestPickFragmentZeroWeightStillSelectable(t *testing.T) {
	repo := &fakeBanterRepo{fragments: map[string][]*model.Fragment{
		model.FragmentCloser: {{Text: "only", Weight: 0}},
	}}
	svc := newTestGenerator(repo)
	got, err := svc.PickFragment(context.Background(), model.FragmentCloser)
	if err != nil {
		t.Fatalf("PickFragment: %v", err)
	}
	if got != "only" {
		t.Fatalf("PickFragment = %q, want %q", got, "only")
	}
}

func singleFragmentRepo() *fakeBanterRepo {
	return &fakeBanterRepo{
		fragments: map[string][]*model.Fragment{
			model.FragmentOpener:    {{Text: "No debate:", Weight: 1}},
			model.FragmentPraise:    {{Text: "is ice-cold with their finish", Weight: 1}},
			model.FragmentTactical:  {{Text: "controls the tempo with total confidence.", Weight: 1}},
			model.FragmentNostalgia: {{Text: "That is the Arsenal code.", Weight: 1}},
			model.FragmentCloser:    {{Text: "We move.", Weight: 1}},
		},
		players: []*model.Player{{ID: 7, Name: "Bukayo Saka"}},
	}
}

func TestAssemblePraiseLowIntensity(t *testing.T) {
	svc := newTestGenerator(singleFragmentRepo())
	text, player, err := svc.AssemblePraise(context.Background(), "Bukayo Saka", model.IntensityLow, false)
	if err != nil {
		t.Fatalf("AssemblePraise: %v", err)
	}
	want := "No debate: Bukayo Saka is ice-cold with their finish. We move."
	if text != want {
		t.Fatalf("AssemblePraise = %q, want %q", text, want)
	}
	if player == nil || player.ID != 7 {
		t.Fatalf("expected player 7, got %+v", player)
	}
}

func TestAssemblePraiseForcedNostalgia(t *testing.T) {
	svc := newTestGenerator(singleFragmentRepo())
	text, _, err := svc.AssemblePraise(context.Background(), "Bukayo Saka", model.IntensityHigh, true)
	if err != nil {
		t.Fatalf("AssemblePraise: %v", err)
	}
	want := "No debate: Bukayo Saka is ice-cold with their finish. That is the Arsenal code. We move."
	if text != want {
		t.Fatalf("forced nostalgia = %q, want %q", text, want)
	}
}

func TestAssemblePraiseUnknownPlayerFallsBackToClub(t *testing.T) {
	repo := singleFragmentRepo()
	repo.players = nil
	svc := newTestGenerator(repo)
	text, player, err := svc.AssemblePraise(context.Background(), "Nobody", model.IntensityLow, false)
	if err != nil {
		t.Fatalf("AssemblePraise: %v", err)
	}
	if player != nil {
		t.Fatalf("expected no player, got %+v", player)
	}
	want := "No debate: Arsenal is ice-cold with their finish. We move."
	if text != want {
		t.Fatalf("AssemblePraise = %q, want %q", text, want)
	}
}

func TestGenerateFactModeUsesDefaultWhenEmpty(t *testing.T) {
	repo := &fakeBanterRepo{fragments: map[string][]*model.Fragment{}}
	svc := newTestGenerator(repo)
	text, err := svc.Generate(context.Background(), 1, model.ModeFact, "", model.IntensityMedium)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != DefaultLine {
		t.Fatalf("Generate = %q, want default line", text)
	}
}

func TestGenerateForcedAcceptAfterRetries(t *testing.T) {
	// 素材池只有一条输出，且已在近期窗口里：重试耗尽后仍必须返回并落历史
	repo := &fakeBanterRepo{
		fragments: map[string][]*model.Fragment{},
		facts:     []*model.Fact{{Text: "Fact: Arsenal are nicknamed The Gunners."}},
	}
	repo.history = append(repo.history, &model.GeneratorHistory{
		UserID:     1,
		OutputText: "Fact: Arsenal are nicknamed The Gunners.",
		Mode:       model.ModeFact,
	})
	svc := newTestGenerator(repo)

	text, err := svc.Generate(context.Background(), 1, model.ModeFact, "", model.IntensityMedium)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Fact: Arsenal are nicknamed The Gunners." {
		t.Fatalf("Generate = %q", text)
	}
	if len(repo.history) != 2 {
		t.Fatalf("expected history appended, got %d entries", len(repo.history))
	}
}

func TestGenerateAvoidsRecentOutput(t *testing.T) {
	// 两条互斥素材，近期窗口占了其中一条，生成结果必须是另一条
	repo := &fakeBanterRepo{
		fragments: map[string][]*model.Fragment{},
		facts: []*model.Fact{
			{Text: "Fact: Arsenal are based in North London."},
		},
	}
	repo.history = append(repo.history, &model.GeneratorHistory{
		UserID:     2,
		OutputText: "Fact: something else entirely",
		Mode:       model.ModeFact,
	})
	svc := newTestGenerator(repo)

	text, err := svc.Generate(context.Background(), 2, model.ModeFact, "", model.IntensityMedium)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Fact: Arsenal are based in North London." {
		t.Fatalf("Generate = %q", text)
	}
}

func TestGeneratePraisePrefersPreGeneratedLines(t *testing.T) {
	repo := singleFragmentRepo()
	repo.lines = []*model.PreGeneratedLine{
		{
			Text:      "Locked in: Bukayo Saka brings electric pace every time. We move.",
			Intensity: model.IntensityMedium,
			Player:    repo.players[0],
		},
	}
	svc := newTestGenerator(repo)

	text, err := svc.Generate(context.Background(), 3, model.ModePraise, "Bukayo Saka", model.IntensityMedium)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Locked in: Bukayo Saka brings electric pace every time. We move." {
		t.Fatalf("Generate = %q", text)
	}
	last := repo.history[len(repo.history)-1]
	if last.PlayerID == nil || *last.PlayerID != 7 {
		t.Fatalf("expected player id recorded, got %+v", last.PlayerID)
	}
	if last.Mode != model.ModePraise {
		t.Fatalf("expected praise mode recorded, got %q", last.Mode)
	}
}
