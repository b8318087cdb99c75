package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ArsenalAura/internal/interfaces"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// fakeCacheRepo 内存版追加式缓存
type fakeCacheRepo struct {
	rows []fakeCacheRow
}

type fakeCacheRow struct {
	key     string
	payload []byte
	expires time.Time
}

func (f *fakeCacheRepo) GetCached(_ context.Context, cacheKey string, allowExpired bool) (datatypes.JSON, error) {
	var best *fakeCacheRow
	for i := range f.rows {
		r := &f.rows[i]
		if r.key != cacheKey {
			continue
		}
		if !allowExpired && !r.expires.After(time.Now()) {
			continue
		}
		if best == nil || r.expires.After(best.expires) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	return best.payload, nil
}

func (f *fakeCacheRepo) SetCached(_ context.Context, cacheKey string, payload interface{}, ttlMinutes int, _ string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.rows = append(f.rows, fakeCacheRow{
		key:     cacheKey,
		payload: raw,
		expires: time.Now().Add(time.Duration(ttlMinutes) * time.Minute),
	})
	return nil
}

// expireAll 把所有缓存行标记为已过期，保留行间先后关系
func (f *fakeCacheRepo) expireAll() {
	base := time.Now().Add(-time.Hour)
	for i := range f.rows {
		f.rows[i].expires = base.Add(time.Duration(i) * time.Second)
	}
}

func (f *fakeCacheRepo) has(key string) bool {
	for _, r := range f.rows {
		if r.key == key {
			return true
		}
	}
	return false
}

// fakeFixtureAPI 函数字段式假上游
type fakeFixtureAPI struct {
	searchTeams  func(name string) ([]interfaces.TeamInfo, error)
	listFixtures func(teamID int64, q interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error)
	getFixture   func(matchID string) (*interfaces.FixtureRecord, error)
}

func (f *fakeFixtureAPI) SearchTeams(_ context.Context, name string) ([]interfaces.TeamInfo, error) {
	return f.searchTeams(name)
}

func (f *fakeFixtureAPI) ListFixtures(_ context.Context, teamID int64, q interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
	return f.listFixtures(teamID, q)
}

func (f *fakeFixtureAPI) GetFixture(_ context.Context, matchID string) (*interfaces.FixtureRecord, error) {
	return f.getFixture(matchID)
}

type fakeBadgeAPI struct {
	badge string
	err   error
}

func (f *fakeBadgeAPI) SearchTeamBadge(_ context.Context, _ string) (string, error) {
	return f.badge, f.err
}

func newTestFixtureService(cache *fakeCacheRepo, api *fakeFixtureAPI, badges *fakeBadgeAPI) *FixtureService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewFixtureService(cache, api, badges, 10, 42, logger)
}

func TestMapStatus(t *testing.T) {
	cases := map[string]string{
		"FT":   StatusFinished,
		"AET":  StatusFinished,
		"PEN":  StatusFinished,
		"NS":   StatusScheduled,
		"TBD":  StatusScheduled,
		"PST":  StatusPostponed,
		"1H":   StatusInPlay,
		"HT":   StatusInPlay,
		"LIVE": StatusInPlay,
		"CANC": StatusCancelled,
		"ABD":  StatusCancelled,
		"SUSP": StatusCancelled,
		"WO":   "WO",
	}
	for code, want := range cases {
		if got := mapStatus(code); got != want {
			t.Fatalf("mapStatus(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestSeasonYear(t *testing.T) {
	june := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if got := seasonYear(june); got != 2025 {
		t.Fatalf("seasonYear(June 2026) = %d, want 2025", got)
	}
	august := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if got := seasonYear(august); got != 2026 {
		t.Fatalf("seasonYear(August 2026) = %d, want 2026", got)
	}
}

func completeRecord(id int64, date string) interfaces.FixtureRecord {
	return interfaces.FixtureRecord{
		ID:          id,
		Date:        date,
		Competition: "Premier League",
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		StatusCode:  "NS",
	}
}

func TestResolveNextMatchSkipsIncompleteRecords(t *testing.T) {
	cache := &fakeCacheRepo{}
	api := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return []interfaces.FixtureRecord{
				{ID: 1, Date: "2026-09-01T15:00:00Z", AwayTeam: "Chelsea", StatusCode: "NS"},
				completeRecord(2, "2026-09-13T15:00:00Z"),
			}, nil
		},
	}
	svc := newTestFixtureService(cache, api, &fakeBadgeAPI{})

	payload, stale, err := svc.ResolveNextMatch(context.Background())
	if err != nil {
		t.Fatalf("ResolveNextMatch: %v", err)
	}
	if stale {
		t.Fatal("expected fresh result")
	}
	if payload.MatchID != "2" {
		t.Fatalf("expected match 2 selected, got %q", payload.MatchID)
	}
	if payload.Status != StatusScheduled {
		t.Fatalf("expected mapped status, got %q", payload.Status)
	}
	if !cache.has("arsenal_next_match") {
		t.Fatal("complete payload should be cached")
	}
}

func TestResolveNextMatchNeverCachesIncomplete(t *testing.T) {
	cache := &fakeCacheRepo{}
	api := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return []interfaces.FixtureRecord{
				{ID: 1, Date: "2026-09-01T15:00:00Z", HomeTeam: "Arsenal", StatusCode: "NS"},
			}, nil
		},
	}
	svc := newTestFixtureService(cache, api, &fakeBadgeAPI{})

	_, _, err := svc.ResolveNextMatch(context.Background())
	if !errors.Is(err, ErrIncompleteMatch) {
		t.Fatalf("expected ErrIncompleteMatch, got %v", err)
	}
	if cache.has("arsenal_next_match") {
		t.Fatal("incomplete payload must not be cached")
	}
}

func TestResolveNextMatchStaleFallback(t *testing.T) {
	cache := &fakeCacheRepo{}
	healthy := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return []interfaces.FixtureRecord{completeRecord(9, "2026-09-13T15:00:00Z")}, nil
		},
	}
	svc := newTestFixtureService(cache, healthy, &fakeBadgeAPI{})
	if _, _, err := svc.ResolveNextMatch(context.Background()); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	cache.expireAll()
	broken := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc = newTestFixtureService(cache, broken, &fakeBadgeAPI{})

	payload, stale, err := svc.ResolveNextMatch(context.Background())
	if err != nil {
		t.Fatalf("ResolveNextMatch: %v", err)
	}
	if !stale {
		t.Fatal("expected stale fallback")
	}
	if payload.MatchID != "9" {
		t.Fatalf("expected cached match 9, got %q", payload.MatchID)
	}
}

func TestResolveNextMatchUpstreamDownNoCache(t *testing.T) {
	broken := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return nil, errors.New("upstream down")
		},
	}
	svc := newTestFixtureService(&fakeCacheRepo{}, broken, &fakeBadgeAPI{})

	_, _, err := svc.ResolveNextMatch(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestResolveNextMatchNarrowsQueryOnEmptyResponse(t *testing.T) {
	// "未来N场"返回空时要继续用更窄的参数组补救
	var queries []interfaces.FixtureQuery
	api := &fakeFixtureAPI{
		listFixtures: func(_ int64, q interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			queries = append(queries, q)
			if q.Status == "NS" && q.Season == 0 {
				return []interfaces.FixtureRecord{completeRecord(5, "2026-09-13T15:00:00Z")}, nil
			}
			return nil, nil
		},
	}
	svc := newTestFixtureService(&fakeCacheRepo{}, api, &fakeBadgeAPI{})

	payload, _, err := svc.ResolveNextMatch(context.Background())
	if err != nil {
		t.Fatalf("ResolveNextMatch: %v", err)
	}
	if payload.MatchID != "5" {
		t.Fatalf("expected match 5, got %q", payload.MatchID)
	}
	if len(queries) != 2 || queries[0].Next != 10 || queries[1].Status != "NS" {
		t.Fatalf("unexpected query sequence: %+v", queries)
	}
}

func TestResolveMatchResultCachedOnce(t *testing.T) {
	cache := &fakeCacheRepo{}
	home, away := 2, 1
	calls := 0
	api := &fakeFixtureAPI{
		getFixture: func(matchID string) (*interfaces.FixtureRecord, error) {
			calls++
			return &interfaces.FixtureRecord{
				ID: 77, StatusCode: "FT", HomeGoals: &home, AwayGoals: &away,
			}, nil
		},
	}
	svc := newTestFixtureService(cache, api, &fakeBadgeAPI{})

	first, err := svc.ResolveMatchResult(context.Background(), "77")
	if err != nil {
		t.Fatalf("ResolveMatchResult: %v", err)
	}
	if first.Status != StatusFinished || *first.Score.FullTime.Home != 2 {
		t.Fatalf("unexpected result: %+v", first)
	}

	second, err := svc.ResolveMatchResult(context.Background(), "77")
	if err != nil {
		t.Fatalf("second ResolveMatchResult: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
	if *second.Score.FullTime.Away != 1 {
		t.Fatalf("unexpected cached result: %+v", second)
	}
}

func TestResolveMatchResultRefreshesUnfinished(t *testing.T) {
	// 未完场的缓存过期后必须回源，否则赛果会永远停在进行中
	cache := &fakeCacheRepo{}
	home, away := 2, 1
	finished := false
	calls := 0
	api := &fakeFixtureAPI{
		getFixture: func(matchID string) (*interfaces.FixtureRecord, error) {
			calls++
			if finished {
				return &interfaces.FixtureRecord{
					ID: 88, StatusCode: "FT", HomeGoals: &home, AwayGoals: &away,
				}, nil
			}
			return &interfaces.FixtureRecord{ID: 88, StatusCode: "1H"}, nil
		},
	}
	svc := newTestFixtureService(cache, api, &fakeBadgeAPI{})

	first, err := svc.ResolveMatchResult(context.Background(), "88")
	if err != nil {
		t.Fatalf("ResolveMatchResult: %v", err)
	}
	if first.Status != StatusInPlay {
		t.Fatalf("expected in-play result, got %+v", first)
	}

	cache.expireAll()
	finished = true

	second, err := svc.ResolveMatchResult(context.Background(), "88")
	if err != nil {
		t.Fatalf("second ResolveMatchResult: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected upstream re-query after expiry, got %d calls", calls)
	}
	if second.Status != StatusFinished {
		t.Fatalf("expected finished result, got %+v", second)
	}
	if *second.Score.FullTime.Home != 2 || *second.Score.FullTime.Away != 1 {
		t.Fatalf("unexpected score: %+v", second.Score)
	}

	// 完场后的赛果任意新鲜度都可复用
	cache.expireAll()
	third, err := svc.ResolveMatchResult(context.Background(), "88")
	if err != nil {
		t.Fatalf("third ResolveMatchResult: %v", err)
	}
	if calls != 2 {
		t.Fatalf("finished result should come from cache, got %d calls", calls)
	}
	if third.Status != StatusFinished {
		t.Fatalf("expected finished result, got %+v", third)
	}
}

func TestNextFixtureDerivesOpponentAndBadges(t *testing.T) {
	api := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			r := completeRecord(3, "2026-09-13T15:00:00Z")
			r.HomeTeam = "Chelsea"
			r.AwayTeam = "Arsenal"
			return []interfaces.FixtureRecord{r}, nil
		},
	}
	svc := newTestFixtureService(&fakeCacheRepo{}, api, &fakeBadgeAPI{badge: "https://badges/x.png"})

	summary, err := svc.NextFixture(context.Background())
	if err != nil {
		t.Fatalf("NextFixture: %v", err)
	}
	if summary.ArsenalIsHome {
		t.Fatal("expected away fixture")
	}
	if summary.Opponent != "Chelsea" {
		t.Fatalf("opponent = %q, want Chelsea", summary.Opponent)
	}
	if summary.HomeBadge == nil || *summary.HomeBadge != "https://badges/x.png" {
		t.Fatalf("unexpected badge: %v", summary.HomeBadge)
	}
	if summary.Stale {
		t.Fatal("expected fresh summary")
	}
}

func TestNextFixtureBadgeFailureIsSilent(t *testing.T) {
	api := &fakeFixtureAPI{
		listFixtures: func(_ int64, _ interfaces.FixtureQuery) ([]interfaces.FixtureRecord, error) {
			return []interfaces.FixtureRecord{completeRecord(4, "2026-09-13T15:00:00Z")}, nil
		},
	}
	svc := newTestFixtureService(&fakeCacheRepo{}, api, &fakeBadgeAPI{err: errors.New("badge source down")})

	summary, err := svc.NextFixture(context.Background())
	if err != nil {
		t.Fatalf("NextFixture: %v", err)
	}
	if summary.HomeBadge != nil || summary.AwayBadge != nil {
		t.Fatal("badges should be nil on lookup failure")
	}
}
