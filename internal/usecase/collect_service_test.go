package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/domain/roster"
	"github.com/degplus/brawl-collector/internal/infrastructure/repository/memory"
	"github.com/degplus/brawl-collector/internal/platform/logging"
	"github.com/degplus/brawl-collector/internal/usecase"
)

type stubProvider struct {
	battles map[string][]usecase.ExternalBattle
	errs    map[string]error
}

func (p *stubProvider) FetchBattleLog(_ context.Context, playerTag string) ([]usecase.ExternalBattle, error) {
	if err, ok := p.errs[playerTag]; ok {
		return nil, err
	}
	return p.battles[playerTag], nil
}

func i64(v int64) *int64 { return &v }

// recentBattleTime keeps fixtures inside the cross-run lookback window.
func recentBattleTime() string {
	return time.Now().UTC().Add(-time.Hour).Format(battle.BattleTimeLayout)
}

func rankedTeamBattle(battleTime string, eventID int64) usecase.ExternalBattle {
	return usecase.ExternalBattle{
		BattleTime: battleTime,
		Event:      usecase.ExternalEvent{ID: i64(eventID), Map: "Hard Rock Mine", Mode: "gemGrab"},
		Type:       "soloRanked",
		Result:     "victory",
		Teams: [][]usecase.ExternalParticipant{
			{
				{Tag: "#AAA", Name: "Alpha"},
				{Tag: "#BBB", Name: "Bravo"},
				{Tag: "#CCC", Name: "Charlie"},
			},
			{
				{Tag: "#DDD", Name: "Delta"},
				{Tag: "#EEE", Name: "Echo"},
				{Tag: "#FFF", Name: "Foxtrot"},
			},
		},
	}
}

func testRoster() []roster.SourcePlayer {
	return []roster.SourcePlayer{
		{Tag: "#AAA", Name: "Alpha", Team: "Team Alpha", Active: true},
		{Tag: "#BBB", Name: "Bravo", Team: "Team Alpha", Active: true},
	}
}

func testConfig() usecase.CollectConfig {
	return usecase.CollectConfig{
		AllowedBattleTypes: []string{"ranked", "soloRanked", "teamRanked"},
		DedupLookback:      168 * time.Hour,
		FetchWorkers:       2,
		SchemaVariant:      "extended",
	}
}

func newService(t *testing.T, rosterRepo roster.Repository, provider usecase.BattleLogProvider, factRepo *memory.BattleFactRepository) *usecase.CollectService {
	t.Helper()

	svc, err := usecase.NewCollectService(rosterRepo, provider, factRepo, testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build collect service: %v", err)
	}

	return svc
}

func TestCollectRunLoadsSharedMatchOnce(t *testing.T) {
	t.Parallel()

	// Both tracked players report the same match in their logs.
	shared := rankedTeamBattle(recentBattleTime(), 42)
	provider := &stubProvider{battles: map[string][]usecase.ExternalBattle{
		"#AAA": {shared},
		"#BBB": {shared},
	}}
	factRepo := memory.NewBattleFactRepository()

	svc := newService(t, memory.NewRosterRepository(testRoster()), provider, factRepo)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.RawRows != 12 {
		t.Fatalf("expected 12 raw rows, got %d", result.RawRows)
	}
	if result.AfterIntraRun != 6 || result.LoadedRows != 6 {
		t.Fatalf("shared match must load exactly once: after_intra=%d loaded=%d", result.AfterIntraRun, result.LoadedRows)
	}

	for _, row := range factRepo.Rows() {
		if row.SourcePlayerTag != "#AAA" {
			t.Fatalf("canonical source must be the lowest tag, got %s", row.SourcePlayerTag)
		}
		if row.PlayerTag == "#BBB" && row.PlayerTeam != "Team Alpha" {
			t.Fatalf("roster enrichment missing on tracked participant: %+v", row)
		}
	}
}

func TestCollectSecondRunLoadsNothing(t *testing.T) {
	t.Parallel()

	shared := rankedTeamBattle(recentBattleTime(), 42)
	provider := &stubProvider{battles: map[string][]usecase.ExternalBattle{
		"#AAA": {shared},
		"#BBB": {shared},
	}}
	factRepo := memory.NewBattleFactRepository()
	svc := newService(t, memory.NewRosterRepository(testRoster()), provider, factRepo)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.LoadedRows != 0 {
		t.Fatalf("second run must load nothing, got %d rows", second.LoadedRows)
	}
	if second.ExistingSkipped != 6 {
		t.Fatalf("second run should skip the stored match, got %d", second.ExistingSkipped)
	}
	if got := len(factRepo.Rows()); got != 6 {
		t.Fatalf("fact store must still hold 6 rows, got %d", got)
	}
}

func TestCollectFetchFailureIsIsolated(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		battles: map[string][]usecase.ExternalBattle{
			"#AAA": {rankedTeamBattle(recentBattleTime(), 42)},
		},
		errs: map[string]error{"#BBB": errors.New("upstream 503")},
	}
	factRepo := memory.NewBattleFactRepository()
	svc := newService(t, memory.NewRosterRepository(testRoster()), provider, factRepo)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run must survive a per-player fetch failure: %v", err)
	}
	if result.FetchFailures != 1 {
		t.Fatalf("expected 1 fetch failure, got %d", result.FetchFailures)
	}
	if result.LoadedRows != 6 {
		t.Fatalf("healthy player's battles must still load, got %d rows", result.LoadedRows)
	}
}

func TestCollectEmptyRosterIsNoOp(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	factRepo := memory.NewBattleFactRepository()
	svc := newService(t, memory.NewRosterRepository(nil), provider, factRepo)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Players != 0 || result.LoadedRows != 0 {
		t.Fatalf("empty roster must be a no-op, got %+v", result)
	}
}

func TestNewCollectServiceRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SchemaVariant = "bigtable"

	_, err := usecase.NewCollectService(
		memory.NewRosterRepository(nil),
		&stubProvider{},
		memory.NewBattleFactRepository(),
		cfg,
		logging.NewNop(),
	)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewCollectServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := usecase.NewCollectService(nil, &stubProvider{}, memory.NewBattleFactRepository(), testConfig(), logging.NewNop())
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
