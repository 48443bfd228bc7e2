package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/domain/roster"
	battlemock "github.com/degplus/brawl-collector/internal/mocks/domain/battle"
	rostermock "github.com/degplus/brawl-collector/internal/mocks/domain/roster"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

type fixedProvider struct {
	battles []ExternalBattle
}

func (p fixedProvider) FetchBattleLog(context.Context, string) ([]ExternalBattle, error) {
	return p.battles, nil
}

func mockCollectConfig() CollectConfig {
	return CollectConfig{
		AllowedBattleTypes: []string{"ranked", "soloRanked", "teamRanked"},
		DedupLookback:      168 * time.Hour,
		FetchWorkers:       1,
		SchemaVariant:      "extended",
	}
}

func TestCollectService_Run_RosterFailureUsingMockery(t *testing.T) {
	t.Parallel()

	rosterRepo := rostermock.NewRepository(t)
	factRepo := battlemock.NewFactRepository(t)

	rosterRepo.
		On("ListActive", mock.Anything).
		Return(nil, errors.New("dimension store offline")).
		Once()

	svc, err := NewCollectService(rosterRepo, fixedProvider{}, factRepo, mockCollectConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build collect service: %v", err)
	}

	_, err = svc.Run(context.Background())
	if !errors.Is(err, ErrRosterUnavailable) {
		t.Fatalf("expected ErrRosterUnavailable, got %v", err)
	}
}

func TestCollectService_Run_LoadFailureUsingMockery(t *testing.T) {
	t.Parallel()

	rosterRepo := rostermock.NewRepository(t)
	factRepo := battlemock.NewFactRepository(t)

	source := sourceAlpha()
	item := teamBattleFixture()
	item.BattleTime = time.Now().UTC().Add(-time.Hour).Format(battle.BattleTimeLayout)

	rosterRepo.
		On("ListActive", mock.Anything).
		Return([]roster.SourcePlayer{source}, nil).
		Once()
	rosterRepo.
		On("ListAll", mock.Anything).
		Return([]roster.SourcePlayer{source}, nil).
		Once()
	factRepo.
		On("ExistingGameIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil).
		Once()
	factRepo.
		On("InsertRows", mock.Anything, mock.Anything).
		Return(0, errors.New("warehouse append rejected")).
		Once()

	svc, err := NewCollectService(rosterRepo, fixedProvider{battles: []ExternalBattle{item}}, factRepo, mockCollectConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build collect service: %v", err)
	}

	_, err = svc.Run(context.Background())
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
}
