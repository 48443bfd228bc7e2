package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/degplus/brawl-collector/internal/domain/roster"
)

type RosterRepository struct {
	mu      sync.RWMutex
	players []roster.SourcePlayer
}

func NewRosterRepository(players []roster.SourcePlayer) *RosterRepository {
	copied := make([]roster.SourcePlayer, len(players))
	copy(copied, players)
	sort.Slice(copied, func(i, j int) bool { return copied[i].Tag < copied[j].Tag })

	return &RosterRepository{players: copied}
}

func (r *RosterRepository) ListActive(_ context.Context) ([]roster.SourcePlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.SourcePlayer, 0, len(r.players))
	for _, p := range r.players {
		if p.Active {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *RosterRepository) ListAll(_ context.Context) ([]roster.SourcePlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.SourcePlayer, len(r.players))
	copy(out, r.players)

	return out, nil
}
