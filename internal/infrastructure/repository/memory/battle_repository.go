package memory

import (
	"context"
	"sync"
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
)

type BattleFactRepository struct {
	mu   sync.RWMutex
	rows []battle.FactRow
}

func NewBattleFactRepository() *BattleFactRepository {
	return &BattleFactRepository{}
}

func (r *BattleFactRepository) ExistingGameIDs(_ context.Context, gameIDs []string, since time.Time) (map[string]struct{}, error) {
	wanted := make(map[string]struct{}, len(gameIDs))
	for _, gameID := range gameIDs {
		wanted[gameID] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]struct{})
	for _, row := range r.rows {
		if row.BattleTime.Before(since) {
			continue
		}
		if _, ok := wanted[row.GameID]; ok {
			out[row.GameID] = struct{}{}
		}
	}

	return out, nil
}

func (r *BattleFactRepository) InsertRows(_ context.Context, rows []battle.FactRow) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append(r.rows, rows...)

	return len(rows), nil
}

// Rows returns a snapshot of everything inserted so far.
func (r *BattleFactRepository) Rows() []battle.FactRow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]battle.FactRow, len(r.rows))
	copy(out, r.rows)

	return out
}
