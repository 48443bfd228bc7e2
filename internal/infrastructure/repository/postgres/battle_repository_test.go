package postgres

import (
	"context"
	"testing"
	"time"
)

func TestInsertRowsEmptyIsNoOp(t *testing.T) {
	t.Parallel()

	repo := NewBattleFactRepository(nil)
	n, err := repo.InsertRows(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty insert must not touch the database: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows written, got %d", n)
	}
}

func TestExistingGameIDsEmptyInput(t *testing.T) {
	t.Parallel()

	repo := NewBattleFactRepository(nil)
	out, err := repo.ExistingGameIDs(context.Background(), nil, time.Now())
	if err != nil {
		t.Fatalf("empty probe must not touch the database: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty set, got %v", out)
	}
}
