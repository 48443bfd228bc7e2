package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

type stubFactRepo struct {
	existing    map[string]struct{}
	existingErr error
	gotGameIDs  []string
	gotSince    time.Time

	inserted  [][]battle.FactRow
	insertErr error
}

func (s *stubFactRepo) ExistingGameIDs(_ context.Context, gameIDs []string, since time.Time) (map[string]struct{}, error) {
	s.gotGameIDs = gameIDs
	s.gotSince = since
	if s.existingErr != nil {
		return nil, s.existingErr
	}
	if s.existing == nil {
		return map[string]struct{}{}, nil
	}
	return s.existing, nil
}

func (s *stubFactRepo) InsertRows(_ context.Context, rows []battle.FactRow) (int, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = append(s.inserted, rows)
	return len(rows), nil
}

func newTestDeduplicator(repo battle.FactRepository) *Deduplicator {
	return NewDeduplicator(repo, ExtendedSchema{Enrichment: NewEnrichmentResolver()}, 7*24*time.Hour, logging.NewNop())
}

// twoSourceRows builds the rows two tracked players on the same winning
// team would each contribute for one shared 3v3 match.
func twoSourceRows(t *testing.T) []battle.FactRow {
	t.Helper()

	normalizer := newExtendedNormalizer()
	item := teamBattleFixture()

	alpha := sourceAlpha()
	bravo := alpha
	bravo.Tag = "#BBB"
	bravo.Name = "Bravo"

	at := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	rows := normalizer.Normalize(item, alpha, at)
	rows = append(rows, normalizer.Normalize(item, bravo, at)...)

	if len(rows) != 12 {
		t.Fatalf("fixture should produce 12 rows before dedup, got %d", len(rows))
	}

	return rows
}

func TestIntraRunCollapsesSharedMatch(t *testing.T) {
	t.Parallel()

	dedup := newTestDeduplicator(&stubFactRepo{})
	out := dedup.IntraRun(twoSourceRows(t))

	if len(out) != 6 {
		t.Fatalf("expected 6 surviving rows, got %d", len(out))
	}
	for _, row := range out {
		if row.SourcePlayerTag != "#AAA" {
			t.Fatalf("lowest tracked tag must win as canonical source, got %s", row.SourcePlayerTag)
		}
	}
}

func TestIntraRunCollapsesSharedMatchOnClassicSchema(t *testing.T) {
	t.Parallel()

	// The classic key carries the source tag, so without the canonical
	// source pick both sources' row sets would survive side by side.
	normalizer := NewNormalizer(defaultRules(), ClassicSchema{})
	item := teamBattleFixture()

	alpha := sourceAlpha()
	bravo := alpha
	bravo.Tag = "#BBB"
	bravo.Name = "Bravo"

	at := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	rows := normalizer.Normalize(item, alpha, at)
	rows = append(rows, normalizer.Normalize(item, bravo, at)...)
	if len(rows) != 12 {
		t.Fatalf("fixture should produce 12 rows before dedup, got %d", len(rows))
	}

	dedup := NewDeduplicator(&stubFactRepo{}, ClassicSchema{}, 7*24*time.Hour, logging.NewNop())
	out := dedup.IntraRun(rows)

	if len(out) != 6 {
		t.Fatalf("expected the canonical source's 6 rows, got %d", len(out))
	}
	for _, row := range out {
		if row.SourcePlayerTag != "#AAA" {
			t.Fatalf("lowest tracked tag must win as canonical source, got %s", row.SourcePlayerTag)
		}
	}
}

func TestIntraRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dedup := newTestDeduplicator(&stubFactRepo{})
	once := dedup.IntraRun(twoSourceRows(t))
	twice := dedup.IntraRun(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed row count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second pass changed row %d", i)
		}
	}
}

func TestIntraRunKeepsDistinctMatches(t *testing.T) {
	t.Parallel()

	normalizer := newExtendedNormalizer()
	at := time.Now().UTC()

	first := teamBattleFixture()
	second := teamBattleFixture()
	second.BattleTime = "20240101T150000.000Z"

	rows := normalizer.Normalize(first, sourceAlpha(), at)
	rows = append(rows, normalizer.Normalize(second, sourceAlpha(), at)...)

	out := newTestDeduplicator(&stubFactRepo{}).IntraRun(rows)
	if len(out) != 12 {
		t.Fatalf("distinct matches must both survive, got %d rows", len(out))
	}
}

func TestFilterExistingDropsStoredMatches(t *testing.T) {
	t.Parallel()

	repo := &stubFactRepo{existing: map[string]struct{}{"20240101T120000.000Z_42": {}}}
	dedup := newTestDeduplicator(repo)

	rows := dedup.IntraRun(twoSourceRows(t))
	fresh, dropped := dedup.FilterExisting(context.Background(), rows)

	if len(fresh) != 0 {
		t.Fatalf("stored match must be filtered out, got %d rows", len(fresh))
	}
	if dropped != 6 {
		t.Fatalf("expected 6 dropped rows, got %d", dropped)
	}
	if len(repo.gotGameIDs) != 1 {
		t.Fatalf("existence check should carry distinct game ids only, got %v", repo.gotGameIDs)
	}
}

func TestFilterExistingBoundsTheLookback(t *testing.T) {
	t.Parallel()

	repo := &stubFactRepo{}
	dedup := newTestDeduplicator(repo)
	fixedNow := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	dedup.now = func() time.Time { return fixedNow }

	dedup.FilterExisting(context.Background(), dedup.IntraRun(twoSourceRows(t)))

	wantSince := fixedNow.Add(-7 * 24 * time.Hour)
	if !repo.gotSince.Equal(wantSince) {
		t.Fatalf("expected since=%v, got %v", wantSince, repo.gotSince)
	}
}

func TestFilterExistingRecoversFromExistenceCheckFailure(t *testing.T) {
	t.Parallel()

	repo := &stubFactRepo{existingErr: fmt.Errorf("warehouse is down")}
	dedup := newTestDeduplicator(repo)

	rows := dedup.IntraRun(twoSourceRows(t))
	fresh, dropped := dedup.FilterExisting(context.Background(), rows)

	if len(fresh) != len(rows) {
		t.Fatalf("existence check failure must pass rows through, got %d of %d", len(fresh), len(rows))
	}
	if dropped != 0 {
		t.Fatalf("existence check failure must not report drops, got %d", dropped)
	}
}
