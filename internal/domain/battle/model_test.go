package battle

import (
	"testing"
	"time"
)

func TestGameID(t *testing.T) {
	t.Parallel()

	eventID := int64(15000042)
	if got := GameID("20240101T120000.000Z", &eventID); got != "20240101T120000.000Z_15000042" {
		t.Fatalf("unexpected game id: %q", got)
	}
	if got := GameID("20240101T120000.000Z", nil); got != "20240101T120000.000Z" {
		t.Fatalf("missing event must fall back to the timestamp, got %q", got)
	}
}

func TestParseBattleTime(t *testing.T) {
	t.Parallel()

	got, err := ParseBattleTime("20240101T120000.000Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time: %v", got)
	}

	for _, raw := range []string{"", "2024-01-01T12:00:00Z", "garbage"} {
		if _, err := ParseBattleTime(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestOutcomeInvert(t *testing.T) {
	t.Parallel()

	if OutcomeVictory.Invert() != OutcomeDefeat {
		t.Fatal("victory must invert to defeat")
	}
	if OutcomeDefeat.Invert() != OutcomeVictory {
		t.Fatal("defeat must invert to victory")
	}
	if OutcomeDraw.Invert() != OutcomeDraw {
		t.Fatal("draw must invert to itself")
	}
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"victory", "defeat", "draw"} {
		got, ok := ParseOutcome(raw)
		if !ok || string(got) != raw {
			t.Fatalf("expected %q to parse, got %q ok=%t", raw, got, ok)
		}
	}
	for _, raw := range []string{"", "win", "VICTORY"} {
		if _, ok := ParseOutcome(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
