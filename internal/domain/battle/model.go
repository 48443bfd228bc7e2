package battle

import (
	"strconv"
	"time"
)

// BattleTimeLayout is the lexical form the API uses for battle
// timestamps, e.g. "20240101T120000.000Z".
const BattleTimeLayout = "20060102T150405.000Z"

// Outcome is a participant-centric battle result.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeDraw    Outcome = "draw"
)

// ParseOutcome maps the API's result string onto an Outcome. The bool
// reports whether the value was one of the three known results.
func ParseOutcome(raw string) (Outcome, bool) {
	switch Outcome(raw) {
	case OutcomeVictory, OutcomeDefeat, OutcomeDraw:
		return Outcome(raw), true
	default:
		return "", false
	}
}

// Invert flips victory and defeat. Draw inverts to itself.
func (o Outcome) Invert() Outcome {
	switch o {
	case OutcomeVictory:
		return OutcomeDefeat
	case OutcomeDefeat:
		return OutcomeVictory
	default:
		return o
	}
}

// GameID derives the stable match identity from the raw battle timestamp
// and the event id. Two battles with the same timestamp and event id are
// the same real-world match no matter whose log produced them; this is
// the idempotency key for all deduplication. Battles without an event key
// fall back to the timestamp alone.
func GameID(battleTime string, eventID *int64) string {
	if eventID == nil {
		return battleTime
	}
	return battleTime + "_" + strconv.FormatInt(*eventID, 10)
}

// ParseBattleTime parses the API's battle timestamp. An empty or
// malformed value means the battle cannot be identified and is dropped.
func ParseBattleTime(raw string) (time.Time, error) {
	return time.Parse(BattleTimeLayout, raw)
}

// FactRow is one participant's involvement in one battle, the unit
// persisted to fact_battle_players. Rows are append-only: the collector
// never updates or deletes them.
type FactRow struct {
	GameID     string
	BattleTime time.Time

	PlayerTag       string
	PlayerName      string
	BrawlerID       *int64
	BrawlerName     string
	BrawlerPower    *int64
	BrawlerTrophies *int64

	MapID          *int64
	MapName        string
	GameMode       string
	BattleType     string
	BattleDuration *int64
	BattleRank     *int64
	TrophyChange   *int64

	// TeamNum is 1 or 2 in team battles and 0 in flat-list modes.
	TeamNum int
	// Outcome is relative to this row's participant, not to whichever
	// tracked player's log the battle came from.
	Outcome Outcome
	// PlayerPlace is the tracked player's finishing rank, set only on
	// the row belonging to the source player itself.
	PlayerPlace *int64

	StarPlayerTag  string
	StarPlayerName string
	IsStarPlayer   bool

	// Enrichment resolved from the roster dimension, empty for
	// participants outside the tracked roster.
	PlayerTeam     string
	PlayerImageURL string

	SourcePlayerTag    string
	SourcePlayerName   string
	SourcePlayerTeam   string
	SourcePlayerRegion string

	CollectedAt time.Time
}
