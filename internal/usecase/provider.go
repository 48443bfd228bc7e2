package usecase

import "context"

// BattleLogProvider fetches one player's recent battle log from the
// external API. Implementations make a single outbound call per
// invocation with a bounded timeout.
type BattleLogProvider interface {
	FetchBattleLog(ctx context.Context, playerTag string) ([]ExternalBattle, error)
}

// ExternalBattle is one raw battle log item, validated at the provider
// boundary. Optional payload fields stay pointers so "absent" and "zero"
// remain distinguishable downstream.
type ExternalBattle struct {
	BattleTime   string
	Event        ExternalEvent
	Type         string
	Mode         string
	Result       string
	Duration     *int64
	Rank         *int64
	TrophyChange *int64
	// Teams carries the 3v3 roster split; Players is the flat list used
	// by modes without fixed teams. At most one of the two is set.
	Teams      [][]ExternalParticipant
	Players    []ExternalParticipant
	StarPlayer *ExternalParticipant
}

type ExternalEvent struct {
	// ID is nil when the API omits the event key entirely; an explicit 0
	// is the provider's "unknown event" sentinel.
	ID   *int64
	Map  string
	Mode string
}

type ExternalParticipant struct {
	Tag     string
	Name    string
	Brawler ExternalBrawler
}

type ExternalBrawler struct {
	ID       *int64
	Name     string
	Power    *int64
	Trophies *int64
}
