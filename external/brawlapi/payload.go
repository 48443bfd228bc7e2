package brawlapi

import "github.com/degplus/brawl-collector/internal/usecase"

// Wire payload for GET /players/{tag}/battlelog. Field shapes follow
// the upstream API; optional numerics stay pointers so the mapping can
// tell an absent field from an explicit zero.

type battleLogEnvelope struct {
	Items []battleLogItem `json:"items"`
}

type battleLogItem struct {
	BattleTime string        `json:"battleTime"`
	Event      *battleEvent  `json:"event"`
	Battle     battleDetails `json:"battle"`
}

type battleEvent struct {
	ID   *int64 `json:"id"`
	Mode string `json:"mode"`
	Map  string `json:"map"`
}

type battleDetails struct {
	Mode         string                `json:"mode"`
	Type         string                `json:"type"`
	Result       string                `json:"result"`
	Duration     *int64                `json:"duration"`
	Rank         *int64                `json:"rank"`
	TrophyChange *int64                `json:"trophyChange"`
	StarPlayer   *battleParticipant    `json:"starPlayer"`
	Teams        [][]battleParticipant `json:"teams"`
	Players      []battleParticipant   `json:"players"`
}

type battleParticipant struct {
	Tag     string        `json:"tag"`
	Name    string        `json:"name"`
	Brawler battleBrawler `json:"brawler"`
}

type battleBrawler struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Power    *int64 `json:"power"`
	Trophies *int64 `json:"trophies"`
}

func (item battleLogItem) toExternal() usecase.ExternalBattle {
	out := usecase.ExternalBattle{
		BattleTime:   item.BattleTime,
		Type:         item.Battle.Type,
		Mode:         item.Battle.Mode,
		Result:       item.Battle.Result,
		Duration:     item.Battle.Duration,
		Rank:         item.Battle.Rank,
		TrophyChange: item.Battle.TrophyChange,
	}

	if item.Event != nil {
		out.Event = usecase.ExternalEvent{
			ID:   item.Event.ID,
			Map:  item.Event.Map,
			Mode: item.Event.Mode,
		}
	}

	if item.Battle.StarPlayer != nil {
		star := toExternalParticipant(*item.Battle.StarPlayer)
		out.StarPlayer = &star
	}

	if len(item.Battle.Teams) > 0 {
		out.Teams = make([][]usecase.ExternalParticipant, 0, len(item.Battle.Teams))
		for _, team := range item.Battle.Teams {
			members := make([]usecase.ExternalParticipant, 0, len(team))
			for _, member := range team {
				members = append(members, toExternalParticipant(member))
			}
			out.Teams = append(out.Teams, members)
		}
	}

	if len(item.Battle.Players) > 0 {
		out.Players = make([]usecase.ExternalParticipant, 0, len(item.Battle.Players))
		for _, player := range item.Battle.Players {
			out.Players = append(out.Players, toExternalParticipant(player))
		}
	}

	return out
}

func toExternalParticipant(p battleParticipant) usecase.ExternalParticipant {
	return usecase.ExternalParticipant{
		Tag:  p.Tag,
		Name: p.Name,
		Brawler: usecase.ExternalBrawler{
			ID:       p.Brawler.ID,
			Name:     p.Brawler.Name,
			Power:    p.Brawler.Power,
			Trophies: p.Brawler.Trophies,
		},
	}
}
