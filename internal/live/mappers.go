package live

import (
	"slices"

	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

// Mapped entities never alias the DTO slices, which may be shared cache values.

func eventFromDTO(dto esports.Event) Event {
	ev := Event{
		StartTime: dto.StartTime,
		State:     dto.State,
		Type:      dto.Type,
		BlockName: dto.BlockName,
		League:    EventLeague{Name: dto.League.Name, Slug: dto.League.Slug},
	}
	if dto.Type == esports.EventTypeMatch && dto.Match != nil {
		m := matchFromDTO(*dto.Match)
		ev.Match = &m
	}
	return ev
}

func eventsFromDTO(dtos []esports.Event) []Event {
	out := make([]Event, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, eventFromDTO(d))
	}
	return out
}

func matchFromDTO(dto esports.Match) Match {
	teams := make([]Team, 0, len(dto.Teams))
	for _, t := range dto.Teams {
		teams = append(teams, Team{
			Name:     t.Name,
			Code:     t.Code,
			Image:    t.Image,
			Outcome:  t.Result.Outcome,
			GameWins: t.Result.GameWins,
			Wins:     t.Record.Wins,
			Losses:   t.Record.Losses,
		})
	}
	return Match{
		ID:       dto.ID,
		Teams:    teams,
		BestOf:   dto.Strategy.Count,
		Strategy: dto.Strategy.Type,
		Flags:    slices.Clone(dto.Flags),
	}
}

func leagueFromDTO(dto esports.League) League {
	return League{
		ID:       dto.ID,
		Slug:     dto.Slug,
		Name:     dto.Name,
		Region:   dto.Region,
		Image:    dto.Image,
		Priority: dto.Priority,
		Position: dto.DisplayPriority.Position,
		Status:   dto.DisplayPriority.Status,
	}
}
