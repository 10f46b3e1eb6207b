// Package live holds the esports domain entities and the use cases the MCP
// surface is built on. It reads through an esports.Datasource, normally the
// cached one.
package live

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

// MajorLeaguePosition is the highest display position counted as a major league.
const MajorLeaguePosition = 10

// DefaultUpcomingLimit applies when UpcomingMatches is given a non-positive limit.
const DefaultUpcomingLimit = 10

type ScheduleData struct {
	Pages  esports.Pages
	Events []Event
}

// LiveScore is a live match involving a requested team.
type LiveScore struct {
	EventID string
	Title   string
	Score   string
}

type Service struct {
	source esports.Datasource
}

func NewService(source esports.Datasource) *Service {
	return &Service{source: source}
}

func (s *Service) Schedule(ctx context.Context, language, leagueID string) (*ScheduleData, error) {
	resp, err := s.source.Schedule(ctx, language, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	sch := resp.Data.Schedule
	return &ScheduleData{Pages: sch.Pages, Events: eventsFromDTO(sch.Events)}, nil
}

// MatchEvents returns the schedule restricted to events that carry a match.
func (s *Service) MatchEvents(ctx context.Context, language string) ([]Event, error) {
	sch, err := s.Schedule(ctx, language, "")
	if err != nil {
		return nil, err
	}
	return onlyMatches(sch.Events), nil
}

// UpcomingMatches returns unstarted match events ordered by start time, at
// most limit of them.
func (s *Service) UpcomingMatches(ctx context.Context, language string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	events, err := s.MatchEvents(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("get upcoming matches: %w", err)
	}
	events = filter(events, (*Event).IsUpcoming)
	slices.SortStableFunc(events, func(a, b Event) int { return a.StartTime.Compare(b.StartTime) })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// LiveMatches returns in-progress match events from the live feed.
func (s *Service) LiveMatches(ctx context.Context, language string) ([]Event, error) {
	resp, err := s.source.Live(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("get live matches: %w", err)
	}
	events := eventsFromDTO(resp.Data.Schedule.Events)
	return filter(onlyMatches(events), (*Event).IsLive), nil
}

// LiveMatchScore returns the live matches in which team plays, matched by
// name or code.
func (s *Service) LiveMatchScore(ctx context.Context, team, language string) ([]LiveScore, error) {
	events, err := s.LiveMatches(ctx, language)
	if err != nil {
		return nil, err
	}
	var out []LiveScore
	for _, ev := range events {
		if _, ok := ev.Match.TeamByName(team); !ok {
			continue
		}
		out = append(out, LiveScore{
			EventID: ev.Match.ID,
			Title:   ev.Match.Title(),
			Score:   ev.Match.LiveScore(),
		})
	}
	return out, nil
}

func (s *Service) HasLiveMatches(ctx context.Context, language string) (bool, error) {
	n, err := s.LiveMatchCount(ctx, language)
	return n > 0, err
}

func (s *Service) LiveMatchCount(ctx context.Context, language string) (int, error) {
	events, err := s.LiveMatches(ctx, language)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

func (s *Service) Leagues(ctx context.Context, language string) ([]League, error) {
	resp, err := s.source.Leagues(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("get leagues: %w", err)
	}
	out := make([]League, 0, len(resp.Data.Leagues))
	for _, l := range resp.Data.Leagues {
		out = append(out, leagueFromDTO(l))
	}
	return out, nil
}

// LeaguesByRegion matches the API region exactly, e.g. "EMEA".
func (s *Service) LeaguesByRegion(ctx context.Context, region, language string) ([]League, error) {
	return s.filterLeagues(ctx, language, func(l *League) bool { return l.Region == region })
}

func (s *Service) LeaguesByStatus(ctx context.Context, status, language string) ([]League, error) {
	return s.filterLeagues(ctx, language, func(l *League) bool { return l.Status == status })
}

func (s *Service) VisibleLeagues(ctx context.Context, language string) ([]League, error) {
	return s.filterLeagues(ctx, language, (*League).IsVisible)
}

func (s *Service) SelectedLeagues(ctx context.Context, language string) ([]League, error) {
	return s.filterLeagues(ctx, language, (*League).IsSelected)
}

// MajorLeagues returns leagues within the top display positions, ordered by position.
func (s *Service) MajorLeagues(ctx context.Context, language string) ([]League, error) {
	leagues, err := s.filterLeagues(ctx, language, func(l *League) bool {
		return l.Position <= MajorLeaguePosition
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(leagues, func(a, b League) int { return cmp.Compare(a.Position, b.Position) })
	return leagues, nil
}

// Regions lists distinct league regions in first-seen order.
func (s *Service) Regions(ctx context.Context, language string) ([]string, error) {
	leagues, err := s.Leagues(ctx, language)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(leagues))
	var out []string
	for _, l := range leagues {
		if _, ok := seen[l.Region]; ok {
			continue
		}
		seen[l.Region] = struct{}{}
		out = append(out, l.Region)
	}
	return out, nil
}

func (s *Service) filterLeagues(ctx context.Context, language string, keep func(*League) bool) ([]League, error) {
	leagues, err := s.Leagues(ctx, language)
	if err != nil {
		return nil, err
	}
	return filter(leagues, keep), nil
}

// MatchesForLeague returns schedule events whose league slug matches, ignoring case.
func (s *Service) MatchesForLeague(ctx context.Context, slug, language string) ([]Event, error) {
	sch, err := s.Schedule(ctx, language, "")
	if err != nil {
		return nil, fmt.Errorf("get matches for league %s: %w", slug, err)
	}
	return filter(sch.Events, func(e *Event) bool { return e.IsLeagueMatch(slug) }), nil
}

func (s *Service) UpcomingForLeague(ctx context.Context, slug, language string) ([]Event, error) {
	return s.leagueMatchesWhere(ctx, slug, language, (*Event).IsUpcoming)
}

func (s *Service) LiveForLeague(ctx context.Context, slug, language string) ([]Event, error) {
	return s.leagueMatchesWhere(ctx, slug, language, (*Event).IsLive)
}

func (s *Service) CompletedForLeague(ctx context.Context, slug, language string) ([]Event, error) {
	return s.leagueMatchesWhere(ctx, slug, language, (*Event).IsCompleted)
}

func (s *Service) leagueMatchesWhere(ctx context.Context, slug, language string, keep func(*Event) bool) ([]Event, error) {
	events, err := s.MatchesForLeague(ctx, slug, language)
	if err != nil {
		return nil, err
	}
	return filter(events, keep), nil
}

// EventDetails returns a copy of the event; its nested slices are shared with
// the datasource and must not be modified.
func (s *Service) EventDetails(ctx context.Context, eventID, language string) (esports.EventDetails, error) {
	resp, err := s.source.EventDetails(ctx, eventID, language)
	if err != nil {
		return esports.EventDetails{}, fmt.Errorf("get event details %s: %w", eventID, err)
	}
	return resp.Data.Event, nil
}

// MatchVODs collects the VODs of every game in the event, in game order.
func (s *Service) MatchVODs(ctx context.Context, eventID, language string) ([]esports.VOD, error) {
	ev, err := s.EventDetails(ctx, eventID, language)
	if err != nil {
		return nil, err
	}
	var out []esports.VOD
	for _, g := range ev.Match.Games {
		out = append(out, g.VODs...)
	}
	return out, nil
}

func (s *Service) HasVODs(ctx context.Context, eventID, language string) (bool, error) {
	vods, err := s.MatchVODs(ctx, eventID, language)
	return len(vods) > 0, err
}

func (s *Service) VODsByLocale(ctx context.Context, eventID, locale, language string) ([]esports.VOD, error) {
	vods, err := s.MatchVODs(ctx, eventID, language)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(vods, func(v esports.VOD) bool { return v.Locale != locale }), nil
}

// WeekBounds returns the Sunday-to-Saturday calendar week containing now, in
// now's location. End is exclusive.
func WeekBounds(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	start = day.AddDate(0, 0, -int(now.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func onlyMatches(events []Event) []Event {
	return filter(events, func(e *Event) bool { return e.Match != nil })
}

// filter returns a new slice holding the elements of in that keep accepts.
func filter[T any](in []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(in))
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}
