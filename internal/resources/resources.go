// Package resources exposes read-only JSON snapshots of esports activity as
// MCP resources.
package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/leonardcser/lol-esports-mcp/internal/esports"
	"github.com/leonardcser/lol-esports-mcp/internal/live"
	"github.com/leonardcser/lol-esports-mcp/internal/logger"
)

const mimeJSON = "application/json"

// Resource URIs.
const (
	URIAllLeagues     = "lol://leagues/all"
	URIMajorLeagues   = "lol://leagues/major"
	URILiveMatches    = "lol://matches/live"
	URIUpcomingToday  = "lol://matches/upcoming"
	URIWeekSchedule   = "lol://schedule/week"
	URIStatusSummary  = "lol://status/summary"
	upcomingScanLimit = 20
	summaryUpcoming   = 10
)

var ErrUnknownResource = errors.New("resource not found")

type Definition struct {
	URI         string
	Name        string
	Description string
}

var definitions = []Definition{
	{URIAllLeagues, "All LoL Esports Leagues",
		"Complete list of all available League of Legends esports leagues and tournaments worldwide with regional information"},
	{URIMajorLeagues, "Major LoL Esports Leagues",
		"List of major League of Legends esports leagues (LCK, LEC, LCS, LPL) with current status"},
	{URILiveMatches, "Current Live Matches",
		"Real-time information about currently ongoing League of Legends esports matches"},
	{URIUpcomingToday, "Upcoming Matches Today",
		"Today's upcoming League of Legends esports matches with timing and league information"},
	{URIWeekSchedule, "This Week's Schedule",
		"Complete schedule of League of Legends esports matches for the current week"},
	{URIStatusSummary, "LoL Esports Status Summary",
		"Quick overview of current LoL esports activity including live matches count, upcoming matches, and major leagues status"},
}

// Definitions lists every resource the Provider serves.
func Definitions() []Definition { return slices.Clone(definitions) }

// Provider builds resource payloads. Resources are always read in the default
// language; days and weeks are computed in UTC.
type Provider struct {
	svc      *live.Service
	now      func() time.Time
	language string
}

type Option func(*Provider)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func NewProvider(svc *live.Service, opts ...Option) *Provider {
	p := &Provider{svc: svc, now: time.Now, language: esports.DefaultLanguage}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds every resource to s.
func Register(s *server.MCPServer, p *Provider) {
	for _, d := range definitions {
		res := mcp.NewResource(d.URI, d.Name,
			mcp.WithResourceDescription(d.Description),
			mcp.WithMIMEType(mimeJSON),
		)
		s.AddResource(res, p.handler(d.URI))
	}
}

func (p *Provider) handler(uri string) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		body, err := p.Read(ctx, uri)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{mcp.TextResourceContents{URI: uri, MIMEType: mimeJSON, Text: string(body)}}, nil
	}
}

// Read renders the resource at uri as indented JSON. Upstream failures are
// reported inside the payload; only an unknown URI is an error.
func (p *Provider) Read(ctx context.Context, uri string) ([]byte, error) {
	var (
		payload any
		err     error
	)
	switch uri {
	case URIAllLeagues:
		payload, err = p.allLeagues(ctx)
	case URIMajorLeagues:
		payload, err = p.majorLeagues(ctx)
	case URILiveMatches:
		payload, err = p.liveMatches(ctx)
	case URIUpcomingToday:
		payload, err = p.upcomingToday(ctx)
	case URIWeekSchedule:
		payload, err = p.weekSchedule(ctx)
	case URIStatusSummary:
		payload, err = p.statusSummary(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, uri)
	}
	if err != nil {
		logger.Warnf("resource %s: %v", uri, err)
		payload = failure{Error: "Failed to fetch " + uri, Message: err.Error()}
	}
	return json.MarshalIndent(payload, "", "  ")
}

type failure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type leagueView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Region   string `json:"region"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
}

type leagueList struct {
	Data        []leagueView `json:"data"`
	TotalCount  int          `json:"totalCount"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Regions     []string     `json:"regions,omitempty"`
}

func viewLeagues(leagues []live.League) []leagueView {
	out := make([]leagueView, 0, len(leagues))
	for _, l := range leagues {
		out = append(out, leagueView{ID: l.ID, Name: l.Name, Slug: l.Slug, Region: l.Region, Status: l.Status, Priority: l.Position})
	}
	return out
}

func (p *Provider) allLeagues(ctx context.Context) (any, error) {
	leagues, err := p.svc.Leagues(ctx, p.language)
	if err != nil {
		return nil, err
	}
	regions := make([]string, 0, len(leagues))
	for _, l := range leagues {
		regions = append(regions, l.Region)
	}
	slices.Sort(regions)
	return leagueList{
		Data:        viewLeagues(leagues),
		TotalCount:  len(leagues),
		LastUpdated: p.now().UTC(),
		Regions:     slices.Compact(regions),
	}, nil
}

func (p *Provider) majorLeagues(ctx context.Context) (any, error) {
	leagues, err := p.svc.MajorLeagues(ctx, p.language)
	if err != nil {
		return nil, err
	}
	return leagueList{Data: viewLeagues(leagues), TotalCount: len(leagues), LastUpdated: p.now().UTC()}, nil
}

type teamView struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Wins *int   `json:"wins,omitempty"`
}

type matchView struct {
	Title string     `json:"title"`
	Teams []teamView `json:"teams"`
}

type eventView struct {
	League    live.EventLeague `json:"league"`
	Match     matchView        `json:"match"`
	BlockName string           `json:"blockName"`
	State     string           `json:"state,omitempty"`
	StartTime time.Time        `json:"startTime"`
}

type eventList struct {
	Data        []eventView `json:"data"`
	TotalCount  int         `json:"totalCount"`
	LastUpdated time.Time   `json:"lastUpdated"`
	IsLive      *bool       `json:"isLive,omitempty"`
	Date        string      `json:"date,omitempty"`
	WeekStart   *time.Time  `json:"weekStart,omitempty"`
	WeekEnd     *time.Time  `json:"weekEnd,omitempty"`
}

func viewEvents(events []live.Event, withWins bool) []eventView {
	out := make([]eventView, 0, len(events))
	for _, ev := range events {
		v := eventView{League: ev.League, BlockName: ev.BlockName, State: ev.State, StartTime: ev.StartTime}
		v.Match.Title = ev.Title()
		if ev.Match != nil {
			for _, t := range ev.Match.Teams {
				tv := teamView{Name: t.Name, Code: t.Code}
				if withWins {
					tv.Wins = &t.GameWins
				}
				v.Match.Teams = append(v.Match.Teams, tv)
			}
		}
		out = append(out, v)
	}
	return out
}

func (p *Provider) liveMatches(ctx context.Context) (any, error) {
	events, err := p.svc.LiveMatches(ctx, p.language)
	if err != nil {
		return nil, err
	}
	isLive := len(events) > 0
	return eventList{Data: viewEvents(events, true), TotalCount: len(events), LastUpdated: p.now().UTC(), IsLive: &isLive}, nil
}

func (p *Provider) upcomingToday(ctx context.Context) (any, error) {
	now := p.now().UTC()
	events, err := p.svc.UpcomingMatches(ctx, p.language, upcomingScanLimit)
	if err != nil {
		return nil, err
	}
	today := onDay(events, now)
	return eventList{
		Data:        viewEvents(today, false),
		TotalCount:  len(today),
		LastUpdated: now,
		Date:        now.Format(time.DateOnly),
	}, nil
}

func (p *Provider) weekSchedule(ctx context.Context) (any, error) {
	now := p.now().UTC()
	events, err := p.svc.MatchEvents(ctx, p.language)
	if err != nil {
		return nil, err
	}
	start, end := live.WeekBounds(now)
	week := slices.DeleteFunc(events, func(ev live.Event) bool {
		return ev.StartTime.Before(start) || !ev.StartTime.Before(end)
	})
	return eventList{
		Data:        viewEvents(week, false),
		TotalCount:  len(week),
		LastUpdated: now,
		WeekStart:   &start,
		WeekEnd:     &end,
	}, nil
}

type summaryCounts struct {
	LiveMatchesCount   int  `json:"liveMatchesCount"`
	UpcomingTodayCount int  `json:"upcomingTodayCount"`
	TotalLeaguesCount  int  `json:"totalLeaguesCount"`
	MajorLeaguesCount  int  `json:"majorLeaguesCount"`
	HasLiveMatches     bool `json:"hasLiveMatches"`
	HasUpcomingToday   bool `json:"hasUpcomingToday"`
}

type summaryMatch struct {
	League     string     `json:"league"`
	MatchTitle string     `json:"matchTitle"`
	StartTime  *time.Time `json:"startTime,omitempty"`
}

type summaryLeague struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Status string `json:"status"`
}

type summary struct {
	Summary      summaryCounts   `json:"summary"`
	LiveMatches  []summaryMatch  `json:"liveMatches"`
	NextMatches  []summaryMatch  `json:"nextMatches"`
	MajorLeagues []summaryLeague `json:"majorLeagues"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// statusSummary fetches live, upcoming and league data concurrently.
func (p *Provider) statusSummary(ctx context.Context) (any, error) {
	now := p.now().UTC()
	var (
		liveEvents []live.Event
		upcoming   []live.Event
		leagues    []live.League
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		liveEvents, err = p.svc.LiveMatches(gctx, p.language)
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = p.svc.UpcomingMatches(gctx, p.language, summaryUpcoming)
		return err
	})
	g.Go(func() (err error) {
		leagues, err = p.svc.Leagues(gctx, p.language)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	major := slices.DeleteFunc(slices.Clone(leagues), func(l live.League) bool {
		return l.Position > live.MajorLeaguePosition
	})
	today := onDay(upcoming, now)

	out := summary{
		Summary: summaryCounts{
			LiveMatchesCount:   len(liveEvents),
			UpcomingTodayCount: len(today),
			TotalLeaguesCount:  len(leagues),
			MajorLeaguesCount:  len(major),
			HasLiveMatches:     len(liveEvents) > 0,
			HasUpcomingToday:   len(today) > 0,
		},
		LiveMatches:  make([]summaryMatch, 0, len(liveEvents)),
		NextMatches:  make([]summaryMatch, 0, 3),
		MajorLeagues: make([]summaryLeague, 0, 5),
		LastUpdated:  now,
	}
	for _, ev := range liveEvents {
		out.LiveMatches = append(out.LiveMatches, summaryMatch{League: ev.League.Name, MatchTitle: ev.Title()})
	}
	for _, ev := range upcoming[:min(3, len(upcoming))] {
		at := ev.StartTime.UTC()
		out.NextMatches = append(out.NextMatches, summaryMatch{League: ev.League.Name, MatchTitle: ev.Title(), StartTime: &at})
	}
	for _, l := range major[:min(5, len(major))] {
		out.MajorLeagues = append(out.MajorLeagues, summaryLeague{Name: l.Name, Region: l.Region, Status: l.Status})
	}
	return out, nil
}

func onDay(events []live.Event, day time.Time) []live.Event {
	var out []live.Event
	for _, ev := range events {
		if live.SameDay(ev.StartTime, day, time.UTC) {
			out = append(out, ev)
		}
	}
	return out
}
