package live

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

// DefaultStartingSoon is the window used by Event.IsStartingSoon callers that
// have no preference.
const DefaultStartingSoon = 30 * time.Minute

type EventLeague struct {
	Name string
	Slug string
}

// Event is a schedule entry. Match is nil for non-match events such as shows.
type Event struct {
	StartTime time.Time
	State     string
	Type      string
	BlockName string
	League    EventLeague
	Match     *Match
}

func (e *Event) IsLive() bool      { return e.State == esports.StateInProgress }
func (e *Event) IsUpcoming() bool  { return e.State == esports.StateUnstarted }
func (e *Event) IsCompleted() bool { return e.State == esports.StateCompleted }

// HasStarted reports whether the scheduled start is at or before now.
func (e *Event) HasStarted(now time.Time) bool { return !e.StartTime.After(now) }

// TimeUntilStart is negative once the start time has passed.
func (e *Event) TimeUntilStart(now time.Time) time.Duration { return e.StartTime.Sub(now) }

// IsStartingSoon reports whether an unstarted event begins within window.
func (e *Event) IsStartingSoon(now time.Time, window time.Duration) bool {
	if !e.IsUpcoming() {
		return false
	}
	until := e.TimeUntilStart(now)
	return until >= 0 && until <= window
}

func (e *Event) IsLeagueMatch(slug string) bool {
	return strings.EqualFold(e.League.Slug, slug)
}

// MatchID returns the match identifier, or "" for events without a match.
func (e *Event) MatchID() string {
	if e.Match == nil {
		return ""
	}
	return e.Match.ID
}

// Title is the match title, or the block name for events without a match.
func (e *Event) Title() string {
	if e.Match == nil {
		return e.BlockName
	}
	return e.Match.Title()
}

type Match struct {
	ID       string
	Teams    []Team
	BestOf   int
	Strategy string
	Flags    []string
}

// IsCompleted reports whether any team has a decided outcome.
func (m *Match) IsCompleted() bool {
	return slices.ContainsFunc(m.Teams, func(t Team) bool { return t.Outcome != "" })
}

func (m *Match) Winner() (Team, bool) { return m.teamWith(OutcomeWin) }
func (m *Match) Loser() (Team, bool)  { return m.teamWith(OutcomeLoss) }

func (m *Match) teamWith(outcome string) (Team, bool) {
	i := slices.IndexFunc(m.Teams, func(t Team) bool { return t.Outcome == outcome })
	if i < 0 {
		return Team{}, false
	}
	return m.Teams[i], true
}

func (m *Match) IsBestOfSeries() bool { return m.BestOf > 1 }

func (m *Match) SeriesType() string { return fmt.Sprintf("Best of %d", m.BestOf) }

// CurrentScore is the final series score, or "0-0" until the match is decided.
func (m *Match) CurrentScore() string {
	if !m.IsCompleted() {
		return "0-0"
	}
	return m.LiveScore()
}

// LiveScore reports game wins as they stand, decided or not.
func (m *Match) LiveScore() string {
	return fmt.Sprintf("%d-%d", m.gameWins(0), m.gameWins(1))
}

func (m *Match) gameWins(i int) int {
	if i >= len(m.Teams) {
		return 0
	}
	return m.Teams[i].GameWins
}

// Title renders "A vs B - Best of N", with TBD for teams not yet known.
func (m *Match) Title() string {
	return fmt.Sprintf("%s vs %s - %s", m.teamName(0), m.teamName(1), m.SeriesType())
}

func (m *Match) teamName(i int) string {
	if i >= len(m.Teams) || m.Teams[i].Name == "" {
		return "TBD"
	}
	return m.Teams[i].Name
}

func (m *Match) HasFlag(flag string) bool { return slices.Contains(m.Flags, flag) }

func (m *Match) IsPlayoff() bool { return m.HasFlag("playoff") || m.HasFlag("playoffs") }

// TeamByName finds a team by name or code, ignoring case.
func (m *Match) TeamByName(name string) (Team, bool) {
	i := slices.IndexFunc(m.Teams, func(t Team) bool {
		return strings.EqualFold(t.Name, name) || strings.EqualFold(t.Code, name)
	})
	if i < 0 {
		return Team{}, false
	}
	return m.Teams[i], true
}

// Team outcomes.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

type Team struct {
	Name     string
	Code     string
	Image    string
	Outcome  string
	GameWins int
	Wins     int
	Losses   int
}

func (t Team) HasWon() bool  { return t.Outcome == OutcomeWin }
func (t Team) HasLost() bool { return t.Outcome == OutcomeLoss }

func (t Team) GamesPlayed() int { return t.Wins + t.Losses }

// WinRate is the season record as a fraction in [0, 1]; zero with no games.
func (t Team) WinRate() float64 {
	if t.GamesPlayed() == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.GamesPlayed())
}

// League display statuses.
const (
	StatusForceSelected = "force_selected"
	StatusSelected      = "selected"
	StatusNotSelected   = "not_selected"
	StatusHidden        = "hidden"
)

type League struct {
	ID       string
	Slug     string
	Name     string
	Region   string
	Image    string
	Priority int
	Position int
	Status   string
}

var (
	regionalSlugs      = []string{"LCS", "LEC", "LCK", "LPL"}
	internationalSlugs = []string{"MSI", "WORLDS", "WCS"}
	regionCodes        = map[string]string{
		"AMERICAS":      "NA",
		"NORTH_AMERICA": "NA",
		"EMEA":          "EU",
		"EUROPE":        "EU",
		"ASIA":          "AS",
		"KOREA":         "KR",
		"CHINA":         "CN",
	}
)

func (l League) IsVisible() bool { return l.Status != StatusHidden }

func (l League) IsSelected() bool {
	return l.Status == StatusSelected || l.Status == StatusForceSelected
}

func (l League) IsRegional() bool {
	return slices.Contains(regionalSlugs, strings.ToUpper(l.Slug))
}

func (l League) IsInternational() bool {
	slug := strings.ToUpper(l.Slug)
	return slices.ContainsFunc(internationalSlugs, func(s string) bool {
		return strings.Contains(slug, s)
	})
}

// RegionCode maps the API region to a short code, falling back to the region itself.
func (l League) RegionCode() string {
	if code, ok := regionCodes[strings.ToUpper(l.Region)]; ok {
		return code
	}
	return l.Region
}
