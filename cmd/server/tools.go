package main

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/esports"
	"github.com/leonardcser/lol-esports-mcp/internal/live"
	"github.com/leonardcser/lol-esports-mcp/internal/logger"
	"github.com/leonardcser/lol-esports-mcp/internal/telemetry"
	"github.com/leonardcser/lol-esports-mcp/internal/tools"
)

func registerTools(s *server.MCPServer, svc *live.Service, m *telemetry.Metrics, backend string, stats cache.StatsReporter) {
	add := func(t mcp.Tool, h tools.Handler) {
		s.AddTool(t, tools.Instrument(t.Name, m, h))
		logger.Infof("Registered %s tool", t.Name)
	}

	add(mcp.NewTool("get-schedule",
		mcp.WithDescription(multiline(
			"Get the League of Legends esports schedule",
			"\nUsage notes:",
			"- Returns every scheduled event with league, teams, start time (UTC), block and state",
			"- Filter to one league with leagueId; use get-leagues to find IDs",
			"- Cached for 5 minutes",
		)),
		languageArg("Language code for the schedule response"),
		mcp.WithString("leagueId", mcp.Description("League ID to filter the schedule by")),
	), tools.ScheduleHandler(svc))

	add(mcp.NewTool("get-live-matches",
		mcp.WithDescription(multiline(
			"Get currently live League of Legends esports matches",
			"\nUsage notes:",
			"- Lists in-progress matches with their current series score",
			"- Cached for 30 seconds",
		)),
		languageArg("Language code for the live matches response"),
	), tools.LiveMatchesHandler(svc))

	add(mcp.NewTool("get-leagues",
		mcp.WithDescription(multiline(
			"Get all available League of Legends esports leagues",
			"\nUsage notes:",
			"- Optionally filter by region, e.g. EMEA, KOREA, CHINA, AMERICAS",
			"- Cached for 24 hours",
		)),
		languageArg("Language code for the leagues response"),
		mcp.WithString("region", mcp.Description(`Filter leagues by region (e.g., "AMERICAS", "EMEA", "KOREA")`)),
	), tools.LeaguesHandler(svc))

	add(mcp.NewTool("get-event-details",
		mcp.WithDescription(multiline(
			"Get detailed information about a specific League of Legends esports event",
			"\nUsage notes:",
			"- Shows teams, results, format and each game with its VOD count",
			"- Event IDs come from get-schedule or get-league-matches",
			"- Cached for 7 days",
		)),
		mcp.WithString("eventId", mcp.Required(), mcp.Description("Unique identifier of the esports event")),
		languageArg("Language code for the event details response"),
	), tools.EventDetailsHandler(svc))

	add(mcp.NewTool("get-match-vods",
		mcp.WithDescription("Get VODs (Video on Demand) for a specific League of Legends esports match"),
		mcp.WithString("eventId", mcp.Required(), mcp.Description("Unique identifier of the esports event to get VODs for")),
		languageArg("Language code for the VODs response"),
	), tools.MatchVODsHandler(svc))

	add(mcp.NewTool("get-upcoming-matches",
		mcp.WithDescription("Get upcoming League of Legends esports matches, soonest first"),
		languageArg("Language code for the upcoming matches response"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of upcoming matches to return"),
			mcp.Min(1), mcp.Max(tools.MaxLimit), mcp.DefaultNumber(tools.DefaultLimit),
		),
	), tools.UpcomingMatchesHandler(svc))

	add(mcp.NewTool("get-live-match-score",
		mcp.WithDescription("Get the live score of the match a given team is currently playing"),
		mcp.WithString("teamName", mcp.Required(), mcp.Description("Team name or code, e.g. T1 or GEN")),
		languageArg("Language code for the response"),
	), tools.LiveMatchScoreHandler(svc))

	add(mcp.NewTool("get-league-matches",
		mcp.WithDescription("Get the scheduled matches of a single league, optionally filtered by state"),
		mcp.WithString("league", mcp.Required(), mcp.Description("League slug, e.g. lck, lec, lcs, lpl")),
		mcp.WithString("state",
			mcp.Description("Which matches to include"),
			mcp.Enum(tools.FilterAll, tools.FilterUpcoming, tools.FilterLive, tools.FilterCompleted),
			mcp.DefaultString(tools.FilterAll),
		),
		languageArg("Language code for the response"),
	), tools.LeagueMatchesHandler(svc))

	add(mcp.NewTool("get-cache-stats",
		mcp.WithDescription("Report response cache hits, misses, writes and hit rate"),
	), tools.CacheStatsHandler(backend, stats))
}

func languageArg(desc string) mcp.ToolOption {
	return mcp.WithString("language",
		mcp.Description(desc),
		mcp.Enum(tools.Languages...),
		mcp.DefaultString(esports.DefaultLanguage),
	)
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }
