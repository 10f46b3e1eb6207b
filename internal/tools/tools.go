// Package tools implements the MCP tool handlers over the live service.
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/live"
	"github.com/leonardcser/lol-esports-mcp/internal/logger"
	"github.com/leonardcser/lol-esports-mcp/internal/telemetry"
)

// Handler is the mcp-go tool handler signature.
type Handler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Upcoming match limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// League match filters for get-league-matches.
const (
	FilterAll       = "all"
	FilterUpcoming  = "upcoming"
	FilterLive      = "live"
	FilterCompleted = "completed"
)

type textFunc func(ctx context.Context, req mcp.CallToolRequest) (string, error)

// text adapts fn into a Handler. Failures become error results; the Go error
// return is always nil so the transport never sees a protocol error.
func text(tool string, fn textFunc) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := ctx.Err(); err != nil {
			return Classify(err, tool).Result(), nil
		}
		out, err := fn(ctx, req)
		if err != nil {
			return Classify(err, tool).Result(), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// Instrument tags each call with a request ID, logs its outcome and counts it.
func Instrument(tool string, m *telemetry.Metrics, h Handler) Handler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithFields(logrus.Fields{"tool": tool, "request_id": uuid.NewString()})
		start := time.Now()
		res, err := h(ctx, req)

		outcome := "ok"
		if err != nil || (res != nil && res.IsError) {
			outcome = "error"
		}
		m.ToolCall(tool, outcome)
		entry := log.WithFields(logrus.Fields{"outcome": outcome, "elapsed": time.Since(start)})
		if outcome == "error" {
			entry.Warn("tool call failed")
		} else {
			entry.Info("tool call")
		}
		return res, err
	}
}

// ScheduleHandler returns the handler for "get-schedule".
func ScheduleHandler(svc *live.Service) Handler {
	const tool = "get-schedule"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		sch, err := svc.Schedule(ctx, lang, strings.TrimSpace(req.GetString("leagueId", "")))
		if err != nil {
			return "", err
		}
		if len(sch.Events) == 0 {
			return "📋 No scheduled events found", nil
		}
		blocks := make([]string, 0, len(sch.Events))
		for _, ev := range sch.Events {
			blocks = append(blocks, fmt.Sprintf("🎮 %s: %s\n📅 %s\n🏆 %s - %s",
				ev.League.Name, ev.Title(), formatDate(ev.StartTime), ev.BlockName, ev.State))
		}
		return fmt.Sprintf("📋 LoL Esports Schedule (%s)\n\n%s", lang, strings.Join(blocks, "\n\n")), nil
	})
}

// LiveMatchesHandler returns the handler for "get-live-matches".
func LiveMatchesHandler(svc *live.Service) Handler {
	const tool = "get-live-matches"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		events, err := svc.LiveMatches(ctx, lang)
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			return "🔴 No live matches currently happening", nil
		}
		blocks := make([]string, 0, len(events))
		for _, ev := range events {
			blocks = append(blocks, fmt.Sprintf("🔴 LIVE: %s\n🎮 %s\n📊 Score: %s\n🏆 %s",
				ev.League.Name, ev.Match.Title(), ev.Match.LiveScore(), ev.BlockName))
		}
		return "🔴 Live Matches:\n\n" + strings.Join(blocks, "\n\n"), nil
	})
}

// LeaguesHandler returns the handler for "get-leagues".
func LeaguesHandler(svc *live.Service) Handler {
	const tool = "get-leagues"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		region := strings.TrimSpace(req.GetString("region", ""))
		var leagues []live.League
		title := "🏆 All Available Leagues"
		if region != "" {
			leagues, err = svc.LeaguesByRegion(ctx, region, lang)
			title = "🌍 Leagues in " + region
		} else {
			leagues, err = svc.Leagues(ctx, lang)
		}
		if err != nil {
			return "", err
		}
		if len(leagues) == 0 {
			return title + "\n\nNo leagues found.", nil
		}
		blocks := make([]string, 0, len(leagues))
		for _, l := range leagues {
			blocks = append(blocks, fmt.Sprintf("🏆 %s (%s)\n🌍 Region: %s\n⭐ Status: %s",
				l.Name, l.Slug, l.Region, l.Status))
		}
		return title + "\n\n" + strings.Join(blocks, "\n\n"), nil
	})
}

// EventDetailsHandler returns the handler for "get-event-details".
func EventDetailsHandler(svc *live.Service) Handler {
	const tool = "get-event-details"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		eventID, err := requiredString(tool, req, "eventId")
		if err != nil {
			return "", err
		}
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		ev, err := svc.EventDetails(ctx, eventID, lang)
		if err != nil {
			return "", err
		}

		teams := make([]string, 0, len(ev.Match.Teams))
		results := make([]string, 0, len(ev.Match.Teams))
		for _, t := range ev.Match.Teams {
			teams = append(teams, fmt.Sprintf("%s (%s)", t.Name, t.Code))
			results = append(results, fmt.Sprintf("%s: %d wins", t.Name, t.Result.GameWins))
		}
		var games strings.Builder
		totalVODs := 0
		for _, g := range ev.Match.Games {
			totalVODs += len(g.VODs)
			fmt.Fprintf(&games, "  Game %d: %s (%d VODs available)\n", g.Number, stateLabel(g.State), len(g.VODs))
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "🎮 %s Event Details\n\n", ev.League.Name)
		fmt.Fprintf(&sb, "🏆 Tournament ID: %s\n", ev.Tournament.ID)
		fmt.Fprintf(&sb, "⚔️  Teams: %s\n", strings.Join(teams, " vs "))
		fmt.Fprintf(&sb, "📊 Results: %s\n", strings.Join(results, " | "))
		fmt.Fprintf(&sb, "🎯 Format: Best of %d\n\n", ev.Match.Strategy.Count)
		fmt.Fprintf(&sb, "🎮 Games:\n%s\n", games.String())
		fmt.Fprintf(&sb, "📺 Total VODs: %d", totalVODs)
		return sb.String(), nil
	})
}

// MatchVODsHandler returns the handler for "get-match-vods".
func MatchVODsHandler(svc *live.Service) Handler {
	const tool = "get-match-vods"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		eventID, err := requiredString(tool, req, "eventId")
		if err != nil {
			return "", err
		}
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		vods, err := svc.MatchVODs(ctx, eventID, lang)
		if err != nil {
			return "", err
		}
		if len(vods) == 0 {
			return "📺 No VODs available for event " + eventID, nil
		}
		blocks := make([]string, 0, len(vods))
		for i, v := range vods {
			blocks = append(blocks, fmt.Sprintf("📺 VOD %d:\n🎥 Provider: %s\n🌍 Language: %s\n⏰ First frame: %s\n🔗 Parameter: %s",
				i+1, v.Provider, v.MediaLocale.EnglishName, v.FirstFrameTime, v.Parameter))
		}
		return fmt.Sprintf("📺 VODs for Event %s:\n\n%s", eventID, strings.Join(blocks, "\n\n")), nil
	})
}

// UpcomingMatchesHandler returns the handler for "get-upcoming-matches".
func UpcomingMatchesHandler(svc *live.Service) Handler {
	const tool = "get-upcoming-matches"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		limit := req.GetInt("limit", DefaultLimit)
		if limit < 1 || limit > MaxLimit {
			return "", InvalidInput(tool, "limit", limit)
		}
		events, err := svc.UpcomingMatches(ctx, lang, limit)
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			return "⏭️ No upcoming matches found", nil
		}
		blocks := make([]string, 0, len(events))
		for _, ev := range events {
			blocks = append(blocks, fmt.Sprintf("⏭️ %s: %s\n📅 %s\n🏆 %s",
				ev.League.Name, ev.Match.Title(), formatDate(ev.StartTime), ev.BlockName))
		}
		return fmt.Sprintf("⏭️ Upcoming Matches (Next %d):\n\n%s", len(events), strings.Join(blocks, "\n\n")), nil
	})
}

// LiveMatchScoreHandler returns the handler for "get-live-match-score".
func LiveMatchScoreHandler(svc *live.Service) Handler {
	const tool = "get-live-match-score"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		team, err := requiredString(tool, req, "teamName")
		if err != nil {
			return "", err
		}
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		scores, err := svc.LiveMatchScore(ctx, team, lang)
		if err != nil {
			return "", err
		}
		if len(scores) == 0 {
			return "🔴 No live match score found for " + team, nil
		}
		blocks := make([]string, 0, len(scores))
		for _, s := range scores {
			blocks = append(blocks, fmt.Sprintf("🔴 Live Match Title: %s\n📊 Score: %s\n🔗 Event ID: %s",
				s.Title, s.Score, s.EventID))
		}
		return strings.Join(blocks, "\n\n"), nil
	})
}

// LeagueMatchesHandler returns the handler for "get-league-matches".
func LeagueMatchesHandler(svc *live.Service) Handler {
	const tool = "get-league-matches"
	return text(tool, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		slug, err := requiredString(tool, req, "league")
		if err != nil {
			return "", err
		}
		lang, err := language(tool, req)
		if err != nil {
			return "", err
		}
		var events []live.Event
		switch state := req.GetString("state", FilterAll); state {
		case FilterAll:
			events, err = svc.MatchesForLeague(ctx, slug, lang)
		case FilterUpcoming:
			events, err = svc.UpcomingForLeague(ctx, slug, lang)
		case FilterLive:
			events, err = svc.LiveForLeague(ctx, slug, lang)
		case FilterCompleted:
			events, err = svc.CompletedForLeague(ctx, slug, lang)
		default:
			return "", InvalidInput(tool, "state", state)
		}
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			return "📭 No matches found for league " + slug, nil
		}
		blocks := make([]string, 0, len(events))
		for _, ev := range events {
			line := fmt.Sprintf("🎮 %s\n📅 %s\n🏆 %s - %s", ev.Title(), formatDate(ev.StartTime), ev.BlockName, stateLabel(ev.State))
			if ev.Match != nil && ev.IsCompleted() {
				line += "\n📊 Final: " + ev.Match.CurrentScore()
			}
			blocks = append(blocks, line)
		}
		return fmt.Sprintf("🏆 %s matches (%d)\n\n%s", strings.ToUpper(slug), len(events), strings.Join(blocks, "\n\n")), nil
	})
}

// CacheStatsHandler returns the handler for "get-cache-stats".
func CacheStatsHandler(backend string, stats cache.StatsReporter) Handler {
	return text("get-cache-stats", func(context.Context, mcp.CallToolRequest) (string, error) {
		s := stats.Stats()
		return fmt.Sprintf("📊 Cache statistics (%s)\n\nHits: %d\nMisses: %d\nSets: %d\nHit rate: %s",
			backend, s.Hits, s.Misses, s.Sets, s.HitRate), nil
	})
}
