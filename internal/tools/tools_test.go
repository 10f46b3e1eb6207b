package tools

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/esports"
	"github.com/leonardcser/lol-esports-mcp/internal/live"
	"github.com/leonardcser/lol-esports-mcp/internal/telemetry"
)

var start = time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	err      error
	language string
}

func (f *fakeSource) Schedule(_ context.Context, language, _ string) (*esports.ScheduleResponse, error) {
	f.language = language
	if f.err != nil {
		return nil, f.err
	}
	resp := &esports.ScheduleResponse{}
	resp.Data.Schedule.Events = []esports.Event{
		event("m2", esports.StateUnstarted, start.Add(2*time.Hour), "DRX", "KT Rolster"),
		event("m1", esports.StateUnstarted, start.Add(time.Hour), "T1", "Gen.G"),
		event("m0", esports.StateCompleted, start.Add(-time.Hour), "HLE", "DK"),
	}
	resp.Data.Schedule.Events[2].Match.Teams[0].Result = esports.TeamResult{Outcome: "win", GameWins: 2}
	resp.Data.Schedule.Events[2].Match.Teams[1].Result = esports.TeamResult{Outcome: "loss", GameWins: 1}
	return resp, nil
}

func (f *fakeSource) Live(context.Context, string) (*esports.LiveResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := &esports.LiveResponse{}
	ev := event("m9", esports.StateInProgress, start, "T1", "Gen.G")
	ev.Match.Teams[0].Result.GameWins = 1
	resp.Data.Schedule.Events = []esports.Event{ev}
	return resp, nil
}

func (f *fakeSource) EventDetails(_ context.Context, id, _ string) (*esports.EventDetailsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := &esports.EventDetailsResponse{}
	ev := &resp.Data.Event
	ev.ID = id
	ev.Tournament.ID = "t-42"
	ev.League.Name = "LCK"
	ev.Match.Strategy.Count = 3
	ev.Match.Teams = []esports.DetailTeam{{Name: "T1", Code: "T1"}, {Name: "Gen.G", Code: "GEN"}}
	ev.Match.Teams[0].Result.GameWins = 2
	vod := esports.VOD{Provider: "youtube", Parameter: "abc123", Locale: "en-US"}
	vod.MediaLocale.EnglishName = "English"
	ev.Match.Games = []esports.Game{
		{Number: 1, State: esports.StateCompleted, VODs: []esports.VOD{vod}},
		{Number: 2, State: esports.StateCompleted},
	}
	return resp, nil
}

func (f *fakeSource) Leagues(context.Context, string) (*esports.LeaguesResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp := &esports.LeaguesResponse{}
	resp.Data.Leagues = []esports.League{
		{Slug: "lck", Name: "LCK", Region: "KOREA", DisplayPriority: esports.DisplayPriority{Position: 1, Status: "selected"}},
		{Slug: "lec", Name: "LEC", Region: "EMEA", DisplayPriority: esports.DisplayPriority{Position: 2, Status: "selected"}},
	}
	return resp, nil
}

func event(id, state string, at time.Time, a, b string) esports.Event {
	return esports.Event{
		StartTime: at,
		State:     state,
		Type:      esports.EventTypeMatch,
		BlockName: "Week 1",
		League:    esports.EventLeague{Name: "LCK", Slug: "lck"},
		Match: &esports.Match{
			ID:       id,
			Teams:    []esports.Team{{Name: a, Code: a}, {Name: b, Code: b}},
			Strategy: esports.Strategy{Count: 3},
		},
	}
}

func call(t *testing.T, h Handler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestScheduleHandler(t *testing.T) {
	t.Parallel()
	src := &fakeSource{}
	res := call(t, ScheduleHandler(live.NewService(src)), map[string]any{"language": "ko-KR"})

	assert.False(t, res.IsError)
	out := textOf(t, res)
	assert.Contains(t, out, "LoL Esports Schedule (ko-KR)")
	assert.Contains(t, out, "T1 vs Gen.G - Best of 3")
	assert.Contains(t, out, "2025-06-04 10:00 UTC")
	assert.Equal(t, "ko-KR", src.language)
}

func TestScheduleHandler_DefaultsLanguage(t *testing.T) {
	t.Parallel()
	src := &fakeSource{}
	res := call(t, ScheduleHandler(live.NewService(src)), nil)
	assert.False(t, res.IsError)
	assert.Equal(t, "en-US", src.language)
}

func TestHandlers_RejectUnknownLanguage(t *testing.T) {
	t.Parallel()
	res := call(t, LiveMatchesHandler(live.NewService(&fakeSource{})), map[string]any{"language": "xx-XX"})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), `Invalid input for parameter "language"`)
}

func TestLiveMatchesHandler(t *testing.T) {
	t.Parallel()
	out := textOf(t, call(t, LiveMatchesHandler(live.NewService(&fakeSource{})), nil))
	assert.Contains(t, out, "🔴 LIVE: LCK")
	assert.Contains(t, out, "Score: 1-0")
}

func TestLeaguesHandler(t *testing.T) {
	t.Parallel()
	svc := live.NewService(&fakeSource{})

	out := textOf(t, call(t, LeaguesHandler(svc), nil))
	assert.Contains(t, out, "All Available Leagues")
	assert.Contains(t, out, "LCK (lck)")
	assert.Contains(t, out, "LEC (lec)")

	out = textOf(t, call(t, LeaguesHandler(svc), map[string]any{"region": "EMEA"}))
	assert.Contains(t, out, "Leagues in EMEA")
	assert.NotContains(t, out, "LCK (lck)")
}

func TestEventDetailsHandler(t *testing.T) {
	t.Parallel()
	svc := live.NewService(&fakeSource{})

	out := textOf(t, call(t, EventDetailsHandler(svc), map[string]any{"eventId": "e1"}))
	assert.Contains(t, out, "Tournament ID: t-42")
	assert.Contains(t, out, "T1 (T1) vs Gen.G (GEN)")
	assert.Contains(t, out, "Game 1: ✅ Completed (1 VODs available)")
	assert.Contains(t, out, "Total VODs: 1")

	res := call(t, EventDetailsHandler(svc), map[string]any{"eventId": "  "})
	assert.True(t, res.IsError)
	res = call(t, EventDetailsHandler(svc), nil)
	assert.True(t, res.IsError)
}

func TestMatchVODsHandler(t *testing.T) {
	t.Parallel()
	out := textOf(t, call(t, MatchVODsHandler(live.NewService(&fakeSource{})), map[string]any{"eventId": "e1"}))
	assert.Contains(t, out, "VODs for Event e1")
	assert.Contains(t, out, "Provider: youtube")
	assert.Contains(t, out, "Language: English")
}

func TestUpcomingMatchesHandler(t *testing.T) {
	t.Parallel()
	svc := live.NewService(&fakeSource{})

	out := textOf(t, call(t, UpcomingMatchesHandler(svc), map[string]any{"limit": float64(1)}))
	assert.Contains(t, out, "Next 1")
	assert.Contains(t, out, "T1 vs Gen.G")
	assert.NotContains(t, out, "DRX")

	res := call(t, UpcomingMatchesHandler(svc), map[string]any{"limit": float64(51)})
	assert.True(t, res.IsError)
}

func TestLiveMatchScoreHandler(t *testing.T) {
	t.Parallel()
	svc := live.NewService(&fakeSource{})

	out := textOf(t, call(t, LiveMatchScoreHandler(svc), map[string]any{"teamName": "gen.g"}))
	assert.Contains(t, out, "Score: 1-0")
	assert.Contains(t, out, "Event ID: m9")

	out = textOf(t, call(t, LiveMatchScoreHandler(svc), map[string]any{"teamName": "Fnatic"}))
	assert.Contains(t, out, "No live match score found")
}

func TestLeagueMatchesHandler(t *testing.T) {
	t.Parallel()
	svc := live.NewService(&fakeSource{})

	out := textOf(t, call(t, LeagueMatchesHandler(svc), map[string]any{"league": "LCK", "state": "completed"}))
	assert.Contains(t, out, "LCK matches (1)")
	assert.Contains(t, out, "Final: 2-1")

	out = textOf(t, call(t, LeagueMatchesHandler(svc), map[string]any{"league": "lec"}))
	assert.Contains(t, out, "No matches found")

	res := call(t, LeagueMatchesHandler(svc), map[string]any{"league": "lck", "state": "soon"})
	assert.True(t, res.IsError)
}

func TestCacheStatsHandler(t *testing.T) {
	t.Parallel()
	mem := cache.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "k", []byte("v"), time.Minute))
	_, _, _ = mem.Get(ctx, "k")
	_, _, _ = mem.Get(ctx, "missing")

	out := textOf(t, call(t, CacheStatsHandler("memory", mem), nil))
	assert.Contains(t, out, "(memory)")
	assert.Contains(t, out, "Hits: 1")
	assert.Contains(t, out, "Misses: 1")
	assert.Contains(t, out, "Hit rate: 50.0%")
}

func TestHandlers_UpstreamFailuresBecomeErrorResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", fmt.Errorf("fetch: %w", esports.ErrTimeout), "API request timed out"},
		{"rate limited", &esports.StatusError{Status: http.StatusTooManyRequests}, "rate limit"},
		{"server error", &esports.StatusError{Status: http.StatusBadGateway}, "status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := call(t, ScheduleHandler(live.NewService(&fakeSource{err: tt.err})), nil)
			assert.True(t, res.IsError)
			out := textOf(t, res)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "Troubleshooting tips")
		})
	}
}

func TestHandlers_CanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ScheduleHandler(live.NewService(&fakeSource{}))(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestInstrument_CountsOutcomes(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)
	svc := live.NewService(&fakeSource{})

	h := Instrument("get-event-details", m, EventDetailsHandler(svc))
	call(t, h, map[string]any{"eventId": "e1"})
	call(t, h, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("get-event-details", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("get-event-details", "error")))
}

func TestInstrument_NilMetrics(t *testing.T) {
	t.Parallel()
	h := Instrument("get-leagues", nil, LeaguesHandler(live.NewService(&fakeSource{})))
	res := call(t, h, nil)
	assert.False(t, res.IsError)
}
