package esports

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingGetter captures the last request and replies with a canned body.
type recordingGetter struct {
	endpoint string
	query    url.Values
	body     string
	err      error
}

func (g *recordingGetter) Get(_ context.Context, endpoint string, query url.Values, out any) error {
	g.endpoint = endpoint
	g.query = query
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.body), out)
}

func TestAPI_Schedule(t *testing.T) {
	t.Parallel()
	g := &recordingGetter{body: `{"data":{"schedule":{"pages":{"older":"b2xk"},"events":[
	 {"startTime":"2025-06-01T08:00:00Z","state":"unstarted","type":"match","blockName":"Week 1",
	  "league":{"name":"LCK","slug":"lck"},
	  "match":{"id":"m1","flags":["hasVod"],"strategy":{"type":"bestOf","count":3},
	   "teams":[{"name":"T1","code":"T1","result":{"outcome":null,"gameWins":0},"record":{"wins":5,"losses":1}},
	            {"name":"Gen.G","code":"GEN","result":{"outcome":null,"gameWins":0},"record":{"wins":6,"losses":0}}]}},
	 {"startTime":"2025-06-01T07:00:00Z","state":"completed","type":"show","blockName":"Pre-show",
	  "league":{"name":"LCK","slug":"lck"}}
	]}}}`}
	api := NewAPI(g)

	got, err := api.Schedule(context.Background(), "ko-KR", "98767991310872058")
	require.NoError(t, err)

	assert.Equal(t, "/persisted/gw/getSchedule", g.endpoint)
	assert.Equal(t, "ko-KR", g.query.Get("hl"))
	assert.Equal(t, "98767991310872058", g.query.Get("leagueId"))
	require.Len(t, got.Data.Schedule.Events, 2)
	ev := got.Data.Schedule.Events[0]
	require.NotNil(t, ev.Match)
	assert.Equal(t, 3, ev.Match.Strategy.Count)
	assert.Empty(t, ev.Match.Teams[0].Result.Outcome)
	assert.Nil(t, got.Data.Schedule.Events[1].Match)
	assert.Equal(t, "b2xk", got.Data.Schedule.Pages.Older)
}

func TestAPI_ScheduleWithoutLeague(t *testing.T) {
	t.Parallel()
	g := &recordingGetter{body: `{"data":{"schedule":{"events":[]}}}`}
	_, err := NewAPI(g).Schedule(context.Background(), "en-US", "")
	require.NoError(t, err)
	assert.False(t, g.query.Has("leagueId"))
}

func TestAPI_EventDetails(t *testing.T) {
	t.Parallel()
	g := &recordingGetter{body: `{"data":{"event":{"id":"e1","type":"match","tournament":{"id":"t1"},
	 "league":{"id":"l1","slug":"lck","name":"LCK"},
	 "match":{"strategy":{"count":5},"teams":[{"id":"a","name":"T1","code":"T1","result":{"gameWins":3}}],
	  "games":[{"number":1,"id":"g1","state":"completed","teams":[{"id":"a","side":"blue"}],
	   "vods":[{"id":"v1","parameter":"abc","locale":"en-US","mediaLocale":{"englishName":"English"},"provider":"youtube","startMillis":null}]}]},
	 "streams":[]}}}`}

	got, err := NewAPI(g).EventDetails(context.Background(), "e1", "en-US")
	require.NoError(t, err)
	assert.Equal(t, "/persisted/gw/getEventDetails", g.endpoint)
	assert.Equal(t, "e1", g.query.Get("id"))
	ev := got.Data.Event
	assert.Equal(t, "t1", ev.Tournament.ID)
	assert.Equal(t, 5, ev.Match.Strategy.Count)
	require.Len(t, ev.Match.Games, 1)
	require.Len(t, ev.Match.Games[0].VODs, 1)
	assert.Equal(t, "English", ev.Match.Games[0].VODs[0].MediaLocale.EnglishName)
	assert.Nil(t, ev.Match.Games[0].VODs[0].StartMillis)
}

func TestAPI_WrapsErrors(t *testing.T) {
	t.Parallel()
	g := &recordingGetter{err: &StatusError{Status: 503, URL: "x"}}
	api := NewAPI(g)
	ctx := context.Background()

	_, err := api.Live(ctx, "en-US")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "fetch live matches")

	_, err = api.Leagues(ctx, "en-US")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "/persisted/gw/getLeagues", g.endpoint)
}

func TestClassTTLs(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Dynamic, ClassOf(OpSchedule))
	assert.Equal(t, Live, ClassOf(OpLive))
	assert.Equal(t, Historical, ClassOf(OpEventDetails))
	assert.Equal(t, Static, ClassOf(OpLeagues))
	assert.Equal(t, "historical", Historical.String())
}
