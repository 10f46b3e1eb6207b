// Package esports talks to the LoL Esports API and caches its responses.
package esports

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultLanguage is used whenever a caller passes an empty language.
const DefaultLanguage = "en-US"

// Datasource is the set of upstream fetch operations. Both the raw API and
// the caching decorator implement it.
type Datasource interface {
	// Schedule returns the schedule, optionally filtered to one league.
	// An empty leagueID means all leagues.
	Schedule(ctx context.Context, language, leagueID string) (*ScheduleResponse, error)
	Live(ctx context.Context, language string) (*LiveResponse, error)
	EventDetails(ctx context.Context, eventID, language string) (*EventDetailsResponse, error)
	Leagues(ctx context.Context, language string) (*LeaguesResponse, error)
}

// Getter is the transport the API datasource depends on.
type Getter interface {
	Get(ctx context.Context, endpoint string, query url.Values, out any) error
}

// API is the uncached Datasource backed by the persisted gateway endpoints.
type API struct {
	http Getter
}

// NewAPI returns the uncached datasource issuing requests through g.
func NewAPI(g Getter) *API {
	return &API{http: g}
}

// Schedule implements Datasource.
func (a *API) Schedule(ctx context.Context, language, leagueID string) (*ScheduleResponse, error) {
	q := url.Values{"hl": {language}}
	if leagueID != "" {
		q.Set("leagueId", leagueID)
	}
	var out ScheduleResponse
	if err := a.http.Get(ctx, "/persisted/gw/getSchedule", q, &out); err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return &out, nil
}

// Live implements Datasource.
func (a *API) Live(ctx context.Context, language string) (*LiveResponse, error) {
	var out LiveResponse
	if err := a.http.Get(ctx, "/persisted/gw/getLive", url.Values{"hl": {language}}, &out); err != nil {
		return nil, fmt.Errorf("fetch live matches: %w", err)
	}
	return &out, nil
}

// EventDetails implements Datasource.
func (a *API) EventDetails(ctx context.Context, eventID, language string) (*EventDetailsResponse, error) {
	q := url.Values{"hl": {language}, "id": {eventID}}
	var out EventDetailsResponse
	if err := a.http.Get(ctx, "/persisted/gw/getEventDetails", q, &out); err != nil {
		return nil, fmt.Errorf("fetch event details %s: %w", eventID, err)
	}
	return &out, nil
}

// Leagues implements Datasource.
func (a *API) Leagues(ctx context.Context, language string) (*LeaguesResponse, error) {
	var out LeaguesResponse
	if err := a.http.Get(ctx, "/persisted/gw/getLeagues", url.Values{"hl": {language}}, &out); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}
	return &out, nil
}
