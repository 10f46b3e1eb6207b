package esports

import (
	"encoding/json"
	"time"
)

// Event states as reported by the API.
const (
	StateCompleted  = "completed"
	StateUnstarted  = "unstarted"
	StateInProgress = "inProgress"
)

// Event types as reported by the API.
const (
	EventTypeMatch = "match"
	EventTypeShow  = "show"
)

type ScheduleResponse struct {
	Data struct {
		Schedule Schedule `json:"schedule"`
	} `json:"data"`
}

type Schedule struct {
	Pages  Pages   `json:"pages"`
	Events []Event `json:"events"`
}

type Pages struct {
	Older string `json:"older,omitempty"`
	Newer string `json:"newer,omitempty"`
}

type LiveResponse struct {
	Data struct {
		Schedule struct {
			Events []Event `json:"events"`
		} `json:"schedule"`
	} `json:"data"`
}

// Event is a schedule entry. Match is nil for "show" events.
type Event struct {
	StartTime time.Time   `json:"startTime"`
	State     string      `json:"state"`
	Type      string      `json:"type"`
	BlockName string      `json:"blockName"`
	League    EventLeague `json:"league"`
	Match     *Match      `json:"match,omitempty"`
}

type EventLeague struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Match struct {
	ID       string   `json:"id"`
	Flags    []string `json:"flags"`
	Teams    []Team   `json:"teams"`
	Strategy Strategy `json:"strategy"`
}

type Strategy struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type Team struct {
	Name   string     `json:"name"`
	Code   string     `json:"code"`
	Image  string     `json:"image"`
	Result TeamResult `json:"result"`
	Record TeamRecord `json:"record"`
}

// TeamResult.Outcome is "win", "loss" or empty while the match is undecided.
type TeamResult struct {
	Outcome  string `json:"outcome"`
	GameWins int    `json:"gameWins"`
}

type TeamRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type EventDetailsResponse struct {
	Data struct {
		Event EventDetails `json:"event"`
	} `json:"data"`
}

type EventDetails struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Tournament struct {
		ID string `json:"id"`
	} `json:"tournament"`
	League  DetailLeague      `json:"league"`
	Match   DetailMatch       `json:"match"`
	Streams []json.RawMessage `json:"streams"`
}

type DetailLeague struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
	Name  string `json:"name"`
}

type DetailMatch struct {
	Strategy struct {
		Count int `json:"count"`
	} `json:"strategy"`
	Teams []DetailTeam `json:"teams"`
	Games []Game       `json:"games"`
}

type DetailTeam struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Image  string `json:"image"`
	Result struct {
		GameWins int `json:"gameWins"`
	} `json:"result"`
}

type Game struct {
	Number int        `json:"number"`
	ID     string     `json:"id"`
	State  string     `json:"state"`
	Teams  []GameTeam `json:"teams"`
	VODs   []VOD      `json:"vods"`
}

type GameTeam struct {
	ID   string `json:"id"`
	Side string `json:"side"`
}

type VOD struct {
	ID          string `json:"id"`
	Parameter   string `json:"parameter"`
	Locale      string `json:"locale"`
	MediaLocale struct {
		Locale         string `json:"locale"`
		EnglishName    string `json:"englishName"`
		TranslatedName string `json:"translatedName"`
	} `json:"mediaLocale"`
	Provider       string `json:"provider"`
	Offset         int    `json:"offset"`
	FirstFrameTime string `json:"firstFrameTime"`
	StartMillis    *int64 `json:"startMillis"`
	EndMillis      *int64 `json:"endMillis"`
}

type LeaguesResponse struct {
	Data struct {
		Leagues []League `json:"leagues"`
	} `json:"data"`
}

type League struct {
	ID              string          `json:"id"`
	Slug            string          `json:"slug"`
	Name            string          `json:"name"`
	Region          string          `json:"region"`
	Image           string          `json:"image"`
	Priority        int             `json:"priority"`
	DisplayPriority DisplayPriority `json:"displayPriority"`
}

// DisplayPriority.Status is one of force_selected, selected, not_selected, hidden.
type DisplayPriority struct {
	Position int    `json:"position"`
	Status   string `json:"status"`
}
