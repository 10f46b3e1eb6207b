package esports

import "time"

// Class is a data-volatility bucket. Each cached operation is bound to
// exactly one class, which fixes its TTL.
type Class int

const (
	// Static data rarely changes: the league catalog.
	Static Class = iota
	// Dynamic data changes within minutes: schedules.
	Dynamic
	// Live data changes within seconds: in-progress matches.
	Live
	// Historical data is settled: event details and VODs.
	Historical
)

var classTTL = [...]time.Duration{
	Static:     24 * time.Hour,
	Dynamic:    5 * time.Minute,
	Live:       30 * time.Second,
	Historical: 7 * 24 * time.Hour,
}

var classNames = [...]string{
	Static:     "static",
	Dynamic:    "dynamic",
	Live:       "live",
	Historical: "historical",
}

// TTL returns how long values of this class stay fresh.
func (c Class) TTL() time.Duration { return classTTL[c] }

func (c Class) String() string { return classNames[c] }

// Cached operation names. They prefix every key so operations sharing one
// backend never collide.
const (
	OpSchedule     = "schedule"
	OpLive         = "live"
	OpEventDetails = "event"
	OpLeagues      = "leagues"
)

var opClass = map[string]Class{
	OpSchedule:     Dynamic,
	OpLive:         Live,
	OpEventDetails: Historical,
	OpLeagues:      Static,
}

// ClassOf returns the volatility class bound to a cached operation.
func ClassOf(op string) Class { return opClass[op] }
