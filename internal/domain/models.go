package domain

import (
	"time"
)

// EventType classifies a scheduled activity. The set is fixed; anything
// else coming from the catalogue is rejected at ingestion.
type EventType string

const (
	TypeOpenGym    EventType = "open_gym"
	TypeTryout     EventType = "tryout"
	TypeGame       EventType = "game"
	TypePractice   EventType = "practice"
	TypeTournament EventType = "tournament"
	TypeCamp       EventType = "camp"
	TypeSkills     EventType = "skills"
)

// KnownEventTypes lists every valid EventType value.
var KnownEventTypes = []EventType{
	TypeOpenGym, TypeTryout, TypeGame, TypePractice,
	TypeTournament, TypeCamp, TypeSkills,
}

// ValidEventType reports whether t is one of the fixed classification values.
func ValidEventType(t EventType) bool {
	for _, k := range KnownEventTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Event represents one catalogue entry. The catalogue owns these records;
// the view engine treats them as read-only snapshot data.
type Event struct {
	ID   int64  `json:"id" firestore:"id"`
	Slug string `json:"slug" firestore:"slug"`

	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
	ImageURL    string `json:"image_url,omitempty" firestore:"image_url"`

	Type EventType `json:"event_type" firestore:"event_type"`

	StartTime time.Time `json:"start_time" firestore:"start_time"`
	EndTime   time.Time `json:"end_time" firestore:"end_time"`

	// MaxParticipants and SpotsRemaining are nil when the event is unbounded.
	MaxParticipants    *int `json:"max_participants,omitempty" firestore:"max_participants"`
	SpotsRemaining     *int `json:"spots_remaining,omitempty" firestore:"spots_remaining"`
	IsFull             bool `json:"is_full" firestore:"is_full"`
	IsRegistrationOpen bool `json:"is_registration_open" firestore:"is_registration_open"`

	Location string `json:"location" firestore:"location"`
	// Latitude and Longitude are either both set or both nil; an event with
	// only one of the pair is unmapped and never reaches the map view.
	Latitude  *float64 `json:"latitude,omitempty" firestore:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" firestore:"longitude"`

	Price           string `json:"price" firestore:"price"`
	RequiresPayment bool   `json:"requires_payment" firestore:"requires_payment"`

	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// Mappable reports whether the event carries a complete coordinate pair.
func (e *Event) Mappable() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// StartDate returns the calendar date (midnight) of the event start in loc.
func (e *Event) StartDate(loc *time.Location) time.Time {
	t := e.StartTime.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// TimeWindow restricts the visible list to a temporal slice of the snapshot.
type TimeWindow string

const (
	WindowAll       TimeWindow = "all"
	WindowUpcoming  TimeWindow = "upcoming"
	WindowThisWeek  TimeWindow = "this_week"
	WindowThisMonth TimeWindow = "this_month"
	WindowMyEvents  TimeWindow = "my_events"
)

// SortKey selects the comparator for the visible list.
type SortKey string

const (
	SortDateAsc  SortKey = "date_asc"
	SortDateDesc SortKey = "date_desc"
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
)

// FilterState is the viewer-controlled set of predicates plus sort key.
// It is owned by the view coordinator and mutated only by explicit actions.
type FilterState struct {
	Window TimeWindow  `json:"window"`
	Types  []EventType `json:"types,omitempty"` // empty = no type restriction
	Query  string      `json:"query"`
	Sort   SortKey     `json:"sort"`
}

// DefaultFilters returns the reset state used by "clear filters".
func DefaultFilters() FilterState {
	return FilterState{
		Window: WindowUpcoming,
		Sort:   SortDateAsc,
	}
}

// HasType reports whether t passes the type selector.
func (f *FilterState) HasType(t EventType) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, ft := range f.Types {
		if ft == t {
			return true
		}
	}
	return false
}

// ToggleType adds t to the selector, or removes it if already present.
func (f *FilterState) ToggleType(t EventType) {
	for i, ft := range f.Types {
		if ft == t {
			f.Types = append(f.Types[:i], f.Types[i+1:]...)
			return
		}
	}
	f.Types = append(f.Types, t)
}

// CalendarDay is one cell of the month grid. Cells are rebuilt from scratch
// on every recomputation and never mutated in place.
type CalendarDay struct {
	Date    time.Time `json:"date"`
	InMonth bool      `json:"in_month"`
	IsToday bool      `json:"is_today"`

	// Events starting on this date, ordered by start time ascending.
	Events []Event `json:"events"`

	TypeCounts map[EventType]int `json:"type_counts,omitempty"`

	// InlineCount is how many events render inline under the display cap;
	// OverflowCount is the "+N more" remainder.
	InlineCount   int `json:"inline_count"`
	OverflowCount int `json:"overflow_count"`

	// Selectable is false for empty days; selection requires at least one event.
	Selectable bool `json:"selectable"`
}

// LocationGroup is a cluster of mappable events whose coordinates round to
// the same key, rendered as a single map marker.
type LocationGroup struct {
	Key       string  `json:"key"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Events at this marker, ordered by start time ascending.
	Events []Event `json:"events"`

	// Cursor is the "event N of M" index when paging within the marker.
	Cursor int `json:"cursor"`
}

// Select resets the cursor for a fresh marker selection: index of eventID
// when it is a member, otherwise 0.
func (g *LocationGroup) Select(eventID int64) {
	g.Cursor = 0
	for i, ev := range g.Events {
		if ev.ID == eventID {
			g.Cursor = i
			return
		}
	}
}

// Next advances the cursor, wrapping past the last event to the first.
func (g *LocationGroup) Next() {
	if len(g.Events) == 0 {
		return
	}
	g.Cursor = (g.Cursor + 1) % len(g.Events)
}

// Prev retreats the cursor, wrapping before the first event to the last.
func (g *LocationGroup) Prev() {
	if len(g.Events) == 0 {
		return
	}
	g.Cursor = (g.Cursor - 1 + len(g.Events)) % len(g.Events)
}

// Current returns the event under the cursor, or nil for an empty group.
func (g *LocationGroup) Current() *Event {
	if len(g.Events) == 0 || g.Cursor < 0 || g.Cursor >= len(g.Events) {
		return nil
	}
	return &g.Events[g.Cursor]
}

// ViewportKind discriminates the viewport request produced for the map layer.
type ViewportKind string

const (
	ViewportNone      ViewportKind = "none"
	ViewportFitAll    ViewportKind = "fit_all"
	ViewportCenter    ViewportKind = "center"
	ViewportFitBounds ViewportKind = "fit_bounds"
)

// LatLng is a plain coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a geographic bounding box for fit requests.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// ViewportRequest tells the rendering layer how to move the map. The engine
// only computes the request; executing it is the renderer's job.
type ViewportRequest struct {
	Kind    ViewportKind `json:"kind"`
	Center  *LatLng      `json:"center,omitempty"`
	Zoom    int          `json:"zoom,omitempty"`
	Bounds  *Bounds      `json:"bounds,omitempty"`
	Padding int          `json:"padding,omitempty"`
}

// HighlightTarget is a one-shot navigation request: walk the calendar to
// Date and confirm arrival. Processed flips once so a snapshot refresh
// mid-sequence cannot reissue the same request.
type HighlightTarget struct {
	Date      time.Time `json:"date"`
	EventID   int64     `json:"event_id,omitempty"`
	Processed bool      `json:"processed"`
}

// Registration is a registration submission for one event.
type Registration struct {
	ID        string    `json:"id" firestore:"id"`
	EventID   int64     `json:"event_id" firestore:"event_id"`
	UserID    string    `json:"user_id" firestore:"user_id"`
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// APIResponse is a standard wrapper for responses
type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}
